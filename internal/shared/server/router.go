package server

import (
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"racket-backend/internal/catalog"
	"racket-backend/internal/rackets"
	"racket-backend/internal/services/health"
	"racket-backend/internal/shared/config"
	"racket-backend/internal/shared/metrics"
	"racket-backend/internal/shared/server/middleware"
	"racket-backend/internal/shared/server/respond"
)

// RouterDeps holds the handlers mounted by NewRouter.
type RouterDeps struct {
	Config        config.Config
	Catalog       *catalog.Catalog
	RacketHandler *rackets.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSOrigins()),
	)

	status := health.NewService(deps.Catalog)
	r.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, status.Status())
	})
	r.GET("/metrics", metrics.Handler())

	if deps.RacketHandler != nil {
		deps.RacketHandler.RegisterRoutes(r)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(host, port string) string {
	port = strings.TrimPrefix(strings.TrimSpace(port), ":")
	if port == "" {
		port = "8000"
	}
	return net.JoinHostPort(strings.TrimSpace(host), port)
}
