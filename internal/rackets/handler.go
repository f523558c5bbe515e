package rackets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"racket-backend/internal/shared/metrics"
	"racket-backend/internal/shared/server/middleware"
	"racket-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the recommendation service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches the recommendation routes.
func (h *Handler) RegisterRoutes(rg gin.IRoutes) {
	rg.POST("/recommend", h.recommend)
}

func (h *Handler) recommend(c *gin.Context) {
	var req recommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		status, code, message, details := describeBindError(err)
		metrics.ObserveRecommendRequest(status)
		respond.Error(c, status, code, message, details)
		return
	}

	// The generation call is not cancelled if the client goes away.
	ctx := context.WithoutCancel(c.Request.Context())
	env, outcome := h.Svc.Recommend(ctx, req.query())

	c.Set(middleware.ResultCountKey, len(env.Recommendations))
	c.Set(middleware.OutcomeKey, string(outcome))
	metrics.ObserveResults(len(env.Recommendations))
	metrics.ObserveRecommendRequest(http.StatusOK)
	respond.OK(c, env)
}

// describeBindError maps a binding failure to status, code, message and field details.
func describeBindError(err error) (int, string, string, []respond.FieldError) {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return http.StatusUnprocessableEntity, "validation_error", "invalid request",
			[]respond.FieldError{{Field: field, Reason: typeReason(typeErr)}}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]respond.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			reason := fmt.Sprintf("failed %s validation", fe.Tag())
			if fe.Tag() == "required" {
				reason = "field required"
			}
			details = append(details, respond.FieldError{Field: strings.ToLower(fe.Field()), Reason: reason})
		}
		return http.StatusUnprocessableEntity, "validation_error", "invalid request", details
	}

	if errors.Is(err, io.EOF) {
		return http.StatusBadRequest, "invalid_json", "request body is required", nil
	}
	return http.StatusBadRequest, "invalid_json", "request body must be a JSON object", nil
}

func typeReason(err *json.UnmarshalTypeError) string {
	switch err.Type.Kind() {
	case reflect.Int, reflect.Int32, reflect.Int64:
		return "must be an integer"
	case reflect.String:
		return "must be a string"
	default:
		return "must be " + err.Type.String()
	}
}
