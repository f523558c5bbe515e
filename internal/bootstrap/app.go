package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"racket-backend/internal/catalog"
	"racket-backend/internal/explain"
	"racket-backend/internal/llm"
	"racket-backend/internal/llm/gemini"
	"racket-backend/internal/llm/openai"
	"racket-backend/internal/rackets"
	"racket-backend/internal/shared/config"
	"racket-backend/internal/shared/metrics"
	"racket-backend/internal/shared/server"
	"racket-backend/internal/shared/storage/db"
	localstore "racket-backend/internal/shared/storage/object/local"
	s3store "racket-backend/internal/shared/storage/object/s3"
	"racket-backend/internal/shared/telemetry"
)

// App holds shared dependencies.
type App struct {
	Config        config.Config
	Router        *gin.Engine
	Catalog       *catalog.Catalog
	Generator     llm.Generator
	Explainer     *explain.Explainer
	RacketService *rackets.Service
	RacketHandler *rackets.Handler
}

// Build loads the catalog, selects the text generator and wires the router.
// A catalog that cannot be loaded is returned as an error; callers must not serve.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	cat, err := LoadCatalog(ctx, cfg)
	if err != nil {
		return nil, err
	}
	metrics.SetCatalogRecords(cat.Len())
	telemetry.Info("catalog.loaded", map[string]any{
		"source":  cfg.CatalogSource,
		"records": cat.Len(),
	})

	gen, err := BuildGenerator(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:    cfg,
		Catalog:   cat,
		Generator: gen,
		Explainer: explain.New(gen, cfg.LLMProvider, float32(cfg.LLMTemperature)),
	}
	app.RacketService = rackets.NewService(cat, app.Explainer)
	app.RacketHandler = rackets.NewHandler(app.RacketService)
	app.Router = server.NewRouter(server.RouterDeps{
		Config:        cfg,
		Catalog:       cat,
		RacketHandler: app.RacketHandler,
	})
	return app, nil
}

// LoadCatalog reads the catalog from the configured source.
func LoadCatalog(ctx context.Context, cfg config.Config) (*catalog.Catalog, error) {
	switch cfg.CatalogSource {
	case "s3":
		if strings.TrimSpace(cfg.CatalogS3Bucket) == "" {
			return nil, fmt.Errorf("CATALOG_SOURCE=s3 requires CATALOG_S3_BUCKET")
		}
		store, err := s3store.New(ctx, cfg.AWSRegion, cfg.CatalogS3Bucket, "")
		if err != nil {
			return nil, err
		}
		return catalog.Load(ctx, store, cfg.CatalogPath)
	case "postgres":
		sqlDB, err := connectDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		defer sqlDB.Close()
		return catalog.LoadFromDB(ctx, sqlDB)
	default:
		baseDir, key := cfg.CatalogBaseDir, cfg.CatalogPath
		if filepath.IsAbs(key) {
			baseDir, key = filepath.Dir(key), filepath.Base(key)
		}
		return catalog.Load(ctx, localstore.New(baseDir), key)
	}
}

func connectDB(ctx context.Context, databaseURL string) (*sql.DB, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("CATALOG_SOURCE=postgres requires DATABASE_URL")
	}
	return db.Connect(ctx, databaseURL, db.OptionsFromEnv(db.DefaultOptions(db.PurposeCatalog)))
}

// BuildGenerator returns the configured text generator, wrapped in a circuit breaker when enabled.
// Missing API keys are logged, not rejected.
func BuildGenerator(ctx context.Context, cfg config.Config) (llm.Generator, error) {
	timeout := time.Duration(cfg.LLMTimeoutSeconds) * time.Second

	var gen llm.Generator
	switch cfg.LLMProvider {
	case "none":
		return llm.PlaceholderClient{}, nil
	case "gemini":
		// genai rejects an empty key at construction; serve with a generator that fails per call.
		if warnMissingKey("GEMINI_API_KEY", cfg.GeminiAPIKey) {
			gen = llm.PlaceholderClient{}
			break
		}
		client, err := gemini.NewClient(ctx, gemini.Options{
			APIKey:  cfg.GeminiAPIKey,
			Model:   geminiModel(cfg.LLMModel),
			Timeout: timeout,
		})
		if err != nil {
			return nil, err
		}
		gen = client
	default:
		warnMissingKey("OPENAI_API_KEY", cfg.OpenAIAPIKey)
		client, err := openai.NewClient(cfg.OpenAIAPIKey, cfg.LLMModel, timeout)
		if err != nil {
			return nil, err
		}
		gen = client
	}

	if !cfg.LLMBreakerEnabled {
		return gen, nil
	}
	failures := cfg.LLMBreakerFailures
	if failures < 0 {
		failures = 0
	}
	return llm.WithBreaker(gen, llm.BreakerConfig{
		Name:             cfg.LLMProvider,
		FailureThreshold: uint32(failures),
		OpenTimeout:      time.Duration(cfg.LLMBreakerOpenSeconds) * time.Second,
	}), nil
}

// geminiModel keeps the OpenAI default model name from leaking into Gemini requests.
func geminiModel(model string) string {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(model)), "gpt-") {
		return gemini.DefaultModel
	}
	return model
}

// warnMissingKey logs and reports whether the key is empty.
func warnMissingKey(name, value string) bool {
	if strings.TrimSpace(value) != "" {
		return false
	}
	telemetry.Warn("llm.api_key_missing", map[string]any{"env": name})
	return true
}
