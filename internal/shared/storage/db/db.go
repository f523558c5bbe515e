package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as database/sql driver

	"racket-backend/internal/shared/telemetry"
)

// Purpose selects pool defaults. The catalog is read once at startup and the connection closed,
// so no profile keeps connections warm.
type Purpose string

const (
	PurposeCatalog Purpose = "catalog"
	PurposeMigrate Purpose = "migrate"
)

// Options controls pool size and startup connectivity checks.
type Options struct {
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	PingTimeout     time.Duration
}

var openDB = sql.Open

// IsLambdaRuntime reports whether the current process is running in AWS Lambda.
func IsLambdaRuntime() bool {
	return strings.TrimSpace(os.Getenv("AWS_LAMBDA_FUNCTION_NAME")) != ""
}

// DefaultOptions returns pool defaults for p. Lambda cold starts get a shorter ping budget.
func DefaultOptions(p Purpose) Options {
	opts := Options{
		MaxOpenConns:    1,
		ConnMaxLifetime: time.Minute,
		PingTimeout:     5 * time.Second,
	}
	switch p {
	case PurposeMigrate:
		opts.ConnMaxLifetime = 10 * time.Minute
		opts.PingTimeout = 10 * time.Second
	default:
		if IsLambdaRuntime() {
			opts.PingTimeout = 3 * time.Second
		}
	}
	return opts
}

// OptionsFromEnv overrides defaults with DB_MAX_OPEN_CONNS, DB_CONN_MAX_LIFETIME and DB_PING_TIMEOUT.
func OptionsFromEnv(defaults Options) Options {
	opts := defaults
	if v, ok := readEnvInt("DB_MAX_OPEN_CONNS"); ok && v > 0 {
		opts.MaxOpenConns = v
	}
	if v, ok := readEnvDuration("DB_CONN_MAX_LIFETIME"); ok {
		opts.ConnMaxLifetime = v
	}
	if v, ok := readEnvDuration("DB_PING_TIMEOUT"); ok {
		opts.PingTimeout = v
	}
	return opts
}

// Connect opens a pgx-backed *sql.DB for databaseURL and pings it.
func Connect(ctx context.Context, databaseURL string, opts Options) (*sql.DB, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}

	db, err := openDB("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if opts.MaxOpenConns <= 0 {
		opts.MaxOpenConns = 1
	}
	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxOpenConns)
	if opts.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	pingTimeout := opts.PingTimeout
	if pingTimeout <= 0 {
		pingTimeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database %s: %w", redactedHost(databaseURL), err)
	}

	telemetry.Info("db.connected", map[string]any{
		"host":     redactedHost(databaseURL),
		"max_open": opts.MaxOpenConns,
	})
	return db, nil
}

// redactedHost returns host[:port]/dbname from a postgres URL, without credentials.
func redactedHost(databaseURL string) string {
	u, err := url.Parse(databaseURL)
	if err != nil || u.Host == "" {
		return "unknown"
	}
	return u.Host + u.Path
}

func readEnvInt(key string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return 0, false
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		telemetry.Warn("db.env_invalid", map[string]any{"key": key, "error": err.Error()})
		return 0, false
	}
	return val, true
}

func readEnvDuration(key string) (time.Duration, bool) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return 0, false
	}
	val, err := time.ParseDuration(raw)
	if err != nil {
		telemetry.Warn("db.env_invalid", map[string]any{"key": key, "error": err.Error()})
		return 0, false
	}
	return val, true
}
