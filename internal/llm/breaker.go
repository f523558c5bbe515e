package llm

import (
	"context"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"racket-backend/internal/shared/telemetry"
)

// BreakerConfig configures WithBreaker.
type BreakerConfig struct {
	Name             string
	FailureThreshold uint32
	OpenTimeout      time.Duration
}

type breakerGenerator struct {
	base Generator
	cb   *gobreaker.CircuitBreaker[string]
}

// WithBreaker wraps g so that after FailureThreshold consecutive non-quota failures calls fail fast
// with gobreaker.ErrOpenState until OpenTimeout elapses. Quota errors pass through unchanged and do
// not trip the breaker. It never retries.
func WithBreaker(g Generator, cfg BreakerConfig) Generator {
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}
	if cfg.Name == "" {
		cfg.Name = "llm"
	}
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		// Quota rejections do not count toward opening.
		IsSuccessful: func(err error) bool {
			return err == nil || Classify(err) == FailureQuota
		},
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			telemetry.Warn("llm.breaker_state", map[string]any{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			})
		},
	}
	return &breakerGenerator{base: g, cb: gobreaker.NewCircuitBreaker[string](settings)}
}

func (b *breakerGenerator) Generate(ctx context.Context, req Request) (string, error) {
	return b.cb.Execute(func() (string, error) {
		return b.base.Generate(ctx, req)
	})
}
