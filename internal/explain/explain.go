// Package explain turns a recommendation result into prose using an external text generator.
// It never fails: every generator error maps to a fixed advisory string.
package explain

import (
	"context"
	"strings"
	"time"

	"racket-backend/internal/catalog"
	"racket-backend/internal/llm"
	"racket-backend/internal/recommend"
	"racket-backend/internal/shared/metrics"
	"racket-backend/internal/shared/telemetry"
	"racket-backend/internal/shared/util"
)

const (
	// QuotaAdvisory is returned when the provider reports exhausted quota or rate limiting.
	QuotaAdvisory = "⚠️ OpenAI 配额已用尽，请前往控制台查看并充值后重试。"
	// GenericAdvisory is returned for every other generation failure.
	GenericAdvisory = "⚠️ 暂时无法生成推荐说明，请稍后再试。"

	// DefaultTemperature is the sampling temperature used when none is configured.
	DefaultTemperature float32 = 0.7
)

// Outcome labels how an explanation was produced.
type Outcome string

const (
	OutcomeGenerated Outcome = "generated"
	OutcomeQuota     Outcome = "quota"
	OutcomeError     Outcome = "error"
)

// Result is the explicit outcome of one explanation attempt.
type Result struct {
	Text    string
	Outcome Outcome
}

// Explainer builds prompts and calls the generator once per request.
type Explainer struct {
	LLM         llm.Generator
	Provider    string
	Temperature float32
}

// New returns an Explainer. A nil generator behaves like an unconfigured provider.
func New(gen llm.Generator, provider string, temperature float32) *Explainer {
	if gen == nil {
		gen = llm.PlaceholderClient{}
	}
	return &Explainer{LLM: gen, Provider: provider, Temperature: temperature}
}

// Explain returns generated prose for recs, or an advisory string on failure. It always returns a
// non-empty string.
func (e *Explainer) Explain(ctx context.Context, q recommend.Query, recs []catalog.Racket) string {
	return e.Run(ctx, q, recs).Text
}

// Run is Explain with the outcome exposed.
func (e *Explainer) Run(ctx context.Context, q recommend.Query, recs []catalog.Racket) Result {
	res := e.run(ctx, q, recs)
	metrics.ObserveExplanation(string(res.Outcome))
	return res
}

func (e *Explainer) run(ctx context.Context, q recommend.Query, recs []catalog.Racket) (res Result) {
	prompt, err := BuildPrompt(q, recs)
	if err != nil {
		return e.fail(err, "", len(recs))
	}

	gen := e.LLM
	if gen == nil {
		gen = llm.PlaceholderClient{}
	}

	defer func() {
		if rec := recover(); rec != nil {
			telemetry.Error("llm.generate_panic", map[string]any{"provider": e.providerLabel(), "error": rec})
			res = Result{Text: GenericAdvisory, Outcome: OutcomeError}
		}
	}()

	start := time.Now()
	text, err := gen.Generate(ctx, llm.Request{Prompt: prompt, Temperature: e.temperature()})
	metrics.ObserveLLMDuration(e.providerLabel(), time.Since(start))
	if err != nil {
		return e.fail(err, prompt, len(recs))
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return e.fail(errEmptyOutput, prompt, len(recs))
	}
	return Result{Text: text, Outcome: OutcomeGenerated}
}

func (e *Explainer) fail(err error, prompt string, recCount int) Result {
	if llm.Classify(err) == llm.FailureQuota {
		telemetry.Warn("llm.quota_exhausted", map[string]any{
			"provider":    e.providerLabel(),
			"error":       err.Error(),
			"prompt_hash": util.PromptHash(prompt),
		})
		return Result{Text: QuotaAdvisory, Outcome: OutcomeQuota}
	}
	telemetry.Error("llm.generate_failed", map[string]any{
		"provider":        e.providerLabel(),
		"error":           err.Error(),
		"recommendations": recCount,
		"prompt_hash":     util.PromptHash(prompt),
	})
	return Result{Text: GenericAdvisory, Outcome: OutcomeError}
}

func (e *Explainer) temperature() float32 {
	if e.Temperature < 0 {
		return DefaultTemperature
	}
	return e.Temperature
}

func (e *Explainer) providerLabel() string {
	if e.Provider == "" {
		return "unknown"
	}
	return e.Provider
}

type explainError string

func (e explainError) Error() string { return string(e) }

const errEmptyOutput = explainError("llm returned empty output")
