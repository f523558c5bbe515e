// Command recommend runs one racket query against the catalog without starting the HTTP server.
//
//	go run ./cmd/recommend --level 进阶 --style 进攻型 --stiffness 中硬 --budget 1000
package main

import (
	"context"
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"racket-backend/internal/bootstrap"
	"racket-backend/internal/explain"
	"racket-backend/internal/rackets"
	"racket-backend/internal/recommend"
	"racket-backend/internal/shared/config"
	"racket-backend/internal/shared/telemetry"
)

type options struct {
	level       string
	style       string
	stiffness   string
	budget      int
	catalogPath string
	explain     bool
}

func newRootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Recommend up to three rackets for a player profile",
		Long: `Filters the racket catalog by level, style, stiffness and budget and prints the
cheapest matches as JSON. With --explain the configured text generator writes the explanation.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.level, "level", "", "player level, e.g. 初学, 进阶, 专业")
	flags.StringVar(&opts.style, "style", "", "playing style, e.g. 进攻型, 控制型, 全能型")
	flags.StringVar(&opts.stiffness, "stiffness", "", "shaft stiffness, e.g. 软, 中硬, 硬")
	flags.IntVar(&opts.budget, "budget", 0, "maximum price, inclusive")
	flags.StringVar(&opts.catalogPath, "catalog", "", "catalog file (overrides CATALOG_PATH)")
	flags.BoolVar(&opts.explain, "explain", false, "ask the text generator for an explanation")
	for _, name := range []string{"level", "style", "stiffness", "budget"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func run(cmd *cobra.Command, opts options) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	telemetry.Init(telemetry.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: cmd.ErrOrStderr()})
	if opts.catalogPath != "" {
		cfg.CatalogSource = "file"
		cfg.CatalogPath = opts.catalogPath
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cat, err := bootstrap.LoadCatalog(ctx, cfg)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	q := recommend.Query{Level: opts.level, Style: opts.style, Stiffness: opts.stiffness, Budget: opts.budget}
	env := rackets.Envelope{Recommendations: recommend.Recommend(q, cat.Items())}
	if opts.explain {
		gen, err := bootstrap.BuildGenerator(ctx, cfg)
		if err != nil {
			return err
		}
		env.Explanation = explain.New(gen, cfg.LLMProvider, float32(cfg.LLMTemperature)).Explain(ctx, q, env.Recommendations)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(env)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "recommend:", err)
		os.Exit(1)
	}
}
