package gemini

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"racket-backend/internal/llm"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// Client implements llm.Generator using Google Gemini.
type Client struct {
	client *genai.Client
	model  string
}

// Options configures NewClient.
type Options struct {
	APIKey  string
	Model   string
	Timeout time.Duration
	// BaseURL overrides the API endpoint; empty uses the SDK default.
	BaseURL string
}

// NewClient creates a Gemini-backed generator.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = DefaultModel
	}
	cfg := &genai.ClientConfig{
		APIKey:     strings.TrimSpace(opts.APIKey),
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: opts.Timeout},
	}
	if opts.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &Client{client: client, model: model}, nil
}

// Generate sends req.Prompt as a single user turn.
func (c *Client) Generate(ctx context.Context, req llm.Request) (string, error) {
	temp := req.Temperature
	result, err := c.client.Models.GenerateContent(ctx, c.model,
		[]*genai.Content{{
			Role:  genai.RoleUser,
			Parts: []*genai.Part{{Text: req.Prompt}},
		}},
		&genai.GenerateContentConfig{Temperature: &temp},
	)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if result == nil {
		return "", fmt.Errorf("gemini returned nil result")
	}
	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", fmt.Errorf("gemini response empty content")
	}
	return text, nil
}

var _ llm.Generator = (*Client)(nil)
