// Package gemini implements the campaign optimizer on top of the Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/deliverai/deliverai/internal/campaign"
	"github.com/deliverai/deliverai/internal/optimizer"
	"github.com/deliverai/deliverai/pkg/logger"
)

// Config holds the Gemini connection settings.
type Config struct {
	APIKey  string        `env:"GEMINI_API_KEY"`
	Model   string        `env:"GEMINI_MODEL"`
	BaseURL string        `env:"GEMINI_BASE_URL"`
	Timeout time.Duration `env:"OPTIMIZE_TIMEOUT" envDefault:"60s"`
}

// Client sends drafts to Gemini and decodes the structured rewrite.
type Client struct {
	client *genai.Client
	prompt *optimizer.Prompt
	logger *slog.Logger
	model  string
}

// Option configures a Client.
type Option func(*Client)

// WithPrompt replaces the built-in prompt.
func WithPrompt(p *optimizer.Prompt) Option {
	return func(c *Client) {
		if p != nil {
			c.prompt = p
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a Client. It returns optimizer.ErrNotConfigured when cfg has no API key.
// Config.Model overrides the model named in the prompt.
func New(ctx context.Context, cfg Config, opts ...Option) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, optimizer.ErrNotConfigured
	}

	c := &Client{
		prompt: optimizer.DefaultPrompt(),
		logger: logger.NewNope(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.model = cfg.Model
	if c.model == "" {
		c.model = c.prompt.Model
	}

	gc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		gc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	if cfg.Timeout > 0 {
		gc.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	client, err := genai.NewClient(ctx, gc)
	if err != nil {
		return nil, errors.Join(optimizer.ErrServiceFailed, err)
	}
	c.client = client
	return c, nil
}

// Model returns the model name used for requests.
func (c *Client) Model() string {
	return c.model
}

// Optimize implements campaign.Optimizer. Every failure is wrapped with
// optimizer.ErrServiceFailed; no partial result is ever returned.
func (c *Client) Optimize(ctx context.Context, draft campaign.EmailDraft) (*campaign.OptimizationResult, error) {
	prompt, err := c.prompt.Render(draft)
	if err != nil {
		return nil, errors.Join(optimizer.ErrServiceFailed, err)
	}

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   responseSchema(),
	}
	if c.prompt.SystemInstruction != "" {
		config.SystemInstruction = genai.NewContentFromText(c.prompt.SystemInstruction, genai.RoleUser)
	}

	start := time.Now()
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), config)
	if err != nil {
		c.logger.WarnContext(ctx, "gemini request failed",
			slog.String("model", c.model),
			slog.String("error", err.Error()),
		)
		return nil, errors.Join(optimizer.ErrServiceFailed, err)
	}

	text := resp.Text()
	if text == "" && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return nil, errors.Join(optimizer.ErrServiceFailed, optimizer.ErrEmptyResponse,
			fmt.Errorf("prompt blocked: %s", resp.PromptFeedback.BlockReason))
	}

	result, err := optimizer.Decode(text)
	if err != nil {
		c.logger.WarnContext(ctx, "gemini response rejected",
			slog.String("model", c.model),
			slog.String("error", err.Error()),
		)
		return nil, errors.Join(optimizer.ErrServiceFailed, err)
	}

	c.logger.DebugContext(ctx, "gemini response decoded",
		slog.String("model", c.model),
		slog.Duration("elapsed", time.Since(start)),
	)
	return result, nil
}

func responseSchema() *genai.Schema {
	minScore, maxScore := 0.0, 100.0
	stringList := &genai.Schema{
		Type:  genai.TypeArray,
		Items: &genai.Schema{Type: genai.TypeString},
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"optimizedSubject": {
				Type:        genai.TypeString,
				Description: "Rewritten subject line",
			},
			"optimizedBody": {
				Type:        genai.TypeString,
				Description: "Rewritten email body",
			},
			"deliverabilityScore": {
				Type:        genai.TypeInteger,
				Description: "Estimated inbox placement score from 0 to 100",
				Minimum:     &minScore,
				Maximum:     &maxScore,
			},
			"spamFlags":   stringList,
			"suggestions": stringList,
		},
		Required: []string{"optimizedSubject", "optimizedBody", "deliverabilityScore", "spamFlags", "suggestions"},
		PropertyOrdering: []string{
			"optimizedSubject", "optimizedBody", "deliverabilityScore", "spamFlags", "suggestions",
		},
	}
}
