package ai

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"
)

const DefaultGeminiModel = "gemini-2.0-flash"

// GeminiClient serves completions from the Gemini API with the same fixed
// sampling parameters as OpenAIClient.
type GeminiClient struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGemini builds a Gemini client. A non-empty cfg.Endpoint replaces the
// API base URL.
func NewGemini(ctx context.Context, cfg Config) (*GeminiClient, error) {
	return newGemini(ctx, cfg, nil)
}

func newGemini(ctx context.Context, cfg Config, httpClient *http.Client) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	if cfg.Model == "" {
		cfg.Model = DefaultGeminiModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  httpClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.Endpoint},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiClient{client: client, model: cfg.Model, timeout: cfg.Timeout}, nil
}

func (g *GeminiClient) Complete(ctx context.Context, req Request) (string, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(req.User), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.System, genai.RoleUser),
		Temperature:       genai.Ptr[float32](Temperature),
		TopP:              genai.Ptr[float32](TopP),
		MaxOutputTokens:   MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	reply := strings.TrimSpace(resp.Text())
	if reply == "" {
		return "", ErrEmptyCompletion
	}
	return reply, nil
}
