package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Fixed sampling parameters for every completion.
const (
	Temperature = 0.7
	TopP        = 0.9
	MaxTokens   = 800
)

const (
	GroqEndpoint   = "https://api.groq.com/openai/v1/chat/completions"
	OpenAIEndpoint = "https://api.openai.com/v1/chat/completions"
	DefaultModel   = "llama-3.3-70b-versatile"
	DefaultTimeout = 30 * time.Second
)

var (
	ErrNoAPIKey        = errors.New("API key not configured")
	ErrEmptyCompletion = errors.New("no completion returned")
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API request failed with status %d: %s", e.StatusCode, e.Body)
}

// Request is one system+user prompt pair.
type Request struct {
	System string
	User   string
}

// Completer is the remote completion capability.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// CompleterFunc adapts a function to Completer.
type CompleterFunc func(ctx context.Context, req Request) (string, error)

func (f CompleterFunc) Complete(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

type Config struct {
	APIKey   string
	Endpoint string
	Model    string
	Timeout  time.Duration
}

// OpenAIClient talks to any OpenAI-compatible chat completions endpoint
// (Groq by default).
type OpenAIClient struct {
	apiKey     string
	endpoint   string
	model      string
	timeout    time.Duration
	httpClient *http.Client
	log        *zap.Logger
}

func New(cfg Config, log *zap.Logger) *OpenAIClient {
	if cfg.Endpoint == "" {
		cfg.Endpoint = GroqEndpoint
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &OpenAIClient{
		apiKey:     cfg.APIKey,
		endpoint:   cfg.Endpoint,
		model:      cfg.Model,
		timeout:    cfg.Timeout,
		httpClient: &http.Client{},
		log:        log,
	}
}

func (c *OpenAIClient) Model() string { return c.model }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	TopP        float64       `json:"top_p"`
}

type chatResponse struct {
	Choices []struct {
		Message *struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends the prompt pair and returns the trimmed reply. A context
// without a deadline gets the client timeout.
func (c *OpenAIClient) Complete(ctx context.Context, req Request) (string, error) {
	if c.apiKey == "" {
		return "", ErrNoAPIKey
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
		Temperature: Temperature,
		MaxTokens:   MaxTokens,
		TopP:        TopP,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{StatusCode: resp.StatusCode, Body: truncate(string(raw), 512)}
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message == nil || parsed.Choices[0].Message.Content == nil {
		return "", ErrEmptyCompletion
	}
	reply := strings.TrimSpace(*parsed.Choices[0].Message.Content)
	if reply == "" {
		return "", ErrEmptyCompletion
	}

	c.log.Debug("completion finished",
		zap.String("model", c.model),
		zap.Duration("took", time.Since(start)),
		zap.Int("reply_len", len(reply)))
	return reply, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
