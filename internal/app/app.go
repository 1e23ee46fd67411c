// Package app assembles the assistant from configuration. Both shells build
// on it.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"productivity-assistant/internal/ai"
	"productivity-assistant/internal/analytics"
	"productivity-assistant/internal/assistant"
	"productivity-assistant/internal/config"
	"productivity-assistant/internal/db"
	"productivity-assistant/internal/storage"
)

const defaultOpenAIModel = "gpt-4o-mini"

type App struct {
	Config    *config.Config
	Log       *zap.Logger
	KV        storage.KV
	Completer ai.Completer
	Sessions  *assistant.Registry
	Events    *analytics.Recorder

	closers []func() error
}

// New opens storage and the completion backend described by cfg.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}

	a := &App{Config: cfg, Log: log}
	kv, err := a.openKV(ctx)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.KV = kv

	completer, err := NewCompleter(ctx, cfg, log)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.Completer = completer

	a.Sessions = assistant.NewRegistry(assistant.Deps{
		KV:        kv,
		Completer: completer,
		Log:       log,
	})
	a.Events = analytics.NewRecorder(log)

	log.Info("assistant ready",
		zap.String("provider", cfg.LLM.Provider),
		zap.String("storage", cfg.Storage.Driver))
	return a, nil
}

func (a *App) openKV(ctx context.Context) (storage.KV, error) {
	cfg := a.Config
	switch cfg.Storage.Driver {
	case "memory":
		return storage.NewMemory(), nil
	case "file":
		kv, err := storage.NewFile(cfg.StoragePath(), a.Log)
		if err != nil {
			return nil, err
		}
		a.Log.Debug("file storage", zap.String("path", kv.Path()))
		return kv, nil
	case "sqlite":
		conn, err := db.OpenSQLite(ctx, cfg.StoragePath())
		if err != nil {
			return nil, err
		}
		return a.sqlKV(ctx, conn, storage.SQLite)
	case "postgres":
		conn, err := db.Connect(ctx, cfg.ConnString())
		if err != nil {
			return nil, err
		}
		return a.sqlKV(ctx, conn, storage.Postgres)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
}

func (a *App) sqlKV(ctx context.Context, conn *sql.DB, d storage.Dialect) (storage.KV, error) {
	a.closers = append(a.closers, conn.Close)
	if err := db.Migrate(ctx, conn); err != nil {
		return nil, err
	}
	return storage.NewSQL(conn, d)
}

// NewCompleter builds the completion backend. A missing key is not fatal:
// the assistant keeps working on fallback text.
func NewCompleter(ctx context.Context, cfg *config.Config, log *zap.Logger) (ai.Completer, error) {
	llm := cfg.LLM
	if llm.Provider == "none" {
		return nil, nil
	}
	if llm.APIKey == "" {
		log.Warn("LLM API key not configured, replies will use fallback text",
			zap.String("provider", llm.Provider))
	}

	timeout := cfg.LLMTimeout()
	switch llm.Provider {
	case "groq":
		return ai.New(ai.Config{
			APIKey:   llm.APIKey,
			Endpoint: endpoint(llm.BaseURL, ai.GroqEndpoint),
			Model:    llm.Model,
			Timeout:  timeout,
		}, log), nil
	case "openai":
		model := llm.Model
		if model == "" {
			model = defaultOpenAIModel
		}
		return ai.New(ai.Config{
			APIKey:   llm.APIKey,
			Endpoint: endpoint(llm.BaseURL, ai.OpenAIEndpoint),
			Model:    model,
			Timeout:  timeout,
		}, log), nil
	case "gemini":
		c, err := ai.NewGemini(ctx, ai.Config{
			APIKey:   llm.APIKey,
			Endpoint: strings.TrimSpace(llm.BaseURL),
			Model:    llm.Model,
			Timeout:  timeout,
		})
		if errors.Is(err, ai.ErrNoAPIKey) {
			return nil, nil
		}
		return c, err
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", llm.Provider)
	}
}

// endpoint resolves an OpenAI-style base URL to its chat completions route.
func endpoint(baseURL, fallback string) string {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return fallback
	}
	if strings.HasSuffix(baseURL, "/chat/completions") {
		return baseURL
	}
	return baseURL + "/chat/completions"
}

// Close releases database handles and flushes the logger.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	_ = a.Log.Sync()
	return errors.Join(errs...)
}
