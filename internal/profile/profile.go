// Package profile owns the user context: defaults, persistence and the
// completion counter.
package profile

import (
	"context"
	"encoding/json"
	"maps"
	"strings"
	"sync"

	"go.uber.org/zap"

	"productivity-assistant/internal/storage"
)

const StorageKey = "assistant.context"

type Profile struct {
	mu  sync.Mutex
	uc  UserContext
	kv  storage.KV
	log *zap.Logger
}

// Load reads the stored context and merges it over the defaults. Missing or
// malformed data yields the defaults.
func Load(ctx context.Context, kv storage.KV, log *zap.Logger) *Profile {
	if log == nil {
		log = zap.NewNop()
	}
	p := &Profile{uc: Defaults(), kv: kv, log: log}

	raw, ok, err := kv.Get(ctx, StorageKey)
	switch {
	case err != nil:
		log.Error("load user context failed, using defaults", zap.Error(err))
	case ok:
		merged := Defaults()
		if err := json.Unmarshal([]byte(raw), &merged); err != nil {
			log.Warn("stored user context is malformed, using defaults", zap.Error(err))
			break
		}
		merged.normalize()
		p.uc = merged
	}
	return p
}

// Snapshot returns a copy safe to read without holding the lock.
func (p *Profile) Snapshot() UserContext {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.uc.clone()
}

// RecordCompletion bumps the completed-today counter and persists.
func (p *Profile) RecordCompletion(ctx context.Context) UserContext {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.uc.CompletedToday++
	p.persist(ctx)
	return p.uc.clone()
}

func (p *Profile) Update(ctx context.Context, patch Patch) UserContext {
	p.mu.Lock()
	defer p.mu.Unlock()

	if patch.ProductivityScore != nil {
		p.uc.ProductivityScore = *patch.ProductivityScore
	}
	if patch.WorkStyle != nil {
		if ws := strings.TrimSpace(*patch.WorkStyle); ws != "" {
			p.uc.WorkStyle = ws
		}
	}
	if len(patch.PeakHours) > 0 {
		p.uc.PeakHours = append([]string(nil), patch.PeakHours...)
	}
	maps.Copy(p.uc.Preferences, patch.Preferences)
	p.uc.normalize()

	p.persist(ctx)
	return p.uc.clone()
}

// persist must be called with mu held. Failures are logged only.
func (p *Profile) persist(ctx context.Context) {
	raw, err := json.Marshal(p.uc)
	if err != nil {
		p.log.Error("encode user context failed", zap.Error(err))
		return
	}
	if err := p.kv.Set(ctx, StorageKey, string(raw)); err != nil {
		p.log.Error("save user context failed", zap.Error(err))
	}
}
