package assistant

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"productivity-assistant/internal/ai"
	"productivity-assistant/internal/profile"
	"productivity-assistant/internal/storage"
	"productivity-assistant/internal/tasks"
)

// ErrBusy is returned when a message arrives while another is in flight.
var ErrBusy = errors.New("assistant is busy with another message")

// Deps are shared by every session built from them.
type Deps struct {
	KV        storage.KV
	Completer ai.Completer
	Log       *zap.Logger
	Now       func() time.Time
	Rand      tasks.Rand
	// Refresh is called after every task mutation; optional.
	Refresh func()
}

func (d Deps) withDefaults() Deps {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Rand == nil {
		d.Rand = tasks.SharedRand{}
	}
	return d
}

// Open loads task and profile state from d.KV and builds an assistant.
func Open(ctx context.Context, d Deps) *Assistant {
	d = d.withDefaults()
	scorer := tasks.NewScorer(d.Now, d.Rand)
	opts := []tasks.StoreOption{
		tasks.WithLogger(d.Log),
		tasks.WithClock(d.Now),
	}
	if d.Refresh != nil {
		opts = append(opts, tasks.WithRefresh(d.Refresh))
	}
	store := tasks.NewStore(ctx, d.KV, scorer, opts...)
	prof := profile.Load(ctx, d.KV, d.Log)
	return New(store, prof, d.Completer,
		WithLogger(d.Log),
		WithClock(d.Now),
		WithRand(d.Rand))
}

// Session pairs an assistant with the busy flag that keeps at most one
// message in flight.
type Session struct {
	a    *Assistant
	busy *semaphore.Weighted
}

func NewSession(a *Assistant) *Session {
	return &Session{a: a, busy: semaphore.NewWeighted(1)}
}

func (s *Session) Assistant() *Assistant { return s.a }

// TryProcess runs Process unless another message is outstanding, in which
// case it returns ErrBusy without touching any state.
func (s *Session) TryProcess(ctx context.Context, message string) (Reply, error) {
	if !s.busy.TryAcquire(1) {
		return Reply{}, ErrBusy
	}
	defer s.busy.Release(1)
	return s.a.Process(ctx, message), nil
}

// Registry hands out one session per user, each over its own key namespace.
type Registry struct {
	mu       sync.Mutex
	deps     Deps
	sessions map[string]*Session
}

func NewRegistry(d Deps) *Registry {
	return &Registry{deps: d.withDefaults(), sessions: map[string]*Session{}}
}

func userPrefix(userID string) string {
	return "user:" + userID + ":"
}

// Session returns the user's session, loading it on first use.
func (r *Registry) Session(ctx context.Context, userID string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[userID]; ok {
		return s
	}

	d := r.deps
	d.KV = storage.WithPrefix(r.deps.KV, userPrefix(userID))
	d.Log = r.deps.Log.With(zap.String("user_id", userID))
	s := NewSession(Open(ctx, d))
	r.sessions[userID] = s
	d.Log.Debug("session opened")
	return s
}

// Forget drops the user's session and erases its stored state.
func (r *Registry) Forget(ctx context.Context, userID string) error {
	r.mu.Lock()
	s, ok := r.sessions[userID]
	delete(r.sessions, userID)
	r.mu.Unlock()

	// Wait out a message in flight so its persist cannot land after the
	// delete. The flag is never released: stale holders of s get ErrBusy.
	if ok {
		if err := s.busy.Acquire(ctx, 1); err != nil {
			return fmt.Errorf("wait for session: %w", err)
		}
	}

	kv := storage.WithPrefix(r.deps.KV, userPrefix(userID))
	for _, key := range []string{tasks.StorageKey, profile.StorageKey} {
		if err := kv.Delete(ctx, key); err != nil {
			return fmt.Errorf("delete %s: %w", key, err)
		}
	}
	r.deps.Log.Info("session erased", zap.String("user_id", userID))
	return nil
}
