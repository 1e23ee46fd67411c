package tasks

import (
	"context"
	"encoding/json"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"productivity-assistant/internal/intent"
	"productivity-assistant/internal/storage"
)

// StorageKey is the key the task collection is persisted under.
const StorageKey = "assistant.tasks"

// Store owns the in-memory task collection. Every mutation writes the whole
// collection back to the key-value store; write failures are logged and the
// in-memory state stays authoritative.
type Store struct {
	mu       sync.Mutex
	tasks    []Task
	kv       storage.KV
	scorer   *Scorer
	now      func() time.Time
	newID    func() string
	onChange func()
	log      *zap.Logger
}

type StoreOption func(*Store)

func WithLogger(l *zap.Logger) StoreOption {
	return func(s *Store) { s.log = l }
}

func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

func WithIDGenerator(fn func() string) StoreOption {
	return func(s *Store) { s.newID = fn }
}

// WithRefresh registers the display-refresh callback invoked after mutations.
func WithRefresh(fn func()) StoreOption {
	return func(s *Store) { s.onChange = fn }
}

// NewStore loads the collection from kv. A missing or unreadable key yields
// the seed tasks.
func NewStore(ctx context.Context, kv storage.KV, scorer *Scorer, opts ...StoreOption) *Store {
	s := &Store{
		kv:     kv,
		scorer: scorer,
		now:    time.Now,
		newID:  newTaskID,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.tasks = s.load(ctx)
	return s
}

// Rand is the random source the store's scorer was built with; views use it
// to pick priority reasons.
func (s *Store) Rand() Rand { return s.scorer.rand }

// newTaskID returns a time-ordered UUIDv7 string.
func newTaskID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func (s *Store) load(ctx context.Context) []Task {
	raw, ok, err := s.kv.Get(ctx, StorageKey)
	if err != nil {
		s.log.Error("load tasks failed, using defaults", zap.Error(err))
		return SeedTasks(s.now(), s.newID)
	}
	if !ok {
		return SeedTasks(s.now(), s.newID)
	}
	var loaded []Task
	if err := json.Unmarshal([]byte(raw), &loaded); err != nil {
		s.log.Warn("stored tasks are malformed, using defaults", zap.Error(err))
		return SeedTasks(s.now(), s.newID)
	}
	return loaded
}

// persist must be called with mu held.
func (s *Store) persist(ctx context.Context) {
	raw, err := json.Marshal(s.tasks)
	if err != nil {
		s.log.Error("encode tasks failed", zap.Error(err))
		return
	}
	if err := s.kv.Set(ctx, StorageKey, string(raw)); err != nil {
		s.log.Error("save tasks failed", zap.Error(err))
	}
}

func (s *Store) refresh() {
	if s.onChange != nil {
		s.onChange()
	}
}

// Add scores the draft and appends the resulting task.
func (s *Store) Add(ctx context.Context, draft intent.TaskDraft) Task {
	priority, confidence := s.scorer.Score(draft)

	title := strings.TrimSpace(draft.Title)
	if title == "" {
		title = intent.UntitledTask
	}
	category := draft.Category
	if category == "" {
		category = intent.CategoryGeneral
	}

	t := Task{
		ID:        s.newID(),
		Title:     title,
		Priority:  priority,
		DueDate:   draft.DueDate,
		Category:  category,
		Completed: false,
		CreatedAt: s.now(),
		AIScore:   confidence,
	}

	s.mu.Lock()
	s.tasks = append(s.tasks, t)
	s.persist(ctx)
	s.mu.Unlock()

	s.log.Debug("task added",
		zap.String("id", t.ID),
		zap.String("priority", string(t.Priority)),
		zap.Int("ai_score", t.AIScore))
	s.refresh()
	return t
}

// Reorder stable-sorts the collection by priority, highest first.
// Tasks of equal priority keep their relative order.
func (s *Store) Reorder(ctx context.Context) {
	s.mu.Lock()
	slices.SortStableFunc(s.tasks, func(a, b Task) int {
		return b.Priority.Rank() - a.Priority.Rank()
	})
	s.persist(ctx)
	s.mu.Unlock()
	s.refresh()
}

func (s *Store) FindByID(id string) (Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.tasks[i], true
	}
	return Task{}, false
}

// SetCompleted sets the completed flag and reports the previous value.
func (s *Store) SetCompleted(ctx context.Context, id string, completed bool) (bool, error) {
	var was bool
	err := s.mutate(ctx, id, func(t *Task) error {
		was = t.Completed
		t.Completed = completed
		return nil
	})
	return was, err
}

// Retitle replaces a task title. Blank titles are rejected.
func (s *Store) Retitle(ctx context.Context, id, title string) (Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Task{}, ErrEmptyTitle
	}
	var out Task
	err := s.mutate(ctx, id, func(t *Task) error {
		t.Title = title
		out = *t
		return nil
	})
	return out, err
}

// Reschedule moves the due date; priority is not recomputed.
func (s *Store) Reschedule(ctx context.Context, id string, due time.Time) (Task, error) {
	var out Task
	err := s.mutate(ctx, id, func(t *Task) error {
		t.DueDate = &due
		out = *t
		return nil
	})
	return out, err
}

func (s *Store) mutate(ctx context.Context, id string, fn func(*Task) error) error {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return ErrTaskNotFound
	}
	if err := fn(&s.tasks[i]); err != nil {
		s.mu.Unlock()
		return err
	}
	s.persist(ctx)
	s.mu.Unlock()
	s.refresh()
	return nil
}

func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.tasks, func(t Task) bool { return t.ID == id })
}

// List returns a copy of the collection in its current order.
func (s *Store) List() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.tasks)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Head returns up to n tasks from the front of the collection.
func (s *Store) Head(n int) []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.tasks[:min(n, len(s.tasks))])
}

// Open returns the tasks that are not completed.
func (s *Store) Open() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Task
	for _, t := range s.tasks {
		if !t.Completed {
			out = append(out, t)
		}
	}
	return out
}

// Board groups open tasks by priority.
type Board struct {
	High   []Task `json:"high"`
	Medium []Task `json:"medium"`
	Low    []Task `json:"low"`
}

func (s *Store) Board() Board {
	var b Board
	for _, t := range s.Open() {
		switch t.Priority {
		case PriorityHigh:
			b.High = append(b.High, t)
		case PriorityMedium:
			b.Medium = append(b.Medium, t)
		case PriorityLow:
			b.Low = append(b.Low, t)
		}
	}
	return b
}

// CountOpen counts open tasks with the given priority.
func (s *Store) CountOpen(p Priority) int {
	n := 0
	for _, t := range s.Open() {
		if t.Priority == p {
			n++
		}
	}
	return n
}
