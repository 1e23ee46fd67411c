package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"productivity-assistant/internal/intent"
	"productivity-assistant/internal/storage"
)

type failingKV struct {
	storage.KV
	sets int
}

func (f *failingKV) Set(context.Context, string, string) error {
	f.sets++
	return errors.New("disk full")
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("t%d", n)
	}
}

func emptyStore(t *testing.T, kv storage.KV, opts ...StoreOption) *Store {
	t.Helper()
	require.NoError(t, kv.Set(context.Background(), StorageKey, "[]"))
	base := []StoreOption{WithClock(clock), WithIDGenerator(sequentialIDs())}
	return NewStore(context.Background(), kv, NewScorer(clock, fixedRand{f: 0.5}), append(base, opts...)...)
}

func TestNewStoreSeedsOnFirstRun(t *testing.T) {
	s := NewStore(context.Background(), storage.NewMemory(), NewScorer(clock, fixedRand{}),
		WithClock(clock), WithIDGenerator(sequentialIDs()))

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, "Complete quarterly business review presentation", list[0].Title)
	assert.Equal(t, PriorityHigh, list[0].Priority)
	assert.Equal(t, 95, list[0].AIScore)
	assert.Equal(t, time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC), *list[0].DueDate)
	assert.Equal(t, time.Date(2025, time.March, 11, 0, 0, 0, 0, time.UTC), *list[1].DueDate)
	assert.Equal(t, 88, list[1].AIScore)
}

func TestNewStoreMalformedDataFallsBackToSeeds(t *testing.T) {
	kv := storage.NewMemory()
	require.NoError(t, kv.Set(context.Background(), StorageKey, "{oops"))

	s := NewStore(context.Background(), kv, NewScorer(clock, fixedRand{}), WithClock(clock))
	assert.Equal(t, 2, s.Len())
}

func TestCorruptFileStoreKeepsLaterWrites(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "assistant.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	kv, err := storage.NewFile(path, nil)
	require.NoError(t, err)

	s := NewStore(ctx, kv, NewScorer(clock, fixedRand{}), WithClock(clock))
	require.Equal(t, 2, s.Len())
	s.Add(ctx, intent.TaskDraft{Title: "file taxes", Category: intent.CategoryGeneral})

	reloaded := NewStore(ctx, kv, NewScorer(clock, fixedRand{}), WithClock(clock))
	require.Equal(t, 3, reloaded.Len())
	assert.Equal(t, "file taxes", reloaded.List()[2].Title)
}

func TestNewStoreLoadsSavedTasks(t *testing.T) {
	kv := storage.NewMemory()
	saved := []Task{{ID: "x", Title: "saved", Priority: PriorityLow, Category: intent.CategoryGeneral, CreatedAt: testNow}}
	raw, err := json.Marshal(saved)
	require.NoError(t, err)
	require.NoError(t, kv.Set(context.Background(), StorageKey, string(raw)))

	s := NewStore(context.Background(), kv, NewScorer(clock, fixedRand{}))
	if diff := cmp.Diff(saved, s.List()); diff != "" {
		t.Fatalf("loaded tasks mismatch (-want +got):\n%s", diff)
	}
}

func TestAddRoundTrip(t *testing.T) {
	kv := storage.NewMemory()
	refreshes := 0
	s := emptyStore(t, kv, WithRefresh(func() { refreshes++ }))

	draft := intent.Extract("add task: finish report tomorrow urgent", testNow)
	added := s.Add(context.Background(), draft)

	assert.Equal(t, "t1", added.ID)
	assert.Equal(t, PriorityHigh, added.Priority)
	assert.Equal(t, 85, added.AIScore)
	assert.False(t, added.Completed)
	assert.Equal(t, testNow, added.CreatedAt)
	assert.Equal(t, 1, refreshes)

	found, ok := s.FindByID(added.ID)
	require.True(t, ok)
	assert.Equal(t, added, found)

	raw, ok, err := kv.Get(context.Background(), StorageKey)
	require.NoError(t, err)
	require.True(t, ok)
	var persisted []Task
	require.NoError(t, json.Unmarshal([]byte(raw), &persisted))
	require.Len(t, persisted, 1)
	assert.Equal(t, added.ID, persisted[0].ID)
}

func TestAddUsesPlaceholderTitle(t *testing.T) {
	s := emptyStore(t, storage.NewMemory())
	got := s.Add(context.Background(), intent.TaskDraft{Title: "   "})
	assert.Equal(t, intent.UntitledTask, got.Title)
	assert.Equal(t, intent.CategoryGeneral, got.Category)
}

func TestDefaultIDsAreUnique(t *testing.T) {
	kv := storage.NewMemory()
	require.NoError(t, kv.Set(context.Background(), StorageKey, "[]"))
	s := NewStore(context.Background(), kv, NewScorer(nil, nil))

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		id := s.Add(context.Background(), intent.TaskDraft{Title: "x"}).ID
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestReorderIsStable(t *testing.T) {
	kv := storage.NewMemory()
	seed := []Task{
		{ID: "a", Priority: PriorityLow},
		{ID: "b", Priority: PriorityHigh},
		{ID: "c", Priority: PriorityMedium},
		{ID: "d", Priority: PriorityLow},
		{ID: "e", Priority: PriorityHigh},
		{ID: "f", Priority: PriorityMedium},
	}
	raw, err := json.Marshal(seed)
	require.NoError(t, err)
	require.NoError(t, kv.Set(context.Background(), StorageKey, string(raw)))

	refreshed := false
	s := NewStore(context.Background(), kv, NewScorer(clock, fixedRand{}), WithRefresh(func() { refreshed = true }))
	s.Reorder(context.Background())

	var ids []string
	for _, task := range s.List() {
		ids = append(ids, task.ID)
	}
	assert.Equal(t, []string{"b", "e", "c", "f", "a", "d"}, ids)
	assert.True(t, refreshed)

	// persisted in the new order
	stored, _, err := kv.Get(context.Background(), StorageKey)
	require.NoError(t, err)
	var persisted []Task
	require.NoError(t, json.Unmarshal([]byte(stored), &persisted))
	assert.Equal(t, "b", persisted[0].ID)
}

func TestTargetedMutations(t *testing.T) {
	ctx := context.Background()
	s := emptyStore(t, storage.NewMemory())
	task := s.Add(ctx, intent.TaskDraft{Title: "draft", Category: intent.CategoryLearning})

	was, err := s.SetCompleted(ctx, task.ID, true)
	require.NoError(t, err)
	assert.False(t, was)
	was, err = s.SetCompleted(ctx, task.ID, true)
	require.NoError(t, err)
	assert.True(t, was)

	renamed, err := s.Retitle(ctx, task.ID, "  final  ")
	require.NoError(t, err)
	assert.Equal(t, "final", renamed.Title)

	_, err = s.Retitle(ctx, task.ID, "  ")
	assert.ErrorIs(t, err, ErrEmptyTitle)

	due := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)
	moved, err := s.Reschedule(ctx, task.ID, due)
	require.NoError(t, err)
	assert.Equal(t, due, *moved.DueDate)
	assert.Equal(t, task.Priority, moved.Priority)
	assert.Equal(t, task.AIScore, moved.AIScore)

	_, err = s.SetCompleted(ctx, "nope", true)
	assert.ErrorIs(t, err, ErrTaskNotFound)
	_, err = s.Reschedule(ctx, "nope", due)
	assert.ErrorIs(t, err, ErrTaskNotFound)
	_, ok := s.FindByID("nope")
	assert.False(t, ok)
}

func TestPersistenceFailureKeepsMemoryState(t *testing.T) {
	kv := &failingKV{KV: storage.NewMemory()}
	s := NewStore(context.Background(), kv, NewScorer(clock, fixedRand{}), WithClock(clock))
	before := s.Len()

	added := s.Add(context.Background(), intent.TaskDraft{Title: "still here"})

	assert.Equal(t, before+1, s.Len())
	_, ok := s.FindByID(added.ID)
	assert.True(t, ok)
	assert.Equal(t, 1, kv.sets)
}

func TestBoardAndCounts(t *testing.T) {
	ctx := context.Background()
	s := emptyStore(t, storage.NewMemory())
	hi := s.Add(ctx, intent.TaskDraft{Title: "urgent client call", Category: intent.CategoryWork})
	s.Add(ctx, intent.TaskDraft{Title: "stretch", Category: intent.CategoryFitness})
	s.Add(ctx, intent.TaskDraft{Title: "buy stamps", Category: intent.CategoryGeneral})
	done := s.Add(ctx, intent.TaskDraft{Title: "urgent boss email", Category: intent.CategoryWork})
	_, err := s.SetCompleted(ctx, done.ID, true)
	require.NoError(t, err)

	b := s.Board()
	require.Len(t, b.High, 1)
	assert.Equal(t, hi.ID, b.High[0].ID)
	assert.Len(t, b.Medium, 1)
	assert.Len(t, b.Low, 1)
	assert.Equal(t, 1, s.CountOpen(PriorityHigh))
	assert.Len(t, s.Open(), 3)
	assert.Len(t, s.Head(2), 2)
	assert.Len(t, s.Head(10), 4)
}
