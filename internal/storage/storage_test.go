package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"productivity-assistant/internal/db"
)

func exerciseKV(t *testing.T, kv KV) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := kv.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Set(ctx, "tasks", `[{"id":"a"}]`))
	require.NoError(t, kv.Set(ctx, "context", `{}`))
	require.NoError(t, kv.Set(ctx, "tasks", `[]`))

	v, ok, err := kv.Get(ctx, "tasks")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[]`, v)

	v, ok, err = kv.Get(ctx, "context")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{}`, v)

	require.NoError(t, kv.Delete(ctx, "context"))
	require.NoError(t, kv.Delete(ctx, "never-set"))
	_, ok, err = kv.Get(ctx, "context")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemory(t *testing.T) {
	exerciseKV(t, NewMemory())
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "store.json")
	f, err := NewFile(path, nil)
	require.NoError(t, err)
	exerciseKV(t, f)

	// a second handle sees what the first wrote
	again, err := NewFile(path, nil)
	require.NoError(t, err)
	v, ok, err := again.Get(context.Background(), "tasks")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[]`, v)
}

func TestFileCorruptContentsIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	f, err := NewFile(path, nil)
	require.NoError(t, err)
	_, _, err = f.Get(context.Background(), "tasks")
	assert.Error(t, err)
}

func TestFileWriteRecoversFromCorruptContents(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "store.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	core, logs := observer.New(zap.WarnLevel)
	f, err := NewFile(path, zap.New(core))
	require.NoError(t, err)

	require.NoError(t, f.Set(ctx, "tasks", `[{"id":"a"}]`))
	require.NoError(t, f.Set(ctx, "context", `{}`))

	v, ok, err := f.Get(ctx, "tasks")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"a"}]`, v)

	old, err := os.ReadFile(path + ".corrupt")
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(old))
	assert.Equal(t, 1, logs.FilterMessage("store file is corrupt, starting empty").Len())

	leftovers, err := filepath.Glob(path + ".*.tmp")
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestSQLite(t *testing.T) {
	ctx := context.Background()
	sqlDB, err := db.OpenSQLite(ctx, filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.Migrate(ctx, sqlDB))

	kv, err := NewSQL(sqlDB, SQLite)
	require.NoError(t, err)
	exerciseKV(t, kv)
}

func TestNewSQLRejectsUnknownDialect(t *testing.T) {
	_, err := NewSQL(nil, Dialect("oracle"))
	assert.Error(t, err)
}

func TestPrefixedIsolatesNamespaces(t *testing.T) {
	ctx := context.Background()
	base := NewMemory()
	alice := WithPrefix(base, "user:1:")
	bob := WithPrefix(base, "user:2:")

	require.NoError(t, alice.Set(ctx, "tasks", "alice"))
	_, ok, err := bob.Get(ctx, "tasks")
	require.NoError(t, err)
	assert.False(t, ok)

	v, ok, err := base.Get(ctx, "user:1:tasks")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "alice", v)
}
