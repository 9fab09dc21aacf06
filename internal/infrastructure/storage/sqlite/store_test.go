package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/betnorm/internal/domain/ports"
	"github.com/ersonp/betnorm/internal/infrastructure/config"
)

// setupTestStore creates an in-memory SQLite store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(config.SQLiteConfig{Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	err = store.EnsureSchema(context.Background())
	require.NoError(t, err)

	return store
}

func TestNewStore(t *testing.T) {
	t.Run("success with memory database", func(t *testing.T) {
		store, err := NewStore(config.SQLiteConfig{Path: ":memory:"})
		require.NoError(t, err)
		defer store.Close()
		assert.NotNil(t, store)
	})

	t.Run("error with empty path", func(t *testing.T) {
		_, err := NewStore(config.SQLiteConfig{Path: ""})
		require.Error(t, err)
	})
}

func TestStore_EnsureSchema(t *testing.T) {
	store := setupTestStore(t)

	// Verify tables exist
	tables := []string{"collections", "audit_log"}
	for _, table := range tables {
		var count int
		err := store.db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 1, count, "table %s should exist", table)
	}
}

func TestStore_EnsureSchema_Idempotent(t *testing.T) {
	store := setupTestStore(t)

	// Should not error when called again
	err := store.EnsureSchema(context.Background())
	require.NoError(t, err)
}

func TestStore_Collections(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	t.Run("missing key returns nil", func(t *testing.T) {
		data, err := store.Get(ctx, ports.KeyTeams)
		require.NoError(t, err)
		assert.Nil(t, data)
	})

	t.Run("set and get", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, ports.KeyTeams, []byte(`[{"canonical":"Phoenix Suns"}]`)))

		data, err := store.Get(ctx, ports.KeyTeams)
		require.NoError(t, err)
		assert.JSONEq(t, `[{"canonical":"Phoenix Suns"}]`, string(data))
	})

	t.Run("set replaces", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, ports.KeyTeams, []byte(`[]`)))

		data, err := store.Get(ctx, ports.KeyTeams)
		require.NoError(t, err)
		assert.Equal(t, "[]", string(data))
	})

	t.Run("keys are sorted", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, ports.KeyUnresolvedQueue, []byte(`[]`)))
		require.NoError(t, store.Set(ctx, ports.KeyBetTypes, []byte(`[]`)))

		keys, err := store.Keys(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{ports.KeyUnresolvedQueue, ports.KeyBetTypes, ports.KeyTeams}, keys)
	})
}

func TestStore_UpdatedAt(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	orig := timeNow
	timeNow = func() time.Time { return time.Date(2026, 3, 14, 19, 30, 0, 0, time.UTC) }
	t.Cleanup(func() { timeNow = orig })

	_, ok, err := store.UpdatedAt(ctx, ports.KeyPlayers)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, ports.KeyPlayers, []byte(`[]`)))
	at, ok, err := store.UpdatedAt(ctx, ports.KeyPlayers)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, at.Equal(time.Date(2026, 3, 14, 19, 30, 0, 0, time.UTC)))
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "betnorm.db")
	ctx := context.Background()

	store, err := NewStore(config.SQLiteConfig{Path: path})
	require.NoError(t, err)
	require.NoError(t, store.EnsureSchema(ctx))
	require.NoError(t, store.Set(ctx, ports.KeyBetTypes, []byte(`[{"canonical":"Rebounds"}]`)))
	require.NoError(t, store.Close())

	reopened, err := NewStore(config.SQLiteConfig{Path: path})
	require.NoError(t, err)
	defer reopened.Close()
	require.NoError(t, reopened.EnsureSchema(ctx))

	data, err := reopened.Get(ctx, ports.KeyBetTypes)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"canonical":"Rebounds"}]`, string(data))
}

func TestStore_AuditLog(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	t.Run("log action with details", func(t *testing.T) {
		err := store.LogAction(ctx, "queue.map", "player::NBA::bron", map[string]any{
			"canonical": "LeBron James",
			"removed":   4,
		})
		require.NoError(t, err)
	})

	t.Run("log action without subject", func(t *testing.T) {
		err := store.LogAction(ctx, "refdata.add", "", map[string]any{
			"imported": 3,
		})
		require.NoError(t, err)
	})

	t.Run("log action without details", func(t *testing.T) {
		err := store.LogAction(ctx, "queue.ignore", "stat::NBA::garbage", nil)
		require.NoError(t, err)
	})

	t.Run("find by subject", func(t *testing.T) {
		entries, err := store.FindAuditLog(ctx, "player::NBA::bron")
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "queue.map", entries[0].Action)
		assert.Equal(t, "LeBron James", entries[0].Details["canonical"])
		assert.Equal(t, float64(4), entries[0].Details["removed"])
	})

	t.Run("find by action", func(t *testing.T) {
		entries, err := store.FindAuditLogByAction(ctx, "refdata.add", 10)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Empty(t, entries[0].Subject)
	})

	t.Run("find by action with limit", func(t *testing.T) {
		// Log more actions
		for i := 0; i < 5; i++ {
			err := store.LogAction(ctx, "bulk", "", map[string]any{"n": i})
			require.NoError(t, err)
		}

		entries, err := store.FindAuditLogByAction(ctx, "bulk", 3)
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, float64(4), entries[0].Details["n"], "newest first")

		all, err := store.FindAuditLogByAction(ctx, "bulk", 0)
		require.NoError(t, err)
		assert.Len(t, all, 5)
	})
}

func TestStore_Path(t *testing.T) {
	store, err := NewStore(config.SQLiteConfig{Path: ":memory:"})
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, ":memory:", store.Path())
}
