package redis

import (
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/betnorm/internal/domain/entities"
	"github.com/ersonp/betnorm/internal/domain/ports"
	"github.com/ersonp/betnorm/internal/infrastructure/config"
)

func TestNewStore_Validation(t *testing.T) {
	t.Run("empty url", func(t *testing.T) {
		_, err := NewStore(config.RedisConfig{}, "betnorm:default")
		require.Error(t, err)
	})

	t.Run("empty namespace", func(t *testing.T) {
		_, err := NewStore(config.RedisConfig{URL: "redis://localhost:6379/0"}, "")
		require.Error(t, err)
	})

	t.Run("bad url", func(t *testing.T) {
		_, err := NewStore(config.RedisConfig{URL: "http://nope"}, "betnorm:default")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parsing redis url")
	})
}

func TestStore_Key(t *testing.T) {
	s := &Store{namespace: "betnorm:nba_props"}
	assert.Equal(t, "betnorm:nba_props:refdata.teams", s.key(ports.KeyTeams))
	assert.Equal(t, "betnorm:nba_props:keys", s.key(keysSuffix))
	assert.Equal(t, "betnorm:nba_props", s.Namespace())
}

func TestFilterAudit(t *testing.T) {
	encode := func(id int64, action string) string {
		data, err := json.Marshal(entities.AuditEntry{ID: id, Action: action})
		require.NoError(t, err)
		return string(data)
	}
	raw := []string{
		encode(5, "queue.map"),
		encode(4, "queue.ignore"),
		encode(3, "queue.map"),
		encode(2, "queue.map"),
	}

	t.Run("filters by action", func(t *testing.T) {
		entries, err := filterAudit(raw, "queue.map", 0)
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, int64(5), entries[0].ID)
	})

	t.Run("limit", func(t *testing.T) {
		entries, err := filterAudit(raw, "queue.map", 2)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, int64(3), entries[1].ID)
	})

	t.Run("corrupt entry", func(t *testing.T) {
		_, err := filterAudit([]string{"{"}, "queue.map", 0)
		require.Error(t, err)
	})
}

// TestStore_Integration runs against a live server when BETNORM_TEST_REDIS_URL is set.
func TestStore_Integration(t *testing.T) {
	url := os.Getenv("BETNORM_TEST_REDIS_URL")
	if url == "" {
		t.Skip("BETNORM_TEST_REDIS_URL not set")
	}

	ctx := context.Background()
	namespace := "betnorm_test:" + uuid.NewString()
	store, err := NewStore(config.RedisConfig{URL: url}, namespace)
	require.NoError(t, err)
	t.Cleanup(func() {
		keys, _ := store.client.Keys(ctx, namespace+":*").Result()
		if len(keys) > 0 {
			store.client.Del(ctx, keys...)
		}
		store.Close()
	})

	require.NoError(t, store.EnsureSchema(ctx))

	data, err := store.Get(ctx, ports.KeyTeams)
	require.NoError(t, err)
	assert.Nil(t, data)

	require.NoError(t, store.Set(ctx, ports.KeyTeams, []byte(`[]`)))
	require.NoError(t, store.Set(ctx, ports.KeyBetTypes, []byte(`[{"canonical":"Rebounds"}]`)))

	data, err = store.Get(ctx, ports.KeyBetTypes)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"canonical":"Rebounds"}]`, string(data))

	keys, err := store.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{ports.KeyBetTypes, ports.KeyTeams}, keys)

	require.NoError(t, store.LogAction(ctx, entities.AuditIgnore, "stat::NBA::xyz", map[string]any{"removed": 2}))
	entries, err := store.FindAuditLogByAction(ctx, entities.AuditIgnore, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "stat::NBA::xyz", entries[0].Subject)
}
