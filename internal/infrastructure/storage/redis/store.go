// Package redis provides a Redis implementation of the CollectionStore and
// AuditLog ports, for profiles shared between several reviewers.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/ersonp/betnorm/internal/domain/entities"
	"github.com/ersonp/betnorm/internal/infrastructure/config"
)

// timeNow returns the current time (can be mocked in tests).
var timeNow = time.Now

const (
	keysSuffix     = "keys"
	auditSuffix    = "audit"
	auditSeqSuffix = "audit:seq"

	// maxAuditEntries bounds the audit list.
	maxAuditEntries = 10000
)

// Store implements ports.CollectionStore and ports.AuditLog on top of Redis.
// Every key lives under namespace so several profiles can share one server.
type Store struct {
	client    *goredis.Client
	namespace string
}

// NewStore connects to Redis and verifies the connection.
func NewStore(cfg config.RedisConfig, namespace string) (*Store, error) {
	if cfg.URL == "" {
		return nil, errors.New("redis url is required")
	}
	if namespace == "" {
		return nil, errors.New("redis namespace is required")
	}

	opt, err := goredis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}

	client := goredis.NewClient(opt)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	return NewStoreWithClient(client, namespace), nil
}

// NewStoreWithClient wraps an existing client.
func NewStoreWithClient(client *goredis.Client, namespace string) *Store {
	return &Store{client: client, namespace: namespace}
}

// Close closes the Redis connection.
func (s *Store) Close() error {
	return s.client.Close()
}

// Namespace returns the key prefix used by the store.
func (s *Store) Namespace() string {
	return s.namespace
}

// key builds the fully qualified Redis key for a collection or index.
func (s *Store) key(name string) string {
	return s.namespace + ":" + name
}

// EnsureSchema checks that Redis is reachable. Redis needs no schema.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("pinging redis: %w", err)
	}
	return nil
}

// Get returns the stored collection for key, or nil when absent.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading collection %s: %w", key, err)
	}
	return data, nil
}

// Set stores the collection for key and records key in the key index.
func (s *Store) Set(ctx context.Context, key string, data []byte) error {
	_, err := s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Set(ctx, s.key(key), data, 0)
		pipe.SAdd(ctx, s.key(keysSuffix), key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("saving collection %s: %w", key, err)
	}
	return nil
}

// Keys lists stored collection keys in sorted order.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	keys, err := s.client.SMembers(ctx, s.key(keysSuffix)).Result()
	if err != nil {
		return nil, fmt.Errorf("listing collections: %w", err)
	}
	sort.Strings(keys)
	return keys, nil
}

// LogAction appends an entry to the namespace audit list.
func (s *Store) LogAction(ctx context.Context, action, subject string, details map[string]any) error {
	id, err := s.client.Incr(ctx, s.key(auditSeqSuffix)).Result()
	if err != nil {
		return fmt.Errorf("allocating audit id: %w", err)
	}

	entry := entities.AuditEntry{
		ID:        id,
		Action:    action,
		Subject:   subject,
		Details:   details,
		CreatedAt: timeNow().UTC(),
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshaling audit entry: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.LPush(ctx, s.key(auditSuffix), data)
		pipe.LTrim(ctx, s.key(auditSuffix), 0, maxAuditEntries-1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("logging action: %w", err)
	}
	return nil
}

// FindAuditLogByAction finds audit log entries by action type, newest first.
func (s *Store) FindAuditLogByAction(ctx context.Context, action string, limit int) ([]entities.AuditEntry, error) {
	raw, err := s.client.LRange(ctx, s.key(auditSuffix), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("querying audit log: %w", err)
	}
	return filterAudit(raw, action, limit)
}

// filterAudit decodes list entries (newest first) and keeps those matching action.
func filterAudit(raw []string, action string, limit int) ([]entities.AuditEntry, error) {
	var entries []entities.AuditEntry
	for _, item := range raw {
		var entry entities.AuditEntry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			return nil, fmt.Errorf("unmarshaling audit entry: %w", err)
		}
		if entry.Action != action {
			continue
		}
		entries = append(entries, entry)
		if limit > 0 && len(entries) == limit {
			break
		}
	}
	return entries, nil
}
