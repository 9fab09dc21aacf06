// Package postgres provides a PostgreSQL implementation of the
// CollectionStore and AuditLog ports.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/ersonp/betnorm/internal/domain/entities"
	"github.com/ersonp/betnorm/internal/infrastructure/config"
)

// timeNow returns the current time (can be mocked in tests).
var timeNow = time.Now

// Store implements ports.CollectionStore and ports.AuditLog using
// PostgreSQL. Rows are scoped by namespace so profiles share one database.
type Store struct {
	db        *sql.DB
	namespace string
}

// NewStore opens a connection pool and verifies it.
func NewStore(cfg config.PostgresConfig, namespace string) (*Store, error) {
	if cfg.DSN == "" {
		return nil, errors.New("postgres dsn is required")
	}
	if namespace == "" {
		return nil, errors.New("postgres namespace is required")
	}

	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("opening postgres database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	return &Store{db: db, namespace: namespace}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Namespace returns the namespace rows are scoped to.
func (s *Store) Namespace() string {
	return s.namespace
}

const schema = `
CREATE TABLE IF NOT EXISTS betnorm_collections (
	namespace TEXT NOT NULL,
	key TEXT NOT NULL,
	data JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (namespace, key)
);

CREATE TABLE IF NOT EXISTS betnorm_audit_log (
	id BIGSERIAL PRIMARY KEY,
	namespace TEXT NOT NULL,
	action TEXT NOT NULL,
	subject TEXT,
	details JSONB,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_betnorm_audit_action ON betnorm_audit_log(namespace, action);
`

// EnsureSchema creates the tables if they don't exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// Get returns the stored collection for key, or nil when absent.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM betnorm_collections WHERE namespace = $1 AND key = $2`,
		s.namespace, key,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading collection %s: %w", key, err)
	}
	return data, nil
}

// Set stores the collection for key, replacing any previous value.
func (s *Store) Set(ctx context.Context, key string, data []byte) error {
	query := `
		INSERT INTO betnorm_collections (namespace, key, data, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (namespace, key) DO UPDATE SET
			data = EXCLUDED.data,
			updated_at = EXCLUDED.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query, s.namespace, key, string(data), timeNow().UTC()); err != nil {
		return fmt.Errorf("saving collection %s: %w", key, err)
	}
	return nil
}

// Keys lists stored collection keys in sorted order.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key FROM betnorm_collections WHERE namespace = $1 ORDER BY key ASC`, s.namespace)
	if err != nil {
		return nil, fmt.Errorf("querying collections: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scanning collection key: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// LogAction logs an action to the audit log.
func (s *Store) LogAction(ctx context.Context, action, subject string, details map[string]any) error {
	var detailsJSON sql.NullString
	if details != nil {
		data, err := json.Marshal(details)
		if err != nil {
			return fmt.Errorf("marshaling details: %w", err)
		}
		detailsJSON = sql.NullString{String: string(data), Valid: true}
	}

	subjectVal := sql.NullString{String: subject, Valid: subject != ""}

	query := `INSERT INTO betnorm_audit_log (namespace, action, subject, details, created_at) VALUES ($1, $2, $3, $4, $5)`
	if _, err := s.db.ExecContext(ctx, query, s.namespace, action, subjectVal, detailsJSON, timeNow().UTC()); err != nil {
		return fmt.Errorf("logging action: %w", err)
	}
	return nil
}

// FindAuditLogByAction finds audit log entries by action type, newest first.
func (s *Store) FindAuditLogByAction(ctx context.Context, action string, limit int) ([]entities.AuditEntry, error) {
	query := `
		SELECT id, action, subject, details, created_at
		FROM betnorm_audit_log
		WHERE namespace = $1 AND action = $2
		ORDER BY id DESC
	`
	args := []any{s.namespace, action}
	if limit > 0 {
		query += ` LIMIT $3`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying audit log: %w", err)
	}
	defer rows.Close()

	var entries []entities.AuditEntry
	for rows.Next() {
		var entry entities.AuditEntry
		var subject sql.NullString
		var details []byte
		if err := rows.Scan(&entry.ID, &entry.Action, &subject, &details, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}
		entry.Subject = subject.String
		if len(details) > 0 {
			if err := json.Unmarshal(details, &entry.Details); err != nil {
				return nil, fmt.Errorf("unmarshaling details: %w", err)
			}
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
