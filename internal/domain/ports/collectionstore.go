// Package ports defines interfaces for external service communication.
package ports

import "context"

// Stable keys under which whole collections are persisted.
const (
	KeyTeams           = "refdata.teams"
	KeyPlayers         = "refdata.players"
	KeyBetTypes        = "refdata.bet_types"
	KeyUnresolvedQueue = "queue.unresolved"
)

// CollectionStore persists whole collections as opaque JSON documents under
// stable keys. Versioning and migration of the documents are the store's
// concern; callers only get and set complete collections.
type CollectionStore interface {
	// EnsureSchema prepares the backing storage. It must be idempotent.
	EnsureSchema(ctx context.Context) error

	// Get returns the document stored under key, or nil if there is none.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set replaces the document stored under key.
	Set(ctx context.Context, key string, data []byte) error

	// Keys lists every key that currently holds a document.
	Keys(ctx context.Context) ([]string, error)

	// Close releases the underlying connection.
	Close() error
}
