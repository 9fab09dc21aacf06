// Package storage selects the CollectionStore backend named in config.
package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ersonp/betnorm/internal/domain/ports"
	"github.com/ersonp/betnorm/internal/infrastructure/config"
	"github.com/ersonp/betnorm/internal/infrastructure/storage/postgres"
	"github.com/ersonp/betnorm/internal/infrastructure/storage/redis"
	"github.com/ersonp/betnorm/internal/infrastructure/storage/sqlite"
)

// Store is what every backend provides: collections plus an audit log.
type Store interface {
	ports.CollectionStore
	ports.AuditLog
}

// Options locates a profile's data.
type Options struct {
	BasePath  string // directory holding .betnorm
	Profile   string
	Namespace string // redis/postgres namespace, derived from config when empty
}

// Open connects to the configured backend for one profile.
func Open(cfg *config.Config, opts Options) (Store, error) {
	profile := opts.Profile
	if profile == "" {
		profile = config.DefaultProfile
	}
	namespace := opts.Namespace
	if namespace == "" {
		namespace = cfg.Namespace(profile)
	}

	switch cfg.Storage.Backend {
	case config.BackendSQLite, "":
		path := SQLitePath(cfg, opts.BasePath, profile)
		if path != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return nil, fmt.Errorf("creating profile directory: %w", err)
			}
		}
		store, err := sqlite.NewStore(config.SQLiteConfig{Path: path})
		if err != nil {
			return nil, fmt.Errorf("creating sqlite store: %w", err)
		}
		return store, nil
	case config.BackendRedis:
		store, err := redis.NewStore(cfg.Storage.Redis, namespace)
		if err != nil {
			return nil, fmt.Errorf("creating redis store: %w", err)
		}
		return store, nil
	case config.BackendPostgres:
		store, err := postgres.NewStore(cfg.Storage.Postgres, namespace)
		if err != nil {
			return nil, fmt.Errorf("creating postgres store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// SQLitePath returns the database file for profile. An explicit
// storage.sqlite.path in config wins over the per-profile default.
func SQLitePath(cfg *config.Config, basePath, profile string) string {
	if cfg.Storage.SQLite.Path != "" {
		return cfg.Storage.SQLite.Path
	}
	return config.SQLitePathForProfile(basePath, profile)
}
