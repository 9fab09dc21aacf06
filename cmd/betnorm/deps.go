package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/ersonp/betnorm/internal/application/handlers"
	"github.com/ersonp/betnorm/internal/domain/services"
	"github.com/ersonp/betnorm/internal/infrastructure/config"
	"github.com/ersonp/betnorm/internal/infrastructure/logging"
	"github.com/ersonp/betnorm/internal/infrastructure/storage"
)

// Deps holds high-level dependencies for commands.
// Only handlers are exposed - services and stores are internal.
type Deps struct {
	Config  *config.Config
	Profile string
	Logger  *slog.Logger

	ResolveHandler *handlers.ResolveHandler
	IngestHandler  *handlers.IngestHandler
	ImportHandler  *handlers.ImportHandler
	QueueHandler   *handlers.QueueHandler
	RefDataHandler *handlers.RefDataHandler
}

// internalDeps holds all dependencies including low-level components.
// Used internally by helper functions.
type internalDeps struct {
	Deps
	store    storage.Store
	refs     *services.ReferenceStore
	queue    *services.UnresolvedQueue
	resolver *services.Resolver
	catalog  *services.Catalog
}

// withDeps loads config and builds dependencies, then calls the provided function.
// It handles cleanup automatically.
func withDeps(fn func(*Deps) error) error {
	return withInternalDeps(func(d *internalDeps) error {
		return fn(&d.Deps)
	})
}

// withInternalDeps provides access to all dependencies including low-level components.
// Used by commands that need direct store or service access.
func withInternalDeps(fn func(*internalDeps) error) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(cfg.Log, os.Stderr)

	profile, namespace, err := resolveProfile(cwd, cfg, globalProfile)
	if err != nil {
		return err
	}

	store, err := storage.Open(cfg, storage.Options{BasePath: cwd, Profile: profile, Namespace: namespace})
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}

	d, err := buildDeps(ctx, cfg, profile, store, logger)
	if err != nil {
		return err
	}

	return fn(d)
}

// buildDeps loads the profile's collections and wires services and handlers
// on top of them.
func buildDeps(ctx context.Context, cfg *config.Config, profile string, store storage.Store, logger *slog.Logger) (*internalDeps, error) {
	refs := services.NewReferenceStore()
	queue := services.NewUnresolvedQueue()
	catalog := services.NewCatalog(store, refs, queue, logger)

	report, err := catalog.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	if len(report.Skipped) > 0 {
		logger.Warn("skipped invalid records", "count", len(report.Skipped), "profile", profile)
	}

	policy, ok := services.ParseAmbiguityPolicy(cfg.Resolver.AmbiguityPolicy)
	if !ok {
		return nil, fmt.Errorf("unknown ambiguity policy %q", cfg.Resolver.AmbiguityPolicy)
	}
	resolver := services.NewResolverFromStore(refs, policy)

	review := services.NewReviewService(refs, queue, resolver, store, catalog)
	refData := services.NewRefDataService(refs, resolver, store, catalog)
	ingest := services.NewIngestService(resolver, queue, catalog)

	return &internalDeps{
		Deps: Deps{
			Config:         cfg,
			Profile:        profile,
			Logger:         logger,
			ResolveHandler: handlers.NewResolveHandler(resolver, cfg.Resolver.UnresolvedBucket),
			IngestHandler:  handlers.NewIngestHandler(ingest),
			ImportHandler:  handlers.NewImportHandler(refData),
			QueueHandler:   handlers.NewQueueHandler(queue, review, catalog),
			RefDataHandler: handlers.NewRefDataHandler(refData),
		},
		store:    store,
		refs:     refs,
		queue:    queue,
		resolver: resolver,
		catalog:  catalog,
	}, nil
}

// resolveProfile validates the requested profile and returns its name and
// storage namespace. The default profile is always available.
func resolveProfile(basePath string, cfg *config.Config, requested string) (string, string, error) {
	profile := requested
	if profile == "" {
		profile = config.DefaultProfile
	}

	profiles, err := config.LoadProfiles(basePath)
	if err != nil {
		return "", "", fmt.Errorf("loading profiles: %w", err)
	}

	entry, err := profiles.Get(profile)
	if err != nil {
		if profile == config.DefaultProfile {
			return profile, cfg.Namespace(profile), nil
		}
		return "", "", err
	}

	namespace := entry.Namespace
	if namespace == "" {
		namespace = cfg.Namespace(profile)
	}
	return profile, namespace, nil
}
