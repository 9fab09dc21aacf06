// Package handlers contains application use case handlers.
package handlers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ersonp/betnorm/internal/domain/ports"
	"github.com/ersonp/betnorm/internal/domain/services"
	"github.com/ersonp/betnorm/internal/infrastructure/config"
)

// StoreOpener opens the collection store for a freshly written config.
type StoreOpener func(cfg *config.Config) (ports.CollectionStore, error)

// InitHandler handles workspace initialization.
type InitHandler struct {
	open   StoreOpener
	logger *slog.Logger
}

// NewInitHandler creates a new init handler.
func NewInitHandler(open StoreOpener, logger *slog.Logger) *InitHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &InitHandler{
		open:   open,
		logger: logger,
	}
}

// InitOptions controls initialization.
type InitOptions struct {
	Profile  string // profile registered and seeded, config.DefaultProfile when empty
	SkipSeed bool   // leave reference data empty
}

// InitResult contains the result of initialization.
type InitResult struct {
	ConfigPath string
	Profile    string
	Backend    string
	Seeded     int
}

// Handle writes the default config, registers the profile, prepares the
// store schema and seeds default reference data.
func (h *InitHandler) Handle(ctx context.Context, basePath string, opts InitOptions) (*InitResult, error) {
	if config.Exists(basePath) {
		return nil, fmt.Errorf("betnorm already initialized in %s", basePath)
	}

	if err := config.WriteDefault(basePath); err != nil {
		return nil, fmt.Errorf("writing default config: %w", err)
	}

	cfg, err := config.Load(basePath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	profile := opts.Profile
	if profile == "" {
		profile = config.DefaultProfile
	}
	profiles, err := config.LoadProfiles(basePath)
	if err != nil {
		return nil, fmt.Errorf("loading profiles: %w", err)
	}
	if !profiles.Exists(profile) {
		profiles.Add(profile, config.ProfileEntry{
			Namespace:   cfg.Namespace(profile),
			Description: "Created by init",
		})
		if err := profiles.Save(basePath); err != nil {
			return nil, fmt.Errorf("saving profiles: %w", err)
		}
	}

	result := &InitResult{
		ConfigPath: config.ConfigFilePath(basePath),
		Profile:    profile,
		Backend:    cfg.Storage.Backend,
	}

	if h.open == nil {
		return result, nil
	}

	store, err := h.open(cfg)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensuring schema: %w", err)
	}

	if opts.SkipSeed {
		return result, nil
	}

	catalog := services.NewCatalog(store, services.NewReferenceStore(), services.NewUnresolvedQueue(), h.logger)
	seeded, err := catalog.SeedDefaults(ctx)
	if err != nil {
		return nil, fmt.Errorf("seeding reference data: %w", err)
	}
	result.Seeded = seeded

	return result, nil
}
