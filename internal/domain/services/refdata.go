package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ersonp/betnorm/internal/domain/entities"
	"github.com/ersonp/betnorm/internal/domain/ports"
)

// ConflictStrategy defines how to handle existing entities during import.
type ConflictStrategy string

const (
	// ConflictSkip skips entities that already exist.
	ConflictSkip ConflictStrategy = "skip"
	// ConflictOverwrite replaces existing entities with the imported data.
	ConflictOverwrite ConflictStrategy = "overwrite"
)

// ImportOptions controls reference data import behavior.
type ImportOptions struct {
	DryRun     bool
	OnConflict ConflictStrategy
}

// ImportResult contains the result of a reference data import.
type ImportResult struct {
	Imported int      `json:"imported"`
	Updated  int      `json:"updated"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// RefDataService is the curator-facing entry point for reference data. Each
// mutation rebuilds the Resolver, audits and persists.
type RefDataService struct {
	mu       sync.Mutex
	store    *ReferenceStore
	resolver *Resolver
	audit    ports.AuditLog
	saver    CatalogSaver
}

// NewRefDataService creates a RefDataService. audit and saver may be nil.
func NewRefDataService(store *ReferenceStore, resolver *Resolver, audit ports.AuditLog, saver CatalogSaver) *RefDataService {
	return &RefDataService{
		store:    store,
		resolver: resolver,
		audit:    audit,
		saver:    saver,
	}
}

// List returns the entities of kind. An empty sport lists every sport.
func (s *RefDataService) List(kind entities.EntityKind, sport entities.SportCode) []entities.CanonicalEntity {
	if sport == "" {
		return s.store.List(kind)
	}
	return s.store.ListBySport(kind, sport)
}

// Add registers a new entity.
func (s *RefDataService) Add(ctx context.Context, entity entities.CanonicalEntity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Add(entity); err != nil {
		return err
	}
	s.resolver.Rebuild(s.store)
	return s.finish(ctx, entities.AuditEntityAdded, entity.Key().String(), map[string]any{
		"canonical": entity.Canonical,
		"sport":     string(entity.Sport),
	})
}

// Disable hides an entity from resolution.
func (s *RefDataService) Disable(ctx context.Context, kind entities.EntityKind, canonical string, sport entities.SportCode) error {
	return s.mutate(ctx, entities.AuditEntityDisabled, kind, canonical, sport, s.store.Disable)
}

// Enable makes a disabled entity resolvable again.
func (s *RefDataService) Enable(ctx context.Context, kind entities.EntityKind, canonical string, sport entities.SportCode) error {
	return s.mutate(ctx, entities.AuditEntityEnabled, kind, canonical, sport, s.store.Enable)
}

// Remove deletes an entity.
func (s *RefDataService) Remove(ctx context.Context, kind entities.EntityKind, canonical string, sport entities.SportCode) error {
	return s.mutate(ctx, entities.AuditEntityRemoved, kind, canonical, sport, s.store.Remove)
}

func (s *RefDataService) mutate(
	ctx context.Context,
	action string,
	kind entities.EntityKind,
	canonical string,
	sport entities.SportCode,
	fn func(entities.EntityKind, string, entities.SportCode) error,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := fn(kind, canonical, entities.NormalizeSport(string(sport))); err != nil {
		return err
	}
	s.resolver.Rebuild(s.store)
	return s.finish(ctx, action, entities.KeyFor(kind, canonical, sport).String(), nil)
}

// Import adds a batch of entities, typically read from a seed file. The
// resolver is rebuilt once at the end.
func (s *RefDataService) Import(ctx context.Context, batch []entities.CanonicalEntity, opts ImportOptions) (*ImportResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := &ImportResult{}
	for i := range batch {
		e := batch[i]
		existing, exists := s.store.Get(e.Kind, e.Canonical, entities.NormalizeSport(string(e.Sport)))
		exists = exists && !existing.Disabled

		if opts.DryRun {
			if _, err := sanitizeEntity(e); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("entry %d: %v", i+1, err))
				continue
			}
			switch {
			case !exists:
				result.Imported++
			case opts.OnConflict == ConflictOverwrite:
				result.Updated++
			default:
				result.Skipped++
			}
			continue
		}

		err := s.store.Add(e)
		switch {
		case err == nil:
			result.Imported++
		case errors.Is(err, ErrDuplicateEntity) && opts.OnConflict == ConflictOverwrite:
			if err := s.store.Update(e); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("entry %d: %v", i+1, err))
				continue
			}
			result.Updated++
		case errors.Is(err, ErrDuplicateEntity):
			result.Skipped++
		default:
			result.Errors = append(result.Errors, fmt.Sprintf("entry %d: %v", i+1, err))
		}
	}

	if opts.DryRun || result.Imported+result.Updated == 0 {
		return result, nil
	}
	s.resolver.Rebuild(s.store)
	return result, s.finish(ctx, entities.AuditEntityAdded, "import", map[string]any{
		"imported": result.Imported,
		"updated":  result.Updated,
	})
}

func (s *RefDataService) finish(ctx context.Context, action, subject string, details map[string]any) error {
	if s.audit != nil {
		if err := s.audit.LogAction(ctx, action, subject, details); err != nil {
			return fmt.Errorf("logging %s: %w", action, err)
		}
	}
	if s.saver != nil {
		if err := s.saver.Save(ctx); err != nil {
			return fmt.Errorf("saving catalog: %w", err)
		}
	}
	return nil
}
