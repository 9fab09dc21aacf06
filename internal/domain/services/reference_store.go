package services

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ersonp/betnorm/internal/domain/entities"
)

// Reference data errors.
var (
	ErrDuplicateEntity = errors.New("entity already exists")
	ErrEntityNotFound  = errors.New("entity not found")
	ErrInvalidEntity   = errors.New("invalid entity")
)

// timeNow returns the current time (can be mocked in tests).
var timeNow = time.Now

// Snapshot is a deep copy of the reference data, in store insertion order.
type Snapshot struct {
	Teams    []entities.CanonicalEntity
	Players  []entities.CanonicalEntity
	BetTypes []entities.CanonicalEntity
}

// ForKind returns the snapshot collection for kind.
func (s *Snapshot) ForKind(kind entities.EntityKind) []entities.CanonicalEntity {
	switch kind {
	case entities.KindTeam:
		return s.Teams
	case entities.KindPlayer:
		return s.Players
	case entities.KindStat:
		return s.BetTypes
	default:
		return nil
	}
}

// ReferenceStore owns the canonical teams, players and bet types.
//
// Mutations are not visible to resolution until the Resolver is rebuilt
// from a fresh Snapshot.
type ReferenceStore struct {
	mu          sync.RWMutex
	collections map[entities.EntityKind][]*entities.CanonicalEntity
}

// NewReferenceStore creates an empty ReferenceStore.
func NewReferenceStore() *ReferenceStore {
	return &ReferenceStore{
		collections: make(map[entities.EntityKind][]*entities.CanonicalEntity),
	}
}

// Add registers a new canonical entity. It fails with ErrDuplicateEntity
// when an enabled entity with the same key exists. A disabled entity with
// the same key is re-enabled with the new fields merged in; its aliases and
// abbreviations are kept.
func (s *ReferenceStore) Add(entity entities.CanonicalEntity) error {
	clean, err := sanitizeEntity(entity)
	if err != nil {
		return err
	}
	if clean.CreatedAt.IsZero() {
		clean.CreatedAt = timeNow()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	coll := s.collections[clean.Kind]
	if idx := indexOf(coll, clean.Key()); idx >= 0 {
		if !coll[idx].Disabled {
			return fmt.Errorf("%w: %s", ErrDuplicateEntity, clean.Key())
		}
		merged := mergeDisabled(coll[idx], clean)
		coll[idx] = &merged
		return nil
	}

	s.collections[clean.Kind] = append(coll, &clean)
	return nil
}

// Get returns a copy of the entity with the given key, disabled or not.
func (s *ReferenceStore) Get(kind entities.EntityKind, canonical string, sport entities.SportCode) (entities.CanonicalEntity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	coll := s.collections[kind]
	idx := indexOf(coll, entities.KeyFor(kind, canonical, sport))
	if idx < 0 {
		return entities.CanonicalEntity{}, false
	}
	return coll[idx].Clone(), true
}

// List returns copies of every entity of kind, including disabled ones.
func (s *ReferenceStore) List(kind entities.EntityKind) []entities.CanonicalEntity {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneAll(s.collections[kind])
}

// ListBySport returns copies of the entities of kind that belong to sport.
func (s *ReferenceStore) ListBySport(kind entities.EntityKind, sport entities.SportCode) []entities.CanonicalEntity {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []entities.CanonicalEntity
	for _, e := range s.collections[kind] {
		if e.Sport == sport {
			out = append(out, e.Clone())
		}
	}
	return out
}

// Count returns the number of entities of kind, including disabled ones.
func (s *ReferenceStore) Count(kind entities.EntityKind) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.collections[kind])
}

// Update replaces an existing entity, matched by key.
func (s *ReferenceStore) Update(entity entities.CanonicalEntity) error {
	clean, err := sanitizeEntity(entity)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	coll := s.collections[clean.Kind]
	idx := indexOf(coll, clean.Key())
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrEntityNotFound, clean.Key())
	}
	if clean.CreatedAt.IsZero() {
		clean.CreatedAt = coll[idx].CreatedAt
	}
	coll[idx] = &clean
	return nil
}

// Remove deletes an entity and its aliases.
func (s *ReferenceStore) Remove(kind entities.EntityKind, canonical string, sport entities.SportCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	coll := s.collections[kind]
	key := entities.KeyFor(kind, canonical, sport)
	idx := indexOf(coll, key)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrEntityNotFound, key)
	}
	s.collections[kind] = append(coll[:idx:idx], coll[idx+1:]...)
	return nil
}

// Disable removes an entity from resolution while keeping its aliases.
func (s *ReferenceStore) Disable(kind entities.EntityKind, canonical string, sport entities.SportCode) error {
	return s.setDisabled(kind, canonical, sport, true)
}

// Enable reverses Disable.
func (s *ReferenceStore) Enable(kind entities.EntityKind, canonical string, sport entities.SportCode) error {
	return s.setDisabled(kind, canonical, sport, false)
}

func (s *ReferenceStore) setDisabled(kind entities.EntityKind, canonical string, sport entities.SportCode, disabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := entities.KeyFor(kind, canonical, sport)
	idx := indexOf(s.collections[kind], key)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrEntityNotFound, key)
	}
	s.collections[kind][idx].Disabled = disabled
	return nil
}

// AddAlias appends alias to an existing entity. Adding an alias the entity
// already answers to is a no-op.
func (s *ReferenceStore) AddAlias(kind entities.EntityKind, canonical string, sport entities.SportCode, alias string) error {
	alias = strings.TrimSpace(alias)
	if alias == "" {
		return fmt.Errorf("%w: empty alias", ErrInvalidEntity)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := entities.KeyFor(kind, canonical, sport)
	idx := indexOf(s.collections[kind], key)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrEntityNotFound, key)
	}

	e := s.collections[kind][idx]
	if e.HasAlias(alias) {
		return nil
	}
	e.Aliases = append(e.Aliases, alias)
	return nil
}

// Replace swaps the whole collection for kind. Records that fail validation
// or duplicate an earlier record are dropped and returned.
func (s *ReferenceStore) Replace(kind entities.EntityKind, records []entities.CanonicalEntity) []error {
	var errs []error
	coll := make([]*entities.CanonicalEntity, 0, len(records))
	for i := range records {
		rec := records[i]
		rec.Kind = kind
		clean, err := sanitizeEntity(rec)
		if err != nil {
			errs = append(errs, fmt.Errorf("record %d: %w", i, err))
			continue
		}
		if idx := indexOf(coll, clean.Key()); idx >= 0 && !coll[idx].Disabled && !clean.Disabled {
			errs = append(errs, fmt.Errorf("record %d: %w: %s", i, ErrDuplicateEntity, clean.Key()))
			continue
		}
		coll = append(coll, &clean)
	}

	s.mu.Lock()
	s.collections[kind] = coll
	s.mu.Unlock()

	return errs
}

// Snapshot returns a deep copy of the store contents.
func (s *ReferenceStore) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{
		Teams:    cloneAll(s.collections[entities.KindTeam]),
		Players:  cloneAll(s.collections[entities.KindPlayer]),
		BetTypes: cloneAll(s.collections[entities.KindStat]),
	}
}

// indexOf returns the position of the entity with key, preferring an enabled
// record when a disabled one shares the key.
func indexOf(coll []*entities.CanonicalEntity, key entities.EntityKey) int {
	found := -1
	for i, e := range coll {
		if e.Key() != key {
			continue
		}
		if !e.Disabled {
			return i
		}
		if found < 0 {
			found = i
		}
	}
	return found
}

func cloneAll(coll []*entities.CanonicalEntity) []entities.CanonicalEntity {
	out := make([]entities.CanonicalEntity, len(coll))
	for i, e := range coll {
		out[i] = e.Clone()
	}
	return out
}

// sanitizeEntity validates an entity and returns a trimmed copy with empty
// and repeated aliases dropped. An alias equal to the canonical name is kept.
func sanitizeEntity(e entities.CanonicalEntity) (entities.CanonicalEntity, error) {
	if !e.Kind.IsResolvable() {
		return e, fmt.Errorf("%w: unsupported kind %q", ErrInvalidEntity, e.Kind)
	}

	clean := e.Clone()
	clean.Canonical = strings.TrimSpace(clean.Canonical)
	clean.Sport = entities.NormalizeSport(string(clean.Sport))
	clean.Team = strings.TrimSpace(clean.Team)
	if clean.Canonical == "" {
		return e, fmt.Errorf("%w: canonical name is required", ErrInvalidEntity)
	}
	if clean.Sport == "" {
		return e, fmt.Errorf("%w: sport is required for %s", ErrInvalidEntity, clean.Canonical)
	}

	clean.Aliases = dedupeNames(clean.Aliases, make(map[string]bool))
	if clean.Kind == entities.KindTeam {
		clean.Abbreviations = dedupeNames(clean.Abbreviations, make(map[string]bool))
	} else {
		clean.Abbreviations = nil
	}
	return clean, nil
}

// mergeDisabled folds a re-added entity into the disabled record it revives.
// Old names come first so existing ordering is stable.
func mergeDisabled(old *entities.CanonicalEntity, add entities.CanonicalEntity) entities.CanonicalEntity {
	merged := add
	merged.Disabled = false
	merged.CreatedAt = old.CreatedAt
	merged.Aliases = dedupeNames(append(append([]string(nil), old.Aliases...), add.Aliases...), make(map[string]bool))
	if merged.Kind == entities.KindTeam {
		merged.Abbreviations = dedupeNames(append(append([]string(nil), old.Abbreviations...), add.Abbreviations...), make(map[string]bool))
	}
	if merged.Team == "" {
		merged.Team = old.Team
	}
	if merged.Description == "" {
		merged.Description = old.Description
	}
	return merged
}

func dedupeNames(names []string, seen map[string]bool) []string {
	out := names[:0]
	for _, n := range names {
		n = strings.TrimSpace(n)
		key := entities.ToLookupKey(n)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
