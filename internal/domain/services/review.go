package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/ersonp/betnorm/internal/domain/entities"
	"github.com/ersonp/betnorm/internal/domain/ports"
)

// ErrGroupNotFound is returned when a review action names a group that is
// not (or no longer) in the queue.
var ErrGroupNotFound = errors.New("queue group not found")

// MapRequest maps a queue group onto an existing canonical entity.
type MapRequest struct {
	GroupKey  string              `json:"group_key"`
	Canonical string              `json:"canonical"`
	Kind      entities.EntityKind `json:"entity_type,omitempty"` // required when the group kind is unknown
	Sport     entities.SportCode  `json:"sport,omitempty"`       // required when the group has no sport
}

// CreateRequest registers a new canonical entity for a queue group.
type CreateRequest struct {
	GroupKey      string              `json:"group_key"`
	Canonical     string              `json:"canonical,omitempty"` // defaults to the group raw value
	Kind          entities.EntityKind `json:"entity_type,omitempty"`
	Sport         entities.SportCode  `json:"sport,omitempty"`
	ExtraAliases  []string            `json:"aliases,omitempty"`
	Abbreviations []string            `json:"abbreviations,omitempty"`
	Team          string              `json:"team,omitempty"`
	Description   string              `json:"description,omitempty"`
}

// ReviewOutcome reports what a review action did.
type ReviewOutcome struct {
	GroupKey  string `json:"group_key"`
	Canonical string `json:"canonical,omitempty"`
	Removed   int    `json:"removed"`
}

// CatalogSaver persists reference data and queue after a review action.
type CatalogSaver interface {
	Save(ctx context.Context) error
}

// ReviewService applies the three reviewer actions on queue groups. These
// are the only writes into reference data that originate from the queue.
// Every action validates first and aborts before any write.
type ReviewService struct {
	mu       sync.Mutex
	store    *ReferenceStore
	queue    *UnresolvedQueue
	resolver *Resolver
	audit    ports.AuditLog
	saver    CatalogSaver
}

// NewReviewService creates a ReviewService. audit and saver may be nil.
func NewReviewService(
	store *ReferenceStore,
	queue *UnresolvedQueue,
	resolver *Resolver,
	audit ports.AuditLog,
	saver CatalogSaver,
) *ReviewService {
	return &ReviewService{
		store:    store,
		queue:    queue,
		resolver: resolver,
		audit:    audit,
		saver:    saver,
	}
}

// Groups lists queue groups with their current collision state filled in.
func (s *ReviewService) Groups(filter QueueFilter) []entities.GroupedQueueItem {
	groups := s.queue.Groups(filter)
	for i := range groups {
		g := &groups[i]
		if !g.Kind.IsResolvable() {
			continue
		}
		res := s.resolver.Resolve(g.Kind, g.RawValue, NormalizeContext{Sport: g.Sport})
		if res.IsAmbiguous() {
			g.Ambiguous = true
			g.Candidates = res.Candidates()
		}
	}
	return groups
}

// MapToExisting appends the group raw value as an alias of an existing
// entity, then drains the group from the queue. When only the audit or save
// step fails, the outcome is returned together with the error.
func (s *ReviewService) MapToExisting(ctx context.Context, req MapRequest) (*ReviewOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	group, ok := s.queue.Group(req.GroupKey)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGroupNotFound, req.GroupKey)
	}
	kind, sport, err := targetScope(group, req.Kind, req.Sport)
	if err != nil {
		return nil, err
	}

	if sport == "" && kind != entities.KindTeam {
		return nil, fmt.Errorf("%w: sport is required to map %s", ErrInvalidEntity, group.RawValue)
	}

	target, ok := s.store.Get(kind, req.Canonical, sport)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEntityNotFound, entities.KeyFor(kind, req.Canonical, sport))
	}
	if target.Disabled {
		return nil, fmt.Errorf("%w: %s is disabled", ErrInvalidEntity, target.Canonical)
	}

	if err := s.store.AddAlias(kind, target.Canonical, target.Sport, group.RawValue); err != nil {
		return nil, fmt.Errorf("adding alias: %w", err)
	}
	s.resolver.Rebuild(s.store)
	removed := s.queue.Remove(group.ItemIDs)

	outcome := &ReviewOutcome{GroupKey: group.GroupKey, Canonical: target.Canonical, Removed: removed}
	return outcome, s.finish(ctx, entities.AuditMapToExisting, group, map[string]any{
		"canonical": target.Canonical,
		"alias":     group.RawValue,
		"removed":   removed,
	})
}

// CreateCanonical registers a new entity whose aliases start with the group
// raw value, then drains the group from the queue.
func (s *ReviewService) CreateCanonical(ctx context.Context, req CreateRequest) (*ReviewOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	group, ok := s.queue.Group(req.GroupKey)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGroupNotFound, req.GroupKey)
	}
	kind, sport, err := targetScope(group, req.Kind, req.Sport)
	if err != nil {
		return nil, err
	}
	if sport == "" {
		return nil, fmt.Errorf("%w: sport is required to create %s", ErrInvalidEntity, group.RawValue)
	}

	canonical := strings.TrimSpace(req.Canonical)
	if canonical == "" {
		canonical = group.RawValue
	}

	entity := entities.CanonicalEntity{
		Kind:        kind,
		Canonical:   canonical,
		Sport:       sport,
		Aliases:     append([]string{group.RawValue}, req.ExtraAliases...),
		Team:        req.Team,
		Description: req.Description,
	}
	if kind == entities.KindTeam {
		entity.Abbreviations = req.Abbreviations
	}

	if err := s.store.Add(entity); err != nil {
		return nil, fmt.Errorf("creating canonical: %w", err)
	}
	s.resolver.Rebuild(s.store)
	removed := s.queue.Remove(group.ItemIDs)

	outcome := &ReviewOutcome{GroupKey: group.GroupKey, Canonical: canonical, Removed: removed}
	return outcome, s.finish(ctx, entities.AuditCreateCanonical, group, map[string]any{
		"canonical": canonical,
		"sport":     string(sport),
		"removed":   removed,
	})
}

// Ignore drains the group without touching reference data. The raw value
// comes back as a new group the next time it is encountered.
func (s *ReviewService) Ignore(ctx context.Context, groupKey string) (*ReviewOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	group, ok := s.queue.Group(groupKey)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGroupNotFound, groupKey)
	}
	removed := s.queue.Remove(group.ItemIDs)

	outcome := &ReviewOutcome{GroupKey: group.GroupKey, Removed: removed}
	return outcome, s.finish(ctx, entities.AuditIgnore, group, map[string]any{"removed": removed})
}

// finish records the action and persists the new state. The in-memory
// state is already fully applied when it runs.
func (s *ReviewService) finish(ctx context.Context, action string, group entities.GroupedQueueItem, details map[string]any) error {
	if s.audit != nil {
		details["raw_value"] = group.RawValue
		if err := s.audit.LogAction(ctx, action, group.GroupKey, details); err != nil {
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

// targetScope picks the kind and sport a review action applies to. Values
// recorded on the group win; the request fills in what the group lacks.
func targetScope(group entities.GroupedQueueItem, kind entities.EntityKind, sport entities.SportCode) (entities.EntityKind, entities.SportCode, error) {
	k := group.Kind
	if !k.IsResolvable() {
		k = kind
	}
	if !k.IsResolvable() {
		return "", "", fmt.Errorf("%w: entity type is required for group %s", ErrInvalidEntity, group.GroupKey)
	}

	sp := group.Sport
	if sp == "" {
		sp = entities.NormalizeSport(string(sport))
	}
	return k, sp, nil
}
