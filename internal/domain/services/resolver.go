package services

import (
	"strings"
	"sync/atomic"

	"github.com/ersonp/betnorm/internal/domain/entities"
)

// AmbiguityPolicy decides which aggregation key an ambiguous value gets.
type AmbiguityPolicy string

const (
	// PolicyUnresolvedBucket sends ambiguous values to the unresolved bucket.
	PolicyUnresolvedBucket AmbiguityPolicy = "unresolved_bucket"
	// PolicyProvisionalFirst aggregates ambiguous values under their first
	// collision candidate. Results still report status ambiguous.
	PolicyProvisionalFirst AmbiguityPolicy = "provisional_first"
)

// ParseAmbiguityPolicy validates a policy name. Empty selects the default.
func ParseAmbiguityPolicy(s string) (AmbiguityPolicy, bool) {
	switch AmbiguityPolicy(strings.TrimSpace(s)) {
	case "", PolicyUnresolvedBucket:
		return PolicyUnresolvedBucket, true
	case PolicyProvisionalFirst:
		return PolicyProvisionalFirst, true
	default:
		return "", false
	}
}

// Resolver is the single entry point for turning raw names into canonical
// identities and aggregation keys. Every read is side-effect free; the only
// mutation is Rebuild, which swaps in a fresh registry.
type Resolver struct {
	current atomic.Pointer[NormalizationRegistry]
	policy  AmbiguityPolicy
}

// NewResolver creates a Resolver over an initial registry.
func NewResolver(registry *NormalizationRegistry, policy AmbiguityPolicy) *Resolver {
	if registry == nil {
		registry = BuildRegistry(Snapshot{})
	}
	if policy == "" {
		policy = PolicyUnresolvedBucket
	}
	r := &Resolver{policy: policy}
	r.current.Store(registry)
	return r
}

// NewResolverFromStore builds a registry from store and wraps it.
func NewResolverFromStore(store *ReferenceStore, policy AmbiguityPolicy) *Resolver {
	return NewResolver(BuildRegistry(store.Snapshot()), policy)
}

// Rebuild rebuilds the registry from store and swaps it in. It must be
// called after every reference data mutation.
func (r *Resolver) Rebuild(store *ReferenceStore) {
	r.current.Store(BuildRegistry(store.Snapshot()))
}

// Registry returns the registry currently in use.
func (r *Resolver) Registry() *NormalizationRegistry {
	return r.current.Load()
}

// Policy returns the ambiguity policy used by the aggregation keys.
func (r *Resolver) Policy() AmbiguityPolicy {
	return r.policy
}

// ResolveTeam resolves a team name.
func (r *Resolver) ResolveTeam(raw string, ctx NormalizeContext) entities.ResolverResult {
	return r.Resolve(entities.KindTeam, raw, ctx)
}

// ResolvePlayer resolves a player name. ctx.Team narrows shared nicknames.
func (r *Resolver) ResolvePlayer(raw string, ctx NormalizeContext) entities.ResolverResult {
	return r.Resolve(entities.KindPlayer, raw, ctx)
}

// ResolveBetType resolves a stat or market type.
func (r *Resolver) ResolveBetType(raw string, ctx NormalizeContext) entities.ResolverResult {
	return r.Resolve(entities.KindStat, raw, ctx)
}

// Resolve resolves raw as an entity of kind. Empty input and unknown kinds
// are unresolved, never errors.
func (r *Resolver) Resolve(kind entities.EntityKind, raw string, ctx NormalizeContext) entities.ResolverResult {
	if strings.TrimSpace(raw) == "" || !kind.IsResolvable() {
		return entities.ResolverResult{Status: entities.StatusUnresolved, Canonical: raw, Raw: raw}
	}

	out := r.current.Load().Normalize(kind, raw, ctx)
	result := entities.ResolverResult{Canonical: out.Canonical, Raw: raw}
	switch {
	case out.Collision != nil && len(out.Collision.Candidates) > 1:
		result.Status = entities.StatusAmbiguous
		result.Collision = out.Collision
	case out.Matched:
		result.Status = entities.StatusResolved
	default:
		result.Status = entities.StatusUnresolved
	}
	return result
}

// Status returns only the resolution status, for badging entries in review
// tooling.
func (r *Resolver) Status(kind entities.EntityKind, raw string, ctx NormalizeContext) entities.ResolutionStatus {
	return r.Resolve(kind, raw, ctx).Status
}

// TeamAggregationKey returns the bucket a team mention aggregates under.
func (r *Resolver) TeamAggregationKey(raw, unresolvedBucket string, ctx NormalizeContext) string {
	return r.AggregationKey(entities.KindTeam, raw, unresolvedBucket, ctx)
}

// PlayerAggregationKey returns the bucket a player mention aggregates under.
func (r *Resolver) PlayerAggregationKey(raw, unresolvedBucket string, ctx NormalizeContext) string {
	return r.AggregationKey(entities.KindPlayer, raw, unresolvedBucket, ctx)
}

// BetTypeAggregationKey returns the bucket a stat mention aggregates under.
func (r *Resolver) BetTypeAggregationKey(raw, unresolvedBucket string, ctx NormalizeContext) string {
	return r.AggregationKey(entities.KindStat, raw, unresolvedBucket, ctx)
}

// AggregationKey returns the canonical name when raw resolves, otherwise
// unresolvedBucket (entities.UnresolvedBucket when empty). Ambiguous values
// follow the resolver's AmbiguityPolicy. It never writes anything, so it is
// safe to call once per displayed row.
func (r *Resolver) AggregationKey(kind entities.EntityKind, raw, unresolvedBucket string, ctx NormalizeContext) string {
	return r.AggregationKeyWithPolicy(kind, raw, unresolvedBucket, ctx, r.policy)
}

// AggregationKeyWithPolicy is AggregationKey with an explicit ambiguity
// policy.
func (r *Resolver) AggregationKeyWithPolicy(kind entities.EntityKind, raw, unresolvedBucket string, ctx NormalizeContext, policy AmbiguityPolicy) string {
	if unresolvedBucket == "" {
		unresolvedBucket = entities.UnresolvedBucket
	}

	result := r.Resolve(kind, raw, ctx)
	switch result.Status {
	case entities.StatusResolved:
		return result.Canonical
	case entities.StatusAmbiguous:
		if policy == PolicyProvisionalFirst {
			if name, ok := result.ProvisionalCanonical(); ok {
				return name
			}
		}
	}
	return unresolvedBucket
}

// Classify decides whether an untyped mention is a team or a player. Known
// teams win; anything else non-empty is assumed to be a player. Empty input
// is unknown.
func (r *Resolver) Classify(raw string, ctx NormalizeContext) entities.EntityKind {
	if strings.TrimSpace(raw) == "" {
		return entities.KindUnknown
	}
	if r.Resolve(entities.KindTeam, raw, NormalizeContext{Sport: ctx.Sport}).Status != entities.StatusUnresolved {
		return entities.KindTeam
	}
	return entities.KindPlayer
}
