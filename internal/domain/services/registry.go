package services

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ersonp/betnorm/internal/domain/entities"
)

// minCompoundRemainder is the shortest nickname remainder the compound
// heuristic accepts, so that "PHO S" cannot match every team containing "s".
const minCompoundRemainder = 3

// NormalizeContext narrows a lookup. Both fields are optional.
type NormalizeContext struct {
	Sport entities.SportCode `json:"sport,omitempty"`
	Team  string             `json:"team,omitempty"` // narrows player collisions
}

// NormalizeOutcome is the answer of the NormalizationRegistry for one raw
// value. Matched is true only when exactly one canonical was found; on a
// collision Canonical is the trimmed input and Collision lists candidates.
type NormalizeOutcome struct {
	Canonical string
	Matched   bool
	Sport     entities.SportCode
	Collision *entities.Collision
	ViaAlias  bool // matched through an alias, abbreviation or the compound heuristic
}

// kindIndex holds the enabled entities of one kind and their lookup keys.
type kindIndex struct {
	entities []entities.CanonicalEntity
	byKey    map[string][]int
}

// compoundTeam holds the tokens the compound heuristic needs for one team.
type compoundTeam struct {
	idx           int
	abbreviations map[string]bool
	names         []string // lookup keys of canonical and aliases
}

// NormalizationRegistry is an immutable set of lookup maps derived from a
// reference data Snapshot. Build a new one with BuildRegistry after every
// reference data mutation; an old registry keeps answering from the data it
// was built from.
type NormalizationRegistry struct {
	indexes  map[entities.EntityKind]*kindIndex
	compound []compoundTeam
	builtAt  time.Time
}

// BuildRegistry derives lookup maps from snap. Disabled entities are left out.
func BuildRegistry(snap Snapshot) *NormalizationRegistry {
	r := &NormalizationRegistry{
		indexes: make(map[entities.EntityKind]*kindIndex, len(entities.ResolvableKinds)),
		builtAt: timeNow(),
	}

	for _, kind := range entities.ResolvableKinds {
		idx := &kindIndex{byKey: make(map[string][]int)}
		for _, e := range snap.ForKind(kind) {
			if e.Disabled {
				continue
			}
			pos := len(idx.entities)
			idx.entities = append(idx.entities, e)
			for _, name := range namesOf(&e) {
				idx.add(entities.ToLookupKey(name), pos)
			}
		}
		r.indexes[kind] = idx
	}

	teams := r.indexes[entities.KindTeam]
	for pos := range teams.entities {
		t := &teams.entities[pos]
		if len(t.Abbreviations) == 0 {
			continue
		}
		ct := compoundTeam{idx: pos, abbreviations: make(map[string]bool, len(t.Abbreviations))}
		for _, a := range t.Abbreviations {
			ct.abbreviations[entities.ToLookupKey(a)] = true
		}
		ct.names = append(ct.names, entities.ToLookupKey(t.Canonical))
		for _, a := range t.Aliases {
			ct.names = append(ct.names, entities.ToLookupKey(a))
		}
		r.compound = append(r.compound, ct)
	}

	return r
}

func (k *kindIndex) add(key string, pos int) {
	if key == "" {
		return
	}
	list := k.byKey[key]
	if len(list) > 0 && list[len(list)-1] == pos {
		return
	}
	k.byKey[key] = append(list, pos)
}

func namesOf(e *entities.CanonicalEntity) []string {
	names := make([]string, 0, 1+len(e.Aliases)+len(e.Abbreviations))
	names = append(names, e.Canonical)
	names = append(names, e.Aliases...)
	names = append(names, e.Abbreviations...)
	return names
}

// BuiltAt returns when the registry was built.
func (r *NormalizationRegistry) BuiltAt() time.Time {
	return r.builtAt
}

// Size returns the number of enabled entities of kind.
func (r *NormalizationRegistry) Size(kind entities.EntityKind) int {
	if idx, ok := r.indexes[kind]; ok {
		return len(idx.entities)
	}
	return 0
}

// Normalize maps raw to a canonical name of the given kind.
func (r *NormalizationRegistry) Normalize(kind entities.EntityKind, raw string, ctx NormalizeContext) NormalizeOutcome {
	trimmed := strings.TrimSpace(raw)
	unmatched := NormalizeOutcome{Canonical: trimmed}

	key := entities.ToLookupKey(raw)
	idx, ok := r.indexes[kind]
	if key == "" || !ok {
		return unmatched
	}

	matches := idx.exactMatches(key, ctx.Sport)
	if kind == entities.KindPlayer && ctx.Team != "" && countCanonicals(idx, matches) > 1 {
		if narrowed := r.narrowByTeam(idx, matches, ctx); len(narrowed) > 0 {
			matches = narrowed
		}
	}

	switch canonicals := distinctCanonicals(idx, matches); len(canonicals) {
	case 0:
	case 1:
		e := &idx.entities[matches[0]]
		return NormalizeOutcome{
			Canonical: e.Canonical,
			Matched:   true,
			Sport:     e.Sport,
			ViaAlias:  entities.ToLookupKey(e.Canonical) != key,
		}
	default:
		unmatched.Collision = &entities.Collision{Input: trimmed, Candidates: canonicals}
		return unmatched
	}

	if kind == entities.KindTeam {
		if pos, ok := r.matchCompound(key, ctx.Sport); ok {
			e := &idx.entities[pos]
			return NormalizeOutcome{Canonical: e.Canonical, Matched: true, Sport: e.Sport, ViaAlias: true}
		}
	}

	return unmatched
}

// NormalizeTeamForSport resolves a team strictly inside sport: a team of a
// different sport never matches, and a collision is narrowed to the teams of
// that sport.
func (r *NormalizationRegistry) NormalizeTeamForSport(raw string, sport entities.SportCode) NormalizeOutcome {
	return r.Normalize(entities.KindTeam, raw, NormalizeContext{Sport: sport})
}

// IsKnown reports whether raw exactly matches a name, alias or abbreviation
// of at least one enabled entity of kind, in any sport.
func (r *NormalizationRegistry) IsKnown(kind entities.EntityKind, raw string) bool {
	return r.IsKnownForSport(kind, raw, "")
}

// IsKnownForSport is IsKnown restricted to one sport. An empty sport matches
// every sport.
func (r *NormalizationRegistry) IsKnownForSport(kind entities.EntityKind, raw string, sport entities.SportCode) bool {
	idx, ok := r.indexes[kind]
	if !ok {
		return false
	}
	return len(idx.exactMatches(entities.ToLookupKey(raw), sport)) > 0
}

// Sports lists the sports of every enabled entity of kind that raw matches
// exactly, in store order without repeats.
func (r *NormalizationRegistry) Sports(kind entities.EntityKind, raw string) []entities.SportCode {
	idx, ok := r.indexes[kind]
	if !ok {
		return nil
	}
	var out []entities.SportCode
	seen := make(map[entities.SportCode]bool)
	for _, pos := range idx.exactMatches(entities.ToLookupKey(raw), "") {
		s := idx.entities[pos].Sport
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// Lookup returns a copy of the enabled entity of kind with the given
// canonical name in sport. An empty sport accepts the first match.
func (r *NormalizationRegistry) Lookup(kind entities.EntityKind, canonical string, sport entities.SportCode) (entities.CanonicalEntity, bool) {
	idx, ok := r.indexes[kind]
	if !ok {
		return entities.CanonicalEntity{}, false
	}
	key := entities.ToLookupKey(canonical)
	for _, pos := range idx.byKey[key] {
		e := &idx.entities[pos]
		if entities.ToLookupKey(e.Canonical) != key {
			continue
		}
		if sport == "" || e.Sport == sport {
			return e.Clone(), true
		}
	}
	return entities.CanonicalEntity{}, false
}

func (k *kindIndex) exactMatches(key string, sport entities.SportCode) []int {
	all := k.byKey[key]
	if sport == "" {
		return all
	}
	var out []int
	for _, pos := range all {
		if k.entities[pos].Sport == sport {
			out = append(out, pos)
		}
	}
	return out
}

// narrowByTeam keeps the players whose team affiliation is the team named in
// ctx. Team names are compared through the team index, so "LAL" and
// "Los Angeles Lakers" are the same team.
func (r *NormalizationRegistry) narrowByTeam(idx *kindIndex, matches []int, ctx NormalizeContext) []int {
	want := r.teamIdentity(ctx.Team, ctx.Sport)
	var out []int
	for _, pos := range matches {
		p := &idx.entities[pos]
		if p.Team != "" && r.teamIdentity(p.Team, p.Sport) == want {
			out = append(out, pos)
		}
	}
	return out
}

func (r *NormalizationRegistry) teamIdentity(name string, sport entities.SportCode) string {
	teams := r.indexes[entities.KindTeam]
	key := entities.ToLookupKey(name)
	if matches := teams.exactMatches(key, sport); len(matches) > 0 && countCanonicals(teams, matches) == 1 {
		return entities.ToLookupKey(teams.entities[matches[0]].Canonical)
	}
	return key
}

// matchCompound implements the abbreviation-plus-nickname heuristic: one
// token of key is an abbreviation of a team and the remaining tokens are a
// substring of (or contain) one of the same team's names. The first team in
// store order wins.
func (r *NormalizationRegistry) matchCompound(key string, sport entities.SportCode) (int, bool) {
	tokens := strings.Fields(key)
	if len(tokens) < 2 {
		return 0, false
	}
	teams := r.indexes[entities.KindTeam]

	for _, ct := range r.compound {
		if sport != "" && teams.entities[ct.idx].Sport != sport {
			continue
		}
		for i, tok := range tokens {
			if !ct.abbreviations[tok] {
				continue
			}
			rest := make([]string, 0, len(tokens)-1)
			rest = append(rest, tokens[:i]...)
			rest = append(rest, tokens[i+1:]...)
			remainder := strings.Join(rest, " ")
			if utf8.RuneCountInString(remainder) < minCompoundRemainder {
				continue
			}
			for _, name := range ct.names {
				if strings.Contains(name, remainder) || strings.Contains(remainder, name) {
					return ct.idx, true
				}
			}
		}
	}
	return 0, false
}

// distinctCanonicals lists the distinct entities behind matches. Entities
// are told apart by their store key, so same-named players of different
// sports stay separate candidates.
func distinctCanonicals(idx *kindIndex, matches []int) []string {
	var out []string
	seen := make(map[entities.EntityKey]bool, len(matches))
	for _, pos := range matches {
		e := &idx.entities[pos]
		key := e.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, e.Canonical)
	}
	return out
}

func countCanonicals(idx *kindIndex, matches []int) int {
	return len(distinctCanonicals(idx, matches))
}
