// Package entities contains core domain data structures.
package entities

import (
	"strings"
	"time"
)

// SportCode identifies the sport an entity belongs to (e.g. "NBA").
// The empty code means "no sport context".
type SportCode string

// Known sport codes. Any non-empty code is accepted; these are the ones
// shipped with default reference data.
const (
	SportNBA SportCode = "NBA"
	SportNFL SportCode = "NFL"
	SportMLB SportCode = "MLB"
	SportNHL SportCode = "NHL"
)

// UnknownSport is the label used in grouping keys when a mention has no sport.
const UnknownSport = "Unknown"

// NormalizeSport upper-cases and trims a sport code.
func NormalizeSport(s string) SportCode {
	return SportCode(strings.ToUpper(strings.TrimSpace(s)))
}

// EntityKind is the category of a canonical entity or raw mention.
type EntityKind string

const (
	KindTeam    EntityKind = "team"
	KindPlayer  EntityKind = "player"
	KindStat    EntityKind = "stat"
	KindUnknown EntityKind = "unknown"
)

// ResolvableKinds are the kinds that have reference data behind them.
var ResolvableKinds = []EntityKind{KindTeam, KindPlayer, KindStat}

// ParseKind maps user input to an EntityKind. "bettype" and "bet_type" are
// accepted as spellings of stat.
func ParseKind(s string) (EntityKind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "team", "teams":
		return KindTeam, true
	case "player", "players":
		return KindPlayer, true
	case "stat", "stats", "bettype", "bet_type", "bettypes", "bet_types":
		return KindStat, true
	case "unknown", "":
		return KindUnknown, true
	default:
		return "", false
	}
}

// IsResolvable reports whether the kind has reference data.
func (k EntityKind) IsResolvable() bool {
	return k == KindTeam || k == KindPlayer || k == KindStat
}

// CanonicalEntity is a team, player or bet type together with the alternate
// spellings known to refer to it.
type CanonicalEntity struct {
	Kind          EntityKind `json:"kind" yaml:"kind"`
	Canonical     string     `json:"canonical" yaml:"canonical"`
	Sport         SportCode  `json:"sport" yaml:"sport"`
	Aliases       []string   `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	Abbreviations []string   `json:"abbreviations,omitempty" yaml:"abbreviations,omitempty"` // teams only
	Team          string     `json:"team,omitempty" yaml:"team,omitempty"`                   // players only
	Description   string     `json:"description,omitempty" yaml:"description,omitempty"`     // bet types only
	Disabled      bool       `json:"disabled,omitempty" yaml:"disabled,omitempty"`
	CreatedAt     time.Time  `json:"created_at,omitempty" yaml:"-"`
}

// Key identifies an entity inside its collection. Teams are sport-exclusive
// by construction so their key ignores the sport.
func (e *CanonicalEntity) Key() EntityKey {
	return KeyFor(e.Kind, e.Canonical, e.Sport)
}

// Clone returns a deep copy.
func (e *CanonicalEntity) Clone() CanonicalEntity {
	c := *e
	c.Aliases = append([]string(nil), e.Aliases...)
	c.Abbreviations = append([]string(nil), e.Abbreviations...)
	return c
}

// HasAlias reports whether alias (compared by lookup key) is already the
// canonical name, an alias or an abbreviation of e.
func (e *CanonicalEntity) HasAlias(alias string) bool {
	key := ToLookupKey(alias)
	if key == "" {
		return false
	}
	if ToLookupKey(e.Canonical) == key {
		return true
	}
	for _, a := range e.Aliases {
		if ToLookupKey(a) == key {
			return true
		}
	}
	for _, a := range e.Abbreviations {
		if ToLookupKey(a) == key {
			return true
		}
	}
	return false
}

// EntityKey is the uniqueness key of a CanonicalEntity within the store.
type EntityKey struct {
	Kind      EntityKind
	Canonical string
	Sport     SportCode
}

// KeyFor builds the EntityKey for the given fields. Canonical names are
// compared by lookup key.
func KeyFor(kind EntityKind, canonical string, sport SportCode) EntityKey {
	k := EntityKey{Kind: kind, Canonical: ToLookupKey(canonical)}
	if kind != KindTeam {
		k.Sport = sport
	}
	return k
}

func (k EntityKey) String() string {
	if k.Sport == "" {
		return string(k.Kind) + ":" + k.Canonical
	}
	return string(k.Kind) + ":" + k.Canonical + "@" + string(k.Sport)
}
