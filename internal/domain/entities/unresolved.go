package entities

import "time"

// UnresolvedItem is a raw mention that failed resolution and waits for a
// reviewer. It is only removed by an explicit review action.
type UnresolvedItem struct {
	ID            string     `json:"id"`
	RawValue      string     `json:"raw_value"` // original casing
	Kind          EntityKind `json:"entity_type"`
	Sport         SportCode  `json:"sport,omitempty"`
	Book          string     `json:"book"`
	BetID         string     `json:"bet_id"`
	Market        string     `json:"market,omitempty"`
	EncounteredAt time.Time  `json:"encountered_at"`
}

// GroupKey returns the key under which the item is merged for review:
// kind::sport::lookupKey, with "Unknown" standing in for a missing sport.
func (i *UnresolvedItem) GroupKey() string {
	return GroupKeyFor(i.Kind, i.Sport, i.RawValue)
}

// GroupKeyFor builds a review grouping key.
func GroupKeyFor(kind EntityKind, sport SportCode, raw string) string {
	s := string(sport)
	if s == "" {
		s = UnknownSport
	}
	return string(kind) + "::" + s + "::" + ToLookupKey(raw)
}

// MaxSampleContexts bounds GroupedQueueItem.SampleContexts.
const MaxSampleContexts = 3

// SampleContext shows a reviewer where a raw value was seen.
type SampleContext struct {
	Book   string `json:"book"`
	Market string `json:"market,omitempty"`
	BetID  string `json:"bet_id"`
}

// GroupedQueueItem merges unresolved items that share a grouping key. It is
// recomputed on every read and never stored.
type GroupedQueueItem struct {
	GroupKey       string          `json:"group_key"`
	Kind           EntityKind      `json:"entity_type"`
	Sport          SportCode       `json:"sport,omitempty"`
	RawValue       string          `json:"raw_value"` // first-seen casing
	Count          int             `json:"count"`
	LastSeenAt     time.Time       `json:"last_seen_at"`
	SampleContexts []SampleContext `json:"sample_contexts"`
	ItemIDs        []string        `json:"item_ids"`

	// Set by review tooling when the raw value currently collides.
	Ambiguous  bool     `json:"ambiguous,omitempty"`
	Candidates []string `json:"candidates,omitempty"`
}
