package services

import (
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/ersonp/betnorm/internal/domain/entities"
)

// QueueFilter restricts grouped queue listings. Zero values match all.
type QueueFilter struct {
	Kind  entities.EntityKind
	Sport entities.SportCode
}

func (f QueueFilter) matches(item *entities.UnresolvedItem) bool {
	if f.Kind != "" && item.Kind != f.Kind {
		return false
	}
	if f.Sport != "" && item.Sport != f.Sport {
		return false
	}
	return true
}

// UnresolvedQueue holds raw mentions that failed resolution until a
// reviewer maps, creates or ignores them. Items never expire.
type UnresolvedQueue struct {
	mu    sync.RWMutex
	items []entities.UnresolvedItem
}

// NewUnresolvedQueue creates an empty queue.
func NewUnresolvedQueue() *UnresolvedQueue {
	return &UnresolvedQueue{}
}

// Enqueue appends item, assigning an ID and timestamp when missing. It
// returns the stored item.
func (q *UnresolvedQueue) Enqueue(item entities.UnresolvedItem) entities.UnresolvedItem {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.EncounteredAt.IsZero() {
		item.EncounteredAt = timeNow()
	}
	if item.Kind == "" {
		item.Kind = entities.KindUnknown
	}
	item.Sport = entities.NormalizeSport(string(item.Sport))

	q.mu.Lock()
	q.items = append(q.items, item)
	q.mu.Unlock()

	return item
}

// Remove deletes the items with the given IDs and returns how many were
// removed. Unknown IDs are ignored.
func (q *UnresolvedQueue) Remove(ids []string) int {
	if len(ids) == 0 {
		return 0
	}
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	kept := q.items[:0]
	removed := 0
	for _, item := range q.items {
		if drop[item.ID] {
			removed++
			continue
		}
		kept = append(kept, item)
	}
	clear(q.items[len(kept):])
	q.items = kept
	return removed
}

// List returns a copy of the queue in insertion order.
func (q *UnresolvedQueue) List() []entities.UnresolvedItem {
	q.mu.RLock()
	defer q.mu.RUnlock()

	return append([]entities.UnresolvedItem(nil), q.items...)
}

// Count returns the number of queued items.
func (q *UnresolvedQueue) Count() int {
	q.mu.RLock()
	defer q.mu.RUnlock()

	return len(q.items)
}

// Contains reports whether an item for the same bet, kind and lookup key is
// already queued.
func (q *UnresolvedQueue) Contains(betID string, kind entities.EntityKind, raw string) bool {
	key := entities.ToLookupKey(raw)

	q.mu.RLock()
	defer q.mu.RUnlock()

	for i := range q.items {
		it := &q.items[i]
		if it.BetID == betID && it.Kind == kind && entities.ToLookupKey(it.RawValue) == key {
			return true
		}
	}
	return false
}

// Replace swaps the queue contents, used when loading from persistence.
func (q *UnresolvedQueue) Replace(items []entities.UnresolvedItem) {
	q.mu.Lock()
	q.items = append([]entities.UnresolvedItem(nil), items...)
	q.mu.Unlock()
}

// Groups merges queued items sharing kind, sport and lookup key. Groups are
// ordered most recently seen first.
func (q *UnresolvedQueue) Groups(filter QueueFilter) []entities.GroupedQueueItem {
	return GroupItems(q.List(), filter)
}

// Group returns the group with the given key.
func (q *UnresolvedQueue) Group(groupKey string) (entities.GroupedQueueItem, bool) {
	for _, g := range q.Groups(QueueFilter{}) {
		if g.GroupKey == groupKey {
			return g, true
		}
	}
	return entities.GroupedQueueItem{}, false
}

// GroupItems is the read-side grouping transform behind Groups.
func GroupItems(items []entities.UnresolvedItem, filter QueueFilter) []entities.GroupedQueueItem {
	byKey := make(map[string]*entities.GroupedQueueItem)
	var order []string

	for i := range items {
		item := &items[i]
		if !filter.matches(item) {
			continue
		}

		key := item.GroupKey()
		g, ok := byKey[key]
		if !ok {
			g = &entities.GroupedQueueItem{
				GroupKey: key,
				Kind:     item.Kind,
				Sport:    item.Sport,
				RawValue: strings.TrimSpace(item.RawValue),
			}
			byKey[key] = g
			order = append(order, key)
		}

		g.Count++
		g.ItemIDs = append(g.ItemIDs, item.ID)
		if item.EncounteredAt.After(g.LastSeenAt) {
			g.LastSeenAt = item.EncounteredAt
		}
		if len(g.SampleContexts) < entities.MaxSampleContexts && !hasSample(g.SampleContexts, item.Book, item.Market) {
			g.SampleContexts = append(g.SampleContexts, entities.SampleContext{
				Book:   item.Book,
				Market: item.Market,
				BetID:  item.BetID,
			})
		}
	}

	out := make([]entities.GroupedQueueItem, 0, len(order))
	for _, key := range order {
		out = append(out, *byKey[key])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].LastSeenAt.Equal(out[j].LastSeenAt) {
			return out[i].LastSeenAt.After(out[j].LastSeenAt)
		}
		return out[i].GroupKey < out[j].GroupKey
	})
	return out
}

func hasSample(samples []entities.SampleContext, book, market string) bool {
	for _, s := range samples {
		if s.Book == book && s.Market == market {
			return true
		}
	}
	return false
}
