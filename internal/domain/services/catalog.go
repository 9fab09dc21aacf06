package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ersonp/betnorm/internal/domain/entities"
	"github.com/ersonp/betnorm/internal/domain/ports"
)

// collectionKeys maps each resolvable kind to its persistence key.
var collectionKeys = map[entities.EntityKind]string{
	entities.KindTeam:   ports.KeyTeams,
	entities.KindPlayer: ports.KeyPlayers,
	entities.KindStat:   ports.KeyBetTypes,
}

// CollectionKey returns the persistence key of kind's collection.
func CollectionKey(kind entities.EntityKind) string {
	return collectionKeys[kind]
}

// SkippedRecord describes a persisted record dropped during Load.
type SkippedRecord struct {
	Key    string `json:"key"`
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// LoadReport summarizes a Load.
type LoadReport struct {
	Loaded     map[entities.EntityKind]int `json:"loaded"`
	QueueItems int                         `json:"queue_items"`
	Skipped    []SkippedRecord             `json:"skipped,omitempty"`
}

// Catalog moves reference data and the unresolved queue between memory and
// a CollectionStore. Invalid records are skipped with a warning; they never
// abort a load.
type Catalog struct {
	store  ports.CollectionStore
	refs   *ReferenceStore
	queue  *UnresolvedQueue
	logger *slog.Logger
}

// NewCatalog creates a Catalog. A nil logger uses slog.Default().
func NewCatalog(store ports.CollectionStore, refs *ReferenceStore, queue *UnresolvedQueue, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.Default()
	}
	return &Catalog{
		store:  store,
		refs:   refs,
		queue:  queue,
		logger: logger,
	}
}

// Load replaces the in-memory reference data and queue with the persisted
// collections. Callers must rebuild the Resolver afterwards.
func (c *Catalog) Load(ctx context.Context) (*LoadReport, error) {
	report := &LoadReport{Loaded: make(map[entities.EntityKind]int)}

	for _, kind := range entities.ResolvableKinds {
		key := collectionKeys[kind]
		records, err := c.readArray(ctx, key)
		if err != nil {
			return nil, err
		}

		valid := make([]entities.CanonicalEntity, 0, len(records))
		for i, raw := range records {
			e, err := DecodeEntityData(kind, raw)
			if err != nil {
				c.skip(report, key, i, err)
				continue
			}
			valid = append(valid, e)
		}

		for _, err := range c.refs.Replace(kind, valid) {
			c.skip(report, key, -1, err)
		}
		report.Loaded[kind] = c.refs.Count(kind)
	}

	records, err := c.readArray(ctx, ports.KeyUnresolvedQueue)
	if err != nil {
		return nil, err
	}
	items := make([]entities.UnresolvedItem, 0, len(records))
	for i, raw := range records {
		item, err := DecodeUnresolvedItem(raw)
		if err != nil {
			c.skip(report, ports.KeyUnresolvedQueue, i, err)
			continue
		}
		items = append(items, item)
	}
	c.queue.Replace(items)
	report.QueueItems = len(items)

	return report, nil
}

// Save writes every collection back to the store.
func (c *Catalog) Save(ctx context.Context) error {
	for _, kind := range entities.ResolvableKinds {
		if err := c.write(ctx, collectionKeys[kind], c.refs.List(kind)); err != nil {
			return err
		}
	}
	return c.write(ctx, ports.KeyUnresolvedQueue, c.queue.List())
}

// SaveQueue writes only the unresolved queue.
func (c *Catalog) SaveQueue(ctx context.Context) error {
	return c.write(ctx, ports.KeyUnresolvedQueue, c.queue.List())
}

// SeedDefaults adds the default reference data when no reference data has
// been stored yet. It returns the number of entities seeded.
func (c *Catalog) SeedDefaults(ctx context.Context) (int, error) {
	for _, kind := range entities.ResolvableKinds {
		data, err := c.store.Get(ctx, collectionKeys[kind])
		if err != nil {
			return 0, fmt.Errorf("checking %s: %w", collectionKeys[kind], err)
		}
		if data != nil {
			return 0, nil
		}
	}

	seeded := 0
	for _, e := range entities.DefaultReferenceData() {
		if err := c.refs.Add(e); err != nil {
			return seeded, fmt.Errorf("seeding %s: %w", e.Canonical, err)
		}
		seeded++
	}
	if err := c.Save(ctx); err != nil {
		return seeded, err
	}
	return seeded, nil
}

func (c *Catalog) readArray(ctx context.Context, key string) ([]json.RawMessage, error) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		c.logger.Warn("collection is not a JSON array, ignoring it", "key", key, "error", err)
		return nil, nil
	}
	return records, nil
}

func (c *Catalog) write(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	if err := c.store.Set(ctx, key, data); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

func (c *Catalog) skip(report *LoadReport, key string, index int, err error) {
	c.logger.Warn("skipping invalid record", "key", key, "index", index, "error", err)
	report.Skipped = append(report.Skipped, SkippedRecord{Key: key, Index: index, Reason: err.Error()})
}
