package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/ersonp/betnorm/internal/domain/entities"
	"github.com/ersonp/betnorm/internal/domain/services"
)

// QueueHandler exposes the unresolved queue and the review actions.
type QueueHandler struct {
	queue  *services.UnresolvedQueue
	review *services.ReviewService
	saver  services.QueueSaver
}

// NewQueueHandler creates a new queue handler. saver may be nil.
func NewQueueHandler(queue *services.UnresolvedQueue, review *services.ReviewService, saver services.QueueSaver) *QueueHandler {
	return &QueueHandler{
		queue:  queue,
		review: review,
		saver:  saver,
	}
}

// EnqueueRequest describes a raw value a caller could not resolve.
type EnqueueRequest struct {
	RawValue string `json:"raw_value"`
	Kind     string `json:"entity_type"`
	Sport    string `json:"sport,omitempty"`
	Book     string `json:"book,omitempty"`
	BetID    string `json:"bet_id,omitempty"`
	Market   string `json:"market,omitempty"`
}

// Groups lists queue groups matching the kind and sport filters. Empty
// filters match everything.
func (h *QueueHandler) Groups(kind, sport string) ([]entities.GroupedQueueItem, error) {
	filter, err := parseFilter(kind, sport)
	if err != nil {
		return nil, err
	}
	return h.review.Groups(filter), nil
}

// Items lists raw queue items in insertion order.
func (h *QueueHandler) Items() []entities.UnresolvedItem {
	return h.queue.List()
}

// Count returns the number of raw queue items.
func (h *QueueHandler) Count() int {
	return h.queue.Count()
}

// Enqueue adds one item and persists the queue.
func (h *QueueHandler) Enqueue(ctx context.Context, req EnqueueRequest) (*entities.UnresolvedItem, error) {
	if strings.TrimSpace(req.RawValue) == "" {
		return nil, fmt.Errorf("%w: raw_value is required", ErrInvalidRequest)
	}
	kind, ok := entities.ParseKind(req.Kind)
	if !ok {
		return nil, fmt.Errorf("%w: unknown entity type %q", ErrInvalidRequest, req.Kind)
	}

	item := h.queue.Enqueue(entities.UnresolvedItem{
		RawValue: req.RawValue,
		Kind:     kind,
		Sport:    entities.NormalizeSport(req.Sport),
		Book:     req.Book,
		BetID:    req.BetID,
		Market:   req.Market,
	})

	if h.saver != nil {
		if err := h.saver.SaveQueue(ctx); err != nil {
			return &item, fmt.Errorf("saving queue: %w", err)
		}
	}
	return &item, nil
}

// Map maps a group onto an existing canonical.
func (h *QueueHandler) Map(ctx context.Context, req services.MapRequest) (*services.ReviewOutcome, error) {
	if strings.TrimSpace(req.GroupKey) == "" || strings.TrimSpace(req.Canonical) == "" {
		return nil, fmt.Errorf("%w: group_key and canonical are required", ErrInvalidRequest)
	}
	return h.review.MapToExisting(ctx, req)
}

// Create registers a new canonical for a group.
func (h *QueueHandler) Create(ctx context.Context, req services.CreateRequest) (*services.ReviewOutcome, error) {
	if strings.TrimSpace(req.GroupKey) == "" {
		return nil, fmt.Errorf("%w: group_key is required", ErrInvalidRequest)
	}
	return h.review.CreateCanonical(ctx, req)
}

// Ignore drops a group without touching reference data.
func (h *QueueHandler) Ignore(ctx context.Context, groupKey string) (*services.ReviewOutcome, error) {
	if strings.TrimSpace(groupKey) == "" {
		return nil, fmt.Errorf("%w: group_key is required", ErrInvalidRequest)
	}
	return h.review.Ignore(ctx, groupKey)
}

func parseFilter(kind, sport string) (services.QueueFilter, error) {
	filter := services.QueueFilter{Sport: entities.NormalizeSport(sport)}
	if strings.TrimSpace(kind) == "" {
		return filter, nil
	}
	k, ok := entities.ParseKind(kind)
	if !ok {
		return filter, fmt.Errorf("%w: unknown entity type %q", ErrInvalidRequest, kind)
	}
	filter.Kind = k
	return filter, nil
}
