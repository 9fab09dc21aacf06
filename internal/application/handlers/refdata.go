package handlers

import (
	"context"
	"fmt"

	"github.com/ersonp/betnorm/internal/domain/entities"
	"github.com/ersonp/betnorm/internal/domain/services"
)

// RefDataHandler handles reference data curation.
type RefDataHandler struct {
	service *services.RefDataService
}

// NewRefDataHandler creates a new reference data handler.
func NewRefDataHandler(service *services.RefDataService) *RefDataHandler {
	return &RefDataHandler{
		service: service,
	}
}

// List returns the entities of kind, optionally narrowed to one sport.
func (h *RefDataHandler) List(kind, sport string) ([]entities.CanonicalEntity, error) {
	k, err := resolvableKind(kind)
	if err != nil {
		return nil, err
	}
	return h.service.List(k, entities.NormalizeSport(sport)), nil
}

// Add registers entity under kind. The kind argument wins over entity.Kind.
func (h *RefDataHandler) Add(ctx context.Context, kind string, entity entities.CanonicalEntity) (*entities.CanonicalEntity, error) {
	k, err := resolvableKind(kind)
	if err != nil {
		return nil, err
	}
	entity.Kind = k
	if err := h.service.Add(ctx, entity); err != nil {
		return nil, err
	}
	return &entity, nil
}

// Disable hides an entity from resolution without deleting it.
func (h *RefDataHandler) Disable(ctx context.Context, kind, canonical, sport string) error {
	k, err := resolvableKind(kind)
	if err != nil {
		return err
	}
	return h.service.Disable(ctx, k, canonical, entities.NormalizeSport(sport))
}

// Enable reverses Disable.
func (h *RefDataHandler) Enable(ctx context.Context, kind, canonical, sport string) error {
	k, err := resolvableKind(kind)
	if err != nil {
		return err
	}
	return h.service.Enable(ctx, k, canonical, entities.NormalizeSport(sport))
}

// Remove deletes an entity.
func (h *RefDataHandler) Remove(ctx context.Context, kind, canonical, sport string) error {
	k, err := resolvableKind(kind)
	if err != nil {
		return err
	}
	return h.service.Remove(ctx, k, canonical, entities.NormalizeSport(sport))
}

func resolvableKind(kind string) (entities.EntityKind, error) {
	k, ok := entities.ParseKind(kind)
	if !ok || !k.IsResolvable() {
		return "", fmt.Errorf("%w: entity type must be team, player or stat, got %q", ErrInvalidRequest, kind)
	}
	return k, nil
}
