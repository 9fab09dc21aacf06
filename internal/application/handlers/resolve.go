package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ersonp/betnorm/internal/domain/entities"
	"github.com/ersonp/betnorm/internal/domain/services"
)

// ErrInvalidRequest is returned for malformed handler input.
var ErrInvalidRequest = errors.New("invalid request")

// ResolveHandler resolves single raw values for the CLI and HTTP API.
type ResolveHandler struct {
	resolver *services.Resolver
	bucket   string
}

// NewResolveHandler creates a new resolve handler. An empty bucket means
// entities.UnresolvedBucket.
func NewResolveHandler(resolver *services.Resolver, bucket string) *ResolveHandler {
	if bucket == "" {
		bucket = entities.UnresolvedBucket
	}
	return &ResolveHandler{
		resolver: resolver,
		bucket:   bucket,
	}
}

// ResolveRequest names the value to resolve. Kind "auto" (or empty)
// classifies the value first.
type ResolveRequest struct {
	Kind  string
	Raw   string
	Sport string
	Team  string
}

// ResolveResult contains the resolver verdict for one raw value.
type ResolveResult struct {
	Kind           entities.EntityKind       `json:"entity_type"`
	Raw            string                    `json:"raw"`
	Status         entities.ResolutionStatus `json:"status"`
	Canonical      string                    `json:"canonical"`
	Candidates     []string                  `json:"candidates,omitempty"`
	AggregationKey string                    `json:"aggregation_key"`
	Classified     bool                      `json:"classified,omitempty"`
}

// Handle resolves req against the current registry.
func (h *ResolveHandler) Handle(req ResolveRequest) (*ResolveResult, error) {
	nctx := services.NormalizeContext{
		Sport: entities.NormalizeSport(req.Sport),
		Team:  strings.TrimSpace(req.Team),
	}

	classified := false
	var kind entities.EntityKind
	if strings.EqualFold(strings.TrimSpace(req.Kind), "auto") {
		kind = entities.KindUnknown
	} else {
		k, ok := entities.ParseKind(req.Kind)
		if !ok {
			return nil, fmt.Errorf("%w: unknown entity type %q", ErrInvalidRequest, req.Kind)
		}
		kind = k
	}
	if kind == entities.KindUnknown {
		kind = h.resolver.Classify(req.Raw, nctx)
		classified = true
	}

	res := h.resolver.Resolve(kind, req.Raw, nctx)
	return &ResolveResult{
		Kind:           kind,
		Raw:            req.Raw,
		Status:         res.Status,
		Canonical:      res.Canonical,
		Candidates:     res.Candidates(),
		AggregationKey: h.resolver.AggregationKey(kind, req.Raw, h.bucket, nctx),
		Classified:     classified,
	}, nil
}
