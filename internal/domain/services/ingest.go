package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/ersonp/betnorm/internal/domain/entities"
	"github.com/ersonp/betnorm/internal/infrastructure/parsers"
)

// IngestOptions controls ingest behavior.
type IngestOptions struct {
	DryRun           bool   // Resolve and count without touching the queue
	UnresolvedBucket string // Aggregation bucket, entities.UnresolvedBucket when empty
}

// IngestError reports a mention that could not be processed.
type IngestError struct {
	Line    int    // Line number (1-indexed, 0 if unknown)
	Field   string // Which field has the error
	Message string // Human-readable error message
}

func (e IngestError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// IngestReport summarizes an ingest run.
type IngestReport struct {
	Mentions   int                                    `json:"mentions"`
	Resolved   int                                    `json:"resolved"`
	Unresolved int                                    `json:"unresolved"`
	Ambiguous  int                                    `json:"ambiguous"`
	Queued     int                                    `json:"queued"`
	Duplicates int                                    `json:"duplicates"`
	Aggregates map[entities.EntityKind]map[string]int `json:"aggregates"`
	Errors     []IngestError                          `json:"errors,omitempty"`
}

// QueueSaver persists the unresolved queue after an ingest.
type QueueSaver interface {
	SaveQueue(ctx context.Context) error
}

// IngestService runs bet mentions through the Resolver. Mentions that do
// not resolve to exactly one canonical are queued for review.
type IngestService struct {
	resolver *Resolver
	queue    *UnresolvedQueue
	saver    QueueSaver
}

// NewIngestService creates a new ingest service. saver may be nil.
func NewIngestService(resolver *Resolver, queue *UnresolvedQueue, saver QueueSaver) *IngestService {
	return &IngestService{
		resolver: resolver,
		queue:    queue,
		saver:    saver,
	}
}

// Ingest resolves every entity of every mention. Unresolved and ambiguous
// values are enqueued unless the same bet already queued the same value.
func (s *IngestService) Ingest(ctx context.Context, mentions []parsers.RawMention, opts IngestOptions) (*IngestReport, error) {
	report := &IngestReport{Aggregates: make(map[entities.EntityKind]map[string]int)}

	for i := range mentions {
		m := &mentions[i]
		line := m.LineNum
		if line == 0 {
			line = i + 1
		}

		declared, ok := entities.ParseKind(m.EntityType)
		if !ok {
			report.Errors = append(report.Errors, IngestError{
				Line:    line,
				Field:   "entity_type",
				Message: fmt.Sprintf("unknown entity type %q", m.EntityType),
			})
			continue
		}
		if len(m.Entities) == 0 {
			report.Errors = append(report.Errors, IngestError{Line: line, Field: "entities", Message: "no entities"})
			continue
		}

		nctx := NormalizeContext{Sport: entities.NormalizeSport(m.Sport), Team: m.Team}
		for _, raw := range m.Entities {
			if strings.TrimSpace(raw) == "" {
				continue
			}
			report.Mentions++
			s.ingestOne(m, raw, declared, nctx, opts, report)
		}
	}

	if report.Queued > 0 && !opts.DryRun && s.saver != nil {
		if err := s.saver.SaveQueue(ctx); err != nil {
			return report, fmt.Errorf("saving queue: %w", err)
		}
	}
	return report, nil
}

func (s *IngestService) ingestOne(m *parsers.RawMention, raw string, declared entities.EntityKind, nctx NormalizeContext, opts IngestOptions, report *IngestReport) {
	kind := declared
	if kind == entities.KindUnknown {
		kind = s.resolver.Classify(raw, nctx)
	}

	result := s.resolver.Resolve(kind, raw, nctx)
	key := s.resolver.AggregationKey(kind, raw, opts.UnresolvedBucket, nctx)
	if report.Aggregates[kind] == nil {
		report.Aggregates[kind] = make(map[string]int)
	}
	report.Aggregates[kind][key]++

	switch result.Status {
	case entities.StatusResolved:
		report.Resolved++
		return
	case entities.StatusAmbiguous:
		report.Ambiguous++
	default:
		report.Unresolved++
	}

	if s.queue.Contains(m.BetID, kind, raw) {
		report.Duplicates++
		return
	}
	if !opts.DryRun {
		s.queue.Enqueue(entities.UnresolvedItem{
			RawValue: strings.TrimSpace(raw),
			Kind:     kind,
			Sport:    nctx.Sport,
			Book:     m.Book,
			BetID:    m.BetID,
			Market:   m.Market,
		})
	}
	report.Queued++
}
