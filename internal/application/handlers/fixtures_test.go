package handlers

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ersonp/betnorm/internal/domain/entities"
	"github.com/ersonp/betnorm/internal/domain/mocks"
	"github.com/ersonp/betnorm/internal/domain/services"
	"github.com/ersonp/betnorm/internal/infrastructure/logging"
)

// fixture wires the domain services over in-memory mocks.
type fixture struct {
	refs     *services.ReferenceStore
	queue    *services.UnresolvedQueue
	resolver *services.Resolver
	store    *mocks.CollectionStore
	audit    *mocks.AuditLog
	catalog  *services.Catalog
	review   *services.ReviewService
	refData  *services.RefDataService
	ingest   *services.IngestService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	refs := services.NewReferenceStore()
	for _, e := range []entities.CanonicalEntity{
		{Kind: entities.KindTeam, Canonical: "Phoenix Suns", Sport: entities.SportNBA, Abbreviations: []string{"PHX", "PHO"}, Aliases: []string{"Suns"}},
		{Kind: entities.KindTeam, Canonical: "Denver Nuggets", Sport: entities.SportNBA, Abbreviations: []string{"DEN"}, Aliases: []string{"Nuggets"}},
		{Kind: entities.KindPlayer, Canonical: "Carmelo Anthony", Sport: entities.SportNBA, Team: "Denver Nuggets", Aliases: []string{"Melo"}},
		{Kind: entities.KindPlayer, Canonical: "LaMelo Ball", Sport: entities.SportNBA, Team: "Charlotte Hornets", Aliases: []string{"Melo"}},
		{Kind: entities.KindStat, Canonical: "Rebounds", Sport: entities.SportNBA, Aliases: []string{"Rebs"}},
	} {
		require.NoError(t, refs.Add(e))
	}

	f := &fixture{
		refs:  refs,
		queue: services.NewUnresolvedQueue(),
		store: mocks.NewCollectionStore(),
		audit: mocks.NewAuditLog(),
	}
	f.resolver = services.NewResolverFromStore(refs, services.PolicyUnresolvedBucket)
	f.catalog = services.NewCatalog(f.store, f.refs, f.queue, logging.Discard())
	f.review = services.NewReviewService(f.refs, f.queue, f.resolver, f.audit, f.catalog)
	f.refData = services.NewRefDataService(f.refs, f.resolver, f.audit, f.catalog)
	f.ingest = services.NewIngestService(f.resolver, f.queue, f.catalog)
	return f
}
