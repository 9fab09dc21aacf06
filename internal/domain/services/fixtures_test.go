package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ersonp/betnorm/internal/domain/entities"
)

var fixtureTime = time.Date(2026, 3, 14, 19, 30, 0, 0, time.UTC)

func fixtureEntities() []entities.CanonicalEntity {
	return []entities.CanonicalEntity{
		{Kind: entities.KindTeam, Canonical: "Phoenix Suns", Sport: entities.SportNBA, Abbreviations: []string{"PHX", "PHO"}, Aliases: []string{"Suns"}},
		{Kind: entities.KindTeam, Canonical: "Charlotte Hornets", Sport: entities.SportNBA, Abbreviations: []string{"CHA"}, Aliases: []string{"Hornets"}},
		{Kind: entities.KindTeam, Canonical: "Denver Nuggets", Sport: entities.SportNBA, Abbreviations: []string{"DEN"}, Aliases: []string{"Nuggets"}},
		{Kind: entities.KindTeam, Canonical: "Arizona Cardinals", Sport: entities.SportNFL, Abbreviations: []string{"ARI"}, Aliases: []string{"Cardinals"}},
		{Kind: entities.KindTeam, Canonical: "St. Louis Cardinals", Sport: entities.SportMLB, Abbreviations: []string{"STL"}, Aliases: []string{"Cardinals"}},
		{Kind: entities.KindPlayer, Canonical: "Carmelo Anthony", Sport: entities.SportNBA, Team: "Denver Nuggets", Aliases: []string{"Melo"}},
		{Kind: entities.KindPlayer, Canonical: "LaMelo Ball", Sport: entities.SportNBA, Team: "Charlotte Hornets", Aliases: []string{"Melo"}},
		{Kind: entities.KindPlayer, Canonical: "LeBron James", Sport: entities.SportNBA, Team: "Los Angeles Lakers", Aliases: []string{"King James"}},
		{Kind: entities.KindStat, Canonical: "Rebounds", Sport: entities.SportNBA, Aliases: []string{"Rebs"}},
		{Kind: entities.KindStat, Canonical: "Points", Sport: entities.SportNBA, Aliases: []string{"Pts"}},
	}
}

func newFixtureStore(t *testing.T) *ReferenceStore {
	t.Helper()

	store := NewReferenceStore()
	for _, e := range fixtureEntities() {
		require.NoError(t, store.Add(e))
	}
	return store
}

func newFixtureResolver(t *testing.T) (*ReferenceStore, *Resolver) {
	t.Helper()

	store := newFixtureStore(t)
	return store, NewResolverFromStore(store, PolicyUnresolvedBucket)
}

// freezeTime pins timeNow for the duration of the test.
func freezeTime(t *testing.T, at time.Time) {
	t.Helper()

	orig := timeNow
	timeNow = func() time.Time { return at }
	t.Cleanup(func() { timeNow = orig })
}

func queued(raw string, kind entities.EntityKind, sport entities.SportCode, book, market, betID string, at time.Time) entities.UnresolvedItem {
	return entities.UnresolvedItem{
		RawValue:      raw,
		Kind:          kind,
		Sport:         sport,
		Book:          book,
		Market:        market,
		BetID:         betID,
		EncounteredAt: at,
	}
}

// fakeSaver implements CatalogSaver and QueueSaver.
type fakeSaver struct {
	saves      int
	queueSaves int
	err        error
}

func (f *fakeSaver) Save(_ context.Context) error {
	f.saves++
	return f.err
}

func (f *fakeSaver) SaveQueue(_ context.Context) error {
	f.queueSaves++
	return f.err
}
