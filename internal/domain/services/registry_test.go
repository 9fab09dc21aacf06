package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/betnorm/internal/domain/entities"
)

func TestNormalizationRegistry_TeamVariants(t *testing.T) {
	registry := BuildRegistry(newFixtureStore(t).Snapshot())

	inputs := []string{
		"Phoenix Suns",
		"phoenix suns",
		"  PHOENIX   SUNS ",
		"Phoenix\u00a0Suns",
		"\tPhoenix Suns\n",
		"PHX",
		"pho",
		"Suns",
	}
	for _, raw := range inputs {
		t.Run(raw, func(t *testing.T) {
			out := registry.Normalize(entities.KindTeam, raw, NormalizeContext{})
			assert.True(t, out.Matched)
			assert.Equal(t, "Phoenix Suns", out.Canonical)
			assert.Equal(t, entities.SportNBA, out.Sport)
			assert.Nil(t, out.Collision)
		})
	}
}

func TestNormalizationRegistry_ViaAlias(t *testing.T) {
	registry := BuildRegistry(newFixtureStore(t).Snapshot())

	assert.False(t, registry.Normalize(entities.KindTeam, "phoenix suns", NormalizeContext{}).ViaAlias)
	assert.True(t, registry.Normalize(entities.KindTeam, "PHX", NormalizeContext{}).ViaAlias)
}

func TestNormalizationRegistry_CompoundHeuristic(t *testing.T) {
	registry := BuildRegistry(newFixtureStore(t).Snapshot())

	tests := []struct {
		raw     string
		want    string
		matched bool
	}{
		{raw: "PHO Suns", want: "Phoenix Suns", matched: true},
		{raw: "Suns PHX", want: "Phoenix Suns", matched: true},
		{raw: "CHA Hornets", want: "Charlotte Hornets", matched: true},
		{raw: "PHX Phoenix Suns Basketball", want: "Phoenix Suns", matched: true},
		{raw: "PHX S", want: "PHX S", matched: false},
		{raw: "PHX Hornets", want: "PHX Hornets", matched: false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			out := registry.Normalize(entities.KindTeam, tt.raw, NormalizeContext{})
			assert.Equal(t, tt.matched, out.Matched)
			assert.Equal(t, tt.want, out.Canonical)
		})
	}
}

func TestNormalizationRegistry_CompoundHeuristicIsTeamOnly(t *testing.T) {
	registry := BuildRegistry(newFixtureStore(t).Snapshot())

	out := registry.Normalize(entities.KindPlayer, "PHO Suns", NormalizeContext{})
	assert.False(t, out.Matched)
}

func TestNormalizationRegistry_PlayerCollision(t *testing.T) {
	registry := BuildRegistry(newFixtureStore(t).Snapshot())

	out := registry.Normalize(entities.KindPlayer, " Melo ", NormalizeContext{})
	assert.False(t, out.Matched)
	assert.Equal(t, "Melo", out.Canonical)
	require.NotNil(t, out.Collision)
	assert.Equal(t, "Melo", out.Collision.Input)
	assert.Equal(t, []string{"Carmelo Anthony", "LaMelo Ball"}, out.Collision.Candidates)
}

func TestNormalizationRegistry_SameNameAcrossSportsCollides(t *testing.T) {
	store := NewReferenceStore()
	require.NoError(t, store.Add(entities.CanonicalEntity{Kind: entities.KindPlayer, Canonical: "Chris Johnson", Sport: entities.SportNFL}))
	require.NoError(t, store.Add(entities.CanonicalEntity{Kind: entities.KindPlayer, Canonical: "Chris Johnson", Sport: entities.SportMLB}))
	registry := BuildRegistry(store.Snapshot())

	out := registry.Normalize(entities.KindPlayer, "chris johnson", NormalizeContext{})
	assert.False(t, out.Matched)
	require.NotNil(t, out.Collision)
	assert.Equal(t, []string{"Chris Johnson", "Chris Johnson"}, out.Collision.Candidates)

	out = registry.Normalize(entities.KindPlayer, "chris johnson", NormalizeContext{Sport: entities.SportMLB})
	assert.True(t, out.Matched)
	assert.Equal(t, entities.SportMLB, out.Sport)

	resolver := NewResolverFromStore(store, PolicyUnresolvedBucket)
	res := resolver.ResolvePlayer("Chris Johnson", NormalizeContext{})
	assert.Equal(t, entities.StatusAmbiguous, res.Status)
	assert.Equal(t, entities.UnresolvedBucket, resolver.PlayerAggregationKey("Chris Johnson", "", NormalizeContext{}))
}

func TestNormalizationRegistry_PlayerCollisionNarrowedByTeam(t *testing.T) {
	registry := BuildRegistry(newFixtureStore(t).Snapshot())

	tests := []struct {
		name string
		team string
		want string
	}{
		{name: "abbreviation", team: "CHA", want: "LaMelo Ball"},
		{name: "canonical", team: "Denver Nuggets", want: "Carmelo Anthony"},
		{name: "alias", team: "nuggets", want: "Carmelo Anthony"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := registry.Normalize(entities.KindPlayer, "Melo", NormalizeContext{Team: tt.team})
			assert.True(t, out.Matched)
			assert.Equal(t, tt.want, out.Canonical)
		})
	}

	out := registry.Normalize(entities.KindPlayer, "Melo", NormalizeContext{Team: "Phoenix Suns"})
	assert.False(t, out.Matched)
	require.NotNil(t, out.Collision)
	assert.Len(t, out.Collision.Candidates, 2)
}

func TestNormalizationRegistry_SportScoping(t *testing.T) {
	registry := BuildRegistry(newFixtureStore(t).Snapshot())

	out := registry.Normalize(entities.KindTeam, "Cardinals", NormalizeContext{})
	require.NotNil(t, out.Collision)
	assert.Equal(t, []string{"Arizona Cardinals", "St. Louis Cardinals"}, out.Collision.Candidates)

	out = registry.NormalizeTeamForSport("Cardinals", entities.SportNFL)
	assert.True(t, out.Matched)
	assert.Equal(t, "Arizona Cardinals", out.Canonical)

	out = registry.NormalizeTeamForSport("Cardinals", entities.SportMLB)
	assert.True(t, out.Matched)
	assert.Equal(t, "St. Louis Cardinals", out.Canonical)

	out = registry.NormalizeTeamForSport("Cardinals", entities.SportNBA)
	assert.False(t, out.Matched)
	assert.Nil(t, out.Collision)

	out = registry.NormalizeTeamForSport("Phoenix Suns", entities.SportNFL)
	assert.False(t, out.Matched)
	assert.Equal(t, "Phoenix Suns", out.Canonical)
}

func TestNormalizationRegistry_SkipsDisabled(t *testing.T) {
	store := newFixtureStore(t)
	require.NoError(t, store.Disable(entities.KindPlayer, "LaMelo Ball", entities.SportNBA))
	registry := BuildRegistry(store.Snapshot())

	out := registry.Normalize(entities.KindPlayer, "Melo", NormalizeContext{})
	assert.True(t, out.Matched)
	assert.Equal(t, "Carmelo Anthony", out.Canonical)
	assert.Equal(t, 2, registry.Size(entities.KindPlayer))

	_, ok := registry.Lookup(entities.KindPlayer, "LaMelo Ball", entities.SportNBA)
	assert.False(t, ok)
}

func TestNormalizationRegistry_Unmatched(t *testing.T) {
	registry := BuildRegistry(newFixtureStore(t).Snapshot())

	out := registry.Normalize(entities.KindStat, "  Blocks  ", NormalizeContext{})
	assert.False(t, out.Matched)
	assert.Equal(t, "Blocks", out.Canonical)
	assert.Nil(t, out.Collision)

	out = registry.Normalize(entities.KindStat, "", NormalizeContext{})
	assert.False(t, out.Matched)
	assert.Equal(t, "", out.Canonical)

	out = registry.Normalize(entities.KindUnknown, "Rebs", NormalizeContext{})
	assert.False(t, out.Matched)
}

func TestNormalizationRegistry_Queries(t *testing.T) {
	registry := BuildRegistry(newFixtureStore(t).Snapshot())

	assert.True(t, registry.IsKnown(entities.KindStat, "REBS"))
	assert.False(t, registry.IsKnown(entities.KindStat, "Boards"))
	assert.True(t, registry.IsKnownForSport(entities.KindTeam, "Cardinals", entities.SportMLB))
	assert.False(t, registry.IsKnownForSport(entities.KindTeam, "Cardinals", entities.SportNBA))
	assert.Equal(t, []entities.SportCode{entities.SportNFL, entities.SportMLB}, registry.Sports(entities.KindTeam, "cardinals"))
	assert.Empty(t, registry.Sports(entities.KindTeam, "Lakers"))

	e, ok := registry.Lookup(entities.KindTeam, "phoenix suns", "")
	require.True(t, ok)
	assert.Equal(t, []string{"PHX", "PHO"}, e.Abbreviations)
}

func TestNormalizationRegistry_SnapshotIsolation(t *testing.T) {
	store := newFixtureStore(t)
	registry := BuildRegistry(store.Snapshot())

	require.NoError(t, store.AddAlias(entities.KindStat, "Rebounds", entities.SportNBA, "Boards"))

	assert.False(t, registry.IsKnown(entities.KindStat, "Boards"))
	assert.True(t, BuildRegistry(store.Snapshot()).IsKnown(entities.KindStat, "Boards"))
}
