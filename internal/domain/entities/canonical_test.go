package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		input    string
		expected EntityKind
		ok       bool
	}{
		{input: "team", expected: KindTeam, ok: true},
		{input: "Teams", expected: KindTeam, ok: true},
		{input: "player", expected: KindPlayer, ok: true},
		{input: "stat", expected: KindStat, ok: true},
		{input: "bet_type", expected: KindStat, ok: true},
		{input: "BetType", expected: KindStat, ok: true},
		{input: "", expected: KindUnknown, ok: true},
		{input: "league", expected: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			kind, ok := ParseKind(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, kind)
		})
	}
}

func TestKeyFor_TeamsIgnoreSport(t *testing.T) {
	assert.Equal(t, KeyFor(KindTeam, "Phoenix Suns", SportNBA), KeyFor(KindTeam, "phoenix  suns", SportNFL))
	assert.NotEqual(t, KeyFor(KindPlayer, "Mike Williams", SportNFL), KeyFor(KindPlayer, "Mike Williams", SportNBA))
}

func TestCanonicalEntity_HasAlias(t *testing.T) {
	e := CanonicalEntity{
		Kind:          KindTeam,
		Canonical:     "Phoenix Suns",
		Aliases:       []string{"Suns"},
		Abbreviations: []string{"PHX"},
	}

	assert.True(t, e.HasAlias("phoenix suns"))
	assert.True(t, e.HasAlias(" SUNS "))
	assert.True(t, e.HasAlias("phx"))
	assert.False(t, e.HasAlias("PHO"))
	assert.False(t, e.HasAlias("   "))
}

func TestCanonicalEntity_CloneIsDeep(t *testing.T) {
	e := CanonicalEntity{Kind: KindTeam, Canonical: "Utah Jazz", Aliases: []string{"Jazz"}}
	c := e.Clone()
	c.Aliases[0] = "changed"

	assert.Equal(t, "Jazz", e.Aliases[0])
}

func TestNormalizeSport(t *testing.T) {
	assert.Equal(t, SportNBA, NormalizeSport(" nba "))
	assert.Equal(t, SportCode(""), NormalizeSport(""))
}

func TestDefaultReferenceData(t *testing.T) {
	data := DefaultReferenceData()
	assert.Len(t, data, len(DefaultTeams)+len(DefaultBetTypes))

	seen := make(map[EntityKey]bool)
	for i := range data {
		key := data[i].Key()
		assert.False(t, seen[key], "duplicate default entity %s", key)
		seen[key] = true
	}
}
