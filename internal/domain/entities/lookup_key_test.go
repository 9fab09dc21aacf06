package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToLookupKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty", input: "", expected: ""},
		{name: "only whitespace", input: " \t\n ", expected: ""},
		{name: "lowercases", input: "Phoenix Suns", expected: "phoenix suns"},
		{name: "trims", input: "  Phoenix Suns  ", expected: "phoenix suns"},
		{name: "collapses inner runs", input: "Phoenix  \t Suns", expected: "phoenix suns"},
		{name: "newline inside", input: "Phoenix\nSuns", expected: "phoenix suns"},
		{name: "no-break space", input: "Phoenix\u00a0Suns", expected: "phoenix suns"},
		{name: "narrow no-break space", input: "Phoenix\u202fSuns", expected: "phoenix suns"},
		{name: "right single quote", input: "O’Brien", expected: "o'brien"},
		{name: "left single quote", input: "O‘Brien", expected: "o'brien"},
		{name: "prime", input: "O′Brien", expected: "o'brien"},
		{name: "smart double quotes", input: "“Melo”", expected: "\"melo\""},
		{name: "em dash", input: "Pts\u2014Reb", expected: "pts-reb"},
		{name: "en dash", input: "Pts–Reb", expected: "pts-reb"},
		{name: "figure dash", input: "Pts‒Reb", expected: "pts-reb"},
		{name: "minus sign", input: "−3.5", expected: "-3.5"},
		{name: "ascii punctuation kept", input: "P.J. Tucker & Co-op's", expected: "p.j. tucker & co-op's"},
		{name: "accent preserved", input: "José", expected: "josé"},
		{name: "decomposed accent composed", input: "Jokic\u0301", expected: "jokić"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ToLookupKey(tt.input))
		})
	}
}

func TestToLookupKey_AccentsAreDistinguishing(t *testing.T) {
	assert.Equal(t, "josé", ToLookupKey("José"))
	assert.NotEqual(t, "jose", ToLookupKey("José"))
	assert.NotEqual(t, ToLookupKey("Jokić"), ToLookupKey("Jokic"))
}

func TestToLookupKey_ComposedAndDecomposedMatch(t *testing.T) {
	composed := "Jokić"
	decomposed := "Jokic\u0301"
	assert.Equal(t, ToLookupKey(composed), ToLookupKey(decomposed))
}

func TestToLookupKey_SmartPunctuationMatchesASCII(t *testing.T) {
	assert.Equal(t, ToLookupKey("O'Brien"), ToLookupKey("O’Brien"))
	assert.Equal(t, "o'brien", ToLookupKey("O’Brien"))
}

func TestToLookupKey_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"Phoenix Suns",
		"  PHO\u00a0\u00a0Suns ",
		"O’Brien",
		"Jokic\u0301",
		"“The Beard” \u2014 Harden",
		"İstanbul",
		"ΣΊΣΥΦΟΣ",
		"straße",
		"\tmixed\r\nLINE\u2028breaks",
	}

	for _, in := range inputs {
		once := ToLookupKey(in)
		assert.Equal(t, once, ToLookupKey(once), "input %q", in)
	}
}
