// Package parsers provides parsers for importing bet mentions and reference
// data from various formats.
package parsers

import (
	"io"
	"path/filepath"
	"strings"
)

// RawMention is one bet leg as exported by a sportsbook import, before any
// resolution. Entities holds the raw team, player or stat names of the leg.
type RawMention struct {
	Entities   []string `json:"entities"`
	EntityType string   `json:"entity_type,omitempty"` // team, player, stat or empty for unknown
	Market     string   `json:"market,omitempty"`
	Book       string   `json:"book"`
	BetID      string   `json:"bet_id"`
	Sport      string   `json:"sport,omitempty"`
	Team       string   `json:"team,omitempty"` // player's team, narrows shared nicknames
	LineNum    int      `json:"-"`              // Line number in source file (set by parser)
}

// Parser defines the interface for parsing mentions from various formats.
type Parser interface {
	Parse(r io.Reader) ([]RawMention, error)
}

// ForFormat returns the appropriate parser for the given format.
// Supported formats: "json", "csv".
func ForFormat(format string) Parser {
	switch strings.ToLower(format) {
	case "json":
		return &JSONParser{}
	case "csv":
		return &CSVParser{}
	default:
		return nil
	}
}

// ForFile returns the appropriate parser based on file extension.
func ForFile(filename string) Parser {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".json":
		return &JSONParser{}
	case ".csv":
		return &CSVParser{}
	default:
		return nil
	}
}
