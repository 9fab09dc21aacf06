package entities

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// punctuationFolds maps typographic punctuation and no-break spaces to their
// plain ASCII equivalents.
var punctuationFolds = map[rune]rune{
	'\u2018': '\'', // left single quote
	'\u2019': '\'', // right single quote
	'\u2032': '\'', // prime
	'\u201C': '"',  // left double quote
	'\u201D': '"',  // right double quote
	'\u2014': '-',  // em dash
	'\u2013': '-',  // en dash
	'\u2012': '-',  // figure dash
	'\u2212': '-',  // minus sign
	'\u00A0': ' ',  // no-break space
	'\u202F': ' ',  // narrow no-break space
}

// ToLookupKey converts a raw name into the key used for every comparison
// between bookmaker strings and reference data.
//
// The key is NFC-composed, has smart punctuation folded to ASCII, whitespace
// collapsed and trimmed, and is lowercased. Accented letters are kept, so
// "José" and "Jose" produce different keys. ToLookupKey is idempotent.
func ToLookupKey(raw string) string {
	if raw == "" {
		return ""
	}

	composed := norm.NFC.String(raw)

	var b strings.Builder
	b.Grow(len(composed))
	pendingSpace := false
	for _, r := range composed {
		if folded, ok := punctuationFolds[r]; ok {
			r = folded
		}
		if unicode.IsSpace(r) {
			pendingSpace = b.Len() > 0
			continue
		}
		if pendingSpace {
			b.WriteByte(' ')
			pendingSpace = false
		}
		b.WriteRune(r)
	}

	return strings.ToLower(b.String())
}
