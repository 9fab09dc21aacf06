package parsers

import (
	"encoding/json"
	"fmt"
	"io"
)

// JSONParser parses mentions from a JSON array.
type JSONParser struct{}

// Parse reads JSON from the reader and returns parsed mentions.
func (p *JSONParser) Parse(r io.Reader) ([]RawMention, error) {
	var mentions []RawMention

	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&mentions); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	// Set line numbers (array index + 1, 1-indexed)
	for i := range mentions {
		mentions[i].LineNum = i + 1
	}

	return mentions, nil
}
