package parsers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// EntitySeparator splits several entities packed into one CSV cell, as in
// "LeBron James|Anthony Davis".
const EntitySeparator = "|"

// CSVParser parses mentions from CSV format.
type CSVParser struct{}

// Parse reads CSV from the reader and returns parsed mentions.
// Expected columns: entities, entity_type, market, book, bet_id, sport, team
func (p *CSVParser) Parse(r io.Reader) ([]RawMention, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	colIndex, err := p.readHeader(reader)
	if err != nil {
		return nil, err
	}

	return p.readRecords(reader, colIndex)
}

// readHeader reads and validates the CSV header row.
func (p *CSVParser) readHeader(reader *csv.Reader) (map[string]int, error) {
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	colIndex := make(map[string]int)
	for i, col := range header {
		colIndex[strings.ToLower(strings.TrimSpace(col))] = i
	}

	requiredCols := []string{"entities", "book", "bet_id"}
	for _, col := range requiredCols {
		if _, ok := colIndex[col]; !ok {
			return nil, fmt.Errorf("missing required column: %s", col)
		}
	}

	return colIndex, nil
}

// readRecords reads all data rows and converts them to RawMentions.
func (p *CSVParser) readRecords(reader *csv.Reader, colIndex map[string]int) ([]RawMention, error) {
	var mentions []RawMention
	lineNum := 1 // Header is line 1

	for {
		lineNum++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}

		mentions = append(mentions, p.parseRecord(record, colIndex, lineNum))
	}

	return mentions, nil
}

// parseRecord converts a CSV record to a RawMention.
func (p *CSVParser) parseRecord(record []string, colIndex map[string]int, lineNum int) RawMention {
	return RawMention{
		Entities:   splitEntities(getColumn(record, colIndex, "entities")),
		EntityType: getColumn(record, colIndex, "entity_type"),
		Market:     getColumn(record, colIndex, "market"),
		Book:       getColumn(record, colIndex, "book"),
		BetID:      getColumn(record, colIndex, "bet_id"),
		Sport:      getColumn(record, colIndex, "sport"),
		Team:       getColumn(record, colIndex, "team"),
		LineNum:    lineNum,
	}
}

func splitEntities(cell string) []string {
	var out []string
	for _, part := range strings.Split(cell, EntitySeparator) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// getColumn safely retrieves a column value from a record.
func getColumn(record []string, colIndex map[string]int, col string) string {
	if idx, ok := colIndex[col]; ok && idx < len(record) {
		return record[idx]
	}
	return ""
}
