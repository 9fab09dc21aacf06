package parsers

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/ersonp/betnorm/internal/domain/entities"
)

// ReferenceSeed is the layout of a reference data seed file:
//
//	teams:
//	  - canonical: Phoenix Suns
//	    sport: NBA
//	    abbreviations: [PHX, PHO]
//	    aliases: [Suns]
//	players: [...]
//	bet_types: [...]
//
// JSON documents with the same keys are accepted as well.
type ReferenceSeed struct {
	Teams    []entities.CanonicalEntity `yaml:"teams"`
	Players  []entities.CanonicalEntity `yaml:"players"`
	BetTypes []entities.CanonicalEntity `yaml:"bet_types"`
}

// ParseReferenceSeed reads a seed document and returns its entities with
// their kind set from the section they appear in. Sections are returned
// teams first, then players, then bet types.
func ParseReferenceSeed(r io.Reader) ([]entities.CanonicalEntity, error) {
	var seed ReferenceSeed
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&seed); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("parsing reference seed: %w", err)
	}

	out := make([]entities.CanonicalEntity, 0, len(seed.Teams)+len(seed.Players)+len(seed.BetTypes))
	add := func(kind entities.EntityKind, list []entities.CanonicalEntity) error {
		for i := range list {
			e := list[i]
			if e.Kind != "" && e.Kind != kind {
				return fmt.Errorf("%q listed under %ss has kind %s", e.Canonical, kind, e.Kind)
			}
			e.Kind = kind
			out = append(out, e)
		}
		return nil
	}
	if err := add(entities.KindTeam, seed.Teams); err != nil {
		return nil, err
	}
	if err := add(entities.KindPlayer, seed.Players); err != nil {
		return nil, err
	}
	if err := add(entities.KindStat, seed.BetTypes); err != nil {
		return nil, err
	}
	return out, nil
}
