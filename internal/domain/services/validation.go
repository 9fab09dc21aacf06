package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ersonp/betnorm/internal/domain/entities"
)

// ErrInvalidRecord marks a persisted record that is structurally invalid.
var ErrInvalidRecord = errors.New("invalid record")

// DecodeEntityData decodes and validates one persisted reference record of
// kind.
func DecodeEntityData(kind entities.EntityKind, raw json.RawMessage) (entities.CanonicalEntity, error) {
	var e entities.CanonicalEntity
	if err := json.Unmarshal(raw, &e); err != nil {
		return e, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	if strings.TrimSpace(e.Canonical) == "" {
		return e, fmt.Errorf("%w: missing canonical", ErrInvalidRecord)
	}
	if strings.TrimSpace(string(e.Sport)) == "" {
		return e, fmt.Errorf("%w: missing sport for %q", ErrInvalidRecord, e.Canonical)
	}
	if e.Kind != "" && e.Kind != kind {
		return e, fmt.Errorf("%w: %q stored as %s in the %s collection", ErrInvalidRecord, e.Canonical, e.Kind, kind)
	}
	e.Kind = kind
	if kind != entities.KindTeam && len(e.Abbreviations) > 0 {
		return e, fmt.Errorf("%w: abbreviations are only valid for teams (%q)", ErrInvalidRecord, e.Canonical)
	}
	return e, nil
}

// IsValidTeamData reports whether raw is a well-formed persisted team.
func IsValidTeamData(raw json.RawMessage) bool {
	_, err := DecodeEntityData(entities.KindTeam, raw)
	return err == nil
}

// IsValidPlayerData reports whether raw is a well-formed persisted player.
func IsValidPlayerData(raw json.RawMessage) bool {
	_, err := DecodeEntityData(entities.KindPlayer, raw)
	return err == nil
}

// IsValidBetTypeData reports whether raw is a well-formed persisted bet type.
func IsValidBetTypeData(raw json.RawMessage) bool {
	_, err := DecodeEntityData(entities.KindStat, raw)
	return err == nil
}

// DecodeUnresolvedItem decodes and validates one persisted queue item.
func DecodeUnresolvedItem(raw json.RawMessage) (entities.UnresolvedItem, error) {
	var item entities.UnresolvedItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return item, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	if item.ID == "" {
		return item, fmt.Errorf("%w: missing id", ErrInvalidRecord)
	}
	if strings.TrimSpace(item.RawValue) == "" {
		return item, fmt.Errorf("%w: missing raw_value for %s", ErrInvalidRecord, item.ID)
	}
	if !item.Kind.IsResolvable() && item.Kind != entities.KindUnknown {
		return item, fmt.Errorf("%w: bad entity_type %q for %s", ErrInvalidRecord, item.Kind, item.ID)
	}
	if item.EncounteredAt.IsZero() {
		return item, fmt.Errorf("%w: missing encountered_at for %s", ErrInvalidRecord, item.ID)
	}
	item.Sport = entities.NormalizeSport(string(item.Sport))
	return item, nil
}

// IsValidUnresolvedItem reports whether raw is a well-formed queue item.
func IsValidUnresolvedItem(raw json.RawMessage) bool {
	_, err := DecodeUnresolvedItem(raw)
	return err == nil
}
