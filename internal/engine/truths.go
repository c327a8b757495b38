package engine

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"gritquest/internal/storage"
)

// TruthEquipLimit caps how many truths may be equipped at once, across all
// themes.
const TruthEquipLimit = 3

// CollectTruth records a narrative insight, unequipped, and logs the drop.
func (s *Service) CollectTruth(ctx context.Context, characterID, text, sourceEntryID, theme string) (*storage.Truth, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, InvalidInputError{Field: "text", Reason: "is required"}
	}
	if _, err := s.getCharacter(ctx, characterID); err != nil {
		return nil, err
	}

	t := &storage.Truth{
		ID:            uuid.NewString(),
		CharacterID:   characterID,
		Text:          text,
		Theme:         theme,
		SourceEntryID: sourceEntryID,
	}
	if err := s.truths.Insert(ctx, t); err != nil {
		return nil, err
	}
	if err := s.appendLog(ctx, characterID, LogLoot, "Truth collected", text); err != nil {
		return nil, err
	}
	return t, nil
}

// ToggleTruthEquip flips a truth's equipped flag. Equipping fails once all
// slots are in use; unequipping always succeeds for an existing truth.
func (s *Service) ToggleTruthEquip(ctx context.Context, truthID string, equip bool) error {
	t, err := s.truths.Get(ctx, truthID)
	if err != nil {
		return err
	}
	if t == nil {
		return NotFoundError{Kind: "truth", ID: truthID}
	}
	if t.Equipped == equip {
		return nil
	}

	if equip {
		equipped, err := s.truths.CountEquipped(ctx, t.CharacterID)
		if err != nil {
			return err
		}
		if equipped >= TruthEquipLimit {
			return EquipSlotsFullError{Limit: TruthEquipLimit}
		}
	}

	return s.truths.SetEquipped(ctx, truthID, equip)
}
