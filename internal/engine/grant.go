package engine

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"gritquest/internal/logging"
)

// GrantInput describes one XP award. The host decides when XP is earned;
// the engine only applies it.
type GrantInput struct {
	CharacterID  string
	SourceModule string
	SourceAction string
	SourceItemID string

	PrimaryStat StatKind
	PrimaryXP   int

	// SecondaryStat is optional; leave empty for single-stat awards.
	SecondaryStat StatKind
	SecondaryXP   int
}

// GrantResult reports what one award changed.
type GrantResult struct {
	XPAwarded   int
	LevelBefore int
	LevelAfter  int
	LevelUp     bool

	// StatLevelUps maps each stat that gained a level to its new level.
	StatLevelUps map[StatKind]int
}

// GrantXP applies an XP award to the character total and the named stat
// tracks, recording level_up / stat_up log entries for any curve crossings.
func (s *Service) GrantXP(ctx context.Context, in GrantInput) (*GrantResult, error) {
	if !in.PrimaryStat.IsValid() {
		return nil, InvalidInputError{Field: "primary stat", Reason: fmt.Sprintf("unknown stat %q", in.PrimaryStat)}
	}
	if in.PrimaryXP < 1 {
		return nil, InvalidInputError{Field: "primary xp", Reason: "must be positive"}
	}
	if in.SecondaryStat != "" && !in.SecondaryStat.IsValid() {
		return nil, InvalidInputError{Field: "secondary stat", Reason: fmt.Sprintf("unknown stat %q", in.SecondaryStat)}
	}
	if in.SecondaryStat != "" && in.SecondaryXP < 1 {
		return nil, InvalidInputError{Field: "secondary xp", Reason: "must be positive"}
	}
	if in.SecondaryStat == "" && in.SecondaryXP != 0 {
		return nil, InvalidInputError{Field: "secondary xp", Reason: "secondary stat is not set"}
	}

	c, err := s.getCharacter(ctx, in.CharacterID)
	if err != nil {
		return nil, err
	}
	levelBefore := c.Level
	statLevelsBefore := CharacterStatLevels(c)

	total := in.PrimaryXP + in.SecondaryXP
	c.XPTotal += total
	addStatXP(c, in.PrimaryStat, in.PrimaryXP)
	if in.SecondaryStat != "" {
		addStatXP(c, in.SecondaryStat, in.SecondaryXP)
	}
	c.Level = LevelFromXP(c.XPTotal).Level
	if err := s.characters.Update(ctx, c); err != nil {
		return nil, err
	}

	res := &GrantResult{
		XPAwarded:    total,
		LevelBefore:  levelBefore,
		LevelAfter:   c.Level,
		LevelUp:      c.Level > levelBefore,
		StatLevelUps: map[StatKind]int{},
	}

	if res.LevelUp {
		if err := s.appendLog(ctx, in.CharacterID, LogLevelUp,
			fmt.Sprintf("Reached level %d", c.Level),
			fmt.Sprintf("%d XP from %s/%s", total, in.SourceModule, in.SourceAction)); err != nil {
			return nil, err
		}
	}

	statLevelsAfter := CharacterStatLevels(c)
	for _, kind := range AllStats {
		if statLevelsAfter[kind] > statLevelsBefore[kind] {
			res.StatLevelUps[kind] = statLevelsAfter[kind]
			if err := s.appendLog(ctx, in.CharacterID, LogStatUp,
				fmt.Sprintf("%s reached level %d", kind, statLevelsAfter[kind]),
				fmt.Sprintf("Source: %s/%s", in.SourceModule, in.SourceAction)); err != nil {
				return nil, err
			}
		}
	}

	logging.Log.WithFields(logrus.Fields{
		"component":     "grant",
		"character_id":  in.CharacterID,
		"source_module": in.SourceModule,
		"source_action": in.SourceAction,
		"xp":            total,
		"level":         c.Level,
		"level_up":      res.LevelUp,
	}).Debug("XP granted.")

	return res, nil
}
