package engine

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"gritquest/internal/logging"
	"gritquest/internal/storage"
)

// Encounter states.
const (
	EncounterPending = "pending"
	EncounterActive  = "active"
	EncounterVictory = "victory"
	EncounterDefeat  = "defeat"
)

const (
	attackEnergyCost   = 5
	focusEnergyRestore = 20
)

// RandomDraw is one uniform draw in [0,1) supplied by the host. Battle
// resolution is deterministic given the draw, so tests inject fixed values.
type RandomDraw = float64

// TurnResult reports one resolved battle turn.
type TurnResult struct {
	Turn    storage.BattleTurn
	Victory bool
	Defeat  bool
}

// SpawnEncounter creates a pending encounter against a cataloged enemy.
func (s *Service) SpawnEncounter(ctx context.Context, characterID, enemyID, sourceAction string) (*storage.Encounter, error) {
	def := GetEnemyDef(enemyID)
	if def == nil {
		return nil, InvalidInputError{Field: "enemy id", Reason: fmt.Sprintf("unknown enemy %q", enemyID)}
	}
	if _, err := s.getCharacter(ctx, characterID); err != nil {
		return nil, err
	}

	e := &storage.Encounter{
		ID:           uuid.NewString(),
		CharacterID:  characterID,
		EnemyID:      enemyID,
		Status:       EncounterPending,
		EnemyHP:      def.MaxHP,
		EnemyMaxHP:   def.MaxHP,
		SourceAction: sourceAction,
	}
	if err := s.encounters.Insert(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// StartEncounter transitions pending -> active, snapshotting the character's
// current HP and energy pools from the secondary stats.
func (s *Service) StartEncounter(ctx context.Context, encounterID string) (*storage.Encounter, error) {
	e, err := s.encounters.Get(ctx, encounterID)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, NotFoundError{Kind: "encounter", ID: encounterID}
	}
	if e.Status != EncounterPending {
		return nil, EncounterStateError{EncounterID: encounterID, Status: e.Status}
	}

	c, err := s.getCharacter(ctx, e.CharacterID)
	if err != nil {
		return nil, err
	}
	derived := ComputeSecondaryStats(CharacterStatLevels(c))

	e.Status = EncounterActive
	e.CharacterHP = derived.MaxHP
	e.CharacterMaxHP = derived.MaxHP
	e.CharacterEnergy = derived.MaxEnergy
	if err := s.encounters.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// ExecuteBattleTurn resolves one character action against an active
// encounter. The acting side resolves first; the enemy only counters if it
// survives, so a turn that fells the enemy never also fells the character.
func (s *Service) ExecuteBattleTurn(ctx context.Context, encounterID string, action BattleAction, draw RandomDraw) (*TurnResult, error) {
	if !action.IsValid() {
		return nil, InvalidInputError{Field: "action", Reason: fmt.Sprintf("unknown action %q", action)}
	}
	if draw < 0 || draw >= 1 {
		return nil, InvalidInputError{Field: "random draw", Reason: "must be in [0,1)"}
	}

	e, err := s.encounters.Get(ctx, encounterID)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, NotFoundError{Kind: "encounter", ID: encounterID}
	}
	if e.Status != EncounterActive {
		return nil, EncounterStateError{EncounterID: encounterID, Status: e.Status}
	}

	def := GetEnemyDef(e.EnemyID)
	if def == nil {
		return nil, InvalidInputError{Field: "enemy id", Reason: fmt.Sprintf("unknown enemy %q", e.EnemyID)}
	}

	c, err := s.getCharacter(ctx, e.CharacterID)
	if err != nil {
		return nil, err
	}
	levels := CharacterStatLevels(c)
	derived := ComputeSecondaryStats(levels)

	var flags []string
	defending := false

	switch action {
	case ActionAttack:
		damage, crit := attackDamage(levels[StatSTR], def.Defense, derived.Crit, draw)
		if crit {
			flags = append(flags, "crit")
		}
		e.EnemyHP -= damage
		if e.EnemyHP < 0 {
			e.EnemyHP = 0
		}
		e.CharacterEnergy -= attackEnergyCost
		if e.CharacterEnergy < 0 {
			e.CharacterEnergy = 0
		}
	case ActionDefend:
		defending = true
		flags = append(flags, "defend")
	case ActionFocus:
		e.CharacterEnergy += focusEnergyRestore
		if e.CharacterEnergy > derived.MaxEnergy {
			e.CharacterEnergy = derived.MaxEnergy
		}
		flags = append(flags, "focus")
	}

	victory := e.EnemyHP <= 0
	defeat := false

	if !victory {
		counter := enemyDamage(def.Attack, derived.Resistance, defending, draw)
		e.CharacterHP -= counter
		if e.CharacterHP < 0 {
			e.CharacterHP = 0
		}
		defeat = e.CharacterHP <= 0
	}

	switch {
	case victory:
		flags = append(flags, "victory")
		e.Status = EncounterVictory
	case defeat:
		flags = append(flags, "defeat")
		e.Status = EncounterDefeat
	}
	if victory || defeat {
		now := time.Now().UTC()
		e.ResolvedAt = &now
	}

	last, err := s.encounters.LastTurnNumber(ctx, encounterID)
	if err != nil {
		return nil, err
	}
	turn := storage.BattleTurn{
		EncounterID:      encounterID,
		TurnNumber:       last + 1,
		Action:           string(action),
		CharacterHPAfter: e.CharacterHP,
		EnemyHPAfter:     e.EnemyHP,
		ResultFlags:      strings.Join(flags, ","),
	}
	if turn.ID, err = s.encounters.InsertTurn(ctx, &turn); err != nil {
		return nil, err
	}
	if err := s.encounters.Update(ctx, e); err != nil {
		return nil, err
	}

	if victory {
		if err := s.resolveVictory(ctx, e, def); err != nil {
			return nil, err
		}
	}
	if defeat {
		if err := s.appendLog(ctx, e.CharacterID, LogBattle,
			fmt.Sprintf("Defeated by %s", def.Name),
			fmt.Sprintf("Fell after %d turns", turn.TurnNumber)); err != nil {
			return nil, err
		}
	}

	logging.Log.WithFields(logrus.Fields{
		"component":    "battle",
		"encounter_id": encounterID,
		"turn":         turn.TurnNumber,
		"action":       action,
		"character_hp": e.CharacterHP,
		"enemy_hp":     e.EnemyHP,
		"flags":        turn.ResultFlags,
	}).Debug("Battle turn resolved.")

	return &TurnResult{Turn: turn, Victory: victory, Defeat: defeat}, nil
}

func (s *Service) resolveVictory(ctx context.Context, e *storage.Encounter, def *EnemyDef) error {
	if def.XPReward > 0 {
		if _, err := s.GrantXP(ctx, GrantInput{
			CharacterID:  e.CharacterID,
			SourceModule: "battles",
			SourceAction: "victory",
			SourceItemID: def.ID,
			PrimaryStat:  StatSTR,
			PrimaryXP:    def.XPReward,
		}); err != nil {
			return err
		}
	}
	if err := s.appendLog(ctx, e.CharacterID, LogBattle,
		fmt.Sprintf("Defeated %s", def.Name),
		fmt.Sprintf("+%d XP", def.XPReward)); err != nil {
		return err
	}
	if def.LootTruth != "" {
		if _, err := s.CollectTruth(ctx, e.CharacterID, def.LootTruth, e.ID, def.LootTruthTheme); err != nil {
			return err
		}
	}
	return nil
}

// attackDamage computes the character's hit: attack power scales with the
// STR track, variance and crit both derive from the single supplied draw.
func attackDamage(strLevel, enemyDefense int, critChance, draw float64) (damage int, crit bool) {
	power := 8.0 + 2.0*float64(strLevel)
	variance := 0.9 + 0.2*draw
	raw := power * variance

	crit = draw >= 1-critChance
	if crit {
		raw *= 2
	}

	damage = int(math.Round(raw)) - enemyDefense
	if damage < 1 {
		damage = 1
	}
	return damage, crit
}

// enemyDamage computes the counterattack, mitigated by resistance and
// halved while defending.
func enemyDamage(enemyAttack int, resistance float64, defending bool, draw float64) int {
	variance := 0.8 + 0.4*(1-draw)
	raw := float64(enemyAttack) * variance * (1 - resistance)
	if defending {
		raw /= 2
	}
	damage := int(math.Round(raw))
	if damage < 1 {
		damage = 1
	}
	return damage
}
