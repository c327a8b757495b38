package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"gritquest/internal/logging"
)

// PerkDef is one node in a skill tree. Number is unique within its tree,
// defines display order, and acts as the dependency key.
type PerkDef struct {
	Number      int
	Name        string
	Effect      string
	PrereqPerks []int
	MinLevel    int
	MinStats    map[StatKind]int
}

// SkillTreeDef is a static, load-validated perk tree.
type SkillTreeDef struct {
	ID    string
	Name  string
	Perks []PerkDef
}

// PerkState is the unlock state machine: locked -> available -> unlocked.
type PerkState string

const (
	PerkLocked    PerkState = "locked"
	PerkAvailable PerkState = "available"
	PerkUnlocked  PerkState = "unlocked"
)

// PerkStatus pairs a perk definition with its current state for display.
type PerkStatus struct {
	Tree  string
	Perk  PerkDef
	State PerkState
}

func builtinSkillTrees() []SkillTreeDef {
	return []SkillTreeDef{
		{
			ID:   "warrior",
			Name: "Path of the Warrior",
			Perks: []PerkDef{
				{Number: 1, Name: "First Blood", Effect: "Battle damage +5%"},
				{Number: 2, Name: "Thick Skin", Effect: "Resistance +2%",
					PrereqPerks: []int{1}, MinLevel: 3},
				{Number: 3, Name: "Berserker", Effect: "Crit damage +25%",
					PrereqPerks: []int{1}, MinLevel: 5, MinStats: map[StatKind]int{StatSTR: 3}},
				{Number: 4, Name: "Juggernaut", Effect: "Max HP +10%",
					PrereqPerks: []int{2, 3}, MinLevel: 8, MinStats: map[StatKind]int{StatVIT: 4}},
			},
		},
		{
			ID:   "sage",
			Name: "Path of the Sage",
			Perks: []PerkDef{
				{Number: 1, Name: "Clear Mind", Effect: "Energy regen +10%"},
				{Number: 2, Name: "Deep Focus", Effect: "Focus restores +5 energy",
					PrereqPerks: []int{1}, MinLevel: 4, MinStats: map[StatKind]int{StatWIS: 2}},
				{Number: 3, Name: "Inner Calm", Effect: "Resistance +4%",
					PrereqPerks: []int{2}, MinLevel: 7, MinStats: map[StatKind]int{StatWIS: 4, StatDIS: 2}},
			},
		},
		{
			ID:   "luminary",
			Name: "Path of the Luminary",
			Perks: []PerkDef{
				{Number: 1, Name: "Warm Presence", Effect: "Quest XP +5%"},
				{Number: 2, Name: "Storyteller", Effect: "Truth slots feel heavier",
					PrereqPerks: []int{1}, MinLevel: 4, MinStats: map[StatKind]int{StatCHA: 2}},
				{Number: 3, Name: "Beacon", Effect: "Crit +2%",
					PrereqPerks: []int{1}, MinLevel: 6, MinStats: map[StatKind]int{StatCHA: 3, StatINT: 2}},
			},
		},
	}
}

// SkillTrees returns the static tree catalog in display order.
func SkillTrees() []SkillTreeDef {
	return builtinSkillTrees()
}

// GetSkillTree looks up one tree by id.
func GetSkillTree(treeID string) *SkillTreeDef {
	for _, t := range builtinSkillTrees() {
		if t.ID == treeID {
			tree := t
			return &tree
		}
	}
	return nil
}

func (t *SkillTreeDef) perk(number int) *PerkDef {
	for i := range t.Perks {
		if t.Perks[i].Number == number {
			return &t.Perks[i]
		}
	}
	return nil
}

// ValidateSkillTrees rejects malformed catalogs at load time: duplicate perk
// numbers, prerequisites that reference undefined or self perks, unknown
// stats, and prerequisite cycles. The unlock path can then assume a DAG.
func ValidateSkillTrees(trees []SkillTreeDef) error {
	treeIDs := map[string]bool{}
	for _, tree := range trees {
		if treeIDs[tree.ID] {
			return fmt.Errorf("skill tree catalog: duplicate tree id %q", tree.ID)
		}
		treeIDs[tree.ID] = true

		numbers := map[int]bool{}
		for _, p := range tree.Perks {
			if p.Number < 1 {
				return fmt.Errorf("tree %s: perk number %d must be positive", tree.ID, p.Number)
			}
			if numbers[p.Number] {
				return fmt.Errorf("tree %s: duplicate perk number %d", tree.ID, p.Number)
			}
			numbers[p.Number] = true
			for stat := range p.MinStats {
				if !stat.IsValid() {
					return fmt.Errorf("tree %s: perk %d names unknown stat %q", tree.ID, p.Number, stat)
				}
			}
		}

		for _, p := range tree.Perks {
			for _, pre := range p.PrereqPerks {
				if pre == p.Number {
					return fmt.Errorf("tree %s: perk %d is its own prerequisite", tree.ID, p.Number)
				}
				if !numbers[pre] {
					return fmt.Errorf("tree %s: perk %d requires undefined perk %d", tree.ID, p.Number, pre)
				}
			}
		}

		if err := checkAcyclic(tree); err != nil {
			return err
		}
	}
	return nil
}

// checkAcyclic runs a depth-first search over prerequisite edges.
func checkAcyclic(tree SkillTreeDef) error {
	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := map[int]int{}

	var visit func(number int) error
	visit = func(number int) error {
		switch state[number] {
		case visiting:
			return fmt.Errorf("tree %s: prerequisite cycle through perk %d", tree.ID, number)
		case done:
			return nil
		}
		state[number] = visiting
		for _, pre := range tree.perk(number).PrereqPerks {
			if err := visit(pre); err != nil {
				return err
			}
		}
		state[number] = done
		return nil
	}

	for _, p := range tree.Perks {
		if err := visit(p.Number); err != nil {
			return err
		}
	}
	return nil
}

// perkAvailable checks every unlock precondition except perk points:
// prerequisites unlocked in the same tree, character level, stat thresholds.
func perkAvailable(p *PerkDef, unlocked map[int]bool, level int, stats StatLevels) bool {
	for _, pre := range p.PrereqPerks {
		if !unlocked[pre] {
			return false
		}
	}
	if level < p.MinLevel {
		return false
	}
	for stat, min := range p.MinStats {
		if stats[stat] < min {
			return false
		}
	}
	return true
}

// AvailablePerks reports every perk in every tree with its current state.
func (s *Service) AvailablePerks(ctx context.Context, characterID string) ([]PerkStatus, error) {
	c, err := s.getCharacter(ctx, characterID)
	if err != nil {
		return nil, err
	}
	stats := CharacterStatLevels(c)

	var out []PerkStatus
	for _, tree := range builtinSkillTrees() {
		unlocked, err := s.perks.UnlockedNumbers(ctx, characterID, tree.ID)
		if err != nil {
			return nil, err
		}
		for _, p := range tree.Perks {
			state := PerkLocked
			switch {
			case unlocked[p.Number]:
				state = PerkUnlocked
			case perkAvailable(&p, unlocked, c.Level, stats):
				state = PerkAvailable
			}
			out = append(out, PerkStatus{Tree: tree.ID, Perk: p, State: state})
		}
	}
	return out, nil
}

// UnlockPerk consumes one perk point to unlock a perk. All gates are checked
// before the first write, so a refused unlock never spends a point.
func (s *Service) UnlockPerk(ctx context.Context, characterID, treeID string, perkNumber int) error {
	tree := GetSkillTree(treeID)
	if tree == nil {
		return InvalidInputError{Field: "tree id", Reason: fmt.Sprintf("unknown tree %q", treeID)}
	}
	perk := tree.perk(perkNumber)
	if perk == nil {
		return InvalidInputError{Field: "perk number", Reason: fmt.Sprintf("tree %s has no perk %d", treeID, perkNumber)}
	}

	c, err := s.getCharacter(ctx, characterID)
	if err != nil {
		return err
	}

	already, err := s.perks.IsUnlocked(ctx, characterID, treeID, perkNumber)
	if err != nil {
		return err
	}
	if already {
		return UnlockError{TreeID: treeID, PerkNumber: perkNumber, Reason: UnlockAlreadyUnlocked}
	}

	unlocked, err := s.perks.UnlockedNumbers(ctx, characterID, treeID)
	if err != nil {
		return err
	}
	if !perkAvailable(perk, unlocked, c.Level, CharacterStatLevels(c)) {
		return UnlockError{
			TreeID:     treeID,
			PerkNumber: perkNumber,
			Reason:     UnlockPrerequisiteNotMet,
			Detail:     fmt.Sprintf("requires level %d, perks %v", perk.MinLevel, perk.PrereqPerks),
		}
	}
	if c.PerkPoints < 1 {
		return UnlockError{TreeID: treeID, PerkNumber: perkNumber, Reason: UnlockInsufficientPoints}
	}

	now := time.Now().UTC()
	if err := s.perks.Insert(ctx, characterID, treeID, perkNumber, now); err != nil {
		return err
	}
	c.PerkPoints--
	if err := s.characters.Update(ctx, c); err != nil {
		return err
	}
	if err := s.appendLog(ctx, characterID, LogPerk,
		fmt.Sprintf("Unlocked %s", perk.Name),
		fmt.Sprintf("%s — %s", tree.Name, perk.Effect)); err != nil {
		return err
	}

	logging.Log.WithFields(logrus.Fields{
		"component":    "skill_tree",
		"character_id": characterID,
		"tree_id":      treeID,
		"perk_number":  perkNumber,
		"points_left":  c.PerkPoints,
	}).Info("Perk unlocked.")

	return nil
}
