package engine

import "strings"

// StatKind identifies one of the six independently leveled stat tracks.
type StatKind string

const (
	StatSTR StatKind = "STR"
	StatINT StatKind = "INT"
	StatWIS StatKind = "WIS"
	StatDIS StatKind = "DIS"
	StatVIT StatKind = "VIT"
	StatCHA StatKind = "CHA"
)

// AllStats lists every stat kind in display order.
var AllStats = []StatKind{StatSTR, StatINT, StatWIS, StatDIS, StatVIT, StatCHA}

func (s StatKind) IsValid() bool {
	switch s {
	case StatSTR, StatINT, StatWIS, StatDIS, StatVIT, StatCHA:
		return true
	default:
		return false
	}
}

// ParseStatKind parses user input to a StatKind. Returns false when the
// input names no known stat.
func ParseStatKind(input string) (StatKind, bool) {
	switch strings.TrimSpace(strings.ToUpper(input)) {
	case "STR", "STRENGTH":
		return StatSTR, true
	case "INT", "INTELLECT":
		return StatINT, true
	case "WIS", "WISDOM":
		return StatWIS, true
	case "DIS", "DISCIPLINE":
		return StatDIS, true
	case "VIT", "VITALITY":
		return StatVIT, true
	case "CHA", "CHARISMA":
		return StatCHA, true
	default:
		return "", false
	}
}

// StatLevels maps each stat kind to its current level. Missing kinds are
// treated as level zero.
type StatLevels map[StatKind]int

// SecondaryStats are the derived combat numbers. They are a pure projection
// of StatLevels and are never persisted.
type SecondaryStats struct {
	MaxHP      int
	MaxEnergy  int
	Crit       float64
	Resistance float64
}

// LogType tags activity log entries for display grouping.
type LogType string

const (
	LogLevelUp       LogType = "level_up"
	LogStatUp        LogType = "stat_up"
	LogQuestComplete LogType = "quest_complete"
	LogBattle        LogType = "battle"
	LogAchievement   LogType = "achievement"
	LogLoot          LogType = "loot"
	LogPerk          LogType = "perk"
)

// QuestScope distinguishes daily from weekly quests.
type QuestScope string

const (
	ScopeDaily  QuestScope = "daily"
	ScopeWeekly QuestScope = "weekly"
)

// BattleAction is one of the character's moves inside an encounter.
type BattleAction string

const (
	ActionAttack BattleAction = "attack"
	ActionDefend BattleAction = "defend"
	ActionFocus  BattleAction = "focus"
)

func (a BattleAction) IsValid() bool {
	switch a {
	case ActionAttack, ActionDefend, ActionFocus:
		return true
	default:
		return false
	}
}

// ParseBattleAction parses user input to a BattleAction.
func ParseBattleAction(input string) (BattleAction, bool) {
	a := BattleAction(strings.TrimSpace(strings.ToLower(input)))
	if !a.IsValid() {
		return "", false
	}
	return a, true
}
