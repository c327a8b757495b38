package engine

import "fmt"

// QuestDef is one catalog entry. Quests are instantiated per period from
// these immutable definitions.
type QuestDef struct {
	ID           string
	Scope        QuestScope
	Title        string
	SourceModule string
	SourceAction string
	TargetCount  int
	XPReward     int
	Stat         StatKind

	// Questline, when set, names the campaign this quest advances on
	// completion.
	Questline string
}

// QuestlineDef is a multi-step campaign advanced by quest completions.
type QuestlineDef struct {
	Code       string
	Title      string
	TotalSteps int
}

// EnemyDef is one encounter opponent.
type EnemyDef struct {
	ID       string
	Name     string
	MaxHP    int
	Attack   int
	Defense  int
	XPReward int

	// LootTruth, when non-empty, is collected on victory.
	LootTruth      string
	LootTruthTheme string
}

func builtinQuests() []QuestDef {
	return []QuestDef{
		{
			ID:           "daily_tasks_3",
			Scope:        ScopeDaily,
			Title:        "Clear the Docket",
			SourceModule: "tasks",
			SourceAction: "complete",
			TargetCount:  3,
			XPReward:     60,
			Stat:         StatDIS,
		},
		{
			ID:           "daily_workout",
			Scope:        ScopeDaily,
			Title:        "Break a Sweat",
			SourceModule: "workouts",
			SourceAction: "complete",
			TargetCount:  1,
			XPReward:     80,
			Stat:         StatSTR,
		},
		{
			ID:           "daily_journal",
			Scope:        ScopeDaily,
			Title:        "Put It Into Words",
			SourceModule: "journal",
			SourceAction: "entry",
			TargetCount:  1,
			XPReward:     50,
			Stat:         StatWIS,
			Questline:    "inner_voice",
		},
		{
			ID:           "weekly_tasks_15",
			Scope:        ScopeWeekly,
			Title:        "A Week of Momentum",
			SourceModule: "tasks",
			SourceAction: "complete",
			TargetCount:  15,
			XPReward:     250,
			Stat:         StatDIS,
		},
		{
			ID:           "weekly_workouts_4",
			Scope:        ScopeWeekly,
			Title:        "Iron Rhythm",
			SourceModule: "workouts",
			SourceAction: "complete",
			TargetCount:  4,
			XPReward:     300,
			Stat:         StatVIT,
			Questline:    "iron_path",
		},
		{
			ID:           "weekly_social",
			Scope:        ScopeWeekly,
			Title:        "Reach Out",
			SourceModule: "social",
			SourceAction: "checkin",
			TargetCount:  2,
			XPReward:     150,
			Stat:         StatCHA,
		},
	}
}

func builtinQuestlines() []QuestlineDef {
	return []QuestlineDef{
		{Code: "inner_voice", Title: "The Inner Voice", TotalSteps: 7},
		{Code: "iron_path", Title: "The Iron Path", TotalSteps: 4},
	}
}

func builtinEnemies() []EnemyDef {
	return []EnemyDef{
		{
			ID:       "procrastination_imp",
			Name:     "Procrastination Imp",
			MaxHP:    60,
			Attack:   8,
			Defense:  2,
			XPReward: 90,
		},
		{
			ID:       "doubt_shade",
			Name:     "Shade of Doubt",
			MaxHP:    110,
			Attack:   12,
			Defense:  4,
			XPReward: 180,
			LootTruth:      "Doubt shrinks when named.",
			LootTruthTheme: "resolve",
		},
		{
			ID:       "burnout_golem",
			Name:     "Burnout Golem",
			MaxHP:    180,
			Attack:   16,
			Defense:  7,
			XPReward: 320,
			LootTruth:      "Rest is part of the work.",
			LootTruthTheme: "balance",
		},
	}
}

// QuestCatalog returns the static quest catalog keyed by id.
func QuestCatalog() map[string]QuestDef {
	out := map[string]QuestDef{}
	for _, def := range builtinQuests() {
		out[def.ID] = def
	}
	return out
}

// GetQuestlineDef looks up a questline definition by code.
func GetQuestlineDef(code string) *QuestlineDef {
	for _, def := range builtinQuestlines() {
		if def.Code == code {
			d := def
			return &d
		}
	}
	return nil
}

// GetEnemyDef looks up an enemy definition by id.
func GetEnemyDef(id string) *EnemyDef {
	for _, def := range builtinEnemies() {
		if def.ID == id {
			d := def
			return &d
		}
	}
	return nil
}

// ValidateCatalogs checks cross-references between the static tables. Run
// once at startup so runtime lookups can assume consistency.
func ValidateCatalogs() error {
	seen := map[string]bool{}
	for _, q := range builtinQuests() {
		if seen[q.ID] {
			return fmt.Errorf("quest catalog: duplicate id %q", q.ID)
		}
		seen[q.ID] = true
		if q.TargetCount < 1 {
			return fmt.Errorf("quest catalog: %q has target count %d", q.ID, q.TargetCount)
		}
		if q.XPReward < 0 {
			return fmt.Errorf("quest catalog: %q has negative reward", q.ID)
		}
		if !q.Stat.IsValid() {
			return fmt.Errorf("quest catalog: %q names unknown stat %q", q.ID, q.Stat)
		}
		if q.Questline != "" && GetQuestlineDef(q.Questline) == nil {
			return fmt.Errorf("quest catalog: %q names unknown questline %q", q.ID, q.Questline)
		}
	}

	for _, e := range builtinEnemies() {
		if e.MaxHP < 1 {
			return fmt.Errorf("enemy catalog: %q has max hp %d", e.ID, e.MaxHP)
		}
	}

	return ValidateSkillTrees(builtinSkillTrees())
}
