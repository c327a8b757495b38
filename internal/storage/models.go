package storage

import "time"

type Character struct {
	ID         string
	Title      string
	AuraColor  string
	Level      int
	XPTotal    int
	PerkPoints int

	XPStr int
	XPInt int
	XPWis int
	XPDis int
	XPVit int
	XPCha int

	CreatedAt time.Time
}

type Quest struct {
	ID           int64
	CharacterID  string
	CatalogID    string
	Scope        string
	PeriodKey    string
	SourceModule string
	SourceAction string
	TargetCount  int
	CurrentCount int
	XPReward     int
	Stat         string
	Status       string
	CreatedAt    time.Time
	CompletedAt  *time.Time
}

type Questline struct {
	CharacterID string
	Code        string
	CurrentStep int
	TotalSteps  int
	CompletedAt *time.Time
}

type Encounter struct {
	ID              string
	CharacterID     string
	EnemyID         string
	Status          string
	CharacterHP     int
	CharacterMaxHP  int
	CharacterEnergy int
	EnemyHP         int
	EnemyMaxHP      int
	SourceAction    string
	CreatedAt       time.Time
	ResolvedAt      *time.Time
}

type BattleTurn struct {
	ID               int64
	EncounterID      string
	TurnNumber       int
	Action           string
	CharacterHPAfter int
	EnemyHPAfter     int
	ResultFlags      string
	CreatedAt        time.Time
}

type PerkUnlock struct {
	CharacterID string
	TreeID      string
	PerkNumber  int
	UnlockedAt  time.Time
}

type Truth struct {
	ID            string
	CharacterID   string
	Text          string
	Theme         string
	SourceEntryID string
	Equipped      bool
	CollectedAt   time.Time
}

type LogEntry struct {
	ID          string
	CharacterID string
	Type        string
	Title       string
	Description string
	CreatedAt   time.Time
}
