package engine

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"gritquest/internal/storage"
)

// Service wires the progression engine to its persistence collaborator.
// All mutating operations assume the host serializes calls per character.
type Service struct {
	db         *sql.DB
	characters *storage.CharacterRepo
	quests     *storage.QuestRepo
	questlines *storage.QuestlineRepo
	encounters *storage.EncounterRepo
	perks      *storage.PerkRepo
	truths     *storage.TruthRepo
	logs       *storage.LogRepo
}

func NewService(db *sql.DB) *Service {
	return &Service{
		db:         db,
		characters: storage.NewCharacterRepo(db),
		quests:     storage.NewQuestRepo(db),
		questlines: storage.NewQuestlineRepo(db),
		encounters: storage.NewEncounterRepo(db),
		perks:      storage.NewPerkRepo(db),
		truths:     storage.NewTruthRepo(db),
		logs:       storage.NewLogRepo(db),
	}
}

func (s *Service) CharacterRepo() *storage.CharacterRepo { return s.characters }
func (s *Service) QuestRepo() *storage.QuestRepo         { return s.quests }
func (s *Service) QuestlineRepo() *storage.QuestlineRepo { return s.questlines }
func (s *Service) EncounterRepo() *storage.EncounterRepo { return s.encounters }
func (s *Service) PerkRepo() *storage.PerkRepo           { return s.perks }
func (s *Service) TruthRepo() *storage.TruthRepo         { return s.truths }
func (s *Service) LogRepo() *storage.LogRepo             { return s.logs }

func (s *Service) getCharacter(ctx context.Context, id string) (*storage.Character, error) {
	c, err := s.characters.GetOrCreate(ctx, id)
	if err != nil {
		return nil, err
	}
	computed := LevelFromXP(c.XPTotal).Level
	if c.Level != computed {
		c.Level = computed
		if err := s.characters.Update(ctx, c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// statXP reads one stat track's accumulated XP off the character row.
func statXP(c *storage.Character, kind StatKind) int {
	switch kind {
	case StatSTR:
		return c.XPStr
	case StatINT:
		return c.XPInt
	case StatWIS:
		return c.XPWis
	case StatDIS:
		return c.XPDis
	case StatVIT:
		return c.XPVit
	case StatCHA:
		return c.XPCha
	default:
		return 0
	}
}

func addStatXP(c *storage.Character, kind StatKind, xp int) {
	switch kind {
	case StatSTR:
		c.XPStr += xp
	case StatINT:
		c.XPInt += xp
	case StatWIS:
		c.XPWis += xp
	case StatDIS:
		c.XPDis += xp
	case StatVIT:
		c.XPVit += xp
	case StatCHA:
		c.XPCha += xp
	}
}

// CharacterStatLevels projects the character row onto the stat curve.
func CharacterStatLevels(c *storage.Character) StatLevels {
	out := make(StatLevels, len(AllStats))
	for _, kind := range AllStats {
		out[kind] = StatLevelFromXP(statXP(c, kind)).Level
	}
	return out
}

// StatLevelsFor reads the character's current stat levels, creating the
// character on first access.
func (s *Service) StatLevelsFor(ctx context.Context, characterID string) (StatLevels, error) {
	c, err := s.getCharacter(ctx, characterID)
	if err != nil {
		return nil, err
	}
	return CharacterStatLevels(c), nil
}

// AddPerkPoints credits perk points to the character. Awarding points is
// host policy; the engine only stores and consumes the counter.
func (s *Service) AddPerkPoints(ctx context.Context, characterID string, n int) error {
	if n < 0 {
		return InvalidInputError{Field: "perk points", Reason: "must be non-negative"}
	}
	c, err := s.getCharacter(ctx, characterID)
	if err != nil {
		return err
	}
	c.PerkPoints += n
	return s.characters.Update(ctx, c)
}

func (s *Service) appendLog(ctx context.Context, characterID string, logType LogType, title, description string) error {
	return s.logs.Insert(ctx, &storage.LogEntry{
		ID:          uuid.NewString(),
		CharacterID: characterID,
		Type:        string(logType),
		Title:       title,
		Description: description,
	})
}
