package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"gritquest/internal/logging"
	"gritquest/internal/storage"
)

const periodKeyLayout = "2006-01-02"

// WeekStart returns the Monday of the ISO week containing t, truncated to a
// date.
func WeekStart(t time.Time) time.Time {
	t = t.UTC()
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday belongs to the week that started the previous Monday.
	}
	monday := t.AddDate(0, 0, -(weekday - 1))
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, time.UTC)
}

// GenerateDailyQuests ensures one quest exists per daily catalog entry for
// the given date. Idempotent: re-invoking for the same date creates nothing
// and preserves recorded progress. Returns only newly created quests.
func (s *Service) GenerateDailyQuests(ctx context.Context, characterID string, asOf time.Time) ([]storage.Quest, error) {
	return s.generateQuests(ctx, characterID, ScopeDaily, asOf.UTC().Format(periodKeyLayout))
}

// GenerateWeeklyQuests is the weekly analogue, keyed by the ISO week's
// Monday.
func (s *Service) GenerateWeeklyQuests(ctx context.Context, characterID string, asOf time.Time) ([]storage.Quest, error) {
	return s.generateQuests(ctx, characterID, ScopeWeekly, WeekStart(asOf).Format(periodKeyLayout))
}

func (s *Service) generateQuests(ctx context.Context, characterID string, scope QuestScope, periodKey string) ([]storage.Quest, error) {
	if _, err := s.getCharacter(ctx, characterID); err != nil {
		return nil, err
	}

	var created []storage.Quest
	for _, def := range builtinQuests() {
		if def.Scope != scope {
			continue
		}
		exists, err := s.quests.Exists(ctx, characterID, string(scope), periodKey, def.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			continue
		}

		id, err := s.quests.Insert(ctx, storage.QuestInsert{
			CharacterID:  characterID,
			CatalogID:    def.ID,
			Scope:        string(scope),
			PeriodKey:    periodKey,
			SourceModule: def.SourceModule,
			SourceAction: def.SourceAction,
			TargetCount:  def.TargetCount,
			XPReward:     def.XPReward,
			Stat:         string(def.Stat),
		})
		if err != nil {
			return nil, err
		}
		q, err := s.quests.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		created = append(created, *q)
	}

	logging.Log.WithFields(logrus.Fields{
		"component":    "quest_scheduler",
		"character_id": characterID,
		"scope":        scope,
		"period_key":   periodKey,
		"created":      len(created),
	}).Debug("Quest generation pass.")

	return created, nil
}

// QuestProgressResult reports one quest advanced by a progress event.
type QuestProgressResult struct {
	Quest     storage.Quest
	Completed bool
	XPAwarded int

	// QuestlineStep is set when completing this quest advanced a
	// questline; it holds the new step.
	QuestlineStep     int
	QuestlineComplete bool
}

// ProgressQuest applies one host event to every pending quest matching
// (sourceModule, sourceAction). Each match advances independently; quests
// that reach their target complete, grant their XP reward through the grant
// path, and advance their questline if they belong to one.
func (s *Service) ProgressQuest(ctx context.Context, characterID, sourceModule, sourceAction string) ([]QuestProgressResult, error) {
	if sourceModule == "" || sourceAction == "" {
		return nil, InvalidInputError{Field: "trigger", Reason: "source module and action are required"}
	}
	if _, err := s.getCharacter(ctx, characterID); err != nil {
		return nil, err
	}

	matches, err := s.quests.ListPendingByTrigger(ctx, characterID, sourceModule, sourceAction)
	if err != nil {
		return nil, err
	}

	catalog := QuestCatalog()
	var results []QuestProgressResult
	for _, q := range matches {
		q.CurrentCount++
		if q.CurrentCount > q.TargetCount {
			q.CurrentCount = q.TargetCount
		}

		if q.CurrentCount < q.TargetCount {
			if err := s.quests.UpdateProgress(ctx, q.ID, q.CurrentCount); err != nil {
				return nil, err
			}
			results = append(results, QuestProgressResult{Quest: q})
			continue
		}

		now := time.Now().UTC()
		if err := s.quests.MarkCompleted(ctx, q.ID, q.CurrentCount, now); err != nil {
			return nil, err
		}
		q.Status = "completed"
		q.CompletedAt = &now

		res := QuestProgressResult{Quest: q, Completed: true}

		def, ok := catalog[q.CatalogID]
		title := q.CatalogID
		if ok {
			title = def.Title
		}

		if q.XPReward > 0 {
			stat, valid := ParseStatKind(q.Stat)
			if !valid {
				stat = StatDIS
			}
			if _, err := s.GrantXP(ctx, GrantInput{
				CharacterID:  characterID,
				SourceModule: "quests",
				SourceAction: "complete",
				SourceItemID: q.CatalogID,
				PrimaryStat:  stat,
				PrimaryXP:    q.XPReward,
			}); err != nil {
				return nil, err
			}
			res.XPAwarded = q.XPReward
		}

		if err := s.appendLog(ctx, characterID, LogQuestComplete,
			fmt.Sprintf("Quest complete: %s", title),
			fmt.Sprintf("+%d XP", q.XPReward)); err != nil {
			return nil, err
		}

		if ok && def.Questline != "" {
			step, done, err := s.advanceQuestline(ctx, characterID, def.Questline)
			if err != nil {
				return nil, err
			}
			res.QuestlineStep = step
			res.QuestlineComplete = done
		}

		results = append(results, res)
	}

	return results, nil
}

// advanceQuestline increments a questline by exactly one step, clamped
// terminal at its total. Completed questlines ignore further completions.
func (s *Service) advanceQuestline(ctx context.Context, characterID, code string) (step int, complete bool, err error) {
	def := GetQuestlineDef(code)
	if def == nil {
		return 0, false, InvalidInputError{Field: "questline", Reason: fmt.Sprintf("unknown questline %q", code)}
	}

	ql, err := s.questlines.GetOrCreate(ctx, characterID, code, def.TotalSteps)
	if err != nil {
		return 0, false, err
	}
	if ql.CurrentStep >= ql.TotalSteps {
		return ql.CurrentStep, true, nil
	}

	ql.CurrentStep++
	var completedAt *time.Time
	if ql.CurrentStep >= ql.TotalSteps {
		now := time.Now().UTC()
		completedAt = &now
	}
	if err := s.questlines.UpdateStep(ctx, characterID, code, ql.CurrentStep, completedAt); err != nil {
		return 0, false, err
	}

	if completedAt != nil {
		if err := s.appendLog(ctx, characterID, LogAchievement,
			fmt.Sprintf("Questline complete: %s", def.Title),
			fmt.Sprintf("All %d steps finished", def.TotalSteps)); err != nil {
			return 0, false, err
		}
		return ql.CurrentStep, true, nil
	}
	return ql.CurrentStep, false, nil
}
