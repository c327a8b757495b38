package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type QuestRepo struct {
	db *sql.DB
}

func NewQuestRepo(db *sql.DB) *QuestRepo {
	return &QuestRepo{db: db}
}

type QuestInsert struct {
	CharacterID  string
	CatalogID    string
	Scope        string
	PeriodKey    string
	SourceModule string
	SourceAction string
	TargetCount  int
	XPReward     int
	Stat         string
}

const questColumns = `id, character_id, catalog_id, scope, period_key,
	source_module, source_action, target_count, current_count, xp_reward,
	stat, status, created_at, completed_at`

func (r *QuestRepo) Insert(ctx context.Context, in QuestInsert) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO quests (
			character_id, catalog_id, scope, period_key,
			source_module, source_action, target_count, xp_reward, stat
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, in.CharacterID, in.CatalogID, in.Scope, in.PeriodKey,
		in.SourceModule, in.SourceAction, in.TargetCount, in.XPReward, in.Stat)
	if err != nil {
		return 0, fmt.Errorf("quest insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("quest last insert id: %w", err)
	}
	return id, nil
}

func (r *QuestRepo) Get(ctx context.Context, id int64) (*Quest, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+questColumns+` FROM quests WHERE id = ?`, id)
	return scanQuest(row)
}

// Exists reports whether a quest already covers the given period.
func (r *QuestRepo) Exists(ctx context.Context, characterID, scope, periodKey, catalogID string) (bool, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT 1 FROM quests
		WHERE character_id = ? AND scope = ? AND period_key = ? AND catalog_id = ?
		LIMIT 1
	`, characterID, scope, periodKey, catalogID)
	var one int
	if err := row.Scan(&one); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("quest exists: %w", err)
	}
	return true, nil
}

func (r *QuestRepo) ListForPeriod(ctx context.Context, characterID, scope, periodKey string) ([]Quest, error) {
	return r.list(ctx, `
		SELECT `+questColumns+` FROM quests
		WHERE character_id = ? AND scope = ? AND period_key = ?
		ORDER BY id ASC
	`, characterID, scope, periodKey)
}

func (r *QuestRepo) ListPendingByTrigger(ctx context.Context, characterID, sourceModule, sourceAction string) ([]Quest, error) {
	return r.list(ctx, `
		SELECT `+questColumns+` FROM quests
		WHERE character_id = ? AND status = 'pending'
			AND source_module = ? AND source_action = ?
		ORDER BY id ASC
	`, characterID, sourceModule, sourceAction)
}

func (r *QuestRepo) ListPending(ctx context.Context, characterID string) ([]Quest, error) {
	return r.list(ctx, `
		SELECT `+questColumns+` FROM quests
		WHERE character_id = ? AND status = 'pending'
		ORDER BY id ASC
	`, characterID)
}

func (r *QuestRepo) UpdateProgress(ctx context.Context, id int64, currentCount int) error {
	_, err := r.db.ExecContext(ctx, `UPDATE quests SET current_count = ? WHERE id = ?`, currentCount, id)
	if err != nil {
		return fmt.Errorf("quest update progress: %w", err)
	}
	return nil
}

func (r *QuestRepo) MarkCompleted(ctx context.Context, id int64, currentCount int, completedAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE quests SET current_count = ?, status = 'completed', completed_at = ?
		WHERE id = ?
	`, currentCount, completedAt, id)
	if err != nil {
		return fmt.Errorf("quest mark completed: %w", err)
	}
	return nil
}

func (r *QuestRepo) list(ctx context.Context, query string, args ...any) ([]Quest, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("quest list: %w", err)
	}
	defer rows.Close()

	var out []Quest
	for rows.Next() {
		q, err := scanQuest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("quest rows: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanQuest(row scanner) (*Quest, error) {
	var (
		q         Quest
		completed sql.NullTime
	)
	if err := row.Scan(
		&q.ID, &q.CharacterID, &q.CatalogID, &q.Scope, &q.PeriodKey,
		&q.SourceModule, &q.SourceAction, &q.TargetCount, &q.CurrentCount, &q.XPReward,
		&q.Stat, &q.Status, &q.CreatedAt, &completed,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("quest scan: %w", err)
	}
	if completed.Valid {
		v := completed.Time
		q.CompletedAt = &v
	}
	return &q, nil
}
