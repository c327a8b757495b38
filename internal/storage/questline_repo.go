package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type QuestlineRepo struct {
	db *sql.DB
}

func NewQuestlineRepo(db *sql.DB) *QuestlineRepo {
	return &QuestlineRepo{db: db}
}

func (r *QuestlineRepo) Get(ctx context.Context, characterID, code string) (*Questline, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT character_id, code, current_step, total_steps, completed_at
		FROM questlines
		WHERE character_id = ? AND code = ?
	`, characterID, code)

	var (
		q         Questline
		completed sql.NullTime
	)
	if err := row.Scan(&q.CharacterID, &q.Code, &q.CurrentStep, &q.TotalSteps, &completed); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("questline get: %w", err)
	}
	if completed.Valid {
		v := completed.Time
		q.CompletedAt = &v
	}
	return &q, nil
}

// GetOrCreate ensures a questline row exists at step zero.
func (r *QuestlineRepo) GetOrCreate(ctx context.Context, characterID, code string, totalSteps int) (*Questline, error) {
	q, err := r.Get(ctx, characterID, code)
	if err != nil {
		return nil, err
	}
	if q != nil {
		return q, nil
	}

	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO questlines (character_id, code, total_steps) VALUES (?, ?, ?)
	`, characterID, code, totalSteps); err != nil {
		return nil, fmt.Errorf("questline insert: %w", err)
	}
	return r.Get(ctx, characterID, code)
}

func (r *QuestlineRepo) UpdateStep(ctx context.Context, characterID, code string, currentStep int, completedAt *time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE questlines SET current_step = ?, completed_at = ?
		WHERE character_id = ? AND code = ?
	`, currentStep, completedAt, characterID, code)
	if err != nil {
		return fmt.Errorf("questline update: %w", err)
	}
	return nil
}

func (r *QuestlineRepo) ListAll(ctx context.Context, characterID string) ([]Questline, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT character_id, code, current_step, total_steps, completed_at
		FROM questlines
		WHERE character_id = ?
		ORDER BY code ASC
	`, characterID)
	if err != nil {
		return nil, fmt.Errorf("questline list: %w", err)
	}
	defer rows.Close()

	var out []Questline
	for rows.Next() {
		var (
			q         Questline
			completed sql.NullTime
		)
		if err := rows.Scan(&q.CharacterID, &q.Code, &q.CurrentStep, &q.TotalSteps, &completed); err != nil {
			return nil, fmt.Errorf("questline scan: %w", err)
		}
		if completed.Valid {
			v := completed.Time
			q.CompletedAt = &v
		}
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("questline rows: %w", err)
	}
	return out, nil
}
