package storage

import (
	"context"
	"database/sql"
	"fmt"
)

type TruthRepo struct {
	db *sql.DB
}

func NewTruthRepo(db *sql.DB) *TruthRepo {
	return &TruthRepo{db: db}
}

func (r *TruthRepo) Insert(ctx context.Context, t *Truth) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO truths (id, character_id, text, theme, source_entry_id, equipped)
		VALUES (?, ?, ?, ?, ?, ?)
	`, t.ID, t.CharacterID, t.Text, t.Theme, t.SourceEntryID, boolToInt(t.Equipped))
	if err != nil {
		return fmt.Errorf("truth insert: %w", err)
	}
	return nil
}

func (r *TruthRepo) Get(ctx context.Context, id string) (*Truth, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, character_id, text, theme, source_entry_id, equipped, collected_at
		FROM truths
		WHERE id = ?
	`, id)

	var (
		t        Truth
		equipped int
	)
	if err := row.Scan(&t.ID, &t.CharacterID, &t.Text, &t.Theme, &t.SourceEntryID, &equipped, &t.CollectedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("truth get: %w", err)
	}
	t.Equipped = equipped != 0
	return &t, nil
}

func (r *TruthRepo) SetEquipped(ctx context.Context, id string, equipped bool) error {
	_, err := r.db.ExecContext(ctx, `UPDATE truths SET equipped = ? WHERE id = ?`, boolToInt(equipped), id)
	if err != nil {
		return fmt.Errorf("truth set equipped: %w", err)
	}
	return nil
}

func (r *TruthRepo) CountEquipped(ctx context.Context, characterID string) (int, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM truths WHERE character_id = ? AND equipped = 1
	`, characterID)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("truth count equipped: %w", err)
	}
	return n, nil
}

func (r *TruthRepo) ListAll(ctx context.Context, characterID string) ([]Truth, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, character_id, text, theme, source_entry_id, equipped, collected_at
		FROM truths
		WHERE character_id = ?
		ORDER BY collected_at ASC, id ASC
	`, characterID)
	if err != nil {
		return nil, fmt.Errorf("truth list: %w", err)
	}
	defer rows.Close()

	var out []Truth
	for rows.Next() {
		var (
			t        Truth
			equipped int
		)
		if err := rows.Scan(&t.ID, &t.CharacterID, &t.Text, &t.Theme, &t.SourceEntryID, &equipped, &t.CollectedAt); err != nil {
			return nil, fmt.Errorf("truth scan: %w", err)
		}
		t.Equipped = equipped != 0
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("truth rows: %w", err)
	}
	return out, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
