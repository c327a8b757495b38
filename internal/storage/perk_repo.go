package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type PerkRepo struct {
	db *sql.DB
}

func NewPerkRepo(db *sql.DB) *PerkRepo {
	return &PerkRepo{db: db}
}

// Insert records an unlock fact. The primary key makes double unlocks a
// constraint violation rather than silent duplicates.
func (r *PerkRepo) Insert(ctx context.Context, characterID, treeID string, perkNumber int, unlockedAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO perk_unlocks (character_id, tree_id, perk_number, unlocked_at)
		VALUES (?, ?, ?, ?)
	`, characterID, treeID, perkNumber, unlockedAt)
	if err != nil {
		return fmt.Errorf("perk unlock insert: %w", err)
	}
	return nil
}

func (r *PerkRepo) IsUnlocked(ctx context.Context, characterID, treeID string, perkNumber int) (bool, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT 1 FROM perk_unlocks
		WHERE character_id = ? AND tree_id = ? AND perk_number = ?
		LIMIT 1
	`, characterID, treeID, perkNumber)
	var one int
	if err := row.Scan(&one); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("perk unlock check: %w", err)
	}
	return true, nil
}

// UnlockedNumbers returns the set of unlocked perk numbers within one tree.
func (r *PerkRepo) UnlockedNumbers(ctx context.Context, characterID, treeID string) (map[int]bool, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT perk_number FROM perk_unlocks
		WHERE character_id = ? AND tree_id = ?
	`, characterID, treeID)
	if err != nil {
		return nil, fmt.Errorf("perk unlock numbers: %w", err)
	}
	defer rows.Close()

	out := map[int]bool{}
	for rows.Next() {
		var n int
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("perk unlock scan: %w", err)
		}
		out[n] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("perk unlock rows: %w", err)
	}
	return out, nil
}

func (r *PerkRepo) ListAll(ctx context.Context, characterID string) ([]PerkUnlock, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT character_id, tree_id, perk_number, unlocked_at
		FROM perk_unlocks
		WHERE character_id = ?
		ORDER BY tree_id ASC, perk_number ASC
	`, characterID)
	if err != nil {
		return nil, fmt.Errorf("perk unlock list: %w", err)
	}
	defer rows.Close()

	var out []PerkUnlock
	for rows.Next() {
		var u PerkUnlock
		if err := rows.Scan(&u.CharacterID, &u.TreeID, &u.PerkNumber, &u.UnlockedAt); err != nil {
			return nil, fmt.Errorf("perk unlock scan: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("perk unlock rows: %w", err)
	}
	return out, nil
}
