package storage

import (
	"context"
	"database/sql"
	"fmt"
)

type CharacterRepo struct {
	db *sql.DB
}

func NewCharacterRepo(db *sql.DB) *CharacterRepo {
	return &CharacterRepo{db: db}
}

const characterColumns = `id, title, aura_color, level, xp_total, perk_points,
	xp_str, xp_int, xp_wis, xp_dis, xp_vit, xp_cha, created_at`

func (r *CharacterRepo) Get(ctx context.Context, id string) (*Character, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+characterColumns+` FROM characters WHERE id = ?`, id)

	var c Character
	if err := row.Scan(
		&c.ID, &c.Title, &c.AuraColor, &c.Level, &c.XPTotal, &c.PerkPoints,
		&c.XPStr, &c.XPInt, &c.XPWis, &c.XPDis, &c.XPVit, &c.XPCha, &c.CreatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("character get: %w", err)
	}
	return &c, nil
}

// GetOrCreate returns the character row, creating it on first access.
func (r *CharacterRepo) GetOrCreate(ctx context.Context, id string) (*Character, error) {
	c, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c != nil {
		return c, nil
	}

	if _, err := r.db.ExecContext(ctx, `INSERT INTO characters (id) VALUES (?)`, id); err != nil {
		return nil, fmt.Errorf("character insert: %w", err)
	}
	return r.Get(ctx, id)
}

func (r *CharacterRepo) Update(ctx context.Context, c *Character) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE characters
		SET title = ?, aura_color = ?, level = ?, xp_total = ?, perk_points = ?,
			xp_str = ?, xp_int = ?, xp_wis = ?, xp_dis = ?, xp_vit = ?, xp_cha = ?
		WHERE id = ?
	`, c.Title, c.AuraColor, c.Level, c.XPTotal, c.PerkPoints,
		c.XPStr, c.XPInt, c.XPWis, c.XPDis, c.XPVit, c.XPCha, c.ID)
	if err != nil {
		return fmt.Errorf("character update: %w", err)
	}
	return nil
}
