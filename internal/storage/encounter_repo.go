package storage

import (
	"context"
	"database/sql"
	"fmt"
)

type EncounterRepo struct {
	db *sql.DB
}

func NewEncounterRepo(db *sql.DB) *EncounterRepo {
	return &EncounterRepo{db: db}
}

const encounterColumns = `id, character_id, enemy_id, status,
	character_hp, character_max_hp, character_energy,
	enemy_hp, enemy_max_hp, source_action, created_at, resolved_at`

func (r *EncounterRepo) Insert(ctx context.Context, e *Encounter) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO encounters (
			id, character_id, enemy_id, status,
			character_hp, character_max_hp, character_energy,
			enemy_hp, enemy_max_hp, source_action
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.CharacterID, e.EnemyID, e.Status,
		e.CharacterHP, e.CharacterMaxHP, e.CharacterEnergy,
		e.EnemyHP, e.EnemyMaxHP, e.SourceAction)
	if err != nil {
		return fmt.Errorf("encounter insert: %w", err)
	}
	return nil
}

func (r *EncounterRepo) Get(ctx context.Context, id string) (*Encounter, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+encounterColumns+` FROM encounters WHERE id = ?`, id)

	var (
		e        Encounter
		resolved sql.NullTime
	)
	if err := row.Scan(
		&e.ID, &e.CharacterID, &e.EnemyID, &e.Status,
		&e.CharacterHP, &e.CharacterMaxHP, &e.CharacterEnergy,
		&e.EnemyHP, &e.EnemyMaxHP, &e.SourceAction, &e.CreatedAt, &resolved,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("encounter get: %w", err)
	}
	if resolved.Valid {
		v := resolved.Time
		e.ResolvedAt = &v
	}
	return &e, nil
}

func (r *EncounterRepo) Update(ctx context.Context, e *Encounter) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE encounters
		SET status = ?, character_hp = ?, character_energy = ?, enemy_hp = ?, resolved_at = ?
		WHERE id = ?
	`, e.Status, e.CharacterHP, e.CharacterEnergy, e.EnemyHP, e.ResolvedAt, e.ID)
	if err != nil {
		return fmt.Errorf("encounter update: %w", err)
	}
	return nil
}

func (r *EncounterRepo) InsertTurn(ctx context.Context, t *BattleTurn) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO battle_turns (
			encounter_id, turn_number, action,
			character_hp_after, enemy_hp_after, result_flags
		) VALUES (?, ?, ?, ?, ?, ?)
	`, t.EncounterID, t.TurnNumber, t.Action,
		t.CharacterHPAfter, t.EnemyHPAfter, t.ResultFlags)
	if err != nil {
		return 0, fmt.Errorf("battle turn insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("battle turn last insert id: %w", err)
	}
	return id, nil
}

// LastTurnNumber returns the highest turn number recorded for the encounter,
// zero when no turns exist yet.
func (r *EncounterRepo) LastTurnNumber(ctx context.Context, encounterID string) (int, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(turn_number), 0) FROM battle_turns WHERE encounter_id = ?
	`, encounterID)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("battle turn max: %w", err)
	}
	return n, nil
}

func (r *EncounterRepo) ListTurns(ctx context.Context, encounterID string) ([]BattleTurn, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, encounter_id, turn_number, action,
			character_hp_after, enemy_hp_after, result_flags, created_at
		FROM battle_turns
		WHERE encounter_id = ?
		ORDER BY turn_number ASC
	`, encounterID)
	if err != nil {
		return nil, fmt.Errorf("battle turn list: %w", err)
	}
	defer rows.Close()

	var out []BattleTurn
	for rows.Next() {
		var t BattleTurn
		if err := rows.Scan(
			&t.ID, &t.EncounterID, &t.TurnNumber, &t.Action,
			&t.CharacterHPAfter, &t.EnemyHPAfter, &t.ResultFlags, &t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("battle turn scan: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("battle turn rows: %w", err)
	}
	return out, nil
}
