package storage

import (
	"context"
	"database/sql"
	"fmt"
)

func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS characters (
			id TEXT PRIMARY KEY,
			title TEXT DEFAULT '',
			aura_color TEXT DEFAULT '',
			level INTEGER DEFAULT 1,
			xp_total INTEGER DEFAULT 0,
			perk_points INTEGER DEFAULT 0,
			xp_str INTEGER DEFAULT 0,
			xp_int INTEGER DEFAULT 0,
			xp_wis INTEGER DEFAULT 0,
			xp_dis INTEGER DEFAULT 0,
			xp_vit INTEGER DEFAULT 0,
			xp_cha INTEGER DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS quests (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			character_id TEXT NOT NULL,
			catalog_id TEXT NOT NULL,
			scope TEXT NOT NULL,
			period_key TEXT NOT NULL,
			source_module TEXT NOT NULL,
			source_action TEXT NOT NULL,
			target_count INTEGER NOT NULL,
			current_count INTEGER DEFAULT 0,
			xp_reward INTEGER NOT NULL,
			stat TEXT NOT NULL,
			status TEXT DEFAULT 'pending',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			completed_at DATETIME,
			FOREIGN KEY(character_id) REFERENCES characters(id)
		);`,
		// One quest per catalog entry per period; regeneration must be a no-op.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_quests_identity
			ON quests(character_id, scope, period_key, catalog_id);`,
		`CREATE INDEX IF NOT EXISTS idx_quests_status ON quests(character_id, status);`,
		`CREATE TABLE IF NOT EXISTS questlines (
			character_id TEXT NOT NULL,
			code TEXT NOT NULL,
			current_step INTEGER DEFAULT 0,
			total_steps INTEGER NOT NULL,
			completed_at DATETIME,
			PRIMARY KEY(character_id, code),
			FOREIGN KEY(character_id) REFERENCES characters(id)
		);`,
		`CREATE TABLE IF NOT EXISTS encounters (
			id TEXT PRIMARY KEY,
			character_id TEXT NOT NULL,
			enemy_id TEXT NOT NULL,
			status TEXT DEFAULT 'pending',
			character_hp INTEGER NOT NULL,
			character_max_hp INTEGER NOT NULL,
			character_energy INTEGER NOT NULL,
			enemy_hp INTEGER NOT NULL,
			enemy_max_hp INTEGER NOT NULL,
			source_action TEXT DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			resolved_at DATETIME,
			FOREIGN KEY(character_id) REFERENCES characters(id)
		);`,
		`CREATE TABLE IF NOT EXISTS battle_turns (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			encounter_id TEXT NOT NULL,
			turn_number INTEGER NOT NULL,
			action TEXT NOT NULL,
			character_hp_after INTEGER NOT NULL,
			enemy_hp_after INTEGER NOT NULL,
			result_flags TEXT DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(encounter_id, turn_number),
			FOREIGN KEY(encounter_id) REFERENCES encounters(id)
		);`,
		`CREATE TABLE IF NOT EXISTS perk_unlocks (
			character_id TEXT NOT NULL,
			tree_id TEXT NOT NULL,
			perk_number INTEGER NOT NULL,
			unlocked_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY(character_id, tree_id, perk_number),
			FOREIGN KEY(character_id) REFERENCES characters(id)
		);`,
		`CREATE TABLE IF NOT EXISTS truths (
			id TEXT PRIMARY KEY,
			character_id TEXT NOT NULL,
			text TEXT NOT NULL,
			theme TEXT DEFAULT '',
			source_entry_id TEXT DEFAULT '',
			equipped INTEGER DEFAULT 0,
			collected_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(character_id) REFERENCES characters(id)
		);`,
		`CREATE TABLE IF NOT EXISTS log_entries (
			id TEXT PRIMARY KEY,
			character_id TEXT NOT NULL,
			type TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(character_id) REFERENCES characters(id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_log_entries_character_created
			ON log_entries(character_id, created_at);`,
	}

	return WithTx(ctx, db, func(tx *sql.Tx) error {
		for _, stmt := range stmts {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
		}
		return nil
	})
}
