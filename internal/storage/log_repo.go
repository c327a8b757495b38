package storage

import (
	"context"
	"database/sql"
	"fmt"
)

type LogRepo struct {
	db *sql.DB
}

func NewLogRepo(db *sql.DB) *LogRepo {
	return &LogRepo{db: db}
}

// Insert appends one entry. Rows are never updated or deleted.
func (r *LogRepo) Insert(ctx context.Context, e *LogEntry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO log_entries (id, character_id, type, title, description)
		VALUES (?, ?, ?, ?, ?)
	`, e.ID, e.CharacterID, e.Type, e.Title, e.Description)
	if err != nil {
		return fmt.Errorf("log insert: %w", err)
	}
	return nil
}

// ListRecent returns the newest entries first. limit <= 0 means no limit.
func (r *LogRepo) ListRecent(ctx context.Context, characterID string, limit int) ([]LogEntry, error) {
	query := `
		SELECT id, character_id, type, title, description, created_at
		FROM log_entries
		WHERE character_id = ?
		ORDER BY created_at DESC, id DESC
	`
	args := []any{characterID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("log list: %w", err)
	}
	defer rows.Close()

	var out []LogEntry
	for rows.Next() {
		var e LogEntry
		if err := rows.Scan(&e.ID, &e.CharacterID, &e.Type, &e.Title, &e.Description, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("log scan: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("log rows: %w", err)
	}
	return out, nil
}

// CountByType is used by display surfaces for milestone summaries.
func (r *LogRepo) CountByType(ctx context.Context, characterID, logType string) (int, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM log_entries WHERE character_id = ? AND type = ?
	`, characterID, logType)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("log count: %w", err)
	}
	return n, nil
}
