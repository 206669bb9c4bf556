package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// ProgressEntry records one answered question. Entries are append-only:
// the history is never rewritten, statistics are derived from it.
type ProgressEntry struct {
	ID         int64
	QuestionID string
	Topic      string
	Correct    bool
	Timestamp  time.Time
}

// QueryOpts configures progress queries with filtering and pagination.
type QueryOpts struct {
	Limit int       // max results (0 = unlimited)
	From  time.Time // timestamp >= From
	To    time.Time // timestamp <= To
}

// ProgressRepo manages the append-only answer history.
type ProgressRepo interface {
	// Append records a new entry. The entry's ID is set on success.
	Append(ctx context.Context, entry *ProgressEntry) error

	// List returns entries matching opts, newest first.
	List(ctx context.Context, opts QueryOpts) ([]ProgressEntry, error)

	// Clear deletes the whole history.
	Clear(ctx context.Context) error
}

type progressRepo struct {
	db *sql.DB
}

func (r *progressRepo) Append(ctx context.Context, entry *ProgressEntry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO progress_entries (question_id, topic, correct, timestamp) VALUES (?, ?, ?, ?)`,
		entry.QuestionID, entry.Topic, entry.Correct, entry.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("append progress entry: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	entry.ID = id
	return nil
}

func (r *progressRepo) List(ctx context.Context, opts QueryOpts) ([]ProgressEntry, error) {
	query := `SELECT id, question_id, topic, correct, timestamp FROM progress_entries WHERE 1=1`
	var args []any

	if !opts.From.IsZero() {
		query += ` AND timestamp >= ?`
		args = append(args, opts.From)
	}
	if !opts.To.IsZero() {
		query += ` AND timestamp <= ?`
		args = append(args, opts.To)
	}
	query += ` ORDER BY timestamp DESC, id DESC`
	if opts.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list progress entries: %w", err)
	}
	defer rows.Close()

	var entries []ProgressEntry
	for rows.Next() {
		var e ProgressEntry
		if err := rows.Scan(&e.ID, &e.QuestionID, &e.Topic, &e.Correct, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan progress entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate progress entries: %w", err)
	}
	return entries, nil
}

func (r *progressRepo) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM progress_entries`); err != nil {
		return fmt.Errorf("clear progress entries: %w", err)
	}
	return nil
}
