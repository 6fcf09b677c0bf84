package db

import (
	"context"
	"fmt"

	"github.com/karthi209/notkarthik/internal/models"
)

const logColumns = `
	id,
	title,
	type,
	COALESCE(content, ''),
	COALESCE(rating, ''),
	COALESCE(status, ''),
	COALESCE(completion, ''),
	COALESCE(author, ''),
	date,
	created_at,
	updated_at`

func scanLog(row rowScanner) (*models.LogEntry, error) {
	var (
		entry  models.LogEntry
		kind   string
		rating string
	)
	err := row.Scan(
		&entry.ID,
		&entry.Title,
		&kind,
		&entry.Content,
		&rating,
		&entry.Status,
		&entry.Completion,
		&entry.Author,
		&entry.Date,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	entry.Type = models.LogKind(kind)
	entry.Rating = models.Rating(rating)
	return &entry, nil
}

// ListLogs returns entries newest first. An empty kind lists every kind.
func (s *Store) ListLogs(ctx context.Context, kind models.LogKind) ([]models.LogEntry, error) {
	if s.pool == nil {
		return nil, errNotInitialized
	}

	query := "SELECT" + logColumns + " FROM logs"
	var args []any
	if kind != "" {
		if !kind.Valid() {
			return nil, models.Invalid("invalid log type")
		}
		query += " WHERE type = $1"
		args = append(args, string(kind))
	}
	query += " ORDER BY date DESC, id DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	defer rows.Close()

	entries := make([]models.LogEntry, 0)
	for rows.Next() {
		entry, err := scanLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan log: %w", err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return entries, nil
}

func (s *Store) GetLog(ctx context.Context, id int64) (*models.LogEntry, error) {
	if s.pool == nil {
		return nil, errNotInitialized
	}
	entry, err := scanLog(s.pool.QueryRow(ctx, "SELECT"+logColumns+" FROM logs WHERE id = $1", id))
	if err != nil {
		if noRows(err) {
			return nil, models.NotFound("log")
		}
		return nil, fmt.Errorf("get log: %w", err)
	}
	return entry, nil
}

func (s *Store) CreateLog(ctx context.Context, entry models.LogEntry) (*models.LogEntry, error) {
	if s.pool == nil {
		return nil, errNotInitialized
	}
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO logs (title, type, content, rating, status, completion, author, date)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''), now())
		RETURNING` + logColumns

	created, err := scanLog(s.pool.QueryRow(ctx, query,
		entry.Title,
		string(entry.Type),
		entry.Content,
		string(entry.Rating),
		entry.Status,
		entry.Completion,
		entry.Author,
	))
	if err != nil {
		return nil, writeErr("create log", err)
	}
	return created, nil
}

func (s *Store) UpdateLog(ctx context.Context, id int64, entry models.LogEntry) (*models.LogEntry, error) {
	if s.pool == nil {
		return nil, errNotInitialized
	}
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	query := `
		UPDATE logs
		SET title = $1, type = $2, content = NULLIF($3, ''), rating = NULLIF($4, ''), status = NULLIF($5, ''),
		    completion = NULLIF($6, ''), author = NULLIF($7, ''), updated_at = now()
		WHERE id = $8
		RETURNING` + logColumns

	updated, err := scanLog(s.pool.QueryRow(ctx, query,
		entry.Title,
		string(entry.Type),
		entry.Content,
		string(entry.Rating),
		entry.Status,
		entry.Completion,
		entry.Author,
		id,
	))
	if err != nil {
		if noRows(err) {
			return nil, models.NotFound("log")
		}
		return nil, writeErr("update log", err)
	}
	return updated, nil
}

func (s *Store) DeleteLog(ctx context.Context, id int64) (*models.LogEntry, error) {
	if s.pool == nil {
		return nil, errNotInitialized
	}
	deleted, err := scanLog(s.pool.QueryRow(ctx, "DELETE FROM logs WHERE id = $1 RETURNING"+logColumns, id))
	if err != nil {
		if noRows(err) {
			return nil, models.NotFound("log")
		}
		return nil, fmt.Errorf("delete log: %w", err)
	}
	return deleted, nil
}
