package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dukerupert/chorelog/internal/model"
)

const logColumns = "id, member_id, chore_id, timestamp, date_string"

type LogStore struct {
	db *sql.DB
}

func NewLogStore(db *sql.DB) *LogStore {
	return &LogStore{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLog(sc scanner) (model.ChoreLog, error) {
	var l model.ChoreLog
	err := sc.Scan(&l.ID, &l.MemberID, &l.ChoreID, &l.Timestamp, &l.DateString)
	return l, err
}

func (s *LogStore) queryLogs(ctx context.Context, query string, args ...any) ([]model.ChoreLog, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query chore logs: %w", err)
	}
	defer rows.Close()

	logs := []model.ChoreLog{}
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan chore log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// List returns every log, newest first.
func (s *LogStore) List(ctx context.Context) ([]model.ChoreLog, error) {
	return s.queryLogs(ctx,
		"SELECT "+logColumns+" FROM chore_logs ORDER BY timestamp DESC, rowid DESC")
}

// ListSince returns logs stamped at or after t, newest first.
func (s *LogStore) ListSince(ctx context.Context, t time.Time) ([]model.ChoreLog, error) {
	return s.queryLogs(ctx,
		"SELECT "+logColumns+" FROM chore_logs WHERE timestamp >= ? ORDER BY timestamp DESC, rowid DESC",
		t.UnixMilli())
}

func (s *LogStore) GetByID(ctx context.Context, id string) (*model.ChoreLog, error) {
	l, err := scanLog(s.db.QueryRowContext(ctx,
		"SELECT "+logColumns+" FROM chore_logs WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get chore log %s: %w", id, err)
	}
	return &l, nil
}

// Add persists a log and returns its generated id.
func (s *LogStore) Add(ctx context.Context, nl model.NewChoreLog) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO chore_logs ("+logColumns+") VALUES (?, ?, ?, ?, ?)",
		id, nl.MemberID, nl.ChoreID, nl.Timestamp, nl.DateString,
	)
	if err != nil {
		return "", fmt.Errorf("insert chore log: %w", err)
	}
	return id, nil
}

// AddAll persists several logs in one transaction and returns their ids in input order.
func (s *LogStore) AddAll(ctx context.Context, nls []model.NewChoreLog) ([]string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	ids := make([]string, 0, len(nls))
	for _, nl := range nls {
		id := uuid.NewString()
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO chore_logs ("+logColumns+") VALUES (?, ?, ?, ?, ?)",
			id, nl.MemberID, nl.ChoreID, nl.Timestamp, nl.DateString,
		); err != nil {
			return nil, fmt.Errorf("insert chore log: %w", err)
		}
		ids = append(ids, id)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit chore logs: %w", err)
	}
	return ids, nil
}

// Remove deletes one log. It reports whether a row was deleted.
func (s *LogStore) Remove(ctx context.Context, id string) (bool, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM chore_logs WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("delete chore log: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// ClearAll deletes every log and returns how many were removed.
func (s *LogStore) ClearAll(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM chore_logs")
	if err != nil {
		return 0, fmt.Errorf("clear chore logs: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

// ReplaceAll swaps the whole log table for logs, keeping their ids.
func (s *LogStore) ReplaceAll(ctx context.Context, logs []model.ChoreLog) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := replaceLogs(ctx, tx, logs); err != nil {
		return err
	}
	return tx.Commit()
}

func replaceLogs(ctx context.Context, tx *sql.Tx, logs []model.ChoreLog) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM chore_logs"); err != nil {
		return fmt.Errorf("clear chore logs: %w", err)
	}
	for _, l := range logs {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO chore_logs ("+logColumns+") VALUES (?, ?, ?, ?, ?)",
			l.ID, l.MemberID, l.ChoreID, l.Timestamp, l.DateString,
		); err != nil {
			return fmt.Errorf("insert chore log %s: %w", l.ID, err)
		}
	}
	return nil
}
