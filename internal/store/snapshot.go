package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/chorelog/internal/model"
)

const snapshotColumns = "id, object_key, size_bytes, log_count, status, error_message, started_at, finished_at"

type SnapshotStore struct {
	db *sql.DB
}

func NewSnapshotStore(db *sql.DB) *SnapshotStore {
	return &SnapshotStore{db: db}
}

func scanSnapshot(sc scanner) (model.Snapshot, error) {
	var sn model.Snapshot
	var finishedAt sql.NullTime
	err := sc.Scan(&sn.ID, &sn.ObjectKey, &sn.SizeBytes, &sn.LogCount, &sn.Status, &sn.ErrorMsg, &sn.StartedAt, &finishedAt)
	if finishedAt.Valid {
		sn.FinishedAt = &finishedAt.Time
	}
	return sn, err
}

func (s *SnapshotStore) Create(ctx context.Context, objectKey string) (*model.Snapshot, error) {
	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO snapshots (object_key, status, started_at) VALUES (?, ?, ?)`,
		objectKey, model.SnapshotStatusRunning, now,
	)
	if err != nil {
		return nil, fmt.Errorf("create snapshot: %w", err)
	}
	id, _ := result.LastInsertId()
	return &model.Snapshot{
		ID:        id,
		ObjectKey: objectKey,
		Status:    model.SnapshotStatusRunning,
		StartedAt: now,
	}, nil
}

// RestoreAll replaces every member and log in one transaction. Either both
// tables hold the restored rows afterwards or neither changed.
func (s *SnapshotStore) RestoreAll(ctx context.Context, members []model.FamilyMember, logs []model.ChoreLog) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := saveMembers(ctx, tx, members); err != nil {
		return fmt.Errorf("restore members: %w", err)
	}
	if err := replaceLogs(ctx, tx, logs); err != nil {
		return fmt.Errorf("restore logs: %w", err)
	}
	return tx.Commit()
}

func (s *SnapshotStore) GetByID(ctx context.Context, id int64) (*model.Snapshot, error) {
	sn, err := scanSnapshot(s.db.QueryRowContext(ctx,
		"SELECT "+snapshotColumns+" FROM snapshots WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot %d: %w", id, err)
	}
	return &sn, nil
}

func (s *SnapshotStore) List(ctx context.Context, limit int) ([]model.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+snapshotColumns+" FROM snapshots ORDER BY started_at DESC, id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []model.Snapshot
	for rows.Next() {
		sn, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snapshots = append(snapshots, sn)
	}
	return snapshots, rows.Err()
}

func (s *SnapshotStore) MarkCompleted(ctx context.Context, id, sizeBytes int64, logCount int) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE snapshots SET status = ?, size_bytes = ?, log_count = ?, finished_at = ? WHERE id = ?`,
		model.SnapshotStatusCompleted, sizeBytes, logCount, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("update snapshot completed: %w", err)
	}
	return nil
}

func (s *SnapshotStore) MarkFailed(ctx context.Context, id int64, errorMsg string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE snapshots SET status = ?, error_message = ?, finished_at = ? WHERE id = ?`,
		model.SnapshotStatusFailed, errorMsg, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("update snapshot failed: %w", err)
	}
	return nil
}

func (s *SnapshotStore) LatestCompleted(ctx context.Context) (*model.Snapshot, error) {
	sn, err := scanSnapshot(s.db.QueryRowContext(ctx,
		"SELECT "+snapshotColumns+" FROM snapshots WHERE status = ? ORDER BY finished_at DESC, id DESC LIMIT 1",
		model.SnapshotStatusCompleted))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest completed snapshot: %w", err)
	}
	return &sn, nil
}

// DeleteAllButLatest removes completed snapshot records beyond the newest keep
// and returns their object keys so the objects can be removed too.
func (s *SnapshotStore) DeleteAllButLatest(ctx context.Context, keep int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, object_key FROM snapshots WHERE status = ?
		 ORDER BY finished_at DESC, id DESC LIMIT -1 OFFSET ?`,
		model.SnapshotStatusCompleted, keep)
	if err != nil {
		return nil, fmt.Errorf("query old snapshots: %w", err)
	}
	var ids []int64
	var keys []string
	for rows.Next() {
		var id int64
		var key string
		if err := rows.Scan(&id, &key); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan old snapshot: %w", err)
		}
		ids = append(ids, id)
		keys = append(keys, key)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, id := range ids {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM snapshots WHERE id = ?", id); err != nil {
			return nil, fmt.Errorf("delete snapshot %d: %w", id, err)
		}
	}
	return keys, nil
}
