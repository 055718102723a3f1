package store

import (
	"context"
	"testing"

	"github.com/dukerupert/chorelog/internal/model"
)

func TestSnapshotCreate(t *testing.T) {
	ss := NewSnapshotStore(setupTestDB(t))

	sn, err := ss.Create(context.Background(), "snapshots/2024-06-01T00:00:00Z.json.enc")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if sn.ID == 0 {
		t.Error("expected non-zero ID")
	}
	if sn.Status != model.SnapshotStatusRunning {
		t.Errorf("status = %q, want %q", sn.Status, model.SnapshotStatusRunning)
	}
}

func TestSnapshotMarkCompleted(t *testing.T) {
	ctx := context.Background()
	ss := NewSnapshotStore(setupTestDB(t))

	sn, _ := ss.Create(ctx, "k1")
	if err := ss.MarkCompleted(ctx, sn.ID, 512, 7); err != nil {
		t.Fatalf("mark completed: %v", err)
	}

	got, err := ss.GetByID(ctx, sn.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != model.SnapshotStatusCompleted {
		t.Errorf("status = %q, want %q", got.Status, model.SnapshotStatusCompleted)
	}
	if got.SizeBytes != 512 || got.LogCount != 7 {
		t.Errorf("size/logs = %d/%d, want 512/7", got.SizeBytes, got.LogCount)
	}
	if got.FinishedAt == nil {
		t.Error("expected finished_at to be set")
	}
}

func TestSnapshotMarkFailed(t *testing.T) {
	ctx := context.Background()
	ss := NewSnapshotStore(setupTestDB(t))

	sn, _ := ss.Create(ctx, "k1")
	if err := ss.MarkFailed(ctx, sn.ID, "upload failed"); err != nil {
		t.Fatalf("mark failed: %v", err)
	}

	got, _ := ss.GetByID(ctx, sn.ID)
	if got.Status != model.SnapshotStatusFailed {
		t.Errorf("status = %q, want %q", got.Status, model.SnapshotStatusFailed)
	}
	if got.ErrorMsg != "upload failed" {
		t.Errorf("error = %q, want %q", got.ErrorMsg, "upload failed")
	}
}

func TestSnapshotGetByIDNotFound(t *testing.T) {
	ss := NewSnapshotStore(setupTestDB(t))

	got, err := ss.GetByID(context.Background(), 999)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
}

func TestSnapshotListAndLatest(t *testing.T) {
	ctx := context.Background()
	ss := NewSnapshotStore(setupTestDB(t))

	a, _ := ss.Create(ctx, "a")
	b, _ := ss.Create(ctx, "b")
	ss.MarkCompleted(ctx, a.ID, 10, 1)
	ss.MarkFailed(ctx, b.ID, "boom")

	list, err := ss.List(ctx, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d snapshots, want 2", len(list))
	}

	latest, err := ss.LatestCompleted(ctx)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest == nil || latest.ObjectKey != "a" {
		t.Errorf("latest = %+v, want object a", latest)
	}
}

func TestSnapshotLatestNone(t *testing.T) {
	ss := NewSnapshotStore(setupTestDB(t))

	latest, err := ss.LatestCompleted(context.Background())
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest != nil {
		t.Errorf("expected nil, got %+v", latest)
	}
}

func TestSnapshotDeleteAllButLatest(t *testing.T) {
	ctx := context.Background()
	ss := NewSnapshotStore(setupTestDB(t))

	for _, key := range []string{"a", "b", "c"} {
		sn, _ := ss.Create(ctx, key)
		ss.MarkCompleted(ctx, sn.ID, 1, 1)
	}
	failed, _ := ss.Create(ctx, "failed")
	ss.MarkFailed(ctx, failed.ID, "boom")

	keys, err := ss.DeleteAllButLatest(ctx, 2)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if len(keys) != 1 || keys[0] != "a" {
		t.Errorf("pruned keys = %v, want [a]", keys)
	}

	list, _ := ss.List(ctx, 10)
	if len(list) != 3 {
		t.Errorf("remaining = %d, want 3 (two completed plus the failed run)", len(list))
	}
}

func TestSnapshotRestoreAll(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	ss := NewSnapshotStore(db)
	ms := NewMemberStore(db)
	ls := NewLogStore(db)

	active := "m1"
	if err := ms.SetActiveID(ctx, &active); err != nil {
		t.Fatal(err)
	}
	ls.Add(ctx, model.NewChoreLog{MemberID: "m1", ChoreID: "c3", Timestamp: 1, DateString: "2024-06-01"})

	members := []model.FamilyMember{{ID: "x1", Name: "Guest", Avatar: "🦊", Color: "rose"}}
	dup := []model.ChoreLog{
		{ID: "dup", MemberID: "x1", ChoreID: "c8", Timestamp: 5, DateString: "2024-06-02"},
		{ID: "dup", MemberID: "x1", ChoreID: "c4", Timestamp: 6, DateString: "2024-06-02"},
	}
	if err := ss.RestoreAll(ctx, members, dup); err == nil {
		t.Fatal("expected duplicate log ids to fail")
	}

	got, _ := ms.List(ctx)
	if len(got) != 2 || got[0].ID != "m1" {
		t.Errorf("members after failed restore = %+v, want seeded m1 m2", got)
	}
	if id, _ := ms.GetActiveID(ctx); id == nil || *id != "m1" {
		t.Errorf("active member after failed restore = %v, want m1", id)
	}
	if logs, _ := ls.List(ctx); len(logs) != 1 || logs[0].ChoreID != "c3" {
		t.Errorf("logs after failed restore = %+v", logs)
	}

	if err := ss.RestoreAll(ctx, members, dup[:1]); err != nil {
		t.Fatalf("restore: %v", err)
	}
	got, _ = ms.List(ctx)
	if len(got) != 1 || got[0].ID != "x1" {
		t.Errorf("members = %+v, want x1", got)
	}
	if id, _ := ms.GetActiveID(ctx); id != nil {
		t.Errorf("active member = %q, want cleared", *id)
	}
	if logs, _ := ls.List(ctx); len(logs) != 1 || logs[0].ID != "dup" {
		t.Errorf("logs = %+v", logs)
	}
}
