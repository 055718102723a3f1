package store

import (
	"context"
	"errors"
	"testing"

	"github.com/dukerupert/chorelog/internal/model"
)

func TestMemberSeedData(t *testing.T) {
	ms := NewMemberStore(setupTestDB(t))

	members, err := ms.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("got %d seeded members, want 2", len(members))
	}
	if members[0].ID != "m1" || members[0].Avatar != "🐳" || members[0].Color != "cyan" {
		t.Errorf("members[0] = %+v, want m1 whale cyan", members[0])
	}
	if members[1].ID != "m2" || members[1].Color != "amber" {
		t.Errorf("members[1] = %+v, want m2 amber", members[1])
	}
}

func TestMemberCreate(t *testing.T) {
	ctx := context.Background()
	ms := NewMemberStore(setupTestDB(t))

	m, err := ms.Create(ctx, "Kid", "🦊", "orange")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if m.ID == "" {
		t.Error("expected generated id")
	}
	if m.Name != "Kid" || m.Avatar != "🦊" || m.Color != "orange" {
		t.Errorf("created = %+v", m)
	}
	if m.SortOrder != 2 {
		t.Errorf("sort_order = %d, want 2", m.SortOrder)
	}
	if m.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}
}

func TestMemberUpdate(t *testing.T) {
	ctx := context.Background()
	ms := NewMemberStore(setupTestDB(t))

	m, err := ms.Update(ctx, "m1", "Jay", "🐋", "sky")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if m == nil || m.Name != "Jay" || m.Avatar != "🐋" || m.Color != "sky" {
		t.Errorf("updated = %+v", m)
	}

	missing, err := ms.Update(ctx, "nope", "x", "y", "z")
	if err != nil {
		t.Fatalf("update missing: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for missing member, got %+v", missing)
	}
}

func TestMemberActivePointer(t *testing.T) {
	ctx := context.Background()
	ms := NewMemberStore(setupTestDB(t))

	id, err := ms.GetActiveID(ctx)
	if err != nil {
		t.Fatalf("get active: %v", err)
	}
	if id != nil {
		t.Errorf("active = %q, want none", *id)
	}

	m2 := "m2"
	if err := ms.SetActiveID(ctx, &m2); err != nil {
		t.Fatalf("set active: %v", err)
	}
	id, _ = ms.GetActiveID(ctx)
	if id == nil || *id != "m2" {
		t.Errorf("active = %v, want m2", id)
	}

	if err := ms.SetActiveID(ctx, nil); err != nil {
		t.Fatalf("clear active: %v", err)
	}
	id, _ = ms.GetActiveID(ctx)
	if id != nil {
		t.Errorf("active = %q after clear, want none", *id)
	}
}

func TestMemberSetActiveUnknown(t *testing.T) {
	ms := NewMemberStore(setupTestDB(t))

	ghost := "ghost"
	err := ms.SetActiveID(context.Background(), &ghost)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestMemberDeleteClearsActive(t *testing.T) {
	ctx := context.Background()
	ms := NewMemberStore(setupTestDB(t))

	m1 := "m1"
	ms.SetActiveID(ctx, &m1)

	if err := ms.Delete(ctx, "m2"); err != nil {
		t.Fatalf("delete m2: %v", err)
	}
	id, _ := ms.GetActiveID(ctx)
	if id == nil || *id != "m1" {
		t.Errorf("deleting another member changed active to %v", id)
	}

	if err := ms.Delete(ctx, "m1"); err != nil {
		t.Fatalf("delete m1: %v", err)
	}
	id, _ = ms.GetActiveID(ctx)
	if id != nil {
		t.Errorf("active = %q after deleting it, want none", *id)
	}

	members, _ := ms.List(ctx)
	if len(members) != 0 {
		t.Errorf("got %d members, want 0", len(members))
	}
}

func TestMemberSaveAll(t *testing.T) {
	ctx := context.Background()
	ms := NewMemberStore(setupTestDB(t))

	m1 := "m1"
	ms.SetActiveID(ctx, &m1)

	err := ms.SaveAll(ctx, []model.FamilyMember{
		{ID: "m2", Name: "C", Avatar: "🐻", Color: "amber"},
		{Name: "New", Avatar: "🦊", Color: "orange"},
	})
	if err != nil {
		t.Fatalf("save all: %v", err)
	}

	members, _ := ms.List(ctx)
	if len(members) != 2 {
		t.Fatalf("got %d members, want 2", len(members))
	}
	if members[0].ID != "m2" || members[1].Name != "New" || members[1].ID == "" {
		t.Errorf("members = %+v", members)
	}

	id, _ := ms.GetActiveID(ctx)
	if id != nil {
		t.Errorf("active = %q, want cleared since m1 was dropped", *id)
	}
}

func TestMemberUpdateSortOrder(t *testing.T) {
	ctx := context.Background()
	ms := NewMemberStore(setupTestDB(t))

	if err := ms.UpdateSortOrder(ctx, []string{"m2", "m1"}); err != nil {
		t.Fatalf("update sort order: %v", err)
	}
	members, _ := ms.List(ctx)
	if members[0].ID != "m2" || members[1].ID != "m1" {
		t.Errorf("order = [%s %s], want [m2 m1]", members[0].ID, members[1].ID)
	}
}
