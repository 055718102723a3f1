package database

import (
	"path/filepath"
	"testing"
)

func TestOpenSeedsMembers(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM family_members").Scan(&n); err != nil {
		t.Fatalf("count members: %v", err)
	}
	if n != 2 {
		t.Errorf("seeded members = %d, want 2", n)
	}
}

func TestOpenCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "household", "chorelog.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	db.Close()

	// Migrations already applied are skipped on reopen.
	db, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		t.Errorf("ping: %v", err)
	}
}
