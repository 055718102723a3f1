package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/dukerupert/chorelog/internal/model"
)

const memberColumns = "id, name, avatar, color, sort_order, created_at, updated_at"

type MemberStore struct {
	db *sql.DB
}

func NewMemberStore(db *sql.DB) *MemberStore {
	return &MemberStore{db: db}
}

func scanMember(sc scanner) (model.FamilyMember, error) {
	var m model.FamilyMember
	err := sc.Scan(&m.ID, &m.Name, &m.Avatar, &m.Color, &m.SortOrder, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

func (s *MemberStore) List(ctx context.Context) ([]model.FamilyMember, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+memberColumns+" FROM family_members ORDER BY sort_order, created_at")
	if err != nil {
		return nil, fmt.Errorf("query family members: %w", err)
	}
	defer rows.Close()

	members := []model.FamilyMember{}
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scan family member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (s *MemberStore) GetByID(ctx context.Context, id string) (*model.FamilyMember, error) {
	m, err := scanMember(s.db.QueryRowContext(ctx,
		"SELECT "+memberColumns+" FROM family_members WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query family member: %w", err)
	}
	return &m, nil
}

func (s *MemberStore) Create(ctx context.Context, name, avatar, color string) (*model.FamilyMember, error) {
	var maxOrder int
	err := s.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(sort_order), -1) FROM family_members").Scan(&maxOrder)
	if err != nil {
		return nil, fmt.Errorf("query max sort_order: %w", err)
	}

	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO family_members (id, name, avatar, color, sort_order) VALUES (?, ?, ?, ?, ?)",
		id, name, avatar, color, maxOrder+1,
	)
	if err != nil {
		return nil, fmt.Errorf("insert family member: %w", err)
	}
	return s.GetByID(ctx, id)
}

// Update changes a member's profile. It returns nil, nil if the member does not exist.
func (s *MemberStore) Update(ctx context.Context, id, name, avatar, color string) (*model.FamilyMember, error) {
	_, err := s.db.ExecContext(ctx,
		"UPDATE family_members SET name = ?, avatar = ?, color = ? WHERE id = ?",
		name, avatar, color, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update family member: %w", err)
	}
	return s.GetByID(ctx, id)
}

// Delete removes a member and clears the active pointer if it referenced them.
// Their logs are kept.
func (s *MemberStore) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM family_members WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete family member: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM settings WHERE key = ? AND value = ?", KeyActiveMember, id,
	); err != nil {
		return fmt.Errorf("clear active member: %w", err)
	}
	return tx.Commit()
}

// SaveAll replaces the member list with members, in order. Members without
// an id are assigned one. The active pointer is cleared when its member is
// no longer present.
func (s *MemberStore) SaveAll(ctx context.Context, members []model.FamilyMember) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := saveMembers(ctx, tx, members); err != nil {
		return err
	}
	return tx.Commit()
}

func saveMembers(ctx context.Context, tx *sql.Tx, members []model.FamilyMember) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM family_members"); err != nil {
		return fmt.Errorf("clear family members: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO family_members (id, name, avatar, color, sort_order) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare stmt: %w", err)
	}
	defer stmt.Close()

	for i, m := range members {
		if m.ID == "" {
			m.ID = uuid.NewString()
		}
		if _, err := stmt.ExecContext(ctx, m.ID, m.Name, m.Avatar, m.Color, i); err != nil {
			return fmt.Errorf("insert family member %s: %w", m.ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM settings WHERE key = ? AND value NOT IN (SELECT id FROM family_members)",
		KeyActiveMember,
	); err != nil {
		return fmt.Errorf("clear active member: %w", err)
	}
	return nil
}

func (s *MemberStore) UpdateSortOrder(ctx context.Context, ids []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, "UPDATE family_members SET sort_order = ? WHERE id = ?")
	if err != nil {
		return fmt.Errorf("prepare stmt: %w", err)
	}
	defer stmt.Close()

	for i, id := range ids {
		if _, err := stmt.ExecContext(ctx, i, id); err != nil {
			return fmt.Errorf("update sort order for id %s: %w", id, err)
		}
	}
	return tx.Commit()
}

// GetActiveID returns the active member id, or nil when none is selected.
func (s *MemberStore) GetActiveID(ctx context.Context) (*string, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT s.value FROM settings s
		 JOIN family_members m ON m.id = s.value
		 WHERE s.key = ?`, KeyActiveMember,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get active member: %w", err)
	}
	return &id, nil
}

// SetActiveID selects the active member. A nil id clears the selection.
// Selecting an unknown member is an error.
func (s *MemberStore) SetActiveID(ctx context.Context, id *string) error {
	if id == nil {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM settings WHERE key = ?", KeyActiveMember); err != nil {
			return fmt.Errorf("clear active member: %w", err)
		}
		return nil
	}

	m, err := s.GetByID(ctx, *id)
	if err != nil {
		return err
	}
	if m == nil {
		return fmt.Errorf("set active member: %w", ErrNotFound)
	}
	return setSetting(ctx, s.db, KeyActiveMember, *id)
}
