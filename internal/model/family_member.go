package model

import "time"

type FamilyMember struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
	Color     string    `json:"color"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Complete reports whether every required profile field is present.
func (m FamilyMember) Complete() bool {
	return m.Name != "" && m.Avatar != "" && m.Color != ""
}
