package store

import (
	"context"
	"fmt"
)

// Profile mirrors the hosted auth provider's profile row; this service only
// reads it for display.
type Profile struct {
	ID        string `db:"id" json:"id"`
	FullName  string `db:"full_name" json:"full_name"`
	AvatarURL string `db:"avatar_url" json:"avatar_url"`
	Role      string `db:"role" json:"role"`
	Status    string `db:"status" json:"status"`
}

// ProfileByID fetches one profile.
func (s *Store) ProfileByID(ctx context.Context, id string) (*Profile, error) {
	var p Profile
	err := s.db.GetContext(ctx, &p, `
SELECT id, full_name, avatar_url, role, status
FROM profiles WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("loading profile %s: %w", id, err)
	}
	return &p, nil
}

// Profiles lists every profile, active first then by name.
func (s *Store) Profiles(ctx context.Context) ([]Profile, error) {
	var rows []Profile
	err := s.db.SelectContext(ctx, &rows, `
SELECT id, full_name, avatar_url, role, status
FROM profiles
ORDER BY status, full_name`)
	if err != nil {
		return nil, fmt.Errorf("listing profiles: %w", err)
	}
	return rows, nil
}
