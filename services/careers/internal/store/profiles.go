package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"abletech/services/careers/internal/models"
)

const profileColumns = `email, name, role, phone, location, skills, bio, updated_at`

func (s *Store) GetProfile(ctx context.Context, email string) (*models.UserProfile, error) {
	p, err := scanProfile(s.DB.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE email = ?`, strings.ToLower(email)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

// UpsertProfile creates or replaces the profile keyed by email.
func (s *Store) UpsertProfile(ctx context.Context, p *models.UserProfile) error {
	p.UpdatedAt = s.now()
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO profiles (`+profileColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(email) DO UPDATE SET
			name = excluded.name, role = excluded.role, phone = excluded.phone,
			location = excluded.location, skills = excluded.skills, bio = excluded.bio,
			updated_at = excluded.updated_at`,
		p.Email, p.Name, p.Role, p.Phone, p.Location, encodeList(p.Skills), p.Bio, formatTime(p.UpdatedAt))
	return err
}

// ListProfiles returns profiles with the given role, or all when role is
// empty.
func (s *Store) ListProfiles(ctx context.Context, role string) ([]models.UserProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles`
	var args []any
	if role != "" {
		query += " WHERE role = ?"
		args = append(args, role)
	}
	query += " ORDER BY email"

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.UserProfile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func scanProfile(row scanner) (*models.UserProfile, error) {
	var (
		p                 models.UserProfile
		skills, updatedAt string
	)
	if err := row.Scan(&p.Email, &p.Name, &p.Role, &p.Phone, &p.Location, &skills, &p.Bio, &updatedAt); err != nil {
		return nil, err
	}
	p.Skills = decodeList(skills)
	p.UpdatedAt = parseTime(updatedAt)
	return &p, nil
}
