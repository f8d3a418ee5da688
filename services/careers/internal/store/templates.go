package store

import (
	"context"
	"database/sql"
	"errors"

	"abletech/services/careers/internal/models"
)

func (s *Store) ListTemplates(ctx context.Context) ([]models.EmailTemplate, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT id, name, subject, body FROM email_templates ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.EmailTemplate{}
	for rows.Next() {
		var t models.EmailTemplate
		if err := rows.Scan(&t.ID, &t.Name, &t.Subject, &t.Body); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) GetTemplate(ctx context.Context, id string) (*models.EmailTemplate, error) {
	var t models.EmailTemplate
	err := s.DB.QueryRowContext(ctx,
		`SELECT id, name, subject, body FROM email_templates WHERE id = ?`, id,
	).Scan(&t.ID, &t.Name, &t.Subject, &t.Body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// EnsureTemplates inserts the given templates unless a template with the
// same id exists.
func (s *Store) EnsureTemplates(ctx context.Context, templates []models.EmailTemplate) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, t := range templates {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO email_templates (id, name, subject, body) VALUES (?, ?, ?, ?)
				ON CONFLICT(id) DO NOTHING`,
				t.ID, t.Name, t.Subject, t.Body,
			); err != nil {
				return err
			}
		}
		return nil
	})
}
