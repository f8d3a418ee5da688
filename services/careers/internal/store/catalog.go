package store

import (
	"context"
	"strings"

	"abletech/services/careers/internal/models"

	"github.com/google/uuid"
)

func (s *Store) CreateAssistiveTech(ctx context.Context, t *models.AssistiveTechItem) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.DateAdded.IsZero() {
		t.DateAdded = s.now()
	}
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO assistive_tech (id, title, category, description, features, link, flags, date_added)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Title, t.Category, t.Description, encodeList(t.Features), t.Link,
		encodeList(t.Flags), formatTime(t.DateAdded))
	return err
}

// ListAssistiveTech returns items newest first, optionally restricted to a
// category (case-insensitive).
func (s *Store) ListAssistiveTech(ctx context.Context, category string) ([]models.AssistiveTechItem, error) {
	query := `SELECT id, title, category, description, features, link, flags, date_added FROM assistive_tech`
	var args []any
	if category = strings.TrimSpace(category); category != "" {
		query += " WHERE category = ? COLLATE NOCASE"
		args = append(args, category)
	}
	query += " ORDER BY date_added DESC, id"

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.AssistiveTechItem{}
	for rows.Next() {
		var (
			t                        models.AssistiveTechItem
			features, flags, addedAt string
		)
		if err := rows.Scan(&t.ID, &t.Title, &t.Category, &t.Description, &features, &t.Link, &flags, &addedAt); err != nil {
			return nil, err
		}
		t.Features = decodeList(features)
		t.Flags = decodeList(flags)
		t.DateAdded = parseTime(addedAt)
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) CreateSession(ctx context.Context, m *models.MotivationalSession) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO motivational_sessions (id, title, speaker, category, description, scheduled_at, duration_minutes, link)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Title, m.Speaker, m.Category, m.Description, formatTime(m.ScheduledAt), m.DurationMinutes, m.Link)
	return err
}

// ListSessions returns sessions in schedule order.
func (s *Store) ListSessions(ctx context.Context, category string) ([]models.MotivationalSession, error) {
	query := `SELECT id, title, speaker, category, description, scheduled_at, duration_minutes, link FROM motivational_sessions`
	var args []any
	if category = strings.TrimSpace(category); category != "" {
		query += " WHERE category = ? COLLATE NOCASE"
		args = append(args, category)
	}
	query += " ORDER BY scheduled_at, id"

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.MotivationalSession{}
	for rows.Next() {
		var (
			m           models.MotivationalSession
			scheduledAt string
		)
		if err := rows.Scan(&m.ID, &m.Title, &m.Speaker, &m.Category, &m.Description, &scheduledAt, &m.DurationMinutes, &m.Link); err != nil {
			return nil, err
		}
		m.ScheduledAt = parseTime(scheduledAt)
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *Store) CreateTrainingProgram(ctx context.Context, p *models.TrainingProgram) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO training_programs (id, title, trainer, category, description, start_date, duration_weeks, seats, accessibility_features)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Title, p.Trainer, p.Category, p.Description, formatTime(p.StartDate),
		p.DurationWeeks, p.Seats, encodeList(p.AccessibilityFeatures))
	return err
}

func (s *Store) ListTrainingPrograms(ctx context.Context) ([]models.TrainingProgram, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, title, trainer, category, description, start_date, duration_weeks, seats, accessibility_features
		FROM training_programs ORDER BY start_date, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.TrainingProgram{}
	for rows.Next() {
		var (
			p                   models.TrainingProgram
			startDate, features string
		)
		if err := rows.Scan(&p.ID, &p.Title, &p.Trainer, &p.Category, &p.Description, &startDate,
			&p.DurationWeeks, &p.Seats, &features); err != nil {
			return nil, err
		}
		p.StartDate = parseTime(startDate)
		p.AccessibilityFeatures = decodeList(features)
		out = append(out, p)
	}
	return out, rows.Err()
}
