package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"abletech/services/careers/internal/models"

	"github.com/google/uuid"
)

const jobColumns = `id, title, department, category, location, type, description, requirements,
	salary_min, salary_max, experience, experience_level, deadline, status, date_posted,
	applications, recruiter_email, flags, accessibility_features, updated_at`

type JobQuery struct {
	RecruiterEmail string
	Statuses       []models.JobStatus
}

// CreateJob inserts j, assigning an id and posting date when missing.
func (s *Store) CreateJob(ctx context.Context, j *models.Job) error {
	now := s.now()
	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	if j.DatePosted.IsZero() {
		j.DatePosted = now
	}
	j.UpdatedAt = now

	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO jobs (`+jobColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		j.ID, j.Title, j.Department, j.Category, j.Location, j.Type, j.Description,
		encodeList(j.Requirements), nullInt(j.SalaryMin), nullInt(j.SalaryMax),
		j.Experience, j.ExperienceLevel, nullTime(j.Deadline), string(j.Status),
		formatTime(j.DatePosted), j.Applications, j.RecruiterEmail,
		encodeList(j.Flags), encodeList(j.AccessibilityFeatures), formatTime(j.UpdatedAt),
	)
	return err
}

func (s *Store) GetJob(ctx context.Context, id string) (*models.Job, error) {
	row := s.DB.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = ?`, id)
	j, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return j, err
}

// ListJobs returns jobs newest first.
func (s *Store) ListJobs(ctx context.Context, q JobQuery) ([]models.Job, error) {
	var (
		where []string
		args  []any
	)
	if q.RecruiterEmail != "" {
		where = append(where, "recruiter_email = ?")
		args = append(args, strings.ToLower(q.RecruiterEmail))
	}
	if len(q.Statuses) > 0 {
		marks := make([]string, len(q.Statuses))
		for i, st := range q.Statuses {
			marks[i] = "?"
			args = append(args, string(st))
		}
		where = append(where, "status IN ("+strings.Join(marks, ", ")+")")
	}

	query := `SELECT ` + jobColumns + ` FROM jobs`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY date_posted DESC, id"

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := []models.Job{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *j)
	}
	return jobs, rows.Err()
}

// UpdateJob replaces the editable fields of j. The posting date and
// application counter are kept.
func (s *Store) UpdateJob(ctx context.Context, j *models.Job) error {
	j.UpdatedAt = s.now()
	res, err := s.DB.ExecContext(ctx, `
		UPDATE jobs SET title = ?, department = ?, category = ?, location = ?, type = ?,
			description = ?, requirements = ?, salary_min = ?, salary_max = ?, experience = ?,
			experience_level = ?, deadline = ?, status = ?, recruiter_email = ?, flags = ?,
			accessibility_features = ?, updated_at = ?
		WHERE id = ?`,
		j.Title, j.Department, j.Category, j.Location, j.Type, j.Description,
		encodeList(j.Requirements), nullInt(j.SalaryMin), nullInt(j.SalaryMax), j.Experience,
		j.ExperienceLevel, nullTime(j.Deadline), string(j.Status), j.RecruiterEmail,
		encodeList(j.Flags), encodeList(j.AccessibilityFeatures), formatTime(j.UpdatedAt),
		j.ID,
	)
	if err != nil {
		return err
	}
	return affected(res)
}

// DeleteJob removes the job and, through the foreign key, its applications.
func (s *Store) DeleteJob(ctx context.Context, id string) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM jobs WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return affected(res)
}

// CloseExpiredJobs marks every active job whose deadline is before now as
// closed and returns the jobs it closed.
func (s *Store) CloseExpiredJobs(ctx context.Context, now time.Time) ([]models.Job, error) {
	var closed []models.Job
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, `
			SELECT `+jobColumns+` FROM jobs
			WHERE status = ? AND deadline IS NOT NULL AND deadline < ?`,
			string(models.JobStatusActive), formatTime(now))
		if err != nil {
			return err
		}
		for rows.Next() {
			j, err := scanJob(rows)
			if err != nil {
				rows.Close()
				return err
			}
			closed = append(closed, *j)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		for i := range closed {
			closed[i].Status = models.JobStatusClosed
			closed[i].UpdatedAt = now
			if _, err := tx.ExecContext(ctx,
				`UPDATE jobs SET status = ?, updated_at = ? WHERE id = ?`,
				string(models.JobStatusClosed), formatTime(now), closed[i].ID,
			); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return closed, nil
}

func scanJob(row scanner) (*models.Job, error) {
	var (
		j                             models.Job
		requirements, flags, features string
		status, datePosted, updatedAt string
		salaryMin, salaryMax          sql.NullInt64
		deadline                      sql.NullString
	)
	err := row.Scan(
		&j.ID, &j.Title, &j.Department, &j.Category, &j.Location, &j.Type, &j.Description,
		&requirements, &salaryMin, &salaryMax, &j.Experience, &j.ExperienceLevel, &deadline,
		&status, &datePosted, &j.Applications, &j.RecruiterEmail, &flags, &features, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	j.Requirements = decodeList(requirements)
	j.Flags = decodeList(flags)
	j.AccessibilityFeatures = decodeList(features)
	j.SalaryMin = intPtr(salaryMin)
	j.SalaryMax = intPtr(salaryMax)
	j.Deadline = timePtr(deadline)
	j.Status = models.JobStatus(status)
	j.DatePosted = parseTime(datePosted)
	j.UpdatedAt = parseTime(updatedAt)
	return &j, nil
}
