package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"abletech/services/careers/internal/models"

	"github.com/google/uuid"
)

const applicationColumns = `a.id, a.job_id, j.title, a.candidate_name, a.candidate_email, a.phone,
	a.cover_letter, a.resume_url, a.status, a.applied_at, a.updated_at`

type ApplicationQuery struct {
	JobID          string
	CandidateEmail string
	RecruiterEmail string
	Status         models.ApplicationStatus
}

// CreateApplication inserts a and bumps the job's application counter in the
// same transaction. It returns the job applied to.
func (s *Store) CreateApplication(ctx context.Context, a *models.Application) (*models.Job, error) {
	now := s.now()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.AppliedAt.IsZero() {
		a.AppliedAt = now
	}
	a.UpdatedAt = now
	if a.EmailHistory == nil {
		a.EmailHistory = []models.EmailLog{}
	}

	var job *models.Job
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		job, err = scanJob(tx.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = ?`, a.JobID))
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO applications (id, job_id, candidate_name, candidate_email, phone,
				cover_letter, resume_url, status, applied_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			a.ID, a.JobID, a.CandidateName, a.CandidateEmail, a.Phone, a.CoverLetter,
			a.ResumeURL, string(a.Status), formatTime(a.AppliedAt), formatTime(a.UpdatedAt),
		); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE jobs SET applications = applications + 1 WHERE id = ?`, a.JobID,
		); err != nil {
			return err
		}
		job.Applications++
		return nil
	})
	if err != nil {
		return nil, err
	}
	a.JobTitle = job.Title
	return job, nil
}

func (s *Store) GetApplication(ctx context.Context, id string) (*models.Application, error) {
	row := s.DB.QueryRowContext(ctx, `
		SELECT `+applicationColumns+`
		FROM applications a JOIN jobs j ON j.id = a.job_id
		WHERE a.id = ?`, id)
	a, err := scanApplication(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	history, err := s.emailHistory(ctx, []string{a.ID})
	if err != nil {
		return nil, err
	}
	a.EmailHistory = history[a.ID]
	return a, nil
}

// ListApplications returns matching applications newest first, each with
// its email history.
func (s *Store) ListApplications(ctx context.Context, q ApplicationQuery) ([]models.Application, error) {
	var (
		where []string
		args  []any
	)
	if q.JobID != "" {
		where = append(where, "a.job_id = ?")
		args = append(args, q.JobID)
	}
	if q.CandidateEmail != "" {
		where = append(where, "a.candidate_email = ?")
		args = append(args, strings.ToLower(q.CandidateEmail))
	}
	if q.RecruiterEmail != "" {
		where = append(where, "j.recruiter_email = ?")
		args = append(args, strings.ToLower(q.RecruiterEmail))
	}
	if q.Status != "" {
		where = append(where, "a.status = ?")
		args = append(args, string(q.Status))
	}

	query := `SELECT ` + applicationColumns + ` FROM applications a JOIN jobs j ON j.id = a.job_id`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY a.applied_at DESC, a.id"

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	apps := []models.Application{}
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		apps = append(apps, *a)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	ids := make([]string, len(apps))
	for i := range apps {
		ids[i] = apps[i].ID
	}
	history, err := s.emailHistory(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range apps {
		apps[i].EmailHistory = history[apps[i].ID]
	}
	return apps, nil
}

func (s *Store) UpdateApplicationStatus(ctx context.Context, id string, status models.ApplicationStatus) (*models.Application, error) {
	res, err := s.DB.ExecContext(ctx,
		`UPDATE applications SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), formatTime(s.now()), id)
	if err != nil {
		return nil, err
	}
	if err := affected(res); err != nil {
		return nil, err
	}
	return s.GetApplication(ctx, id)
}

// AppendEmailLog records a message sent to the candidate of an application.
func (s *Store) AppendEmailLog(ctx context.Context, applicationID string, log *models.EmailLog) error {
	if log.SentAt.IsZero() {
		log.SentAt = s.now()
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM applications WHERE id = ?`, applicationID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO email_logs (application_id, template_id, subject, body, sent_at)
			VALUES (?, ?, ?, ?, ?)`,
			applicationID, log.TemplateID, log.Subject, log.Body, formatTime(log.SentAt))
		return err
	})
}

func (s *Store) emailHistory(ctx context.Context, ids []string) (map[string][]models.EmailLog, error) {
	out := make(map[string][]models.EmailLog, len(ids))
	for _, id := range ids {
		out[id] = []models.EmailLog{}
	}
	if len(ids) == 0 {
		return out, nil
	}

	marks := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		marks[i] = "?"
		args[i] = id
	}
	rows, err := s.DB.QueryContext(ctx, `
		SELECT application_id, template_id, subject, body, sent_at
		FROM email_logs WHERE application_id IN (`+strings.Join(marks, ", ")+`)
		ORDER BY id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			appID, sentAt string
			log           models.EmailLog
		)
		if err := rows.Scan(&appID, &log.TemplateID, &log.Subject, &log.Body, &sentAt); err != nil {
			return nil, err
		}
		log.SentAt = parseTime(sentAt)
		out[appID] = append(out[appID], log)
	}
	return out, rows.Err()
}

func scanApplication(row scanner) (*models.Application, error) {
	var (
		a                            models.Application
		status, appliedAt, updatedAt string
	)
	err := row.Scan(&a.ID, &a.JobID, &a.JobTitle, &a.CandidateName, &a.CandidateEmail, &a.Phone,
		&a.CoverLetter, &a.ResumeURL, &status, &appliedAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	a.Status = models.ApplicationStatus(status)
	a.AppliedAt = parseTime(appliedAt)
	a.UpdatedAt = parseTime(updatedAt)
	a.EmailHistory = []models.EmailLog{}
	return &a, nil
}
