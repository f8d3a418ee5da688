package service

import (
	"context"
	"fmt"
	"strings"

	"abletech/common/errors"
	"abletech/common/events"
	"abletech/common/telemetry"
	"abletech/services/careers/internal/models"
	"abletech/services/careers/internal/store"
	"abletech/services/careers/internal/templates"

	"go.uber.org/zap"
)

type ApplicationService struct {
	store         *store.Store
	publisher     events.Publisher
	notifications *NotificationService
	logger        *zap.Logger
}

func NewApplicationService(logger *zap.Logger, s *store.Store, publisher events.Publisher, notifications *NotificationService) *ApplicationService {
	return &ApplicationService{
		store:         s,
		publisher:     publisher,
		notifications: notifications,
		logger:        logger,
	}
}

// EmailRequest selects a template, or supplies a custom subject and body.
// Placeholders are expanded either way.
type EmailRequest struct {
	TemplateID    string `json:"templateId"`
	Subject       string `json:"subject"`
	Body          string `json:"body"`
	RecruiterName string `json:"recruiterName"`
}

// Submit stores an application for an active job, bumps the job's counter
// and notifies its recruiter.
func (s *ApplicationService) Submit(ctx context.Context, a *models.Application) (*models.Application, error) {
	ctx, span := tracer.Start(ctx, "ApplicationService.Submit")
	defer span.End()

	a.ID = ""
	a.Status = models.ApplicationPending
	a.EmailHistory = nil
	a.Normalize()
	if err := a.Validate(); err != nil {
		return nil, err
	}
	span.SetAttributes(telemetry.String("job.id", a.JobID))

	job, err := s.store.GetJob(ctx, a.JobID)
	if err != nil {
		return nil, fail(span, storeError(err, "job"))
	}
	if job.Status != models.JobStatusActive {
		return nil, errors.InvalidInput("this job is not accepting applications", nil)
	}

	existing, err := s.store.ListApplications(ctx, store.ApplicationQuery{JobID: a.JobID, CandidateEmail: a.CandidateEmail})
	if err != nil {
		return nil, fail(span, storeError(err, "applications"))
	}
	if len(existing) > 0 {
		return nil, errors.InvalidInput("you have already applied for this job", nil)
	}

	job, err = s.store.CreateApplication(ctx, a)
	if err != nil {
		return nil, fail(span, storeError(err, "job"))
	}
	s.logger.Info("application submitted",
		zap.String("id", a.ID),
		zap.String("job_id", a.JobID),
		zap.Int("job_applications", job.Applications))

	if job.RecruiterEmail != "" {
		s.notifications.send(ctx, models.Notification{
			UserID:  job.RecruiterEmail,
			Type:    models.NotificationApplication,
			Title:   "New application",
			Message: fmt.Sprintf("%s applied for %s.", a.CandidateName, job.Title),
		})
	}

	e := s.event(events.ApplicationSubmitted, a.CandidateEmail, a)
	publish(ctx, s.publisher, s.logger, e)
	return a, nil
}

func (s *ApplicationService) Get(ctx context.Context, id string) (*models.Application, error) {
	a, err := s.store.GetApplication(ctx, id)
	return a, storeError(err, "application")
}

func (s *ApplicationService) List(ctx context.Context, q store.ApplicationQuery) ([]models.Application, error) {
	if q.Status != "" {
		status, ok := models.ParseApplicationStatus(string(q.Status))
		if !ok {
			return nil, errors.InvalidInput("unknown application status", nil)
		}
		q.Status = status
	}
	apps, err := s.store.ListApplications(ctx, q)
	return apps, storeError(err, "applications")
}

// UpdateStatus moves an application to status and tells the candidate.
// Final decisions are sent with high priority.
func (s *ApplicationService) UpdateStatus(ctx context.Context, id, status string) (*models.Application, error) {
	ctx, span := tracer.Start(ctx, "ApplicationService.UpdateStatus")
	defer span.End()

	next, ok := models.ParseApplicationStatus(status)
	if !ok {
		return nil, errors.InvalidInput("status must be one of Pending, Shortlisted, Approved, Rejected", nil)
	}
	span.SetAttributes(telemetry.String("application.id", id), telemetry.String("application.status", string(next)))

	current, err := s.store.GetApplication(ctx, id)
	if err != nil {
		return nil, fail(span, storeError(err, "application"))
	}
	if current.Status == next {
		return current, nil
	}

	a, err := s.store.UpdateApplicationStatus(ctx, id, next)
	if err != nil {
		return nil, fail(span, storeError(err, "application"))
	}

	priority := models.PriorityNormal
	if next.Final() {
		priority = models.PriorityHigh
	}
	s.notifications.send(ctx, models.Notification{
		UserID:   a.CandidateEmail,
		Type:     models.NotificationApplication,
		Title:    "Application update",
		Message:  fmt.Sprintf("Your application for %s is now %s.", a.JobTitle, strings.ToLower(string(next))),
		Priority: priority,
	})

	e := s.event(events.ApplicationStatusChanged, "", a).
		With("from", string(current.Status)).
		With("status", string(next))
	publish(ctx, s.publisher, s.logger, e)
	return a, nil
}

// SendEmail renders a message for the candidate and records it in the
// application's email history. No mail is delivered from here; the history
// entry is the record of what was sent.
func (s *ApplicationService) SendEmail(ctx context.Context, id string, req EmailRequest) (*models.Application, error) {
	ctx, span := tracer.Start(ctx, "ApplicationService.SendEmail")
	defer span.End()

	a, err := s.store.GetApplication(ctx, id)
	if err != nil {
		return nil, fail(span, storeError(err, "application"))
	}

	tpl := models.EmailTemplate{Subject: req.Subject, Body: req.Body}
	if req.TemplateID != "" {
		stored, err := s.store.GetTemplate(ctx, req.TemplateID)
		if err != nil {
			return nil, fail(span, storeError(err, "email template"))
		}
		tpl = *stored
	}
	if strings.TrimSpace(tpl.Subject) == "" || strings.TrimSpace(tpl.Body) == "" {
		return nil, errors.InvalidInput("templateId or subject and body are required", nil)
	}

	log := templates.Render(tpl, templates.ForApplication(a, req.RecruiterName))
	if err := s.store.AppendEmailLog(ctx, a.ID, &log); err != nil {
		return nil, fail(span, storeError(err, "application"))
	}
	a.EmailHistory = append(a.EmailHistory, log)

	e := s.event(events.ApplicationEmailed, "", a).With("template", tpl.ID)
	publish(ctx, s.publisher, s.logger, e)
	return a, nil
}

func (s *ApplicationService) Templates(ctx context.Context) ([]models.EmailTemplate, error) {
	list, err := s.store.ListTemplates(ctx)
	return list, storeError(err, "email templates")
}

// EnsureDefaultTemplates installs the built-in templates that are missing.
func (s *ApplicationService) EnsureDefaultTemplates(ctx context.Context) error {
	return storeError(s.store.EnsureTemplates(ctx, templates.Defaults()), "email templates")
}

func (s *ApplicationService) event(t events.Type, actor string, a *models.Application) *events.Event {
	e := events.New(t, actor)
	e.ItemID = a.ID
	e.ItemType = "application"
	e.JobID = a.JobID
	return e
}
