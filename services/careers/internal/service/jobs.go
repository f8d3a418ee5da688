package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"abletech/common/errors"
	"abletech/common/events"
	"abletech/common/telemetry"
	"abletech/services/careers/internal/filter"
	"abletech/services/careers/internal/models"
	"abletech/services/careers/internal/store"

	"go.uber.org/zap"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type JobService struct {
	store         *store.Store
	publisher     events.Publisher
	notifications *NotificationService
	recs          *RecommendationService
	logger        *zap.Logger
}

func NewJobService(logger *zap.Logger, s *store.Store, publisher events.Publisher, notifications *NotificationService, recs *RecommendationService) *JobService {
	return &JobService{
		store:         s,
		publisher:     publisher,
		notifications: notifications,
		recs:          recs,
		logger:        logger,
	}
}

type JobListParams struct {
	Criteria filter.Criteria
	Offset   int
	Limit    int
}

type JobPage struct {
	Jobs    []models.Job `json:"jobs"`
	Total   int          `json:"total"`
	Offset  int          `json:"offset"`
	Limit   int          `json:"limit"`
	HasMore bool         `json:"hasMore"`
}

type Department struct {
	Name  string       `json:"name"`
	Count int          `json:"count"`
	Jobs  []models.Job `json:"jobs"`
}

func (s *JobService) List(ctx context.Context, params JobListParams) (*JobPage, error) {
	ctx, span := tracer.Start(ctx, "JobService.List")
	defer span.End()

	if params.Offset < 0 {
		return nil, errors.InvalidInput("offset cannot be negative", nil)
	}
	if params.Limit <= 0 {
		params.Limit = DefaultPageSize
	}
	if params.Limit > MaxPageSize {
		params.Limit = MaxPageSize
	}

	jobs, err := s.store.ListJobs(ctx, store.JobQuery{})
	if err != nil {
		return nil, fail(span, storeError(err, "jobs"))
	}

	matched := filter.Apply(jobs, params.Criteria)
	page := filter.Page(matched, params.Offset, params.Limit)
	span.SetAttributes(telemetry.Int("jobs.total", len(jobs)), telemetry.Int("jobs.matched", len(matched)))

	return &JobPage{
		Jobs:    page,
		Total:   len(matched),
		Offset:  params.Offset,
		Limit:   params.Limit,
		HasMore: params.Offset+len(page) < len(matched),
	}, nil
}

func (s *JobService) Get(ctx context.Context, id string) (*models.Job, error) {
	j, err := s.store.GetJob(ctx, id)
	return j, storeError(err, "job")
}

// Create validates and stores a job, then notifies seekers it suits.
func (s *JobService) Create(ctx context.Context, j *models.Job) (*models.Job, error) {
	ctx, span := tracer.Start(ctx, "JobService.Create")
	defer span.End()

	j.ID = ""
	j.Applications = 0
	j.DatePosted = time.Time{}
	j.Normalize()
	if err := j.Validate(); err != nil {
		return nil, err
	}
	j.ExperienceLevel = filter.JobLevel(j)

	if err := s.store.CreateJob(ctx, j); err != nil {
		return nil, fail(span, storeError(err, "job"))
	}
	span.SetAttributes(telemetry.String("job.id", j.ID))
	s.logger.Info("job created", zap.String("id", j.ID), zap.String("title", j.Title))

	s.recs.InvalidateJobs(ctx)
	s.publishJob(ctx, events.JobCreated, j)
	if j.Status == models.JobStatusActive {
		s.notifySeekers(ctx, *j)
	}
	return j, nil
}

// Update replaces a job's editable fields. Posting date, application count
// and recruiter are preserved when the update leaves them empty.
func (s *JobService) Update(ctx context.Context, id string, j *models.Job) (*models.Job, error) {
	ctx, span := tracer.Start(ctx, "JobService.Update")
	defer span.End()

	existing, err := s.store.GetJob(ctx, id)
	if err != nil {
		return nil, fail(span, storeError(err, "job"))
	}

	j.ID = existing.ID
	j.DatePosted = existing.DatePosted
	j.Applications = existing.Applications
	if j.RecruiterEmail == "" {
		j.RecruiterEmail = existing.RecruiterEmail
	}
	j.Normalize()
	if err := j.Validate(); err != nil {
		return nil, err
	}
	j.ExperienceLevel = filter.JobLevel(j)

	if err := s.store.UpdateJob(ctx, j); err != nil {
		return nil, fail(span, storeError(err, "job"))
	}

	s.recs.InvalidateJobs(ctx)
	s.publishJob(ctx, events.JobUpdated, j)
	return j, nil
}

func (s *JobService) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "JobService.Delete")
	defer span.End()

	job, err := s.store.GetJob(ctx, id)
	if err != nil {
		return fail(span, storeError(err, "job"))
	}
	if err := s.store.DeleteJob(ctx, id); err != nil {
		return fail(span, storeError(err, "job"))
	}
	s.logger.Info("job deleted", zap.String("id", id), zap.Int("applications", job.Applications))

	s.recs.InvalidateJobs(ctx)
	s.publishJob(ctx, events.JobDeleted, job)
	return nil
}

// Departments groups jobs by department, largest first.
func (s *JobService) Departments(ctx context.Context, recruiterEmail string) ([]Department, error) {
	jobs, err := s.store.ListJobs(ctx, store.JobQuery{RecruiterEmail: recruiterEmail})
	if err != nil {
		return nil, storeError(err, "jobs")
	}

	index := map[string]int{}
	departments := []Department{}
	for _, j := range jobs {
		i, ok := index[j.Department]
		if !ok {
			i = len(departments)
			index[j.Department] = i
			departments = append(departments, Department{Name: j.Department, Jobs: []models.Job{}})
		}
		departments[i].Jobs = append(departments[i].Jobs, j)
		departments[i].Count++
	}
	sort.SliceStable(departments, func(a, b int) bool {
		if departments[a].Count != departments[b].Count {
			return departments[a].Count > departments[b].Count
		}
		return departments[a].Name < departments[b].Name
	})
	return departments, nil
}

// CloseExpired closes active jobs past their deadline.
func (s *JobService) CloseExpired(ctx context.Context, now time.Time) ([]models.Job, error) {
	ctx, span := tracer.Start(ctx, "JobService.CloseExpired")
	defer span.End()

	closed, err := s.store.CloseExpiredJobs(ctx, now)
	if err != nil {
		return nil, fail(span, storeError(err, "jobs"))
	}
	span.SetAttributes(telemetry.Int("jobs.closed", len(closed)))
	if len(closed) == 0 {
		return closed, nil
	}

	s.recs.InvalidateJobs(ctx)
	for i := range closed {
		s.publishJob(ctx, events.JobClosed, &closed[i])
	}
	return closed, nil
}

func (s *JobService) notifySeekers(ctx context.Context, j models.Job) {
	emails, err := s.recs.MatchingSeekers(ctx, j)
	if err != nil {
		s.logger.Warn("failed to match seekers for new job", zap.String("job_id", j.ID), zap.Error(err))
		return
	}
	for _, email := range emails {
		s.notifications.send(ctx, models.Notification{
			UserID:  email,
			Type:    models.NotificationJob,
			Title:   "New job that matches your profile",
			Message: fmt.Sprintf("%s in %s (%s) was just posted.", j.Title, j.Location, j.Department),
		})
	}
}

func (s *JobService) publishJob(ctx context.Context, t events.Type, j *models.Job) {
	e := events.New(t, j.RecruiterEmail)
	e.ItemID = j.ID
	e.ItemType = models.ItemTypeJob
	e.JobID = j.ID
	e.With("department", j.Department).With("status", string(j.Status))
	publish(ctx, s.publisher, s.logger, e)
}
