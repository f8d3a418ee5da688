package scheduler

import (
	"context"
	"sync"
	"time"

	"abletech/common/errors"
	"abletech/common/telemetry"
	"abletech/services/careers/internal/config"
	"abletech/services/careers/internal/models"

	"go.uber.org/zap"
)

var tracer = telemetry.GetTracer("abletech/careers/scheduler")

// JobCloser closes active jobs whose deadline has passed.
type JobCloser interface {
	CloseExpired(ctx context.Context, now time.Time) ([]models.Job, error)
}

// ClosureNotifier tells the people involved with a job that it closed.
type ClosureNotifier interface {
	NotifyJobClosed(ctx context.Context, job models.Job) (int, error)
}

// JobScheduler sweeps for expired jobs on a fixed interval and fans the
// closure notifications out to a worker pool.
type JobScheduler struct {
	jobs             JobCloser
	notifier         ClosureNotifier
	logger           *zap.Logger
	interval         time.Duration
	workers          int
	now              func() time.Time
	mutex            sync.Mutex
	isActive         bool
	cancel           context.CancelFunc
	workerManager    *workerManager
	closureProcessor *closureProcessor
}

func NewJobScheduler(jobs JobCloser, notifier ClosureNotifier, logger *zap.Logger, config *config.Config) *JobScheduler {
	scheduler := &JobScheduler{
		jobs:     jobs,
		notifier: notifier,
		logger:   logger,
		interval: config.DeadlineSweepInterval,
		workers:  config.SweepWorkers,
		now:      time.Now,
	}
	if scheduler.interval <= 0 {
		scheduler.interval = time.Hour
	}
	if scheduler.workers <= 0 {
		scheduler.workers = 1
	}
	scheduler.workerManager = newWorkerManager(scheduler, logger)
	scheduler.closureProcessor = newClosureProcessor(scheduler, logger)
	return scheduler
}

// Start sweeps once and then on every tick until ctx is cancelled or Stop is
// called. Calling Start on a running scheduler is a no-op.
func (s *JobScheduler) Start(ctx context.Context) error {
	s.mutex.Lock()
	if s.isActive {
		s.mutex.Unlock()
		return nil
	}
	ctx, cancel := context.WithCancel(ctx)
	s.isActive = true
	s.cancel = cancel
	s.mutex.Unlock()

	defer func() {
		s.mutex.Lock()
		s.isActive = false
		s.cancel = nil
		s.mutex.Unlock()
		cancel()
	}()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	if _, err := s.Sweep(ctx); err != nil {
		s.logger.Error("initial deadline sweep failed", zap.Error(err))
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := s.Sweep(ctx); err != nil {
				s.logger.Error("periodic deadline sweep failed", zap.Error(err))
			}
		}
	}
}

func (s *JobScheduler) Stop() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
	s.isActive = false
}

func (s *JobScheduler) Active() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.isActive
}

type SweepStats struct {
	JobsClosed        int32
	NotificationsSent int32
	Failures          int32
}

// Sweep closes every expired job and waits until each closure has been
// notified.
func (s *JobScheduler) Sweep(ctx context.Context) (*SweepStats, error) {
	ctx, span := tracer.Start(ctx, "JobScheduler.Sweep")
	defer span.End()

	closed, err := s.jobs.CloseExpired(ctx, s.now())
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, errors.Internal("failed to close expired jobs", err)
	}
	span.SetAttributes(telemetry.Int("jobs.closed", len(closed)))

	stats := &SweepStats{JobsClosed: int32(len(closed))}
	if len(closed) == 0 {
		s.logger.Debug("deadline sweep found no expired jobs")
		return stats, nil
	}
	s.logger.Info("closed expired jobs", zap.Int("count", len(closed)))

	jobChan := make(chan models.Job)
	doneChan := make(chan bool)

	wg := s.workerManager.startWorkers(ctx, stats, jobChan)

	go s.closureProcessor.feedJobs(ctx, closed, jobChan)

	go func() {
		wg.Wait()
		close(doneChan)
	}()

	return s.waitForCompletion(ctx, doneChan, stats)
}

func (s *JobScheduler) waitForCompletion(ctx context.Context, doneChan chan bool, stats *SweepStats) (*SweepStats, error) {
	ctx, span := tracer.Start(ctx, "JobScheduler.waitForCompletion")
	defer span.End()

	select {
	case <-ctx.Done():
		telemetry.RecordError(span, ctx.Err())
		return nil, ctx.Err()
	case <-doneChan:
		span.SetAttributes(
			telemetry.Int("notifications_sent", int(stats.NotificationsSent)),
			telemetry.Int("failures", int(stats.Failures)),
		)
		s.logger.Info("completed deadline sweep",
			zap.Int("jobs_closed", int(stats.JobsClosed)),
			zap.Int("notifications_sent", int(stats.NotificationsSent)),
			zap.Int("failures", int(stats.Failures)))
		return stats, nil
	}
}
