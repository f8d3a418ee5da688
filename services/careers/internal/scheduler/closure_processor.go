package scheduler

import (
	"context"
	"sync/atomic"

	"abletech/services/careers/internal/models"

	"go.uber.org/zap"
)

type closureProcessor struct {
	scheduler *JobScheduler
	logger    *zap.Logger
}

func newClosureProcessor(scheduler *JobScheduler, logger *zap.Logger) *closureProcessor {
	return &closureProcessor{
		scheduler: scheduler,
		logger:    logger,
	}
}

func (p *closureProcessor) processClosure(ctx context.Context, job models.Job, stats *SweepStats) {
	sent, err := p.scheduler.notifier.NotifyJobClosed(ctx, job)
	atomic.AddInt32(&stats.NotificationsSent, int32(sent))
	if err != nil {
		atomic.AddInt32(&stats.Failures, 1)
		p.logger.Error("failed to notify job closure",
			zap.String("job_id", job.ID),
			zap.Int("sent", sent),
			zap.Error(err))
		return
	}
	p.logger.Debug("notified job closure",
		zap.String("job_id", job.ID),
		zap.String("title", job.Title),
		zap.Int("sent", sent))
}

func (p *closureProcessor) feedJobs(ctx context.Context, jobs []models.Job, jobChan chan models.Job) {
	defer close(jobChan)
	for _, job := range jobs {
		select {
		case jobChan <- job:
		case <-ctx.Done():
			return
		}
	}
}
