package scheduler

import (
	"context"
	"sync"

	"abletech/services/careers/internal/models"

	"go.uber.org/zap"
)

type workerManager struct {
	scheduler *JobScheduler
	logger    *zap.Logger
}

func newWorkerManager(scheduler *JobScheduler, logger *zap.Logger) *workerManager {
	return &workerManager{
		scheduler: scheduler,
		logger:    logger,
	}
}

func (w *workerManager) startWorkers(ctx context.Context, stats *SweepStats, jobChan chan models.Job) *sync.WaitGroup {
	var wg sync.WaitGroup
	for i := 0; i < w.scheduler.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobChan {
				w.scheduler.closureProcessor.processClosure(ctx, job, stats)
			}
		}()
	}
	return &wg
}
