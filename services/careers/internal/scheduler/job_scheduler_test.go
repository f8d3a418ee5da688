package scheduler

import (
	"context"
	stderrors "errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"abletech/common/errors"
	"abletech/services/careers/internal/config"
	"abletech/services/careers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeCloser struct {
	calls  atomic.Int32
	mu     sync.Mutex
	batch  []models.Job
	err    error
	lastAt time.Time
}

func (f *fakeCloser) CloseExpired(_ context.Context, now time.Time) ([]models.Job, error) {
	f.calls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastAt = now
	if f.err != nil {
		return nil, f.err
	}
	out := f.batch
	f.batch = nil
	return out, nil
}

type fakeNotifier struct {
	mu       sync.Mutex
	notified []string
	failOn   string
}

func (f *fakeNotifier) NotifyJobClosed(_ context.Context, job models.Job) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if job.ID == f.failOn {
		return 1, stderrors.New("store unavailable")
	}
	f.notified = append(f.notified, job.ID)
	return 2, nil
}

func newScheduler(t *testing.T, closer *fakeCloser, notifier *fakeNotifier, interval time.Duration) *JobScheduler {
	t.Helper()
	return NewJobScheduler(closer, notifier, zaptest.NewLogger(t), &config.Config{
		DeadlineSweepInterval: interval,
		SweepWorkers:          3,
	})
}

func TestSweepNotifiesEveryClosedJob(t *testing.T) {
	closer := &fakeCloser{batch: []models.Job{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}}}
	notifier := &fakeNotifier{failOn: "c"}
	s := newScheduler(t, closer, notifier, time.Hour)
	fixed := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	stats, err := s.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(4), stats.JobsClosed)
	assert.Equal(t, int32(7), stats.NotificationsSent)
	assert.Equal(t, int32(1), stats.Failures)
	assert.ElementsMatch(t, []string{"a", "b", "d"}, notifier.notified)
	assert.Equal(t, fixed, closer.lastAt)
}

func TestSweepWithNothingExpired(t *testing.T) {
	s := newScheduler(t, &fakeCloser{}, &fakeNotifier{}, time.Hour)

	stats, err := s.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SweepStats{}, *stats)
}

func TestSweepCloserError(t *testing.T) {
	s := newScheduler(t, &fakeCloser{err: stderrors.New("disk full")}, &fakeNotifier{}, time.Hour)

	_, err := s.Sweep(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrTypeInternal))
}

func TestStartSweepsUntilCancelled(t *testing.T) {
	closer := &fakeCloser{batch: []models.Job{{ID: "a"}}}
	notifier := &fakeNotifier{}
	s := newScheduler(t, closer, notifier, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	require.Eventually(t, func() bool { return closer.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	assert.True(t, s.Active())
	require.NoError(t, s.Start(ctx))

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
	assert.False(t, s.Active())

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	assert.Equal(t, []string{"a"}, notifier.notified)
}

func TestStopEndsStart(t *testing.T) {
	closer := &fakeCloser{}
	s := newScheduler(t, closer, &fakeNotifier{}, time.Hour)

	done := make(chan error, 1)
	go func() { done <- s.Start(context.Background()) }()
	require.Eventually(t, func() bool { return closer.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	s.Stop()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}
