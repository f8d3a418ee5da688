package processor

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"abletech/common/events"
	"abletech/services/analytics/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeExecer struct {
	mu       sync.Mutex
	failures int
	calls    int
	args     [][]any
}

func (f *fakeExecer) Exec(_ context.Context, _ string, args ...any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.calls <= f.failures {
		return stderrors.New("clickhouse: connection reset")
	}
	f.args = append(f.args, args)
	return nil
}

func newProcessor(t *testing.T, db Execer, retries int) *EngagementProcessor {
	t.Helper()
	return NewEngagementProcessor(zaptest.NewLogger(t), db, &config.Config{
		MaxRetries:    retries,
		RetryDelay:    time.Millisecond,
		MaxRetryDelay: 5 * time.Millisecond,
	})
}

func payload(t *testing.T) []byte {
	t.Helper()
	e := events.New(events.RecommendationInteraction, "sam@example.com")
	e.ItemID = "job-1"
	e.ItemType = "job"
	e.Action = "click"
	e.JobID = "job-1"
	data, err := json.Marshal(e)
	require.NoError(t, err)
	return data
}

func TestProcessEventStoresRow(t *testing.T) {
	db := &fakeExecer{}
	p := newProcessor(t, db, 2)

	require.NoError(t, p.ProcessEvent(context.Background(), payload(t)))
	require.Len(t, db.args, 1)
	row := db.args[0]
	require.Len(t, row, 9)
	assert.Equal(t, "recommendation.interaction", row[1])
	assert.Equal(t, "sam@example.com", row[2])
	assert.Equal(t, "click", row[5])
	assert.Equal(t, "job-1", row[6])
}

func TestProcessEventRetriesTransientFailures(t *testing.T) {
	db := &fakeExecer{failures: 2}
	p := newProcessor(t, db, 2)

	require.NoError(t, p.ProcessEvent(context.Background(), payload(t)))
	assert.Equal(t, 3, db.calls)
	assert.Len(t, db.args, 1)
}

func TestProcessEventGivesUpAfterMaxRetries(t *testing.T) {
	db := &fakeExecer{failures: 10}
	p := newProcessor(t, db, 2)

	err := p.ProcessEvent(context.Background(), payload(t))
	require.Error(t, err)
	assert.False(t, stderrors.Is(err, ErrMalformed))
	assert.Equal(t, 3, db.calls)
}

func TestProcessEventRejectsMalformedPayloads(t *testing.T) {
	db := &fakeExecer{}
	p := newProcessor(t, db, 2)

	for _, raw := range []string{"not json", `{"type":"job.created"}`, `{"id":"x"}`} {
		err := p.ProcessEvent(context.Background(), []byte(raw))
		assert.ErrorIs(t, err, ErrMalformed, raw)
	}
	assert.Zero(t, db.calls)
}
