package analytics

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"abletech/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeSource struct {
	rows  []DailyCount
	err   error
	since time.Time
}

func (f *fakeSource) Daily(_ context.Context, since time.Time) ([]DailyCount, error) {
	f.since = since
	return f.rows, f.err
}

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func TestEngagementFillsEveryDay(t *testing.T) {
	src := &fakeSource{rows: []DailyCount{
		{Day: day("2024-06-13"), Type: "recommendation.interaction", Action: "click", Events: 3},
		{Day: day("2024-06-13"), Type: "application.submitted", Action: "submitted", Events: 1},
		{Day: day("2024-06-15"), Type: "recommendation.interaction", Action: "view", Events: 5},
		{Day: day("2024-01-01"), Type: "job.created", Action: "created", Events: 9},
	}}
	r := NewReader(zaptest.NewLogger(t), src)
	r.now = func() time.Time { return time.Date(2024, 6, 15, 18, 0, 0, 0, time.UTC) }

	series, err := r.Engagement(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, day("2024-06-13"), src.since)

	require.Len(t, series, 3)
	assert.Equal(t, "2024-06-13", series[0].Day)
	assert.Equal(t, 4, series[0].Total)
	assert.Equal(t, map[string]int{"click": 3, "submitted": 1}, series[0].ByAction)
	assert.Equal(t, 0, series[1].Total)
	assert.Equal(t, 5, series[2].ByType["recommendation.interaction"])
}

func TestEngagementDefaultsAndValidation(t *testing.T) {
	r := NewReader(zaptest.NewLogger(t), &fakeSource{})

	series, err := r.Engagement(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, series, DefaultDays)

	_, err = r.Engagement(context.Background(), MaxDays+1)
	assert.True(t, errors.Is(err, errors.ErrTypeInvalidInput))
}

func TestEngagementUnavailable(t *testing.T) {
	_, err := NewReader(zaptest.NewLogger(t), nil).Engagement(context.Background(), 7)
	assert.True(t, errors.Is(err, errors.ErrTypeUnavailable))

	_, err = NewReader(zaptest.NewLogger(t), &fakeSource{err: stderrors.New("boom")}).Engagement(context.Background(), 7)
	assert.True(t, errors.Is(err, errors.ErrTypeUnavailable))
}
