package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"abletech/common/cache"
	"abletech/common/cache/memory"
	"abletech/common/errors"
	"abletech/common/events"
	"abletech/services/careers/internal/analytics"
	"abletech/services/careers/internal/models"
	"abletech/services/careers/internal/prefs"
	"abletech/services/careers/internal/store"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakePublisher struct {
	mu     sync.Mutex
	events []*events.Event
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, e *events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

func (p *fakePublisher) Close() {}

func (p *fakePublisher) types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Type, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type fixture struct {
	store         *store.Store
	cache         cache.Cache
	publisher     *fakePublisher
	notifications *NotificationService
	recs          *RecommendationService
	jobs          *JobService
	applications  *ApplicationService
	profiles      *ProfileService
	community     *CommunityService
	catalog       *CatalogService
	analytics     *AnalyticsService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	logger := zaptest.NewLogger(t)

	s, err := store.Open(ctx, filepath.Join(t.TempDir(), "careers.db"))
	require.NoError(t, err)
	c := memory.New(cache.Options{DefaultTTL: time.Minute})
	t.Cleanup(func() {
		_ = c.Close()
		_ = s.Close()
	})

	pub := &fakePublisher{}
	disability := prefs.NewDisabilityInfo(prefs.StoreBackend{Store: s})
	notifications := NewNotificationService(logger, s)
	recs := NewRecommendationService(logger, s, disability, c, time.Minute, pub)

	return &fixture{
		store:         s,
		cache:         c,
		publisher:     pub,
		notifications: notifications,
		recs:          recs,
		jobs:          NewJobService(logger, s, pub, notifications, recs),
		applications:  NewApplicationService(logger, s, pub, notifications),
		profiles:      NewProfileService(logger, s, disability, recs, notifications),
		community:     NewCommunityService(logger, s, pub),
		catalog:       NewCatalogService(logger, s, recs),
		analytics:     NewAnalyticsService(s, analytics.NewReader(logger, nil)),
	}
}

func (f *fixture) createJob(t *testing.T, title, category string) *models.Job {
	t.Helper()
	j, err := f.jobs.Create(context.Background(), &models.Job{
		Title:          title,
		Department:     "Engineering",
		Category:       category,
		Location:       "Karachi",
		Description:    "Remote friendly role.",
		RecruiterEmail: "hr@example.com",
	})
	require.NoError(t, err)
	return j
}

func requireType(t *testing.T, err error, want errors.ErrorType) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, want, errors.TypeOf(err), err.Error())
}
