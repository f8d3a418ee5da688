package service

import (
	"context"
	stderrors "errors"
	"testing"

	"abletech/common/errors"
	"abletech/common/events"
	"abletech/services/careers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobRecommendationsPersonalized(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.createJob(t, "Receptionist", "Hospitality")
	match := f.createJob(t, "Data Entry Operator", "Data Entry")

	_, err := f.profiles.UpdateDisability(ctx, "sam@example.com", &models.DisabilityInfo{
		HasDisability:        true,
		DisabilityCategories: []string{"Hearing impairment"},
	})
	require.NoError(t, err)

	recs, err := f.recs.Jobs(ctx, "sam@example.com", 1)
	require.NoError(t, err)
	assert.True(t, recs.Personalized)
	require.Len(t, recs.Items, 1)
	assert.Equal(t, match.ID, recs.Items[0].ID)
	assert.GreaterOrEqual(t, recs.Items[0].Score, 10)
}

func TestJobRecommendationsAnonymousAndInvalid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createJob(t, "Receptionist", "Hospitality")

	recs, err := f.recs.Jobs(ctx, "", 0)
	require.NoError(t, err)
	assert.False(t, recs.Personalized)
	assert.Len(t, recs.Items, 1)

	_, err = f.recs.Jobs(ctx, "nope", 0)
	requireType(t, err, errors.ErrTypeInvalidInput)
}

func TestJobRecommendationsAreCachedUntilInvalidated(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createJob(t, "Receptionist", "Hospitality")

	first, err := f.recs.Jobs(ctx, "", 3)
	require.NoError(t, err)
	require.Len(t, first.Items, 1)

	// Written behind the service's back, so the cache is not invalidated.
	require.NoError(t, f.store.CreateJob(ctx, &models.Job{
		Title: "Clerk", Department: "Ops", Location: "Lahore", Description: "x", Status: models.JobStatusActive,
	}))

	cached, err := f.recs.Jobs(ctx, "", 3)
	require.NoError(t, err)
	assert.Len(t, cached.Items, 1)

	f.recs.InvalidateJobs(ctx)

	fresh, err := f.recs.Jobs(ctx, "", 3)
	require.NoError(t, err)
	assert.Len(t, fresh.Items, 2)
}

func TestTechRecommendations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.catalog.Seed(ctx))

	recs, err := f.recs.Tech(ctx, "", 0)
	require.NoError(t, err)
	assert.False(t, recs.Personalized)
	assert.Len(t, recs.Items, DefaultTechRecommendations)

	_, err = f.profiles.UpdateDisability(ctx, "sam@example.com", &models.DisabilityInfo{
		HasDisability:        true,
		DisabilityCategories: []string{"Visual Assistance"},
	})
	require.NoError(t, err)

	recs, err = f.recs.Tech(ctx, "sam@example.com", 2)
	require.NoError(t, err)
	assert.True(t, recs.Personalized)
	require.Len(t, recs.Items, 2)
	for _, item := range recs.Items {
		assert.Equal(t, "Visual Assistance", item.Category)
	}
}

func TestRecordInteraction(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.recs.RecordInteraction(ctx, models.Interaction{Email: "sam@example.com", ItemID: "j1", ItemType: "job", Action: "Click"})
	require.NoError(t, err)
	require.Equal(t, []events.Type{events.RecommendationInteraction}, f.publisher.types())
	e := f.publisher.events[0]
	assert.Equal(t, "j1", e.JobID)
	assert.Equal(t, "click", e.Action)

	err = f.recs.RecordInteraction(ctx, models.Interaction{Email: "sam@example.com", ItemID: "j1", ItemType: "post", Action: "click"})
	requireType(t, err, errors.ErrTypeInvalidInput)

	f.publisher.err = stderrors.New("nats down")
	err = f.recs.RecordInteraction(ctx, models.Interaction{Email: "sam@example.com", ItemID: "t1", ItemType: "assistive_tech", Action: "view"})
	requireType(t, err, errors.ErrTypeUnavailable)
}
