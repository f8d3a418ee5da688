package service

import (
	"context"
	"testing"

	"abletech/common/errors"
	"abletech/services/careers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogSeedAndFilter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.catalog.Seed(ctx))
	require.NoError(t, f.catalog.Seed(ctx))

	all, err := f.catalog.AssistiveTech(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 7)

	visual, err := f.catalog.AssistiveTech(ctx, "visual assistance")
	require.NoError(t, err)
	assert.Len(t, visual, 2)

	sessions, err := f.catalog.Sessions(ctx, "")
	require.NoError(t, err)
	assert.Len(t, sessions, 3)

	programs, err := f.catalog.TrainingPrograms(ctx)
	require.NoError(t, err)
	assert.Len(t, programs, 3)

	_, err = f.catalog.CreateAssistiveTech(ctx, &models.AssistiveTechItem{Title: "Braille display"})
	requireType(t, err, errors.ErrTypeInvalidInput)

	item, err := f.catalog.CreateAssistiveTech(ctx, &models.AssistiveTechItem{Title: "Braille display", Category: "Visual Assistance"})
	require.NoError(t, err)
	assert.NotEmpty(t, item.ID)
}

func TestAnalyticsService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	j := f.createJob(t, "Clerk", "Data Entry")
	_, err := f.applications.Submit(ctx, &models.Application{JobID: j.ID, CandidateName: "Ali", CandidateEmail: "ali@example.com"})
	require.NoError(t, err)

	sum, err := f.analytics.Summary(ctx, "hr@example.com")
	require.NoError(t, err)
	assert.Equal(t, 1, sum.TotalJobs)
	assert.Equal(t, 1, sum.TotalApplications)

	_, err = f.analytics.Engagement(ctx, 7)
	requireType(t, err, errors.ErrTypeUnavailable)
}
