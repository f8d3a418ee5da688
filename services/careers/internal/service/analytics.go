package service

import (
	"context"

	"abletech/services/careers/internal/analytics"
	"abletech/services/careers/internal/store"
)

type AnalyticsService struct {
	store  *store.Store
	reader *analytics.Reader
}

func NewAnalyticsService(s *store.Store, reader *analytics.Reader) *AnalyticsService {
	return &AnalyticsService{store: s, reader: reader}
}

func (s *AnalyticsService) Summary(ctx context.Context, recruiterEmail string) (*store.Summary, error) {
	sum, err := s.store.Summarize(ctx, recruiterEmail)
	return sum, storeError(err, "analytics")
}

func (s *AnalyticsService) Engagement(ctx context.Context, days int) ([]analytics.DayEngagement, error) {
	return s.reader.Engagement(ctx, days)
}
