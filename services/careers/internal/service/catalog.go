package service

import (
	"context"
	"time"

	"abletech/services/careers/internal/models"
	"abletech/services/careers/internal/store"

	"go.uber.org/zap"
)

type CatalogService struct {
	store  *store.Store
	recs   *RecommendationService
	logger *zap.Logger
}

func NewCatalogService(logger *zap.Logger, s *store.Store, recs *RecommendationService) *CatalogService {
	return &CatalogService{store: s, recs: recs, logger: logger}
}

func (s *CatalogService) AssistiveTech(ctx context.Context, category string) ([]models.AssistiveTechItem, error) {
	items, err := s.store.ListAssistiveTech(ctx, category)
	return items, storeError(err, "assistive technology")
}

func (s *CatalogService) CreateAssistiveTech(ctx context.Context, t *models.AssistiveTechItem) (*models.AssistiveTechItem, error) {
	t.ID = ""
	t.DateAdded = time.Time{}
	t.Normalize()
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.CreateAssistiveTech(ctx, t); err != nil {
		return nil, storeError(err, "assistive technology")
	}
	s.recs.InvalidateTech(ctx)
	return t, nil
}

func (s *CatalogService) Sessions(ctx context.Context, category string) ([]models.MotivationalSession, error) {
	list, err := s.store.ListSessions(ctx, category)
	return list, storeError(err, "motivational sessions")
}

func (s *CatalogService) TrainingPrograms(ctx context.Context) ([]models.TrainingProgram, error) {
	list, err := s.store.ListTrainingPrograms(ctx)
	return list, storeError(err, "training programs")
}

// Seed fills empty catalog tables with sample rows.
func (s *CatalogService) Seed(ctx context.Context) error {
	n, err := s.store.SeedCatalog(ctx)
	if err != nil {
		return storeError(err, "catalog")
	}
	if n > 0 {
		s.recs.InvalidateTech(ctx)
	}
	s.logger.Info("catalog seeded", zap.Int("rows", n))
	return nil
}
