package service

import (
	"context"
	"strings"

	"abletech/common/errors"
	"abletech/common/telemetry"
	"abletech/services/careers/internal/models"
	"abletech/services/careers/internal/prefs"
	"abletech/services/careers/internal/store"

	"go.uber.org/zap"
)

type ProfileService struct {
	store         *store.Store
	disability    *prefs.Repository[models.DisabilityInfo]
	recs          *RecommendationService
	notifications *NotificationService
	logger        *zap.Logger
}

func NewProfileService(
	logger *zap.Logger,
	s *store.Store,
	disability *prefs.Repository[models.DisabilityInfo],
	recs *RecommendationService,
	notifications *NotificationService,
) *ProfileService {
	return &ProfileService{
		store:         s,
		disability:    disability,
		recs:          recs,
		notifications: notifications,
		logger:        logger,
	}
}

func (s *ProfileService) Get(ctx context.Context, email string) (*models.UserProfile, error) {
	email, err := profileEmail(email)
	if err != nil {
		return nil, err
	}
	p, err := s.store.GetProfile(ctx, email)
	return p, storeError(err, "profile")
}

// Update creates or replaces the profile for email. The path email wins over
// any email in the body.
func (s *ProfileService) Update(ctx context.Context, email string, p *models.UserProfile) (*models.UserProfile, error) {
	ctx, span := tracer.Start(ctx, "ProfileService.Update")
	defer span.End()

	p.Email = email
	p.Normalize()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	span.SetAttributes(telemetry.String("user.email", p.Email))

	if err := s.store.UpsertProfile(ctx, p); err != nil {
		return nil, fail(span, storeError(err, "profile"))
	}
	s.recs.InvalidateUser(ctx, p.Email)
	s.notifications.send(ctx, models.Notification{
		UserID:   p.Email,
		Type:     models.NotificationProfile,
		Title:    "Profile updated",
		Message:  "Your profile changes have been saved.",
		Priority: models.PriorityLow,
	})
	return p, nil
}

// Disability returns the user's disability info, or an empty one when none
// was declared.
func (s *ProfileService) Disability(ctx context.Context, email string) (*models.DisabilityInfo, error) {
	email, err := profileEmail(email)
	if err != nil {
		return nil, err
	}
	info, ok, err := s.disability.Get(ctx, email)
	if err != nil {
		s.logger.Error("failed to read disability info", zap.String("email", email), zap.Error(err))
		return nil, errors.Internal("failed to read disability info", err)
	}
	if !ok {
		info = models.DisabilityInfo{DisabilityCategories: []string{}}
	}
	return &info, nil
}

func (s *ProfileService) UpdateDisability(ctx context.Context, email string, info *models.DisabilityInfo) (*models.DisabilityInfo, error) {
	ctx, span := tracer.Start(ctx, "ProfileService.UpdateDisability")
	defer span.End()

	email, err := profileEmail(email)
	if err != nil {
		return nil, err
	}
	info.Normalize()
	if err := info.Validate(); err != nil {
		return nil, err
	}
	if err := s.disability.Set(ctx, email, *info); err != nil {
		return nil, fail(span, errors.Internal("failed to save disability info", err))
	}

	s.recs.InvalidateUser(ctx, email)
	s.notifications.send(ctx, models.Notification{
		UserID:   email,
		Type:     models.NotificationProfile,
		Title:    "Accessibility preferences updated",
		Message:  "Your recommendations will now reflect your updated accessibility needs.",
		Priority: models.PriorityLow,
	})
	return info, nil
}

func profileEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !models.ValidEmail(email) {
		return "", errors.InvalidInput("a valid email is required", nil)
	}
	return email, nil
}
