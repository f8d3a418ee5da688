package service

import (
	"context"
	"fmt"
	"strings"

	"abletech/common/errors"
	"abletech/common/telemetry"
	"abletech/services/careers/internal/models"
	"abletech/services/careers/internal/store"

	"go.uber.org/zap"
)

type NotificationService struct {
	store  *store.Store
	logger *zap.Logger
}

func NewNotificationService(logger *zap.Logger, s *store.Store) *NotificationService {
	return &NotificationService{store: s, logger: logger}
}

// Notify stores a notification. Side-effect notifications go through send,
// which only logs failures.
func (s *NotificationService) Notify(ctx context.Context, n *models.Notification) error {
	n.Normalize()
	if err := n.Validate(); err != nil {
		return err
	}
	return storeError(s.store.CreateNotification(ctx, n), "notification")
}

func (s *NotificationService) send(ctx context.Context, n models.Notification) {
	if err := s.Notify(ctx, &n); err != nil {
		s.logger.Warn("failed to create notification",
			zap.String("user_id", n.UserID),
			zap.String("type", string(n.Type)),
			zap.Error(err))
	}
}

func (s *NotificationService) List(ctx context.Context, userID string, unreadOnly bool) ([]models.Notification, error) {
	if userID = strings.TrimSpace(userID); userID == "" {
		return nil, errors.InvalidInput("userId is required", nil)
	}
	list, err := s.store.ListNotifications(ctx, userID, unreadOnly)
	return list, storeError(err, "notifications")
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	if userID = strings.TrimSpace(userID); userID == "" {
		return 0, errors.InvalidInput("userId is required", nil)
	}
	n, err := s.store.UnreadCount(ctx, userID)
	return n, storeError(err, "notifications")
}

func (s *NotificationService) MarkRead(ctx context.Context, id string) (*models.Notification, error) {
	if err := s.store.MarkNotificationRead(ctx, id); err != nil {
		return nil, storeError(err, "notification")
	}
	n, err := s.store.GetNotification(ctx, id)
	return n, storeError(err, "notification")
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int, error) {
	if userID = strings.TrimSpace(userID); userID == "" {
		return 0, errors.InvalidInput("userId is required", nil)
	}
	n, err := s.store.MarkAllNotificationsRead(ctx, userID)
	return n, storeError(err, "notifications")
}

func (s *NotificationService) Delete(ctx context.Context, id string) error {
	return storeError(s.store.DeleteNotification(ctx, id), "notification")
}

// NotifyJobClosed tells the recruiter that a job closed at its deadline and
// tells every pending applicant that it is no longer open. It returns the
// number of notifications created.
func (s *NotificationService) NotifyJobClosed(ctx context.Context, job models.Job) (int, error) {
	ctx, span := tracer.Start(ctx, "NotificationService.NotifyJobClosed")
	defer span.End()
	span.SetAttributes(telemetry.String("job.id", job.ID))

	sent := 0
	if job.RecruiterEmail != "" {
		s.send(ctx, models.Notification{
			UserID:  job.RecruiterEmail,
			Type:    models.NotificationSystem,
			Title:   "Job closed",
			Message: fmt.Sprintf("%q reached its application deadline and is now closed.", job.Title),
		})
		sent++
	}

	pending, err := s.store.ListApplications(ctx, store.ApplicationQuery{JobID: job.ID, Status: models.ApplicationPending})
	if err != nil {
		return sent, fail(span, storeError(err, "applications"))
	}
	for _, a := range pending {
		s.send(ctx, models.Notification{
			UserID:  a.CandidateEmail,
			Type:    models.NotificationJob,
			Title:   "Job closed",
			Message: fmt.Sprintf("Applications for %q have closed. Your application is still under review.", job.Title),
		})
		sent++
	}
	span.SetAttributes(telemetry.Int("notifications.sent", sent))
	return sent, nil
}
