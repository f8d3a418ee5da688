package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"abletech/services/careers/internal/models"

	"github.com/google/uuid"
)

func (s *Store) CreateNotification(ctx context.Context, n *models.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.now()
	}
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO notifications (id, user_id, type, title, message, is_read, priority, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.UserID, string(n.Type), n.Title, n.Message, n.Read, string(n.Priority), formatTime(n.CreatedAt))
	return err
}

// ListNotifications returns a user's notifications, unread first and newest
// first within each group.
func (s *Store) ListNotifications(ctx context.Context, userID string, unreadOnly bool) ([]models.Notification, error) {
	query := `SELECT id, user_id, type, title, message, is_read, priority, created_at
		FROM notifications WHERE user_id = ?`
	if unreadOnly {
		query += " AND is_read = 0"
	}
	query += " ORDER BY is_read ASC, created_at DESC, id"

	rows, err := s.DB.QueryContext(ctx, query, strings.ToLower(userID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Notification{}
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *n)
	}
	return out, rows.Err()
}

func (s *Store) GetNotification(ctx context.Context, id string) (*models.Notification, error) {
	n, err := scanNotification(s.DB.QueryRowContext(ctx, `
		SELECT id, user_id, type, title, message, is_read, priority, created_at
		FROM notifications WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return n, err
}

func (s *Store) UnreadCount(ctx context.Context, userID string) (int, error) {
	var n int
	err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = ? AND is_read = 0`,
		strings.ToLower(userID)).Scan(&n)
	return n, err
}

func (s *Store) MarkNotificationRead(ctx context.Context, id string) error {
	res, err := s.DB.ExecContext(ctx, `UPDATE notifications SET is_read = 1 WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return affected(res)
}

// MarkAllNotificationsRead returns the number of notifications it changed.
func (s *Store) MarkAllNotificationsRead(ctx context.Context, userID string) (int, error) {
	res, err := s.DB.ExecContext(ctx,
		`UPDATE notifications SET is_read = 1 WHERE user_id = ? AND is_read = 0`,
		strings.ToLower(userID))
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (s *Store) DeleteNotification(ctx context.Context, id string) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM notifications WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return affected(res)
}

func scanNotification(row scanner) (*models.Notification, error) {
	var (
		n                        models.Notification
		typ, priority, createdAt string
	)
	if err := row.Scan(&n.ID, &n.UserID, &typ, &n.Title, &n.Message, &n.Read, &priority, &createdAt); err != nil {
		return nil, err
	}
	n.Type = models.NotificationType(typ)
	n.Priority = models.Priority(priority)
	n.CreatedAt = parseTime(createdAt)
	return &n, nil
}
