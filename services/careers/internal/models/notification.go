package models

import (
	"strings"
	"time"

	"abletech/common/errors"
)

type NotificationType string

const (
	NotificationJob         NotificationType = "job"
	NotificationApplication NotificationType = "application"
	NotificationProfile     NotificationType = "profile"
	NotificationTraining    NotificationType = "training"
	NotificationSystem      NotificationType = "system"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"userId"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Read      bool             `json:"read"`
	Priority  Priority         `json:"priority"`
	CreatedAt time.Time        `json:"createdAt"`
}

func (n *Notification) Normalize() {
	n.UserID = strings.ToLower(strings.TrimSpace(n.UserID))
	n.Type = NotificationType(strings.ToLower(strings.TrimSpace(string(n.Type))))
	n.Priority = Priority(strings.ToLower(strings.TrimSpace(string(n.Priority))))
	if n.Priority == "" {
		n.Priority = PriorityNormal
	}
}

func (n *Notification) Validate() error {
	if n.UserID == "" {
		return errors.InvalidInput("userId is required", nil)
	}
	switch n.Type {
	case NotificationJob, NotificationApplication, NotificationProfile, NotificationTraining, NotificationSystem:
	default:
		return errors.InvalidInput("unknown notification type", nil)
	}
	switch n.Priority {
	case PriorityLow, PriorityNormal, PriorityHigh:
	default:
		return errors.InvalidInput("priority must be low, normal or high", nil)
	}
	return nil
}
