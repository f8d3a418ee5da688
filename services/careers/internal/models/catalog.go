package models

import (
	"strings"
	"time"

	"abletech/common/errors"
)

type AssistiveTechItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Features    []string  `json:"features"`
	Link        string    `json:"link,omitempty"`
	Flags       []string  `json:"flags"`
	DateAdded   time.Time `json:"dateAdded"`
}

func (t *AssistiveTechItem) Normalize() {
	t.Title = strings.TrimSpace(t.Title)
	t.Category = strings.TrimSpace(t.Category)
	t.Description = strings.TrimSpace(t.Description)
	t.Link = strings.TrimSpace(t.Link)
	t.Features = CleanList(t.Features)
	t.Flags = CleanList(t.Flags)
}

func (t *AssistiveTechItem) Validate() error {
	switch {
	case t.Title == "":
		return errors.InvalidInput("title is required", nil)
	case t.Category == "":
		return errors.InvalidInput("category is required", nil)
	}
	return nil
}

func (t *AssistiveTechItem) SearchText() string {
	parts := append([]string{t.Title, t.Description}, t.Features...)
	return strings.ToLower(strings.Join(parts, " "))
}

type MotivationalSession struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Speaker         string    `json:"speaker"`
	Category        string    `json:"category"`
	Description     string    `json:"description"`
	ScheduledAt     time.Time `json:"scheduledAt"`
	DurationMinutes int       `json:"durationMinutes"`
	Link            string    `json:"link,omitempty"`
}

type TrainingProgram struct {
	ID                    string    `json:"id"`
	Title                 string    `json:"title"`
	Trainer               string    `json:"trainer"`
	Category              string    `json:"category"`
	Description           string    `json:"description"`
	StartDate             time.Time `json:"startDate"`
	DurationWeeks         int       `json:"durationWeeks"`
	Seats                 int       `json:"seats"`
	AccessibilityFeatures []string  `json:"accessibilityFeatures"`
}
