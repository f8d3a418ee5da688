package store

import (
	"context"
	"time"

	"abletech/services/careers/internal/models"
)

// SeedCatalog inserts sample assistive technology, motivational sessions and
// training programs into empty catalog tables. It returns the number of rows
// inserted.
func (s *Store) SeedCatalog(ctx context.Context) (int, error) {
	now := s.now().UTC().Truncate(24 * time.Hour)
	day := 24 * time.Hour
	inserted := 0

	empty, err := s.tableEmpty(ctx, "assistive_tech")
	if err != nil {
		return 0, err
	}
	if empty {
		for _, t := range sampleAssistiveTech(now, day) {
			t := t
			if err := s.CreateAssistiveTech(ctx, &t); err != nil {
				return inserted, err
			}
			inserted++
		}
	}

	if empty, err = s.tableEmpty(ctx, "motivational_sessions"); err != nil {
		return inserted, err
	}
	if empty {
		for _, m := range sampleSessions(now, day) {
			m := m
			if err := s.CreateSession(ctx, &m); err != nil {
				return inserted, err
			}
			inserted++
		}
	}

	if empty, err = s.tableEmpty(ctx, "training_programs"); err != nil {
		return inserted, err
	}
	if empty {
		for _, p := range samplePrograms(now, day) {
			p := p
			if err := s.CreateTrainingProgram(ctx, &p); err != nil {
				return inserted, err
			}
			inserted++
		}
	}
	return inserted, nil
}

// tableEmpty interpolates table into the query; callers pass constants only.
func (s *Store) tableEmpty(ctx context.Context, table string) (bool, error) {
	var n int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table).Scan(&n); err != nil {
		return false, err
	}
	return n == 0, nil
}

func sampleAssistiveTech(now time.Time, day time.Duration) []models.AssistiveTechItem {
	return []models.AssistiveTechItem{
		{
			Title:       "NVDA Screen Reader",
			Category:    "Visual Assistance",
			Description: "Free, open source screen reader for Windows with braille display support.",
			Features:    []string{"Speech output", "Braille display support", "Works with browsers and office suites"},
			Link:        "https://www.nvaccess.org",
			Flags:       []string{"Popular"},
			DateAdded:   now.Add(-10 * day),
		},
		{
			Title:       "ZoomText Magnifier",
			Category:    "Visual Assistance",
			Description: "Screen magnifier with high contrast color schemes and voice reading.",
			Features:    []string{"Up to 60x magnification", "High contrast themes", "Voice echo"},
			DateAdded:   now.Add(-45 * day),
		},
		{
			Title:       "Live Transcribe",
			Category:    "Hearing Assistance",
			Description: "Real-time caption and transcription of conversations on your phone.",
			Features:    []string{"Live captions", "Sound notifications", "Vibration alerts"},
			Flags:       []string{"Recommended"},
			DateAdded:   now.Add(-5 * day),
		},
		{
			Title:       "Tobii Dynavox Eye Tracker",
			Category:    "Computer Access",
			Description: "Eye tracking device for hands-free computer control.",
			Features:    []string{"Gaze interaction", "Dwell clicking", "Switch access"},
			DateAdded:   now.Add(-80 * day),
		},
		{
			Title:       "Smart Home Voice Hub",
			Category:    "Smart Home",
			Description: "Voice control for lights, doors and appliances.",
			Features:    []string{"Voice commands", "Routines", "Remote control from phone"},
			DateAdded:   now.Add(-20 * day),
		},
		{
			Title:       "Proloquo2Go",
			Category:    "Communication",
			Description: "Symbol-based AAC app with natural text-to-speech voices.",
			Features:    []string{"Symbol vocabulary", "Text-to-speech", "Customisable grids"},
			Flags:       []string{"Popular"},
			DateAdded:   now.Add(-60 * day),
		},
		{
			Title:       "Read&Write",
			Category:    "Learning",
			Description: "Literacy toolbar with word prediction, reading support and dyslexia-friendly tools.",
			Features:    []string{"Word prediction", "Text-to-speech", "Spell checking"},
			DateAdded:   now.Add(-15 * day),
		},
	}
}

func sampleSessions(now time.Time, day time.Duration) []models.MotivationalSession {
	return []models.MotivationalSession{
		{
			Title:           "Thriving at Work with a Disability",
			Speaker:         "Ayesha Khan",
			Category:        "Career Growth",
			Description:     "Stories and strategies for building a career on your own terms.",
			ScheduledAt:     now.Add(7*day + 15*time.Hour),
			DurationMinutes: 60,
		},
		{
			Title:           "Confidence in Interviews",
			Speaker:         "Omar Siddiqui",
			Category:        "Interview Skills",
			Description:     "Preparing for interviews and requesting accommodations.",
			ScheduledAt:     now.Add(14*day + 11*time.Hour),
			DurationMinutes: 45,
		},
		{
			Title:           "Building Resilience",
			Speaker:         "Sara Ahmed",
			Category:        "Wellbeing",
			Description:     "Managing setbacks and staying motivated during a job search.",
			ScheduledAt:     now.Add(21*day + 17*time.Hour),
			DurationMinutes: 50,
		},
	}
}

func samplePrograms(now time.Time, day time.Duration) []models.TrainingProgram {
	return []models.TrainingProgram{
		{
			Title:                 "Web Accessibility Fundamentals",
			Trainer:               "AbleTech Academy",
			Category:              "Software Development",
			Description:           "WCAG, semantic HTML and testing with screen readers.",
			StartDate:             now.Add(10 * day),
			DurationWeeks:         6,
			Seats:                 25,
			AccessibilityFeatures: []string{"Captioned videos", "Screen reader friendly materials"},
		},
		{
			Title:                 "Data Entry and Office Tools",
			Trainer:               "Skills Hub",
			Category:              "Data Entry",
			Description:           "Spreadsheets, documents and accurate data entry practice.",
			StartDate:             now.Add(20 * day),
			DurationWeeks:         4,
			Seats:                 30,
			AccessibilityFeatures: []string{"Flexible hours", "Sign language interpreter"},
		},
		{
			Title:                 "Customer Support Essentials",
			Trainer:               "ServiceFirst",
			Category:              "Customer Service",
			Description:           "Chat and email support workflows, tone and tooling.",
			StartDate:             now.Add(30 * day),
			DurationWeeks:         3,
			Seats:                 20,
			AccessibilityFeatures: []string{"Remote attendance", "Mentorship"},
		},
	}
}
