package filter

import (
	"regexp"
	"strconv"
	"strings"

	"abletech/services/careers/internal/models"
)

var (
	yearsPattern  = regexp.MustCompile(`(?i)(\d+)\s*(\+|-\s*\d+)?\s*(?:years?|yrs?|yoe)`)
	seniorPattern = regexp.MustCompile(`(?i)\b(senior|sr\.?|lead|principal|staff|head of)\b`)
	entryPattern  = regexp.MustCompile(`(?i)\b(junior|jr\.?|entry|graduate|intern(ship)?|trainee|fresher)\b`)
	midPattern    = regexp.MustCompile(`(?i)\b(mid|mid-level|intermediate)\b`)
)

// NormalizeExperience maps free-text experience requirements onto one of the
// experience levels. Explicit year counts win over keywords; for ranges the
// lower bound decides.
func NormalizeExperience(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.ExperienceUnspecified
	}

	if level, ok := canonicalLevel(text); ok {
		return level
	}

	if m := yearsPattern.FindStringSubmatch(text); len(m) > 1 {
		years, err := strconv.Atoi(m[1])
		if err == nil {
			switch {
			case years >= 5:
				return models.ExperienceSenior
			case years >= 2:
				return models.ExperienceMid
			default:
				return models.ExperienceEntry
			}
		}
	}

	switch {
	case seniorPattern.MatchString(text):
		return models.ExperienceSenior
	case entryPattern.MatchString(text):
		return models.ExperienceEntry
	case midPattern.MatchString(text):
		return models.ExperienceMid
	}
	return models.ExperienceUnspecified
}

// JobLevel derives the level of a job from its experience text, falling back
// to its title.
func JobLevel(j *models.Job) string {
	if level := NormalizeExperience(j.Experience); level != models.ExperienceUnspecified {
		return level
	}
	return NormalizeExperience(j.Title)
}

func canonicalLevel(s string) (string, bool) {
	for _, level := range ExperienceLevels() {
		if strings.EqualFold(level, s) {
			return level, true
		}
	}
	return "", false
}

func ExperienceLevels() []string {
	return []string{models.ExperienceEntry, models.ExperienceMid, models.ExperienceSenior, models.ExperienceUnspecified}
}
