package models

import (
	"strings"
	"time"

	"abletech/common/errors"
)

type JobStatus string

const (
	JobStatusActive JobStatus = "Active"
	JobStatusDraft  JobStatus = "Draft"
	JobStatusClosed JobStatus = "Closed"
)

var jobTypes = []string{"Full-time", "Part-time", "Contract", "Internship", "Remote"}

const (
	ExperienceEntry       = "Entry"
	ExperienceMid         = "Mid"
	ExperienceSenior      = "Senior"
	ExperienceUnspecified = "Not Specified"
)

type Job struct {
	ID                    string     `json:"id"`
	Title                 string     `json:"title"`
	Department            string     `json:"department"`
	Category              string     `json:"category,omitempty"`
	Location              string     `json:"location"`
	Type                  string     `json:"type,omitempty"`
	Description           string     `json:"description"`
	Requirements          []string   `json:"requirements"`
	SalaryMin             *int       `json:"salaryMin,omitempty"`
	SalaryMax             *int       `json:"salaryMax,omitempty"`
	Experience            string     `json:"experience,omitempty"`
	ExperienceLevel       string     `json:"experienceLevel"`
	Deadline              *time.Time `json:"deadline,omitempty"`
	Status                JobStatus  `json:"status"`
	DatePosted            time.Time  `json:"datePosted"`
	Applications          int        `json:"applications"`
	RecruiterEmail        string     `json:"recruiterEmail,omitempty"`
	Flags                 []string   `json:"flags"`
	AccessibilityFeatures []string   `json:"accessibilityFeatures"`
	UpdatedAt             time.Time  `json:"updatedAt"`
}

// Normalize trims free text, canonicalises enums and fills defaults. It
// does not validate.
func (j *Job) Normalize() {
	j.Title = strings.TrimSpace(j.Title)
	j.Department = strings.TrimSpace(j.Department)
	j.Category = strings.TrimSpace(j.Category)
	j.Location = strings.TrimSpace(j.Location)
	j.Description = strings.TrimSpace(j.Description)
	j.Experience = strings.TrimSpace(j.Experience)
	j.RecruiterEmail = strings.ToLower(strings.TrimSpace(j.RecruiterEmail))
	j.Requirements = CleanList(j.Requirements)
	j.Flags = CleanList(j.Flags)
	j.AccessibilityFeatures = CleanList(j.AccessibilityFeatures)

	if t, ok := canonical(jobTypes, j.Type); ok {
		j.Type = t
	}
	if j.Status == "" {
		j.Status = JobStatusActive
	} else if s, ok := ParseJobStatus(string(j.Status)); ok {
		j.Status = s
	}
}

func (j *Job) Validate() error {
	switch {
	case j.Title == "":
		return errors.InvalidInput("title is required", nil)
	case j.Department == "":
		return errors.InvalidInput("department is required", nil)
	case j.Location == "":
		return errors.InvalidInput("location is required", nil)
	case j.Description == "":
		return errors.InvalidInput("description is required", nil)
	}
	if _, ok := ParseJobStatus(string(j.Status)); !ok {
		return errors.InvalidInput("status must be one of Active, Draft, Closed", nil)
	}
	if j.Type != "" {
		if _, ok := canonical(jobTypes, j.Type); !ok {
			return errors.InvalidInput("type must be one of "+strings.Join(jobTypes, ", "), nil)
		}
	}
	if j.SalaryMin != nil && *j.SalaryMin < 0 || j.SalaryMax != nil && *j.SalaryMax < 0 {
		return errors.InvalidInput("salary cannot be negative", nil)
	}
	if j.SalaryMin != nil && j.SalaryMax != nil && *j.SalaryMin > *j.SalaryMax {
		return errors.InvalidInput("salaryMin cannot exceed salaryMax", nil)
	}
	if j.RecruiterEmail != "" && !ValidEmail(j.RecruiterEmail) {
		return errors.InvalidInput("recruiterEmail is not a valid address", nil)
	}
	return nil
}

// Expired reports whether an active job's deadline has passed.
func (j *Job) Expired(now time.Time) bool {
	return j.Status == JobStatusActive && j.Deadline != nil && j.Deadline.Before(now)
}

// SearchText is the lowercased text used for keyword matching.
func (j *Job) SearchText() string {
	parts := []string{j.Title, j.Description, j.Category, j.Department, j.Type, j.Location}
	parts = append(parts, j.Requirements...)
	parts = append(parts, j.AccessibilityFeatures...)
	return strings.ToLower(strings.Join(parts, " "))
}

func ParseJobStatus(s string) (JobStatus, bool) {
	v, ok := canonical([]string{string(JobStatusActive), string(JobStatusDraft), string(JobStatusClosed)}, s)
	return JobStatus(v), ok
}

func JobTypes() []string {
	return append([]string(nil), jobTypes...)
}
