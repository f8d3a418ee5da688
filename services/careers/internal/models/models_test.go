package models

import (
	"testing"
	"time"

	"abletech/common/errors"

	"github.com/stretchr/testify/assert"
)

func validJob() Job {
	return Job{
		Title:       "Accessibility QA Engineer",
		Department:  "Engineering",
		Location:    "Karachi",
		Description: "Test our products with assistive technology.",
	}
}

func TestJobNormalizeDefaults(t *testing.T) {
	j := validJob()
	j.Type = "full-time"
	j.Requirements = []string{" Go ", "", "go", "SQL"}
	j.Normalize()

	assert.Equal(t, JobStatusActive, j.Status)
	assert.Equal(t, "Full-time", j.Type)
	assert.Equal(t, []string{"Go", "SQL"}, j.Requirements)
	assert.NotNil(t, j.Flags)
	assert.NoError(t, j.Validate())
}

func TestJobValidate(t *testing.T) {
	lo, hi := 90000, 50000
	tests := []struct {
		name   string
		mutate func(*Job)
	}{
		{"missing title", func(j *Job) { j.Title = "" }},
		{"missing department", func(j *Job) { j.Department = "" }},
		{"missing location", func(j *Job) { j.Location = "" }},
		{"missing description", func(j *Job) { j.Description = "" }},
		{"bad status", func(j *Job) { j.Status = "Archived" }},
		{"bad type", func(j *Job) { j.Type = "Gig" }},
		{"salary range", func(j *Job) { j.SalaryMin, j.SalaryMax = &lo, &hi }},
		{"recruiter email", func(j *Job) { j.RecruiterEmail = "not-an-email" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := validJob()
			j.Normalize()
			tt.mutate(&j)
			err := j.Validate()
			assert.True(t, errors.Is(err, errors.ErrTypeInvalidInput), "got %v", err)
		})
	}
}

func TestJobExpired(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	j := validJob()
	j.Normalize()
	assert.False(t, j.Expired(now))

	j.Deadline = &past
	assert.True(t, j.Expired(now))

	j.Status = JobStatusClosed
	assert.False(t, j.Expired(now))
}

func TestApplicationValidate(t *testing.T) {
	a := Application{JobID: "job-1", CandidateName: "Sana", CandidateEmail: " Sana@Example.com "}
	a.Normalize()
	assert.Equal(t, "sana@example.com", a.CandidateEmail)
	assert.Equal(t, ApplicationPending, a.Status)
	assert.NoError(t, a.Validate())

	a.CandidateEmail = "sana"
	assert.Error(t, a.Validate())

	s, ok := ParseApplicationStatus("shortlisted")
	assert.True(t, ok)
	assert.Equal(t, ApplicationShortlisted, s)
	assert.True(t, ApplicationRejected.Final())
	assert.False(t, ApplicationPending.Final())
}

func TestDisabilityInfoNormalize(t *testing.T) {
	d := DisabilityInfo{HasDisability: false, DisabilityCategories: []string{"Vision impairment"}}
	d.Normalize()
	assert.Empty(t, d.DisabilityCategories)
	assert.NoError(t, d.Validate())

	d = DisabilityInfo{HasDisability: true}
	d.Normalize()
	assert.Error(t, d.Validate())
}

func TestInteractionValidate(t *testing.T) {
	i := Interaction{Email: "a@b.io", ItemID: "1", ItemType: "JOB", Action: "Click"}
	i.Normalize()
	assert.NoError(t, i.Validate())

	i.Action = "share"
	assert.Error(t, i.Validate())
}

func TestCleanList(t *testing.T) {
	assert.Equal(t, []string{}, CleanList(nil))
	assert.Equal(t, []string{"a", "B"}, CleanList([]string{"a", " A", "B", " "}))
}
