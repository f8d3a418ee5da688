package models

import (
	"strings"
	"time"

	"abletech/common/errors"
)

type ApplicationStatus string

const (
	ApplicationPending     ApplicationStatus = "Pending"
	ApplicationShortlisted ApplicationStatus = "Shortlisted"
	ApplicationApproved    ApplicationStatus = "Approved"
	ApplicationRejected    ApplicationStatus = "Rejected"
)

type EmailLog struct {
	TemplateID string    `json:"templateId,omitempty"`
	Subject    string    `json:"subject"`
	Body       string    `json:"body"`
	SentAt     time.Time `json:"sentAt"`
}

type Application struct {
	ID             string            `json:"id"`
	JobID          string            `json:"jobId"`
	JobTitle       string            `json:"jobTitle,omitempty"`
	CandidateName  string            `json:"candidateName"`
	CandidateEmail string            `json:"candidateEmail"`
	Phone          string            `json:"phone,omitempty"`
	CoverLetter    string            `json:"coverLetter,omitempty"`
	ResumeURL      string            `json:"resumeUrl,omitempty"`
	Status         ApplicationStatus `json:"status"`
	AppliedAt      time.Time         `json:"appliedAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
	EmailHistory   []EmailLog        `json:"emailHistory"`
}

func (a *Application) Normalize() {
	a.JobID = strings.TrimSpace(a.JobID)
	a.CandidateName = strings.TrimSpace(a.CandidateName)
	a.CandidateEmail = strings.ToLower(strings.TrimSpace(a.CandidateEmail))
	a.Phone = strings.TrimSpace(a.Phone)
	a.ResumeURL = strings.TrimSpace(a.ResumeURL)
	if a.Status == "" {
		a.Status = ApplicationPending
	} else if s, ok := ParseApplicationStatus(string(a.Status)); ok {
		a.Status = s
	}
}

func (a *Application) Validate() error {
	switch {
	case a.JobID == "":
		return errors.InvalidInput("jobId is required", nil)
	case a.CandidateName == "":
		return errors.InvalidInput("candidateName is required", nil)
	case a.CandidateEmail == "":
		return errors.InvalidInput("candidateEmail is required", nil)
	case !ValidEmail(a.CandidateEmail):
		return errors.InvalidInput("candidateEmail is not a valid address", nil)
	}
	if _, ok := ParseApplicationStatus(string(a.Status)); !ok {
		return errors.InvalidInput("status must be one of Pending, Shortlisted, Approved, Rejected", nil)
	}
	return nil
}

func ParseApplicationStatus(s string) (ApplicationStatus, bool) {
	v, ok := canonical([]string{
		string(ApplicationPending),
		string(ApplicationShortlisted),
		string(ApplicationApproved),
		string(ApplicationRejected),
	}, s)
	return ApplicationStatus(v), ok
}

// Final reports whether the status ends the hiring decision.
func (s ApplicationStatus) Final() bool {
	return s == ApplicationApproved || s == ApplicationRejected
}
