// Package templates renders recruiter email templates. Placeholders use the
// {{name}} form; unknown placeholders are left untouched.
package templates

import (
	"regexp"

	"abletech/services/careers/internal/models"
)

const (
	VarCandidateName = "candidateName"
	VarJobTitle      = "jobTitle"
	VarStatus        = "status"
	VarRecruiterName = "recruiterName"
)

var placeholderPattern = regexp.MustCompile(`\{\{\s*([A-Za-z][A-Za-z0-9_]*)\s*\}\}`)

// Vars holds placeholder values by name.
type Vars map[string]string

// ForApplication builds the standard variables for messaging a candidate.
func ForApplication(a *models.Application, recruiterName string) Vars {
	if recruiterName == "" {
		recruiterName = "The Hiring Team"
	}
	return Vars{
		VarCandidateName: a.CandidateName,
		VarJobTitle:      a.JobTitle,
		VarStatus:        string(a.Status),
		VarRecruiterName: recruiterName,
	}
}

// Expand substitutes known placeholders in text.
func Expand(text string, vars Vars) string {
	return placeholderPattern.ReplaceAllStringFunc(text, func(m string) string {
		name := placeholderPattern.FindStringSubmatch(m)[1]
		if v, ok := vars[name]; ok {
			return v
		}
		return m
	})
}

// Render expands a template into an email log entry ready to be recorded.
func Render(t models.EmailTemplate, vars Vars) models.EmailLog {
	return models.EmailLog{
		TemplateID: t.ID,
		Subject:    Expand(t.Subject, vars),
		Body:       Expand(t.Body, vars),
	}
}

// Defaults are installed on startup when missing.
func Defaults() []models.EmailTemplate {
	return []models.EmailTemplate{
		{
			ID:      "application-received",
			Name:    "Application Received",
			Subject: "We received your application for {{jobTitle}}",
			Body: "Dear {{candidateName}},\n\nThank you for applying for the {{jobTitle}} position. " +
				"Our team is reviewing your application and will be in touch soon.\n\nBest regards,\n{{recruiterName}}",
		},
		{
			ID:      "shortlisted",
			Name:    "Shortlisted",
			Subject: "You have been shortlisted for {{jobTitle}}",
			Body: "Dear {{candidateName}},\n\nGood news! Your application for {{jobTitle}} has been shortlisted. " +
				"We will contact you shortly to schedule an interview. Please let us know about any accommodations you need.\n\n" +
				"Best regards,\n{{recruiterName}}",
		},
		{
			ID:      "interview-invitation",
			Name:    "Interview Invitation",
			Subject: "Interview invitation: {{jobTitle}}",
			Body: "Dear {{candidateName}},\n\nWe would like to invite you to interview for the {{jobTitle}} role. " +
				"Reply with times that suit you and any accessibility requirements.\n\nBest regards,\n{{recruiterName}}",
		},
		{
			ID:      "offer",
			Name:    "Offer",
			Subject: "Offer for {{jobTitle}}",
			Body: "Dear {{candidateName}},\n\nWe are delighted to offer you the {{jobTitle}} position. " +
				"Your application status is now {{status}}.\n\nBest regards,\n{{recruiterName}}",
		},
		{
			ID:      "rejection",
			Name:    "Rejection",
			Subject: "Update on your application for {{jobTitle}}",
			Body: "Dear {{candidateName}},\n\nThank you for your interest in the {{jobTitle}} position. " +
				"After careful consideration we will not be moving forward with your application. " +
				"We encourage you to apply for future openings.\n\nBest regards,\n{{recruiterName}}",
		},
	}
}
