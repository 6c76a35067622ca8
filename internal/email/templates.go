package email

import (
	"fmt"
	"strings"
)

// Template identifiers carried on queued email tasks.
const (
	TemplateApplicationReceived  = "application_received"
	TemplateApplicationSubmitted = "application_submitted"
	TemplateApplicationStatus    = "application_status"
)

// Render builds a deliverable message for a template and its parameters.
func Render(to, template string, params map[string]string) (Message, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(params[key]); v != "" {
			return v
		}
		return def
	}

	switch template {
	case TemplateApplicationReceived:
		jobTitle := get("jobTitle", "your job posting")
		candidate := get("candidateName", "A candidate")
		body := fmt.Sprintf(
			"Hi %s,\n\n%s has applied to %s.\nCandidate email: %s\n\nSign in to review the application.",
			get("contactName", "there"), candidate, jobTitle, get("candidateEmail", "not provided"),
		)
		return Message{
			To:       to,
			Subject:  fmt.Sprintf("New application for %s", jobTitle),
			TextBody: body,
		}, nil

	case TemplateApplicationSubmitted:
		jobTitle := get("jobTitle", "the job")
		org := get("organizationName", "the employer")
		body := fmt.Sprintf(
			"Hi %s,\n\nYour application to %s at %s has been submitted.",
			get("candidateName", "there"), jobTitle, org,
		)
		if warning := strings.TrimSpace(params["warning"]); warning != "" {
			body += "\n\n" + warning
		}
		return Message{
			To:       to,
			Subject:  fmt.Sprintf("Application submitted: %s", jobTitle),
			TextBody: body,
		}, nil

	case TemplateApplicationStatus:
		jobTitle := get("jobTitle", "Your Application")
		org := get("organizationName", "Employer")
		status := get("status", "updated")
		body := fmt.Sprintf(
			"Hi %s,\n\nYour application to %s at %s is now: %s.",
			get("candidateName", "there"), jobTitle, org, status,
		)
		return Message{
			To:       to,
			Subject:  fmt.Sprintf("Application update: %s", jobTitle),
			TextBody: body,
		}, nil

	default:
		return Message{}, fmt.Errorf("unknown email template %q", template)
	}
}
