package mail

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/jobgrid/jobgrid/internal/model"
)

var tmpl = template.Must(template.New("mail").Parse(`
{{define "verification"}}Hi {{.Name}},

Welcome to JobGrid. Please verify your email address by visiting:

    {{.SiteURL}}/verify?token={{.Token}}

If you did not create this account, you can ignore this message.
{{end}}

{{define "application_received"}}Hi {{.EmployerName}},

{{.ApplicantName}} has applied for your listing "{{.JobTitle}}".

Review the application at {{.SiteURL}}/applications.
{{end}}

{{define "application_status"}}Hi {{.ApplicantName}},

The status of your application for "{{.JobTitle}}" has changed to: {{.Status}}.

See details at {{.SiteURL}}/applications.
{{end}}

{{define "job_approved"}}Hi {{.EmployerName}},

Your listing "{{.JobTitle}}" has been approved and is now visible to job seekers.
{{end}}

{{define "job_rejected"}}Hi {{.EmployerName}},

Your listing "{{.JobTitle}}" was not approved.{{if .Feedback}}

Reviewer feedback:

    {{.Feedback}}{{end}}

You can edit and resubmit the listing at {{.SiteURL}}/employer/jobs.
{{end}}
`))

func render(name string, data any) (string, error) {
	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, name, data); err != nil {
		return "", fmt.Errorf("rendering %s template: %w", name, err)
	}
	return strings.TrimLeft(b.String(), "\n"), nil
}

// Verification builds the account-verification email for a new user.
func Verification(siteURL string, user *model.User) (Message, error) {
	body, err := render("verification", map[string]string{
		"Name":    user.FullName(),
		"SiteURL": siteURL,
		"Token":   user.VerificationToken,
	})
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      []string{user.Email},
		Subject: "Verify your JobGrid account",
		Text:    body,
	}, nil
}

// ApplicationReceived builds the notification email sent to the employer
// when a seeker applies to one of their listings.
func ApplicationReceived(siteURL string, employer, applicant *model.User, job *model.Job) (Message, error) {
	body, err := render("application_received", map[string]string{
		"EmployerName":  employer.FullName(),
		"ApplicantName": applicant.FullName(),
		"JobTitle":      job.Title,
		"SiteURL":       siteURL,
	})
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      []string{employer.Email},
		Subject: fmt.Sprintf("New application for %s", job.Title),
		Text:    body,
	}, nil
}

// ApplicationStatus builds the status-change email sent to the applicant.
func ApplicationStatus(siteURL string, applicant *model.User, job *model.Job, status model.ApplicationStatus) (Message, error) {
	body, err := render("application_status", map[string]string{
		"ApplicantName": applicant.FullName(),
		"JobTitle":      job.Title,
		"Status":        string(status),
		"SiteURL":       siteURL,
	})
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      []string{applicant.Email},
		Subject: fmt.Sprintf("Your application for %s: %s", job.Title, status),
		Text:    body,
	}, nil
}

// JobApproved builds the approval email sent to the employer.
func JobApproved(siteURL string, employer *model.User, job *model.Job) (Message, error) {
	body, err := render("job_approved", map[string]string{
		"EmployerName": employer.FullName(),
		"JobTitle":     job.Title,
		"SiteURL":      siteURL,
	})
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      []string{employer.Email},
		Subject: fmt.Sprintf("Your listing %s is live", job.Title),
		Text:    body,
	}, nil
}

// JobRejected builds the rejection email sent to the employer, including
// moderator feedback when present.
func JobRejected(siteURL string, employer *model.User, job *model.Job, feedback string) (Message, error) {
	body, err := render("job_rejected", map[string]string{
		"EmployerName": employer.FullName(),
		"JobTitle":     job.Title,
		"Feedback":     feedback,
		"SiteURL":      siteURL,
	})
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      []string{employer.Email},
		Subject: fmt.Sprintf("Your listing %s was not approved", job.Title),
		Text:    body,
	}, nil
}
