package model

import (
	"net/mail"
	"strings"
)

// ValidationError holds a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation failure on a named field.
type FieldError struct {
	Field   string
	Message string
}

// Error formats the validation error as a semicolon-separated list of field messages.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasErrors reports whether the validation error contains any field errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

func (e *ValidationError) add(field, message string) {
	e.Errors = append(e.Errors, FieldError{Field: field, Message: message})
}

func (e *ValidationError) orNil() error {
	if e.HasErrors() {
		return e
	}
	return nil
}

// ValidateUser checks a User for constraint violations.
// It returns a *ValidationError if any rules fail, or nil if the user is valid.
func ValidateUser(u *User) error {
	var ve ValidationError

	email := strings.TrimSpace(u.Email)
	if email == "" {
		ve.add("email", "is required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		ve.add("email", "is not a valid address")
	}

	if !u.Role.IsValid() {
		ve.add("role", "must be seeker, employer, or admin")
	}

	if u.Role == RoleEmployer && strings.TrimSpace(u.CompanyName) == "" {
		ve.add("company_name", "is required for employer accounts")
	}

	return ve.orNil()
}

// ValidateJob checks a Job for constraint violations.
func ValidateJob(j *Job) error {
	var ve ValidationError

	title := strings.TrimSpace(j.Title)
	if title == "" {
		ve.add("title", "is required")
	} else if len([]rune(title)) > 100 {
		ve.add("title", "must be 100 characters or fewer")
	}

	if strings.TrimSpace(j.Company) == "" {
		ve.add("company", "is required")
	}
	if strings.TrimSpace(j.Description) == "" {
		ve.add("description", "is required")
	}
	if strings.TrimSpace(j.Location) == "" {
		ve.add("location", "is required")
	}
	if !j.Type.IsValid() {
		ve.add("job_type", "is not a known job type")
	}
	if !j.Salary.IsValid() {
		ve.add("salary", "is not a known salary band")
	}

	return ve.orNil()
}

// ValidateApplication checks an Application for constraint violations.
func ValidateApplication(a *Application) error {
	var ve ValidationError

	if a.JobID == "" {
		ve.add("job_id", "is required")
	}
	if a.SeekerID == "" {
		ve.add("seeker_id", "is required")
	}
	if a.ResumeKey == "" {
		ve.add("resume", "is required")
	}
	if !a.Status.IsValid() {
		ve.add("status", "is not a known application status")
	}

	return ve.orNil()
}
