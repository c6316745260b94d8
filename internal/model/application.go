package model

import "time"

// ApplicationStatus tracks where an application sits in the employer's review.
type ApplicationStatus string

const (
	ApplicationPending     ApplicationStatus = "pending"
	ApplicationReviewing   ApplicationStatus = "reviewing"
	ApplicationShortlisted ApplicationStatus = "shortlisted"
	ApplicationRejected    ApplicationStatus = "rejected"
	ApplicationAccepted    ApplicationStatus = "accepted"
)

// String returns the string representation of the status.
func (s ApplicationStatus) String() string {
	return string(s)
}

// IsValid checks whether the status is a known value.
func (s ApplicationStatus) IsValid() bool {
	switch s {
	case ApplicationPending, ApplicationReviewing, ApplicationShortlisted,
		ApplicationRejected, ApplicationAccepted:
		return true
	}
	return false
}

// Application records a seeker applying to a job. A seeker may apply to a
// given job at most once.
type Application struct {
	ID          string            `json:"id"`
	JobID       string            `json:"job_id"`
	SeekerID    string            `json:"seeker_id"`
	ResumeKey   string            `json:"resume_key"`
	CoverLetter string            `json:"cover_letter,omitempty"`
	Status      ApplicationStatus `json:"status"`
	AppliedAt   time.Time         `json:"applied_at"`
	UpdatedAt   time.Time         `json:"updated_at"`

	// Populated by queries for list views, not stored on the applications row.
	JobTitle    string `json:"job_title,omitempty"`
	SeekerEmail string `json:"seeker_email,omitempty"`
	SeekerName  string `json:"seeker_name,omitempty"`
}
