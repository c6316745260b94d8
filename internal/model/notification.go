package model

import "time"

// NotificationType classifies an in-app notification for display.
type NotificationType string

const (
	NotifyInfo              NotificationType = "info"
	NotifySuccess           NotificationType = "success"
	NotifyWarning           NotificationType = "warning"
	NotifyError             NotificationType = "error"
	NotifyJobApplication    NotificationType = "job_application"
	NotifyJobApproved       NotificationType = "job_approved"
	NotifyJobRejected       NotificationType = "job_rejected"
	NotifyApplicationStatus NotificationType = "application_status"
)

// String returns the string representation of the notification type.
func (t NotificationType) String() string {
	return string(t)
}

// IsValid checks whether the notification type is a known value.
func (t NotificationType) IsValid() bool {
	switch t {
	case NotifyInfo, NotifySuccess, NotifyWarning, NotifyError,
		NotifyJobApplication, NotifyJobApproved, NotifyJobRejected, NotifyApplicationStatus:
		return true
	}
	return false
}

// Notification is an in-app message shown on a user's dashboard.
type Notification struct {
	ID          string           `json:"id"`
	RecipientID string           `json:"recipient_id"`
	Title       string           `json:"title"`
	Message     string           `json:"message"`
	Type        NotificationType `json:"notification_type"`
	Read        bool             `json:"is_read"`
	ActionURL   string           `json:"action_url,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}
