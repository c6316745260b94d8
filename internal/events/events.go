// Package events defines the portal's domain events and the bus interfaces
// used to publish and consume them.
package events

import (
	"context"

	"github.com/jobgrid/jobgrid/internal/model"
)

// Event topic constants
const (
	TopicJobCreated  = "jobs.job.created"
	TopicJobUpdated  = "jobs.job.updated"
	TopicJobApproved = "jobs.job.approved"
	TopicJobRejected = "jobs.job.rejected"
	TopicJobDeleted  = "jobs.job.deleted"

	TopicApplicationReceived      = "jobs.application.received"
	TopicApplicationStatusChanged = "jobs.application.status_changed"

	TopicUserRegistered = "jobs.user.registered"
)

// TopicAll subscribes to every portal event (NATS wildcard).
const TopicAll = "jobs.>"

// Event types

type JobCreated struct {
	Job *model.Job `json:"job"`
}

type JobUpdated struct {
	Job     *model.Job     `json:"job"`
	Changes map[string]any `json:"changes"` // field name -> new value
}

type JobApproved struct {
	Job *model.Job `json:"job"`
}

type JobRejected struct {
	Job      *model.Job `json:"job"`
	Feedback string     `json:"feedback,omitempty"`
}

type JobDeleted struct {
	JobID string `json:"job_id"`
}

type ApplicationReceived struct {
	Application *model.Application `json:"application"`
	Job         *model.Job         `json:"job"`
	Applicant   *model.User        `json:"applicant"`
}

type ApplicationStatusChanged struct {
	Application *model.Application      `json:"application"`
	Job         *model.Job              `json:"job"`
	Status      model.ApplicationStatus `json:"status"`
}

type UserRegistered struct {
	User *model.User `json:"user"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
