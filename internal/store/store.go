// Package store defines the persistence interface for the portal.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/jobgrid/jobgrid/internal/model"
)

// Sentinel errors returned by Store implementations.
var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a uniqueness constraint is violated
	// (duplicate email, duplicate application for the same job).
	ErrDuplicate = errors.New("already exists")
)

// Store defines the persistence interface for users, jobs, applications,
// notifications, and the activity audit trail.
type Store interface {
	// Users
	CreateUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByVerificationToken(ctx context.Context, token string) (*model.User, error)
	UpdateUser(ctx context.Context, user *model.User) error

	// Jobs
	CreateJob(ctx context.Context, job *model.Job) error
	GetJob(ctx context.Context, id string) (*model.Job, error)
	ListJobs(ctx context.Context, filter model.JobFilter) ([]*model.Job, int, error) // returns jobs, total count, error
	UpdateJob(ctx context.Context, job *model.Job) error
	DeleteJob(ctx context.Context, id string) error

	// Applications
	CreateApplication(ctx context.Context, app *model.Application) error
	GetApplication(ctx context.Context, id string) (*model.Application, error)
	ListApplicationsByJob(ctx context.Context, jobID string) ([]*model.Application, error)
	ListApplicationsBySeeker(ctx context.Context, seekerID string) ([]*model.Application, error)
	UpdateApplicationStatus(ctx context.Context, id string, status model.ApplicationStatus) (*model.Application, error)

	// Notifications
	CreateNotification(ctx context.Context, n *model.Notification) error
	ListNotifications(ctx context.Context, recipientID string, unreadOnly bool) ([]*model.Notification, error)
	CountUnreadNotifications(ctx context.Context, recipientID string) (int, error)
	MarkNotificationRead(ctx context.Context, id, recipientID string) error
	MarkAllNotificationsRead(ctx context.Context, recipientID string) error
	DeleteReadNotificationsBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// Activity audit trail
	RecordActivity(ctx context.Context, a *model.Activity) error
	ListActivities(ctx context.Context, userID string, limit int) ([]*model.Activity, error)

	// Lifecycle
	Close() error
}
