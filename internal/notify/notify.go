// Package notify fans portal events out to in-app notifications and email.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jobgrid/jobgrid/internal/events"
	"github.com/jobgrid/jobgrid/internal/idgen"
	"github.com/jobgrid/jobgrid/internal/mail"
	"github.com/jobgrid/jobgrid/internal/model"
	"github.com/jobgrid/jobgrid/internal/store"
)

// UnreadInvalidator drops a user's cached unread-notification count so the
// next read reflects the new notification.
type UnreadInvalidator interface {
	Invalidate(ctx context.Context, userID string) error
}

// Notifier writes in-app notifications and sends the matching emails for
// portal events. Email failures are logged, not returned: a lost email must
// not fail the operation that triggered it.
type Notifier struct {
	store   store.Store
	mailer  mail.Mailer
	unread  UnreadInvalidator
	siteURL string
	logger  *slog.Logger
}

func New(s store.Store, m mail.Mailer, unread UnreadInvalidator, siteURL string, logger *slog.Logger) *Notifier {
	return &Notifier{
		store:   s,
		mailer:  m,
		unread:  unread,
		siteURL: siteURL,
		logger:  logger,
	}
}

// UserRegistered sends the verification email for a new account.
func (n *Notifier) UserRegistered(ctx context.Context, ev events.UserRegistered) error {
	msg, err := mail.Verification(n.siteURL, ev.User)
	if err != nil {
		return err
	}
	n.send(ctx, msg)
	return nil
}

// ApplicationReceived notifies the employer of a new application and
// confirms receipt to the applicant.
func (n *Notifier) ApplicationReceived(ctx context.Context, ev events.ApplicationReceived) error {
	employer, err := n.store.GetUser(ctx, ev.Job.EmployerID)
	if err != nil {
		return fmt.Errorf("loading employer %s: %w", ev.Job.EmployerID, err)
	}

	if err := n.record(ctx, &model.Notification{
		RecipientID: employer.ID,
		Title:       "New application received",
		Message:     fmt.Sprintf("%s applied for %s", ev.Applicant.FullName(), ev.Job.Title),
		Type:        model.NotifyJobApplication,
		ActionURL:   fmt.Sprintf("/employer/jobs/%s/applications", ev.Job.ID),
	}); err != nil {
		return err
	}
	if err := n.record(ctx, &model.Notification{
		RecipientID: ev.Applicant.ID,
		Title:       "Application submitted",
		Message:     fmt.Sprintf("Your application for %s was submitted", ev.Job.Title),
		Type:        model.NotifySuccess,
		ActionURL:   "/applications",
	}); err != nil {
		return err
	}

	msg, err := mail.ApplicationReceived(n.siteURL, employer, ev.Applicant, ev.Job)
	if err != nil {
		return err
	}
	n.send(ctx, msg)
	return nil
}

// ApplicationStatusChanged notifies the applicant of the employer's decision.
func (n *Notifier) ApplicationStatusChanged(ctx context.Context, ev events.ApplicationStatusChanged) error {
	applicant, err := n.store.GetUser(ctx, ev.Application.SeekerID)
	if err != nil {
		return fmt.Errorf("loading applicant %s: %w", ev.Application.SeekerID, err)
	}

	if err := n.record(ctx, &model.Notification{
		RecipientID: applicant.ID,
		Title:       "Application status updated",
		Message:     fmt.Sprintf("Your application for %s is now %s", ev.Job.Title, ev.Status),
		Type:        model.NotifyApplicationStatus,
		ActionURL:   "/applications",
	}); err != nil {
		return err
	}

	msg, err := mail.ApplicationStatus(n.siteURL, applicant, ev.Job, ev.Status)
	if err != nil {
		return err
	}
	n.send(ctx, msg)
	return nil
}

// JobApproved notifies the employer that their listing went live.
func (n *Notifier) JobApproved(ctx context.Context, ev events.JobApproved) error {
	employer, err := n.store.GetUser(ctx, ev.Job.EmployerID)
	if err != nil {
		return fmt.Errorf("loading employer %s: %w", ev.Job.EmployerID, err)
	}

	if err := n.record(ctx, &model.Notification{
		RecipientID: employer.ID,
		Title:       "Listing approved",
		Message:     fmt.Sprintf("%s is now visible to job seekers", ev.Job.Title),
		Type:        model.NotifyJobApproved,
		ActionURL:   fmt.Sprintf("/jobs/%s", ev.Job.ID),
	}); err != nil {
		return err
	}

	msg, err := mail.JobApproved(n.siteURL, employer, ev.Job)
	if err != nil {
		return err
	}
	n.send(ctx, msg)
	return nil
}

// JobRejected notifies the employer, passing along moderator feedback.
func (n *Notifier) JobRejected(ctx context.Context, ev events.JobRejected) error {
	employer, err := n.store.GetUser(ctx, ev.Job.EmployerID)
	if err != nil {
		return fmt.Errorf("loading employer %s: %w", ev.Job.EmployerID, err)
	}

	message := fmt.Sprintf("%s was not approved", ev.Job.Title)
	if ev.Feedback != "" {
		message += ": " + ev.Feedback
	}
	if err := n.record(ctx, &model.Notification{
		RecipientID: employer.ID,
		Title:       "Listing rejected",
		Message:     message,
		Type:        model.NotifyJobRejected,
		ActionURL:   "/employer/jobs",
	}); err != nil {
		return err
	}

	msg, err := mail.JobRejected(n.siteURL, employer, ev.Job, ev.Feedback)
	if err != nil {
		return err
	}
	n.send(ctx, msg)
	return nil
}

func (n *Notifier) record(ctx context.Context, notif *model.Notification) error {
	id, err := idgen.Generate()
	if err != nil {
		return fmt.Errorf("creating notification for %s: %w", notif.RecipientID, err)
	}
	notif.ID = id
	notif.CreatedAt = time.Now().UTC()
	if err := n.store.CreateNotification(ctx, notif); err != nil {
		return fmt.Errorf("creating notification for %s: %w", notif.RecipientID, err)
	}
	if n.unread != nil {
		if err := n.unread.Invalidate(ctx, notif.RecipientID); err != nil {
			n.logger.Warn("invalidating unread count failed", "recipient", notif.RecipientID, "err", err)
		}
	}
	return nil
}

func (n *Notifier) send(ctx context.Context, msg mail.Message) {
	if err := n.mailer.Send(ctx, msg); err != nil {
		n.logger.Error("sending mail failed", "to", msg.To, "subject", msg.Subject, "err", err)
	}
}
