// Package server exposes the portal's REST API.
package server

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/jobgrid/jobgrid/internal/auth"
	"github.com/jobgrid/jobgrid/internal/events"
	"github.com/jobgrid/jobgrid/internal/idgen"
	"github.com/jobgrid/jobgrid/internal/model"
	"github.com/jobgrid/jobgrid/internal/resume"
	"github.com/jobgrid/jobgrid/internal/search"
	"github.com/jobgrid/jobgrid/internal/store"
)

// UnreadCache serves and invalidates cached unread-notification counts.
type UnreadCache interface {
	Get(ctx context.Context, userID string) (int, error)
	Invalidate(ctx context.Context, userID string) error
}

// PortalServer holds the dependencies shared by all HTTP handlers.
type PortalServer struct {
	store     store.Store
	publisher events.Publisher
	indexer   search.Indexer
	tokens    *auth.Tokens
	resumes   resume.Storage
	unread    UnreadCache // nil = count directly from the store
}

// NewPortalServer returns a server backed by the given store and services.
func NewPortalServer(s store.Store, p events.Publisher, idx search.Indexer, tokens *auth.Tokens, resumes resume.Storage, unread UnreadCache) *PortalServer {
	return &PortalServer{
		store:     s,
		publisher: p,
		indexer:   idx,
		tokens:    tokens,
		resumes:   resumes,
		unread:    unread,
	}
}

// publish sends an event to the bus. Best-effort; failures are logged but do
// not block the caller.
func (s *PortalServer) publish(ctx context.Context, topic string, event any) {
	if err := s.publisher.Publish(ctx, topic, event); err != nil {
		slog.Warn("failed to publish event", "topic", topic, "error", err)
	}
}

// recordActivity appends to the audit trail. Best-effort.
func (s *PortalServer) recordActivity(r *http.Request, userID string, action model.ActivityAction, details string) {
	id, err := idgen.Generate()
	if err != nil {
		slog.Warn("failed to record activity", "user", userID, "action", action, "error", err)
		return
	}
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}
	if err := s.store.RecordActivity(r.Context(), &model.Activity{
		ID:        id,
		UserID:    userID,
		Action:    action,
		Details:   details,
		IPAddress: ip,
		UserAgent: r.UserAgent(),
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		slog.Warn("failed to record activity", "user", userID, "action", action, "error", err)
	}
}

// unreadCount returns the user's unread-notification count, via the cache
// when one is configured.
func (s *PortalServer) unreadCount(ctx context.Context, userID string) (int, error) {
	if s.unread != nil {
		return s.unread.Get(ctx, userID)
	}
	return s.store.CountUnreadNotifications(ctx, userID)
}

// invalidateUnread drops the user's cached count after notifications change.
func (s *PortalServer) invalidateUnread(ctx context.Context, userID string) {
	if s.unread == nil {
		return
	}
	if err := s.unread.Invalidate(ctx, userID); err != nil {
		slog.Warn("failed to invalidate unread count", "user", userID, "error", err)
	}
}
