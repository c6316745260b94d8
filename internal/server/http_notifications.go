package server

import (
	"errors"
	"net/http"

	"github.com/jobgrid/jobgrid/internal/model"
	"github.com/jobgrid/jobgrid/internal/store"
)

// handleListNotifications handles GET /v1/notifications. Pass unread=true to
// filter to unread only.
func (s *PortalServer) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	unreadOnly := r.URL.Query().Get("unread") == "true"

	notifications, err := s.store.ListNotifications(r.Context(), claims.Subject, unreadOnly)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list notifications")
		return
	}
	if notifications == nil {
		notifications = []*model.Notification{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"notifications": notifications})
}

// handleUnreadCount handles GET /v1/notifications/unread.
func (s *PortalServer) handleUnreadCount(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())

	n, err := s.unreadCount(r.Context(), claims.Subject)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to count notifications")
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"unread": n})
}

// handleMarkRead handles POST /v1/notifications/{id}/read. Marking another
// user's notification is a 404, not a 403, to avoid leaking IDs.
func (s *PortalServer) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	id := r.PathValue("id")

	err := s.store.MarkNotificationRead(r.Context(), id, claims.Subject)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "notification not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to mark notification read")
		return
	}

	s.invalidateUnread(r.Context(), claims.Subject)
	w.WriteHeader(http.StatusNoContent)
}

// handleMarkAllRead handles POST /v1/notifications/read-all.
func (s *PortalServer) handleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())

	if err := s.store.MarkAllNotificationsRead(r.Context(), claims.Subject); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to mark notifications read")
		return
	}

	s.invalidateUnread(r.Context(), claims.Subject)
	w.WriteHeader(http.StatusNoContent)
}
