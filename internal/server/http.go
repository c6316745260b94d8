package server

import (
	"encoding/json"
	"net/http"

	"github.com/jobgrid/jobgrid/internal/model"
)

// NewHTTPHandler returns an http.Handler with all routes registered.
// Routes under /v1 require a valid Bearer token except registration, login,
// email verification, the public job listing/detail, and the health check.
func (s *PortalServer) NewHTTPHandler() http.Handler {
	mux := http.NewServeMux()

	// Public pages
	mux.HandleFunc("GET /{$}", s.handleJobListPage)
	mux.HandleFunc("GET /jobs/{id}", s.handleJobDetailPage)

	// Public API
	mux.HandleFunc("POST /v1/auth/register", s.handleRegister)
	mux.HandleFunc("POST /v1/auth/token", s.handleToken)
	mux.HandleFunc("POST /v1/auth/verify", s.handleVerify)
	mux.HandleFunc("GET /v1/jobs", s.handleListJobs)
	mux.HandleFunc("GET /v1/jobs/{id}", s.handleGetJob)
	mux.HandleFunc("GET /v1/health", s.handleHealth)

	// Authenticated
	mux.HandleFunc("GET /v1/me", s.requireAuth(s.handleGetMe))
	mux.HandleFunc("PATCH /v1/me", s.requireAuth(s.handleUpdateMe))
	mux.HandleFunc("GET /v1/me/activities", s.requireAuth(s.handleListActivities))

	mux.HandleFunc("POST /v1/jobs", s.requireRole(s.handleCreateJob, model.RoleEmployer))
	mux.HandleFunc("PATCH /v1/jobs/{id}", s.requireRole(s.handleUpdateJob, model.RoleEmployer, model.RoleAdmin))
	mux.HandleFunc("DELETE /v1/jobs/{id}", s.requireRole(s.handleDeleteJob, model.RoleEmployer, model.RoleAdmin))
	mux.HandleFunc("GET /v1/jobs/pending", s.requireRole(s.handleListPendingJobs, model.RoleAdmin))
	mux.HandleFunc("POST /v1/jobs/{id}/approve", s.requireRole(s.handleApproveJob, model.RoleAdmin))
	mux.HandleFunc("POST /v1/jobs/{id}/reject", s.requireRole(s.handleRejectJob, model.RoleAdmin))

	mux.HandleFunc("POST /v1/jobs/{id}/applications", s.requireRole(s.handleApply, model.RoleSeeker))
	mux.HandleFunc("GET /v1/jobs/{id}/applications", s.requireRole(s.handleListJobApplications, model.RoleEmployer, model.RoleAdmin))
	mux.HandleFunc("GET /v1/applications", s.requireRole(s.handleListMyApplications, model.RoleSeeker))
	mux.HandleFunc("POST /v1/applications/{id}/status", s.requireRole(s.handleUpdateApplicationStatus, model.RoleEmployer, model.RoleAdmin))
	mux.HandleFunc("GET /v1/applications/{id}/resume", s.requireAuth(s.handleDownloadResume))

	mux.HandleFunc("GET /v1/notifications", s.requireAuth(s.handleListNotifications))
	mux.HandleFunc("GET /v1/notifications/unread", s.requireAuth(s.handleUnreadCount))
	mux.HandleFunc("POST /v1/notifications/{id}/read", s.requireAuth(s.handleMarkRead))
	mux.HandleFunc("POST /v1/notifications/read-all", s.requireAuth(s.handleMarkAllRead))

	return mux
}

// handleHealth handles GET /v1/health.
func (s *PortalServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
