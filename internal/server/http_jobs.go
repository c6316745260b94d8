package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jobgrid/jobgrid/internal/events"
	"github.com/jobgrid/jobgrid/internal/idgen"
	"github.com/jobgrid/jobgrid/internal/model"
	"github.com/jobgrid/jobgrid/internal/store"
)

// handleListJobs handles GET /v1/jobs. The public listing shows only visible
// jobs; employers can pass mine=true to see all of their own.
func (s *PortalServer) handleListJobs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.JobFilter{
		Search:      q.Get("search"),
		Location:    q.Get("location"),
		Sort:        q.Get("sort"),
		VisibleOnly: true,
	}

	if v := q.Get("type"); v != "" {
		for _, t := range strings.Split(v, ",") {
			filter.Type = append(filter.Type, model.JobType(t))
		}
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}
	if v := q.Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Offset = n
		}
	}

	// mine=true switches to the caller's own listings, visible or not.
	// The route is public, so the token is checked here when present.
	if q.Get("mine") == "true" {
		claims := s.optionalClaims(r)
		if claims == nil {
			writeError(w, http.StatusUnauthorized, "authentication required for mine=true")
			return
		}
		filter.EmployerID = claims.Subject
		filter.VisibleOnly = false
	}

	jobs, total, err := s.store.ListJobs(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list jobs")
		return
	}
	if jobs == nil {
		jobs = []*model.Job{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"jobs":  jobs,
		"total": total,
	})
}

// handleGetJob handles GET /v1/jobs/{id}. Hidden listings are visible only to
// their employer and admins.
func (s *PortalServer) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	job, err := s.store.GetJob(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "job not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get job")
		return
	}

	if !job.Visible() {
		claims := s.optionalClaims(r)
		if claims == nil || (claims.Role != model.RoleAdmin && claims.Subject != job.EmployerID) {
			writeError(w, http.StatusNotFound, "job not found")
			return
		}
	}

	writeJSON(w, http.StatusOK, job)
}

// handleListPendingJobs handles GET /v1/jobs/pending (admin approval queue).
func (s *PortalServer) handleListPendingJobs(w http.ResponseWriter, r *http.Request) {
	jobs, total, err := s.store.ListJobs(r.Context(), model.JobFilter{
		PendingOnly: true,
		Sort:        "created_at",
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list jobs")
		return
	}
	if jobs == nil {
		jobs = []*model.Job{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"jobs":  jobs,
		"total": total,
	})
}

type jobInput struct {
	Title        string `json:"title"`
	Company      string `json:"company"`
	Description  string `json:"description"`
	Requirements string `json:"requirements"`
	Location     string `json:"location"`
	Type         string `json:"job_type"`
	Salary       string `json:"salary"`
	Active       *bool  `json:"is_active"`
}

// handleCreateJob handles POST /v1/jobs. New listings await admin approval.
func (s *PortalServer) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())

	var in jobInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	id, err := idgen.Generate()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create job")
		return
	}

	now := time.Now().UTC()
	job := &model.Job{
		ID:           id,
		EmployerID:   claims.Subject,
		Title:        in.Title,
		Company:      in.Company,
		Description:  in.Description,
		Requirements: in.Requirements,
		Location:     in.Location,
		Type:         model.JobType(in.Type),
		Salary:       model.SalaryBand(in.Salary),
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if in.Salary == "" {
		job.Salary = model.SalaryNegotiable
	}
	if err := model.ValidateJob(job); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.CreateJob(r.Context(), job); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create job")
		return
	}

	s.publish(r.Context(), events.TopicJobCreated, events.JobCreated{Job: job})
	s.recordActivity(r, claims.Subject, model.ActionCreate, "job "+job.ID)

	writeJSON(w, http.StatusCreated, job)
}

// handleUpdateJob handles PATCH /v1/jobs/{id}. Employers may edit their own
// listings; edits reset approval so the listing goes back to the queue.
func (s *PortalServer) handleUpdateJob(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	id := r.PathValue("id")

	job, err := s.store.GetJob(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "job not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get job")
		return
	}
	if claims.Role != model.RoleAdmin && job.EmployerID != claims.Subject {
		writeError(w, http.StatusForbidden, "not your listing")
		return
	}

	var in jobInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	changes := map[string]any{}
	if in.Title != "" && in.Title != job.Title {
		job.Title = in.Title
		changes["title"] = in.Title
	}
	if in.Company != "" && in.Company != job.Company {
		job.Company = in.Company
		changes["company"] = in.Company
	}
	if in.Description != "" && in.Description != job.Description {
		job.Description = in.Description
		changes["description"] = in.Description
	}
	if in.Requirements != "" && in.Requirements != job.Requirements {
		job.Requirements = in.Requirements
		changes["requirements"] = in.Requirements
	}
	if in.Location != "" && in.Location != job.Location {
		job.Location = in.Location
		changes["location"] = in.Location
	}
	if in.Type != "" && model.JobType(in.Type) != job.Type {
		job.Type = model.JobType(in.Type)
		changes["job_type"] = in.Type
	}
	if in.Salary != "" && model.SalaryBand(in.Salary) != job.Salary {
		job.Salary = model.SalaryBand(in.Salary)
		changes["salary"] = in.Salary
	}
	if in.Active != nil && *in.Active != job.Active {
		job.Active = *in.Active
		changes["is_active"] = *in.Active
	}
	if len(changes) == 0 {
		writeJSON(w, http.StatusOK, job)
		return
	}

	// Content edits by the employer put the listing back in the approval
	// queue. Toggling is_active alone does not.
	_, activeOnly := changes["is_active"]
	if claims.Role != model.RoleAdmin && !(activeOnly && len(changes) == 1) {
		job.Approved = false
		changes["is_approved"] = false
	}

	if err := model.ValidateJob(job); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.store.UpdateJob(r.Context(), job); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update job")
		return
	}

	s.syncIndex(r, job)
	s.publish(r.Context(), events.TopicJobUpdated, events.JobUpdated{Job: job, Changes: changes})
	s.recordActivity(r, claims.Subject, model.ActionUpdate, "job "+job.ID)

	writeJSON(w, http.StatusOK, job)
}

// handleDeleteJob handles DELETE /v1/jobs/{id}.
func (s *PortalServer) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	id := r.PathValue("id")

	job, err := s.store.GetJob(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "job not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get job")
		return
	}
	if claims.Role != model.RoleAdmin && job.EmployerID != claims.Subject {
		writeError(w, http.StatusForbidden, "not your listing")
		return
	}

	if err := s.store.DeleteJob(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete job")
		return
	}

	if err := s.indexer.DeleteJob(r.Context(), id); err != nil {
		slog.Warn("failed to remove job from index", "job", id, "error", err)
	}
	s.publish(r.Context(), events.TopicJobDeleted, events.JobDeleted{JobID: id})
	s.recordActivity(r, claims.Subject, model.ActionDelete, "job "+id)

	w.WriteHeader(http.StatusNoContent)
}

// handleApproveJob handles POST /v1/jobs/{id}/approve.
func (s *PortalServer) handleApproveJob(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	id := r.PathValue("id")

	job, err := s.store.GetJob(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "job not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get job")
		return
	}

	if !job.Approved {
		job.Approved = true
		if err := s.store.UpdateJob(r.Context(), job); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to approve job")
			return
		}
		s.syncIndex(r, job)
		s.publish(r.Context(), events.TopicJobApproved, events.JobApproved{Job: job})
		s.recordActivity(r, claims.Subject, model.ActionUpdate, "approved job "+job.ID)
	}

	writeJSON(w, http.StatusOK, job)
}

type rejectInput struct {
	Feedback string `json:"feedback"`
}

// handleRejectJob handles POST /v1/jobs/{id}/reject. The listing is
// deactivated and the employer notified with any feedback.
func (s *PortalServer) handleRejectJob(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	id := r.PathValue("id")

	var in rejectInput
	_ = json.NewDecoder(r.Body).Decode(&in)

	job, err := s.store.GetJob(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "job not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get job")
		return
	}

	job.Approved = false
	job.Active = false
	if err := s.store.UpdateJob(r.Context(), job); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to reject job")
		return
	}

	s.syncIndex(r, job)
	s.publish(r.Context(), events.TopicJobRejected, events.JobRejected{Job: job, Feedback: in.Feedback})
	s.recordActivity(r, claims.Subject, model.ActionUpdate, "rejected job "+job.ID)

	writeJSON(w, http.StatusOK, job)
}

// syncIndex mirrors the job's visibility into the search index. Best-effort.
func (s *PortalServer) syncIndex(r *http.Request, job *model.Job) {
	var err error
	if job.Visible() {
		err = s.indexer.IndexJob(r.Context(), job)
	} else {
		err = s.indexer.DeleteJob(r.Context(), job.ID)
	}
	if err != nil {
		slog.Warn("failed to sync search index", "job", job.ID, "error", err)
	}
}
