package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/jobgrid/jobgrid/internal/events"
	"github.com/jobgrid/jobgrid/internal/idgen"
	"github.com/jobgrid/jobgrid/internal/model"
	"github.com/jobgrid/jobgrid/internal/resume"
	"github.com/jobgrid/jobgrid/internal/store"
)

// handleApply handles POST /v1/jobs/{id}/applications. The body is multipart
// form data: a required "resume" file plus an optional "cover_letter" field.
func (s *PortalServer) handleApply(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	jobID := r.PathValue("id")

	job, err := s.store.GetJob(r.Context(), jobID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "job not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get job")
		return
	}
	if !job.Visible() {
		writeError(w, http.StatusNotFound, "job not found")
		return
	}

	if err := r.ParseMultipartForm(resume.MaxSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}
	file, header, err := r.FormFile("resume")
	if err != nil {
		writeError(w, http.StatusBadRequest, "resume file is required")
		return
	}
	defer file.Close()
	if header.Size > resume.MaxSize {
		writeError(w, http.StatusRequestEntityTooLarge, "resume exceeds the size limit")
		return
	}

	key, err := resume.Key(jobID, claims.Subject, header.Filename, time.Now().UTC())
	if errors.Is(err, resume.ErrBadExtension) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store resume")
		return
	}
	if err := s.resumes.Save(r.Context(), key, file); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store resume")
		return
	}

	appID, err := idgen.Generate()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create application")
		return
	}

	now := time.Now().UTC()
	app := &model.Application{
		ID:          appID,
		JobID:       jobID,
		SeekerID:    claims.Subject,
		ResumeKey:   key,
		CoverLetter: r.FormValue("cover_letter"),
		Status:      model.ApplicationPending,
		AppliedAt:   now,
		UpdatedAt:   now,
	}
	if err := model.ValidateApplication(app); err != nil {
		s.discardResume(r, key, jobID, claims.Subject)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.CreateApplication(r.Context(), app); err != nil {
		s.discardResume(r, key, jobID, claims.Subject)
		if errors.Is(err, store.ErrDuplicate) {
			writeError(w, http.StatusConflict, "you have already applied to this job")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create application")
		return
	}

	applicant, err := s.store.GetUser(r.Context(), claims.Subject)
	if err == nil {
		s.publish(r.Context(), events.TopicApplicationReceived, events.ApplicationReceived{
			Application: app,
			Job:         job,
			Applicant:   applicant,
		})
	}
	s.recordActivity(r, claims.Subject, model.ActionCreate, "application "+app.ID)

	writeJSON(w, http.StatusCreated, app)
}

// discardResume removes a stored resume that never got an application row.
// A same-second re-submit produces the same key as the seeker's existing
// application; that file belongs to the original and is kept.
func (s *PortalServer) discardResume(r *http.Request, key, jobID, seekerID string) {
	apps, err := s.store.ListApplicationsBySeeker(r.Context(), seekerID)
	if err == nil {
		for _, a := range apps {
			if a.JobID == jobID && a.ResumeKey == key {
				return
			}
		}
	}
	if err := s.resumes.Delete(r.Context(), key); err != nil {
		slog.Warn("failed to remove orphaned resume", "key", key, "error", err)
	}
}

// handleListJobApplications handles GET /v1/jobs/{id}/applications.
func (s *PortalServer) handleListJobApplications(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	jobID := r.PathValue("id")

	job, err := s.store.GetJob(r.Context(), jobID)
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

	apps, err := s.store.ListApplicationsByJob(r.Context(), jobID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list applications")
		return
	}
	if apps == nil {
		apps = []*model.Application{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"applications": apps})
}

// handleListMyApplications handles GET /v1/applications (seeker's own).
func (s *PortalServer) handleListMyApplications(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())

	apps, err := s.store.ListApplicationsBySeeker(r.Context(), claims.Subject)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list applications")
		return
	}
	if apps == nil {
		apps = []*model.Application{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"applications": apps})
}

type statusInput struct {
	Status string `json:"status"`
}

// handleUpdateApplicationStatus handles POST /v1/applications/{id}/status.
func (s *PortalServer) handleUpdateApplicationStatus(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	id := r.PathValue("id")

	var in statusInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	status := model.ApplicationStatus(in.Status)
	if !status.IsValid() {
		writeError(w, http.StatusBadRequest, "unknown application status")
		return
	}

	app, err := s.store.GetApplication(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "application not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get application")
		return
	}

	job, err := s.store.GetJob(r.Context(), app.JobID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get job")
		return
	}
	if claims.Role != model.RoleAdmin && job.EmployerID != claims.Subject {
		writeError(w, http.StatusForbidden, "not your listing")
		return
	}

	updated, err := s.store.UpdateApplicationStatus(r.Context(), id, status)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "application not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update application")
		return
	}

	s.publish(r.Context(), events.TopicApplicationStatusChanged, events.ApplicationStatusChanged{
		Application: updated,
		Job:         job,
		Status:      status,
	})
	s.recordActivity(r, claims.Subject, model.ActionUpdate, "application "+id+" -> "+in.Status)

	writeJSON(w, http.StatusOK, updated)
}

// handleDownloadResume handles GET /v1/applications/{id}/resume. Only the
// applicant, the listing's employer, and admins may download.
func (s *PortalServer) handleDownloadResume(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	id := r.PathValue("id")

	app, err := s.store.GetApplication(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "application not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get application")
		return
	}

	allowed := claims.Role == model.RoleAdmin || claims.Subject == app.SeekerID
	if !allowed {
		job, err := s.store.GetJob(r.Context(), app.JobID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to get job")
			return
		}
		allowed = job.EmployerID == claims.Subject
	}
	if !allowed {
		writeError(w, http.StatusForbidden, "not your application")
		return
	}

	rc, err := s.resumes.Open(r.Context(), app.ResumeKey)
	if errors.Is(err, resume.ErrNotFound) {
		writeError(w, http.StatusNotFound, "resume not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to open resume")
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", resume.ContentType(app.ResumeKey))
	_, _ = io.Copy(w, rc)
}
