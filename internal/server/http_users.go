package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/jobgrid/jobgrid/internal/model"
	"github.com/jobgrid/jobgrid/internal/store"
)

// handleGetMe handles GET /v1/me.
func (s *PortalServer) handleGetMe(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())

	user, err := s.store.GetUser(r.Context(), claims.Subject)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get user")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

type updateMeInput struct {
	FirstName      *string `json:"first_name"`
	LastName       *string `json:"last_name"`
	Phone          *string `json:"phone"`
	Skills         *string `json:"skills"`
	Experience     *string `json:"experience"`
	CompanyName    *string `json:"company_name"`
	CompanyWebsite *string `json:"company_website"`
}

// handleUpdateMe handles PATCH /v1/me. Only profile fields can change; email,
// role, and verification state are managed elsewhere.
func (s *PortalServer) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())

	var in updateMeInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	user, err := s.store.GetUser(r.Context(), claims.Subject)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get user")
		return
	}

	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}
	if in.Phone != nil {
		user.Phone = *in.Phone
	}
	if in.Skills != nil {
		user.Skills = *in.Skills
	}
	if in.Experience != nil {
		user.Experience = *in.Experience
	}
	if in.CompanyName != nil {
		user.CompanyName = *in.CompanyName
	}
	if in.CompanyWebsite != nil {
		user.CompanyWebsite = *in.CompanyWebsite
	}

	if err := model.ValidateUser(user); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.store.UpdateUser(r.Context(), user); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update user")
		return
	}

	s.recordActivity(r, user.ID, model.ActionUpdate, "profile")

	writeJSON(w, http.StatusOK, user)
}

// handleListActivities handles GET /v1/me/activities.
func (s *PortalServer) handleListActivities(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	activities, err := s.store.ListActivities(r.Context(), claims.Subject, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list activities")
		return
	}
	if activities == nil {
		activities = []*model.Activity{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"activities": activities})
}
