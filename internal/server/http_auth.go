package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/jobgrid/jobgrid/internal/auth"
	"github.com/jobgrid/jobgrid/internal/events"
	"github.com/jobgrid/jobgrid/internal/idgen"
	"github.com/jobgrid/jobgrid/internal/model"
	"github.com/jobgrid/jobgrid/internal/store"
)

type registerInput struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Role           string `json:"role"`
	CompanyName    string `json:"company_name"`
	CompanyWebsite string `json:"company_website"`
	Phone          string `json:"phone"`
}

// handleRegister handles POST /v1/auth/register.
func (s *PortalServer) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in registerInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(in.Password) < 8 {
		writeError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}
	role := model.Role(in.Role)
	if role == model.RoleAdmin {
		// Admin accounts are created from the CLI, never via the API.
		writeError(w, http.StatusBadRequest, "role must be seeker or employer")
		return
	}

	id, err := idgen.Generate()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create account")
		return
	}
	verifyToken, err := idgen.Token()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create account")
		return
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:                id,
		Email:             in.Email,
		FirstName:         in.FirstName,
		LastName:          in.LastName,
		Role:              role,
		VerificationToken: verifyToken,
		CompanyName:       in.CompanyName,
		CompanyWebsite:    in.CompanyWebsite,
		Phone:             in.Phone,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := model.ValidateUser(user); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create account")
		return
	}
	user.PasswordHash = hash

	if err := s.store.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			writeError(w, http.StatusConflict, "email already registered")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create account")
		return
	}

	s.publish(r.Context(), events.TopicUserRegistered, events.UserRegistered{User: user})
	s.recordActivity(r, user.ID, model.ActionCreate, "registered")

	writeJSON(w, http.StatusCreated, user)
}

type tokenInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleToken handles POST /v1/auth/token. It exchanges credentials for a
// bearer token.
func (s *PortalServer) handleToken(w http.ResponseWriter, r *http.Request) {
	var in tokenInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	user, err := s.store.GetUserByEmail(r.Context(), in.Email)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to authenticate")
		return
	}
	if err := auth.VerifyPassword(user.PasswordHash, in.Password); err != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if !user.EmailVerified {
		writeError(w, http.StatusForbidden, "email not verified")
		return
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	s.recordActivity(r, user.ID, model.ActionLogin, "")

	writeJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  user,
	})
}

type verifyInput struct {
	Token string `json:"token"`
}

// handleVerify handles POST /v1/auth/verify. It marks the account's email as
// verified and consumes the token.
func (s *PortalServer) handleVerify(w http.ResponseWriter, r *http.Request) {
	var in verifyInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if in.Token == "" {
		writeError(w, http.StatusBadRequest, "token is required")
		return
	}

	user, err := s.store.GetUserByVerificationToken(r.Context(), in.Token)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "unknown verification token")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to verify email")
		return
	}

	user.EmailVerified = true
	user.VerificationToken = ""
	if err := s.store.UpdateUser(r.Context(), user); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to verify email")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "verified"})
}
