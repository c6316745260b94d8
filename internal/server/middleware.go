package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/jobgrid/jobgrid/internal/auth"
	"github.com/jobgrid/jobgrid/internal/model"
)

type contextKey string

const claimsKey contextKey = "claims"

// claimsFrom returns the authenticated user's claims, or nil on
// unauthenticated requests.
func claimsFrom(ctx context.Context) *auth.Claims {
	c, _ := ctx.Value(claimsKey).(*auth.Claims)
	return c
}

// requireAuth verifies the Bearer token and stores its claims on the request
// context.
func (s *PortalServer) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			writeError(w, http.StatusUnauthorized, "missing authorization header")
			return
		}
		if !strings.HasPrefix(header, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "invalid authorization scheme")
			return
		}

		claims, err := s.tokens.Parse(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
	}
}

// optionalClaims parses the Bearer token if one is present, for routes that
// serve both anonymous and authenticated callers.
func (s *PortalServer) optionalClaims(r *http.Request) *auth.Claims {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return nil
	}
	claims, err := s.tokens.Parse(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		return nil
	}
	return claims
}

// requireRole authenticates and then restricts the handler to the given roles.
func (s *PortalServer) requireRole(next http.HandlerFunc, roles ...model.Role) http.HandlerFunc {
	return s.requireAuth(func(w http.ResponseWriter, r *http.Request) {
		claims := claimsFrom(r.Context())
		for _, role := range roles {
			if claims.Role == role {
				next(w, r)
				return
			}
		}
		writeError(w, http.StatusForbidden, "insufficient role")
	})
}
