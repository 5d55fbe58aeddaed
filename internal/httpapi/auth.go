package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/samaira-ai/samaira/internal/history"
	"github.com/samaira-ai/samaira/internal/identity"
)

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	req.Username = strings.TrimSpace(req.Username)

	if err := identity.ValidateSignup(req.Username, req.Email, req.Password); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_signup", err.Error())
		return
	}

	existing, err := s.records.ProfileByUsername(r.Context(), req.Username)
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "store_unavailable", err.Error())
		return
	}
	if existing != nil {
		respondError(w, http.StatusConflict, "username_taken", "username already registered")
		return
	}

	hash, salt, err := identity.HashPassword(req.Password)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}

	record := history.ProfileRecord{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Salt:         salt,
	}
	if err := s.records.SaveProfile(r.Context(), record); err != nil {
		respondError(w, http.StatusServiceUnavailable, "store_unavailable", err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, authResponse{
		Token:    demoToken(req.Username),
		Username: req.Username,
		Email:    req.Email,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	profile, err := s.records.ProfileByUsername(r.Context(), strings.TrimSpace(req.Username))
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "store_unavailable", err.Error())
		return
	}
	if profile == nil || !identity.VerifyPassword(req.Password, profile.Salt, profile.PasswordHash) {
		respondError(w, http.StatusUnauthorized, "invalid_credentials", "unknown username or wrong password")
		return
	}

	respondJSON(w, http.StatusOK, authResponse{
		Token:    demoToken(profile.Username),
		Username: profile.Username,
		Email:    profile.Email,
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.resolver.Require(r.Context(), bearerToken(r))
	if err != nil {
		if errors.Is(err, identity.ErrUnauthenticated) {
			respondError(w, http.StatusUnauthorized, "unauthenticated", "valid bearer token required")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
	})
}

// handleRefresh reissues a token for an already-authenticated caller.
// The new token carries a fresh timestamp; identity is unchanged.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	user, err := s.resolver.Require(r.Context(), bearerToken(r))
	if err != nil {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "valid bearer token required")
		return
	}
	respondJSON(w, http.StatusOK, authResponse{
		Token:    demoToken(user.Username),
		Username: user.Username,
		Email:    user.Email,
	})
}

// handleLogout exists for client symmetry. Tokens are not stored
// server-side, so there is nothing to invalidate.
func (s *Server) handleLogout(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// demoToken issues the ephemeral token shape: identity is encoded in
// the token's literal structure and only meaningful to this process.
// A placeholder for provider-issued tokens, not a security mechanism.
func demoToken(username string) string {
	return fmt.Sprintf("demo_token_%s_%d", username, time.Now().Unix())
}
