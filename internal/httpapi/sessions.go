package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/samaira-ai/samaira/internal/emotion"
	"github.com/samaira-ai/samaira/internal/identity"
	"github.com/samaira-ai/samaira/internal/policy"
	"github.com/samaira-ai/samaira/internal/session"
	"github.com/samaira-ai/samaira/internal/therapy"
)

type createSessionRequest struct {
	PersonaMode  string `json:"persona_mode"`
	VoiceEnabled *bool  `json:"voice_enabled"`
	Emotion      string `json:"emotion"`
	Name         string `json:"name"`
}

type sessionResponse struct {
	SessionID    string    `json:"session_id"`
	PersonaMode  string    `json:"persona_mode"`
	VoiceEnabled bool      `json:"voice_enabled"`
	TurnCount    int       `json:"turn_count"`
	Welcome      string    `json:"welcome,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if req.Emotion != "" && !emotion.Known(req.Emotion) {
		respondError(w, http.StatusBadRequest, "invalid_emotion", "unknown emotion tag")
		return
	}

	cfg := session.Config{
		PersonaMode:  therapy.ParseMode(req.PersonaMode),
		VoiceEnabled: req.VoiceEnabled == nil || *req.VoiceEnabled,
		VoiceEmotion: emotion.Tone(req.Emotion),
		DisplayName:  strings.TrimSpace(req.Name),
	}

	user := s.resolver.Resolve(r.Context(), bearerToken(r))
	sess, err := s.sessions.Create(cfg, user)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "session_create_failed", err.Error())
		return
	}
	if !user.Anonymous() {
		sess.Engine().LoadContext(r.Context())
	}

	s.metrics.ActiveSessions.Set(float64(len(s.sessions.List())))
	s.metrics.SessionEvents.WithLabelValues("created").Inc()

	respondJSON(w, http.StatusCreated, sessionResponse{
		SessionID:    sess.ID(),
		PersonaMode:  string(sess.Engine().Mode()),
		VoiceEnabled: cfg.VoiceEnabled,
		Welcome:      welcomeMessage(user, cfg.DisplayName),
		CreatedAt:    sess.CreatedAt(),
	})
}

func welcomeMessage(user *identity.Identity, displayName string) string {
	name := displayName
	if name == "" && !user.Anonymous() {
		name = user.Username
	}
	if name == "" {
		return "Hello, I'm Dr. Samaira. What's on your mind today?"
	}
	return fmt.Sprintf("Welcome back, %s. I'm glad you're here - what would you like to talk about today?", name)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusNotFound, "session_not_found", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, sessionResponse{
		SessionID:    sess.ID(),
		PersonaMode:  string(sess.Engine().Mode()),
		VoiceEnabled: sess.Config().VoiceEnabled,
		TurnCount:    sess.Engine().TurnCount(),
		CreatedAt:    sess.CreatedAt(),
	})
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.sessions.End(id); err != nil {
		respondError(w, http.StatusNotFound, "session_not_found", err.Error())
		return
	}
	s.metrics.ActiveSessions.Set(float64(len(s.sessions.List())))
	s.metrics.SessionEvents.WithLabelValues("ended").Inc()
	respondJSON(w, http.StatusOK, map[string]string{"session_id": id, "status": "ended"})
}

type setModeRequest struct {
	PersonaMode string `json:"persona_mode"`
}

func (s *Server) handleSetMode(w http.ResponseWriter, r *http.Request) {
	var req setModeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if strings.TrimSpace(req.PersonaMode) == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "persona_mode is required")
		return
	}

	id := chi.URLParam(r, "id")
	if err := s.sessions.SetPersonaMode(id, therapy.ParseMode(req.PersonaMode)); err != nil {
		respondError(w, http.StatusNotFound, "session_not_found", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"session_id":   id,
		"persona_mode": string(therapy.ParseMode(req.PersonaMode)),
	})
}

// handleSessionActions recommends between-session activities derived
// from the live transcript.
func (s *Server) handleSessionActions(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusNotFound, "session_not_found", err.Error())
		return
	}

	var conversation strings.Builder
	for _, turn := range sess.Engine().Transcript() {
		conversation.WriteString(turn.Content)
		conversation.WriteByte(' ')
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"session_id": sess.ID(),
		"actions":    policy.RecommendActions(conversation.String()),
	})
}

// handleLiveSessions lists in-process sessions, for debugging only.
func (s *Server) handleLiveSessions(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"sessions": s.sessions.List()})
}

// handleUserSessions lists the caller's stored session records.
func (s *Server) handleUserSessions(w http.ResponseWriter, r *http.Request) {
	user, err := s.resolver.Require(r.Context(), bearerToken(r))
	if err != nil {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "valid bearer token required")
		return
	}

	records, err := s.records.UserSessions(r.Context(), user.ID, 50)
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "store_unavailable", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"sessions": records})
}

// handleRestoreSession rehydrates a stored session into a live one,
// seeding the engine transcript from persisted turns.
func (s *Server) handleRestoreSession(w http.ResponseWriter, r *http.Request) {
	user, err := s.resolver.Require(r.Context(), bearerToken(r))
	if err != nil {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "valid bearer token required")
		return
	}

	id := chi.URLParam(r, "id")
	record, err := s.records.GetSession(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "store_unavailable", err.Error())
		return
	}
	if record == nil || record.UserID != user.ID {
		respondError(w, http.StatusNotFound, "session_not_found", "no stored session for this user")
		return
	}

	sess, err := s.sessions.GetOrCreate(id, user)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "session_create_failed", err.Error())
		return
	}
	sess.Engine().SetMode(therapy.ParseMode(record.PersonaMode))

	turns, err := s.records.SessionTurns(r.Context(), id, 0)
	if err == nil && len(turns) > 0 && sess.Engine().TurnCount() == 0 {
		sess.Engine().RestoreTranscript(turns)
	}
	sess.Engine().LoadContext(r.Context())

	s.metrics.SessionEvents.WithLabelValues("restored").Inc()
	respondJSON(w, http.StatusOK, sessionResponse{
		SessionID:    sess.ID(),
		PersonaMode:  string(sess.Engine().Mode()),
		VoiceEnabled: sess.Config().VoiceEnabled,
		TurnCount:    sess.Engine().TurnCount(),
		CreatedAt:    sess.CreatedAt(),
	})
}
