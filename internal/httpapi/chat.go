package httpapi

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/samaira-ai/samaira/internal/emotion"
)

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type chatResponse struct {
	SessionID string `json:"session_id"`
	Response  string `json:"response"`
	Emotion   string `json:"emotion"`
	TurnCount int    `json:"turn_count"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "message is required")
		return
	}
	if strings.TrimSpace(req.SessionID) == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "session_id is required")
		return
	}

	user := s.resolver.Resolve(r.Context(), bearerToken(r))
	sess, err := s.sessions.GetOrCreate(req.SessionID, user)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "session_create_failed", err.Error())
		return
	}

	reply := sess.Engine().Respond(r.Context(), req.Message)
	s.metrics.ChatTurns.WithLabelValues(string(sess.Engine().Mode())).Inc()

	respondJSON(w, http.StatusOK, chatResponse{
		SessionID: sess.ID(),
		Response:  reply,
		Emotion:   string(emotion.Detect(reply)),
		TurnCount: sess.Engine().TurnCount(),
	})
}

// handleSessionHistory returns the caller's stored turns for a session.
func (s *Server) handleSessionHistory(w http.ResponseWriter, r *http.Request) {
	user, err := s.resolver.Require(r.Context(), bearerToken(r))
	if err != nil {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "valid bearer token required")
		return
	}

	id := chi.URLParam(r, "id")
	turns, err := s.records.SessionTurns(r.Context(), id, 0)
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "store_unavailable", err.Error())
		return
	}

	// Only the owning user's turns are served.
	for _, turn := range turns {
		if turn.UserID != user.ID {
			respondError(w, http.StatusNotFound, "session_not_found", "no stored session for this user")
			return
		}
	}
	respondJSON(w, http.StatusOK, map[string]any{"session_id": id, "turns": turns})
}
