// Package httpapi exposes the REST and websocket surface of the service.
package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/samaira-ai/samaira/internal/config"
	"github.com/samaira-ai/samaira/internal/history"
	"github.com/samaira-ai/samaira/internal/identity"
	"github.com/samaira-ai/samaira/internal/observability"
	"github.com/samaira-ai/samaira/internal/session"
)

type Server struct {
	cfg      config.Config
	sessions *session.Store
	resolver *identity.Resolver
	records  history.Store
	metrics  *observability.Metrics
	logger   *log.Logger
	upgrader websocket.Upgrader
}

func New(cfg config.Config, sessions *session.Store, resolver *identity.Resolver, records history.Store, metrics *observability.Metrics, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		cfg:      cfg,
		sessions: sessions,
		resolver: resolver,
		records:  records,
		metrics:  metrics,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				// Only same-origin browser connections unless explicitly
				// opened up; other websites must not drive a user's session.
				if cfg.AllowAnyOrigin {
					return true
				}
				origin := strings.TrimSpace(r.Header.Get("Origin"))
				if origin == "" {
					// Non-browser clients often omit Origin. Allow them.
					return true
				}
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				if u.Scheme != "http" && u.Scheme != "https" {
					return false
				}
				return strings.EqualFold(u.Host, r.Host)
			},
		},
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		observability.MetricsHandler().ServeHTTP(w, r)
	})

	r.Post("/api/auth/signup", s.handleSignup)
	r.Post("/api/auth/login", s.handleLogin)
	r.Get("/api/auth/me", s.handleMe)
	r.Post("/api/auth/refresh", s.handleRefresh)
	r.Post("/api/auth/logout", s.handleLogout)

	r.Post("/api/sessions", s.handleCreateSession)
	r.Get("/api/sessions", s.handleUserSessions)
	r.Get("/api/sessions/live", s.handleLiveSessions)
	r.Get("/api/sessions/{id}", s.handleGetSession)
	r.Get("/api/sessions/{id}/actions", s.handleSessionActions)
	r.Post("/api/sessions/{id}/end", s.handleEndSession)
	r.Put("/api/sessions/{id}/mode", s.handleSetMode)
	r.Post("/api/sessions/{id}/restore", s.handleRestoreSession)

	r.Post("/api/chat", s.handleChat)
	r.Get("/api/history/{id}", s.handleSessionHistory)

	r.Post("/api/voice/synthesize", s.handleSynthesize)
	r.Post("/api/voice/transcribe", s.handleTranscribe)

	r.Get("/ws/chat", s.handleChatWS)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":          "ready",
		"active_sessions": len(s.sessions.List()),
	})
}

// bearerToken pulls the token from the Authorization header, falling
// back to a token query parameter for websocket clients.
func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return strings.TrimSpace(header[len("bearer "):])
	}
	return strings.TrimSpace(r.URL.Query().Get("token"))
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

var errEmptyBody = errors.New("empty body")

func decodeJSON(r *http.Request, out any) error {
	if r.Body == nil {
		return errEmptyBody
	}
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(out); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "eof") {
			return errEmptyBody
		}
		return err
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: message, Code: code})
}
