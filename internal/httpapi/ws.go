package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/samaira-ai/samaira/internal/emotion"
	"github.com/samaira-ai/samaira/internal/therapy"
)

type wsClientMessage struct {
	Type        string `json:"type"`
	Message     string `json:"message,omitempty"`
	Token       string `json:"token,omitempty"`
	PersonaMode string `json:"persona_mode,omitempty"`
}

type wsServerMessage struct {
	Type        string `json:"type"`
	SessionID   string `json:"session_id,omitempty"`
	Message     string `json:"message,omitempty"`
	Emotion     string `json:"emotion,omitempty"`
	PersonaMode string `json:"persona_mode,omitempty"`
	Username    string `json:"username,omitempty"`
	TurnCount   int    `json:"turn_count,omitempty"`
	Code        string `json:"code,omitempty"`
	Detail      string `json:"detail,omitempty"`
}

// handleChatWS runs a realtime chat connection. Messages are processed
// serially per connection, which also keeps websocket writes
// single-threaded. An auth message mid-connection upgrades the session
// from anonymous to identified.
func (s *Server) handleChatWS(w http.ResponseWriter, r *http.Request) {
	sessionID := strings.TrimSpace(r.URL.Query().Get("session_id"))
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session_id", "query parameter session_id is required")
		return
	}

	user := s.resolver.Resolve(r.Context(), bearerToken(r))
	sess, err := s.sessions.GetOrCreate(sessionID, user)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "session_create_failed", err.Error())
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	s.metrics.SessionEvents.WithLabelValues("ws_connected").Inc()
	defer s.metrics.SessionEvents.WithLabelValues("ws_disconnected").Inc()

	conn.SetReadLimit(1 << 20)
	_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))
		return nil
	})

	send := func(msg wsServerMessage) bool {
		_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := conn.WriteJSON(msg); err != nil {
			return false
		}
		s.metrics.WSMessages.WithLabelValues("outbound", msg.Type).Inc()
		return true
	}

	send(wsServerMessage{
		Type:      "welcome",
		SessionID: sessionID,
		Message:   welcomeMessage(sess.Engine().User(), sess.Config().DisplayName),
	})

	for {
		var msg wsClientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))
		s.metrics.WSMessages.WithLabelValues("inbound", msg.Type).Inc()

		switch msg.Type {
		case "chat":
			if strings.TrimSpace(msg.Message) == "" {
				if !send(wsServerMessage{Type: "error", SessionID: sessionID, Code: "invalid_message", Detail: "message is required"}) {
					return
				}
				continue
			}
			reply := sess.Engine().Respond(r.Context(), msg.Message)
			s.metrics.ChatTurns.WithLabelValues(string(sess.Engine().Mode())).Inc()
			if !send(wsServerMessage{
				Type:      "response",
				SessionID: sessionID,
				Message:   reply,
				Emotion:   string(emotion.Detect(reply)),
				TurnCount: sess.Engine().TurnCount(),
			}) {
				return
			}

		case "auth":
			authed, err := s.resolver.Require(r.Context(), msg.Token)
			if err != nil {
				if !send(wsServerMessage{Type: "error", SessionID: sessionID, Code: "unauthenticated", Detail: "token could not be resolved"}) {
					return
				}
				continue
			}
			if err := s.sessions.AttachIdentity(sessionID, authed); err != nil {
				if !send(wsServerMessage{Type: "error", SessionID: sessionID, Code: "session_not_found", Detail: err.Error()}) {
					return
				}
				continue
			}
			sess.Engine().LoadContext(r.Context())
			if !send(wsServerMessage{Type: "auth_ok", SessionID: sessionID, Username: authed.Username}) {
				return
			}

		case "mode":
			mode := therapy.ParseMode(msg.PersonaMode)
			if err := s.sessions.SetPersonaMode(sessionID, mode); err != nil {
				if !send(wsServerMessage{Type: "error", SessionID: sessionID, Code: "session_not_found", Detail: err.Error()}) {
					return
				}
				continue
			}
			if !send(wsServerMessage{Type: "mode_set", SessionID: sessionID, PersonaMode: string(mode)}) {
				return
			}

		case "ping":
			if !send(wsServerMessage{Type: "pong", SessionID: sessionID}) {
				return
			}

		default:
			if !send(wsServerMessage{Type: "error", SessionID: sessionID, Code: "invalid_message", Detail: "unknown message type"}) {
				return
			}
		}
	}
}
