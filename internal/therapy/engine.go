// Package therapy implements the conversational engine behind each session.
package therapy

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/samaira-ai/samaira/internal/emotion"
	"github.com/samaira-ai/samaira/internal/history"
	"github.com/samaira-ai/samaira/internal/identity"
	"github.com/samaira-ai/samaira/internal/policy"
)

// cannedApology is returned when the model call fails. A conversational
// endpoint always produces some reply; provider failure is recovered
// locally, never surfaced to the caller.
const cannedApology = "I'm sorry, I'm having trouble connecting right now. Could you try again?"

// Turn is one message in a conversation transcript.
type Turn struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// EngineConfig carries the collaborators and tuning for one engine.
type EngineConfig struct {
	SessionID    string
	Completer    Completer
	Store        history.Store
	Logger       *log.Logger
	Mode         Mode
	HistoryLimit int
}

// Engine wraps one LLM client configured with a persona prompt and holds
// the conversation transcript. Transcript appends are not locked: callers
// are expected to serialize chat calls per session, and interleaved
// appends from concurrent calls are tolerated.
type Engine struct {
	sessionID    string
	completer    Completer
	store        history.Store
	logger       *log.Logger
	mode         Mode
	historyLimit int

	transcript   []Turn
	contextBlock string
	user         *identity.Identity
}

func NewEngine(cfg EngineConfig) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	limit := cfg.HistoryLimit
	if limit <= 0 {
		limit = 20
	}
	return &Engine{
		sessionID:    cfg.SessionID,
		completer:    cfg.Completer,
		store:        cfg.Store,
		logger:       logger,
		mode:         ParseMode(string(cfg.Mode)),
		historyLimit: limit,
	}
}

// Respond appends the user turn, produces an assistant reply, appends it,
// and kicks off best-effort persistence. It always returns a reply.
func (e *Engine) Respond(ctx context.Context, userText string) string {
	userTurn := Turn{Role: "user", Content: userText, Timestamp: time.Now().UTC()}
	e.transcript = append(e.transcript, userTurn)

	assessment := policy.ScreenMessage(userText)

	reply, err := e.completer.Complete(ctx, e.buildMessages())
	if err != nil || strings.TrimSpace(reply) == "" {
		if err != nil {
			e.logger.Printf("therapy: completion failed for session %s: %v", e.sessionID, err)
		}
		reply = cannedApology
	}
	if assessment.CrisisDetected {
		reply = assessment.Resources + "\n\n" + reply
	}

	assistantTurn := Turn{Role: "assistant", Content: reply, Timestamp: time.Now().UTC()}
	e.transcript = append(e.transcript, assistantTurn)

	e.persistTurns(userTurn, assistantTurn)
	return reply
}

// buildMessages assembles the model request: persona instruction first,
// then the transcript tail capped at the context limit. The full
// transcript stays in memory for summaries; only the forwarded window
// is truncated.
func (e *Engine) buildMessages() []Message {
	tail := e.transcript
	if len(tail) > e.historyLimit {
		tail = tail[len(tail)-e.historyLimit:]
	}

	messages := make([]Message, 0, len(tail)+1)
	messages = append(messages, Message{Role: "system", Content: systemPrompt(e.mode, e.contextBlock)})
	for _, turn := range tail {
		messages = append(messages, Message{Role: turn.Role, Content: turn.Content})
	}
	return messages
}

// persistTurns saves both turns under the attached identity. Persistence
// is fire-and-continue: failures are logged, never propagated, and the
// stored copy is scrubbed of PII.
func (e *Engine) persistTurns(turns ...Turn) {
	user := e.user
	if user == nil || e.store == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		for _, turn := range turns {
			content, redacted := policy.RedactPII(turn.Content)
			tone := ""
			if turn.Role == "assistant" {
				tone = string(emotion.Detect(turn.Content))
			}
			err := e.store.SaveTurn(ctx, history.TurnRecord{
				UserID:      user.ID,
				SessionID:   e.sessionID,
				Role:        turn.Role,
				Content:     content,
				Emotion:     tone,
				PIIRedacted: redacted,
				CreatedAt:   turn.Timestamp,
			})
			if err != nil {
				e.logger.Printf("therapy: persist %s turn for session %s: %v", turn.Role, e.sessionID, err)
			}
		}
		if err := e.store.IncrementSessionTurns(ctx, e.sessionID, len(turns)); err != nil {
			e.logger.Printf("therapy: bump turn count for session %s: %v", e.sessionID, err)
		}
	}()
}

// SetMode switches the persona mode. The transcript is preserved; only
// the system instruction used for subsequent replies changes.
func (e *Engine) SetMode(mode Mode) {
	e.mode = ParseMode(string(mode))
}

func (e *Engine) Mode() Mode { return e.mode }

// AttachIdentity binds a user to the engine so subsequent turns persist
// under that user. The upgrade is one-directional: an attached identity
// is never replaced or removed.
func (e *Engine) AttachIdentity(user *identity.Identity) {
	if e.user == nil && user != nil {
		e.user = user
	}
}

func (e *Engine) User() *identity.Identity { return e.user }

// TurnCount reports the transcript length.
func (e *Engine) TurnCount() int { return len(e.transcript) }

// Transcript returns a copy of the conversation so far.
func (e *Engine) Transcript() []Turn {
	out := make([]Turn, len(e.transcript))
	copy(out, e.transcript)
	return out
}

// RestoreTranscript seeds the transcript from stored turns, replacing
// whatever is held in memory. Used when an identified user resumes a
// previous session.
func (e *Engine) RestoreTranscript(records []history.TurnRecord) {
	e.transcript = e.transcript[:0]
	for _, r := range records {
		e.transcript = append(e.transcript, Turn{Role: r.Role, Content: r.Content, Timestamp: r.CreatedAt})
	}
}

// Summary describes the conversation size for introspection endpoints.
func (e *Engine) Summary() string {
	if len(e.transcript) == 0 {
		return "No conversation yet."
	}
	return fmt.Sprintf("Conversation has %d messages.", len(e.transcript))
}

// LoadContext rehydrates the personal context block from the attached
// user's recent history. Lookup failure leaves the block empty; context
// is an enhancement, not a requirement.
func (e *Engine) LoadContext(ctx context.Context) {
	if e.user == nil || e.store == nil {
		return
	}

	records, err := e.store.UserTurns(ctx, e.user.ID, e.historyLimit)
	if err != nil {
		e.logger.Printf("therapy: load context for user %s: %v", e.user.ID, err)
		return
	}
	if len(records) == 0 {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "The user %s has spoken with you before. Recent exchanges:\n", e.user.Username)
	for _, r := range records {
		fmt.Fprintf(&b, "- %s: %s\n", r.Role, r.Content)
	}
	e.contextBlock = b.String()
}
