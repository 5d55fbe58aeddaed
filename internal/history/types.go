package history

import (
	"context"
	"time"
)

// TurnRecord stores a single user or assistant conversational turn.
type TurnRecord struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	SessionID   string    `json:"session_id"`
	Role        string    `json:"role"`
	Content     string    `json:"content"`
	Emotion     string    `json:"emotion,omitempty"`
	PIIRedacted bool      `json:"pii_redacted"`
	CreatedAt   time.Time `json:"created_at"`
}

// SessionRecord summarizes one conversation for restore and history views.
type SessionRecord struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	PersonaMode string    `json:"persona_mode"`
	Summary     string    `json:"summary,omitempty"`
	TurnCount   int       `json:"turn_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProfileRecord is a stored user account. Credential fields never leave
// the process in JSON form.
type ProfileRecord struct {
	Subject      string    `json:"subject"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Store persists and retrieves conversation history and profiles. All
// methods are best-effort from the caller's perspective; failures are
// logged upstream and never abort the conversational flow.
type Store interface {
	SaveTurn(ctx context.Context, record TurnRecord) error
	SessionTurns(ctx context.Context, sessionID string, limit int) ([]TurnRecord, error)
	UserTurns(ctx context.Context, userID string, limit int) ([]TurnRecord, error)

	SaveSession(ctx context.Context, record SessionRecord) error
	GetSession(ctx context.Context, sessionID string) (*SessionRecord, error)
	UserSessions(ctx context.Context, userID string, limit int) ([]SessionRecord, error)
	IncrementSessionTurns(ctx context.Context, sessionID string, delta int) error

	SaveProfile(ctx context.Context, record ProfileRecord) error
	ProfileBySubject(ctx context.Context, subject string) (*ProfileRecord, error)
	ProfileByUsername(ctx context.Context, username string) (*ProfileRecord, error)

	Close() error
}
