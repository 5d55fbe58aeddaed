package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists conversation history in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := initSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

func initSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS conversation_turns (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			session_id TEXT NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			emotion TEXT NOT NULL DEFAULT '',
			pii_redacted BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_turns_session_created ON conversation_turns (session_id, created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_turns_user_created ON conversation_turns (user_id, created_at);`,
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			persona_mode TEXT NOT NULL DEFAULT 'default',
			summary TEXT NOT NULL DEFAULT '',
			turn_count INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_user_updated ON sessions (user_id, updated_at);`,
		`CREATE TABLE IF NOT EXISTS profiles (
			subject TEXT PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL,
			password_hash TEXT NOT NULL DEFAULT '',
			salt TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema failed on %q: %w", stmt, err)
		}
	}
	return nil
}

func (s *PostgresStore) SaveTurn(ctx context.Context, record TurnRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO conversation_turns (id, user_id, session_id, role, content, emotion, pii_redacted, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		record.ID,
		record.UserID,
		record.SessionID,
		record.Role,
		record.Content,
		record.Emotion,
		record.PIIRedacted,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save turn: %w", err)
	}
	return nil
}

func (s *PostgresStore) SessionTurns(ctx context.Context, sessionID string, limit int) ([]TurnRecord, error) {
	return s.turnsWhere(ctx, "session_id", sessionID, limit)
}

func (s *PostgresStore) UserTurns(ctx context.Context, userID string, limit int) ([]TurnRecord, error) {
	return s.turnsWhere(ctx, "user_id", userID, limit)
}

func (s *PostgresStore) turnsWhere(ctx context.Context, column, value string, limit int) ([]TurnRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, session_id, role, content, emotion, pii_redacted, created_at
		 FROM conversation_turns WHERE `+column+`=$1 ORDER BY created_at DESC LIMIT $2`,
		value,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query turns: %w", err)
	}
	defer rows.Close()

	items := make([]TurnRecord, 0, limit)
	for rows.Next() {
		var r TurnRecord
		if err := rows.Scan(&r.ID, &r.UserID, &r.SessionID, &r.Role, &r.Content, &r.Emotion, &r.PIIRedacted, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan turn row: %w", err)
		}
		items = append(items, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate turn rows: %w", err)
	}

	// Reverse into chronological order for prompt coherence.
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}

	return items, nil
}

func (s *PostgresStore) SaveSession(ctx context.Context, record SessionRecord) error {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO sessions (id, user_id, persona_mode, summary, turn_count, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, now())
		 ON CONFLICT (id) DO UPDATE SET
			persona_mode = EXCLUDED.persona_mode,
			summary = EXCLUDED.summary,
			updated_at = now()`,
		record.ID,
		record.UserID,
		record.PersonaMode,
		record.Summary,
		record.TurnCount,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetSession(ctx context.Context, sessionID string) (*SessionRecord, error) {
	var r SessionRecord
	err := s.pool.QueryRow(ctx,
		`SELECT id, user_id, persona_mode, summary, turn_count, created_at, updated_at
		 FROM sessions WHERE id=$1`,
		sessionID,
	).Scan(&r.ID, &r.UserID, &r.PersonaMode, &r.Summary, &r.TurnCount, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &r, nil
}

func (s *PostgresStore) UserSessions(ctx context.Context, userID string, limit int) ([]SessionRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, persona_mode, summary, turn_count, created_at, updated_at
		 FROM sessions WHERE user_id=$1 ORDER BY updated_at DESC LIMIT $2`,
		userID,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	items := make([]SessionRecord, 0, limit)
	for rows.Next() {
		var r SessionRecord
		if err := rows.Scan(&r.ID, &r.UserID, &r.PersonaMode, &r.Summary, &r.TurnCount, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan session row: %w", err)
		}
		items = append(items, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate session rows: %w", err)
	}
	return items, nil
}

func (s *PostgresStore) IncrementSessionTurns(ctx context.Context, sessionID string, delta int) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE sessions SET turn_count = turn_count + $2, updated_at = now() WHERE id=$1`,
		sessionID,
		delta,
	)
	if err != nil {
		return fmt.Errorf("increment session turns: %w", err)
	}
	return nil
}

func (s *PostgresStore) SaveProfile(ctx context.Context, record ProfileRecord) error {
	if record.Subject == "" {
		record.Subject = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO profiles (subject, username, email, password_hash, salt, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (subject) DO UPDATE SET
			username = EXCLUDED.username,
			email = EXCLUDED.email,
			password_hash = EXCLUDED.password_hash,
			salt = EXCLUDED.salt`,
		record.Subject,
		record.Username,
		record.Email,
		record.PasswordHash,
		record.Salt,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

func (s *PostgresStore) ProfileBySubject(ctx context.Context, subject string) (*ProfileRecord, error) {
	return s.profileWhere(ctx, "subject", subject)
}

func (s *PostgresStore) ProfileByUsername(ctx context.Context, username string) (*ProfileRecord, error) {
	return s.profileWhere(ctx, "username", username)
}

func (s *PostgresStore) profileWhere(ctx context.Context, column, value string) (*ProfileRecord, error) {
	var r ProfileRecord
	err := s.pool.QueryRow(ctx,
		`SELECT subject, username, email, password_hash, salt, created_at FROM profiles WHERE `+column+`=$1`,
		value,
	).Scan(&r.Subject, &r.Username, &r.Email, &r.PasswordHash, &r.Salt, &r.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &r, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
