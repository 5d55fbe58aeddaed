package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/samaira-ai/samaira/internal/history"
	"github.com/samaira-ai/samaira/internal/identity"
	"github.com/samaira-ai/samaira/internal/therapy"
)

// ErrNotFound is returned for operations on unknown session ids.
var ErrNotFound = errors.New("session: not found")

// Bundle is everything a factory builds for one new session. Tests may
// leave the pipelines nil.
type Bundle struct {
	Engine *therapy.Engine
	Output Outputter
	Input  Inputter
}

// Factory builds the engine and voice pipelines for a new session.
type Factory func(sessionID string, mode therapy.Mode) (*Bundle, error)

// Store maps session ids to live sessions. The map is the only shared
// mutable structure; all mutation happens under the store lock, and the
// creation path guarantees at most one engine per unseen id.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	factory Factory
	records history.Store
	logger  *log.Logger
	counter atomic.Uint64
}

func NewStore(factory Factory, records history.Store, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Default()
	}
	return &Store{
		sessions: make(map[string]*Session),
		factory:  factory,
		records:  records,
		logger:   logger,
	}
}

// GetOrCreate returns the session for id, creating one with default
// configuration if unseen. Creation happens under the store lock so
// concurrent calls for the same unseen id observe a single engine.
func (s *Store) GetOrCreate(id string, user *identity.Identity) (*Session, error) {
	return s.getOrCreate(id, Config{PersonaMode: therapy.ModeDefault, VoiceEnabled: true}, user)
}

func (s *Store) getOrCreate(id string, cfg Config, user *identity.Identity) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.sessions[id]; ok {
		if user != nil {
			existing.engine.AttachIdentity(user)
		}
		return existing, nil
	}

	bundle, err := s.factory(id, cfg.PersonaMode)
	if err != nil {
		return nil, fmt.Errorf("build session %s: %w", id, err)
	}
	sess := &Session{
		id:        id,
		createdAt: time.Now().UTC(),
		cfg:       cfg,
		engine:    bundle.Engine,
		output:    bundle.Output,
		input:     bundle.Input,
	}
	if user != nil {
		sess.engine.AttachIdentity(user)
	}
	s.sessions[id] = sess

	s.persistRecord(sess, cfg)
	return sess, nil
}

// Create makes a new session with an explicitly generated id.
func (s *Store) Create(cfg Config, user *identity.Identity) (*Session, error) {
	id := s.newID()
	return s.getOrCreate(id, cfg, user)
}

// newID combines a timestamp with a monotonic counter so concurrent
// creations in the same instant still get distinct ids.
func (s *Store) newID() string {
	return fmt.Sprintf("session_%d_%d", time.Now().UnixNano(), s.counter.Add(1))
}

// Get returns the live session for id.
func (s *Store) Get(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return sess, nil
}

// End releases the session's voice pipeline handles and removes it.
func (s *Store) End(id string) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if ok {
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	if !ok {
		return ErrNotFound
	}
	sess.close()
	return nil
}

// List returns summaries of all live sessions, for introspection only.
func (s *Store) List() []Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Summary, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, sess.summary())
	}
	return out
}

// AttachIdentity retroactively binds a user to a previously-anonymous
// session, e.g. when a websocket client authenticates mid-connection.
func (s *Store) AttachIdentity(id string, user *identity.Identity) error {
	sess, err := s.Get(id)
	if err != nil {
		return err
	}
	sess.engine.AttachIdentity(user)
	return nil
}

// SetPersonaMode switches the persona used for subsequent replies. The
// transcript is untouched.
func (s *Store) SetPersonaMode(id string, mode therapy.Mode) error {
	sess, err := s.Get(id)
	if err != nil {
		return err
	}
	sess.setPersonaMode(mode)
	sess.engine.SetMode(mode)
	return nil
}

// Close ends every live session.
func (s *Store) Close() {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[string]*Session)
	s.mu.Unlock()

	for _, sess := range sessions {
		sess.close()
	}
}

// persistRecord writes a durable session row for identified users.
// Best-effort: failure is logged and the in-memory session proceeds.
func (s *Store) persistRecord(sess *Session, cfg Config) {
	user := sess.engine.User()
	if user == nil || s.records == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := s.records.SaveSession(ctx, history.SessionRecord{
			ID:          sess.id,
			UserID:      user.ID,
			PersonaMode: string(cfg.PersonaMode),
			CreatedAt:   sess.createdAt,
		})
		if err != nil {
			s.logger.Printf("session: persist record %s: %v", sess.id, err)
		}
	}()
}
