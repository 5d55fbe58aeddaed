package history

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryStore is a simple in-process history store for local/dev use.
type InMemoryStore struct {
	mu       sync.RWMutex
	turns    []TurnRecord
	sessions map[string]SessionRecord
	profiles map[string]ProfileRecord
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		sessions: make(map[string]SessionRecord),
		profiles: make(map[string]ProfileRecord),
	}
}

func (s *InMemoryStore) SaveTurn(_ context.Context, record TurnRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	s.turns = append(s.turns, record)
	return nil
}

func (s *InMemoryStore) SessionTurns(_ context.Context, sessionID string, limit int) ([]TurnRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return tailMatching(s.turns, limit, func(r TurnRecord) bool { return r.SessionID == sessionID }), nil
}

func (s *InMemoryStore) UserTurns(_ context.Context, userID string, limit int) ([]TurnRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return tailMatching(s.turns, limit, func(r TurnRecord) bool { return r.UserID == userID }), nil
}

// tailMatching returns the last limit records passing keep, in original order.
func tailMatching(records []TurnRecord, limit int, keep func(TurnRecord) bool) []TurnRecord {
	var out []TurnRecord
	for _, r := range records {
		if keep(r) {
			out = append(out, r)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}

func (s *InMemoryStore) SaveSession(_ context.Context, record SessionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	record.UpdatedAt = time.Now().UTC()
	if prev, ok := s.sessions[record.ID]; ok {
		record.CreatedAt = prev.CreatedAt
		if record.TurnCount == 0 {
			record.TurnCount = prev.TurnCount
		}
	}
	s.sessions[record.ID] = record
	return nil
}

func (s *InMemoryStore) GetSession(_ context.Context, sessionID string) (*SessionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (s *InMemoryStore) UserSessions(_ context.Context, userID string, limit int) ([]SessionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []SessionRecord
	for _, rec := range s.sessions {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	sortSessionsNewestFirst(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func sortSessionsNewestFirst(sessions []SessionRecord) {
	for i := 1; i < len(sessions); i++ {
		for j := i; j > 0 && sessions[j].UpdatedAt.After(sessions[j-1].UpdatedAt); j-- {
			sessions[j], sessions[j-1] = sessions[j-1], sessions[j]
		}
	}
}

func (s *InMemoryStore) IncrementSessionTurns(_ context.Context, sessionID string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.sessions[sessionID]
	if !ok {
		return nil
	}
	rec.TurnCount += delta
	rec.UpdatedAt = time.Now().UTC()
	s.sessions[sessionID] = rec
	return nil
}

func (s *InMemoryStore) SaveProfile(_ context.Context, record ProfileRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if record.Subject == "" {
		record.Subject = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	s.profiles[record.Subject] = record
	return nil
}

func (s *InMemoryStore) ProfileBySubject(_ context.Context, subject string) (*ProfileRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.profiles[subject]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (s *InMemoryStore) ProfileByUsername(_ context.Context, username string) (*ProfileRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rec := range s.profiles {
		if rec.Username == username {
			return &rec, nil
		}
	}
	return nil, nil
}

func (s *InMemoryStore) Close() error { return nil }
