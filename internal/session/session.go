// Package session owns the process-wide map of live conversations.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/samaira-ai/samaira/internal/emotion"
	"github.com/samaira-ai/samaira/internal/therapy"
	"github.com/samaira-ai/samaira/internal/voice"
)

// Outputter is the voice output handle a session owns. Satisfied by
// *voice.OutputPipeline.
type Outputter interface {
	Synthesize(ctx context.Context, text string, tone emotion.Tone) (*voice.Audio, error)
	Close() error
}

// Inputter is the voice input handle a session owns. Satisfied by
// *voice.InputPipeline.
type Inputter interface {
	Transcribe(ctx context.Context, data []byte, filenameHint string) (string, error)
	Close() error
}

// Config is the mutable per-session configuration. The session id and
// creation timestamp are fixed at creation and never change.
type Config struct {
	PersonaMode  therapy.Mode
	VoiceEnabled bool
	VoiceEmotion emotion.Tone
	DisplayName  string
}

// Session bundles one conversation's engine and voice pipeline handles.
type Session struct {
	id        string
	createdAt time.Time

	cfgMu sync.Mutex
	cfg   Config

	engine *therapy.Engine
	output Outputter
	input  Inputter
}

func (s *Session) ID() string           { return s.id }
func (s *Session) CreatedAt() time.Time { return s.createdAt }

// Config returns a snapshot of the mutable configuration.
func (s *Session) Config() Config {
	s.cfgMu.Lock()
	defer s.cfgMu.Unlock()
	return s.cfg
}

func (s *Session) setPersonaMode(mode therapy.Mode) {
	s.cfgMu.Lock()
	s.cfg.PersonaMode = mode
	s.cfgMu.Unlock()
}

func (s *Session) Engine() *therapy.Engine { return s.engine }
func (s *Session) Output() Outputter       { return s.output }
func (s *Session) Input() Inputter         { return s.input }

// close releases the voice pipeline scratch directories.
func (s *Session) close() {
	if s.output != nil {
		s.output.Close()
	}
	if s.input != nil {
		s.input.Close()
	}
}

// Summary is the introspection view of one live session.
type Summary struct {
	ID           string    `json:"id"`
	PersonaMode  string    `json:"persona_mode"`
	TurnCount    int       `json:"turn_count"`
	Username     string    `json:"username,omitempty"`
	DisplayName  string    `json:"display_name,omitempty"`
	VoiceEnabled bool      `json:"voice_enabled"`
	CreatedAt    time.Time `json:"created_at"`
}

func (s *Session) summary() Summary {
	cfg := s.Config()
	out := Summary{
		ID:           s.id,
		PersonaMode:  string(s.engine.Mode()),
		TurnCount:    s.engine.TurnCount(),
		DisplayName:  cfg.DisplayName,
		VoiceEnabled: cfg.VoiceEnabled,
		CreatedAt:    s.createdAt,
	}
	if user := s.engine.User(); user != nil {
		out.Username = user.Username
	}
	return out
}
