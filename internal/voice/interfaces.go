package voice

import (
	"context"
	"errors"

	"github.com/samaira-ai/samaira/internal/emotion"
)

// ErrAllProvidersFailed is the terminal error of a fallback chain: every
// provider was attempted and none produced usable output.
var ErrAllProvidersFailed = errors.New("voice: all providers failed")

// ErrAudioTooShort rejects an upload below the minimum byte threshold
// before any provider call is made.
var ErrAudioTooShort = errors.New("voice: audio payload too short")

// SynthesisRequest asks for spoken audio of a reply.
type SynthesisRequest struct {
	Text string
	Tone emotion.Tone
}

// Audio is a synthesized audio payload.
type Audio struct {
	Data        []byte
	Format      string
	Provider    string
	DurationSec float64
}

// Synthesizer is one step of the output fallback chain.
type Synthesizer interface {
	Name() string
	Attempt(ctx context.Context, req SynthesisRequest) (*Audio, error)
}

// TranscriptionRequest carries an uploaded audio payload.
type TranscriptionRequest struct {
	Data         []byte
	FilenameHint string
}

// Transcriber is one step of the input fallback chain.
type Transcriber interface {
	Name() string
	Attempt(ctx context.Context, req TranscriptionRequest) (string, error)
}
