package voice

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/samaira-ai/samaira/internal/reliability"
)

// FallbackTranscript is returned when every transcription provider has
// failed. The pipeline always produces some string rather than an error.
const FallbackTranscript = "I couldn't understand the audio. Could you please try speaking again or type your message?"

// InputConfig carries provider credentials and tuning for one pipeline.
type InputConfig struct {
	OpenAIAPIKey   string
	OpenAIBaseURL  string
	OpenAISTTModel string

	ElevenLabsAPIKey  string
	ElevenLabsBaseURL string

	FFmpegPath      string
	MinBytes        int
	ProviderTimeout time.Duration
	Logger          *log.Logger
}

// InputPipeline turns uploaded audio into text through an ordered
// provider chain with a fixed-string terminal fallback.
type InputPipeline struct {
	steps    []Transcriber
	spool    *spool
	minBytes int
	timeout  time.Duration
	logger   *log.Logger
}

// NewInputPipeline assembles the chain: Whisper on the raw bytes first,
// then ElevenLabs after a best-effort transcode.
func NewInputPipeline(cfg InputConfig) (*InputPipeline, error) {
	sp, err := newSpool()
	if err != nil {
		return nil, err
	}

	steps := []Transcriber{
		newWhisperTranscriber(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAISTTModel),
		newElevenLabsTranscriber(cfg.ElevenLabsAPIKey, cfg.ElevenLabsBaseURL, cfg.FFmpegPath, sp),
	}
	return newInputPipeline(steps, sp, cfg.MinBytes, cfg.ProviderTimeout, cfg.Logger), nil
}

func newInputPipeline(steps []Transcriber, sp *spool, minBytes int, timeout time.Duration, logger *log.Logger) *InputPipeline {
	if logger == nil {
		logger = log.Default()
	}
	if minBytes <= 0 {
		minBytes = 100
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &InputPipeline{steps: steps, spool: sp, minBytes: minBytes, timeout: timeout, logger: logger}
}

// Transcribe walks the provider chain and returns the first non-empty
// transcript. Payloads under the minimum byte threshold are rejected
// before any provider call; a chain where every provider fails yields
// the fixed fallback string, never an error.
func (p *InputPipeline) Transcribe(ctx context.Context, data []byte, filenameHint string) (string, error) {
	if len(data) < p.minBytes {
		return "", ErrAudioTooShort
	}
	req := TranscriptionRequest{Data: data, FilenameHint: filenameHint}

	for _, step := range p.steps {
		attemptCtx, cancel := context.WithTimeout(ctx, p.timeout)
		text, err := step.Attempt(attemptCtx, req)
		cancel()

		if err == nil && strings.TrimSpace(text) != "" {
			return strings.TrimSpace(text), nil
		}
		if err != nil && !reliability.IsProviderFailure(err) {
			return "", err
		}
		p.logger.Printf("voice: stt %s failed, trying next: %v", step.Name(), err)
	}

	return FallbackTranscript, nil
}

// Close releases the pipeline's scratch directory.
func (p *InputPipeline) Close() error {
	if p.spool == nil {
		return nil
	}
	return p.spool.Close()
}
