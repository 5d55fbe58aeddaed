// Package voice implements the speech output and input fallback chains.
package voice

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/samaira-ai/samaira/internal/audio"
	"github.com/samaira-ai/samaira/internal/emotion"
	"github.com/samaira-ai/samaira/internal/reliability"
)

// OutputConfig carries provider credentials and tuning for one pipeline.
type OutputConfig struct {
	OpenAIAPIKey   string
	OpenAIBaseURL  string
	OpenAITTSModel string

	ElevenLabsAPIKey        string
	ElevenLabsBaseURL       string
	ElevenLabsModelID       string
	ElevenLabsFallbackVoice string

	ProviderTimeout time.Duration
	Logger          *log.Logger
}

// OutputPipeline renders text to speech through an ordered provider
// chain, short-circuiting on the first usable result.
type OutputPipeline struct {
	steps   []Synthesizer
	spool   *spool
	timeout time.Duration
	logger  *log.Logger
}

// NewOutputPipeline assembles the full chain: OpenAI speech first, then
// the ElevenLabs client, then ElevenLabs over raw HTTP for when the
// client-level integration is broken but the service is reachable.
func NewOutputPipeline(cfg OutputConfig) (*OutputPipeline, error) {
	sp, err := newSpool()
	if err != nil {
		return nil, err
	}

	steps := []Synthesizer{
		newOpenAISpeech(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAITTSModel, sp),
		newElevenLabsSpeech(cfg.ElevenLabsAPIKey, cfg.ElevenLabsModelID, cfg.ProviderTimeout),
		newElevenLabsDirect(cfg.ElevenLabsAPIKey, cfg.ElevenLabsBaseURL, cfg.ElevenLabsFallbackVoice, sp),
	}
	return newOutputPipeline(steps, sp, cfg.ProviderTimeout, cfg.Logger), nil
}

func newOutputPipeline(steps []Synthesizer, sp *spool, timeout time.Duration, logger *log.Logger) *OutputPipeline {
	if logger == nil {
		logger = log.Default()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &OutputPipeline{steps: steps, spool: sp, timeout: timeout, logger: logger}
}

// Synthesize walks the provider chain until one returns usable audio.
// An empty tone is inferred from the text. Fails only after every
// provider has been attempted.
func (p *OutputPipeline) Synthesize(ctx context.Context, text string, tone emotion.Tone) (*Audio, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("voice: empty text")
	}
	if tone == "" {
		tone = emotion.Detect(text)
	}
	req := SynthesisRequest{Text: text, Tone: tone}

	var failures []string
	for _, step := range p.steps {
		attemptCtx, cancel := context.WithTimeout(ctx, p.timeout)
		out, err := step.Attempt(attemptCtx, req)
		cancel()

		if err == nil && (out == nil || len(out.Data) == 0) {
			err = errors.New("no usable audio returned")
		}
		if err == nil {
			out.Provider = step.Name()
			if out.Format == "" {
				out.Format = "mp3"
			}
			if out.DurationSec == 0 {
				out.DurationSec = audio.EstimateSpeechDuration(text)
			}
			return out, nil
		}
		if !reliability.IsProviderFailure(err) {
			return nil, err
		}
		p.logger.Printf("voice: tts %s failed, trying next: %v", step.Name(), err)
		failures = append(failures, fmt.Sprintf("%s: %v", step.Name(), err))
	}

	return nil, fmt.Errorf("%w: %s", ErrAllProvidersFailed, strings.Join(failures, "; "))
}

// Close releases the pipeline's scratch directory.
func (p *OutputPipeline) Close() error {
	if p.spool == nil {
		return nil
	}
	return p.spool.Close()
}
