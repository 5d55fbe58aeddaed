package voice

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/haguro/elevenlabs-go"

	"github.com/samaira-ai/samaira/internal/emotion"
)

// toneVoice is an ElevenLabs voice preset tuned for one delivery tone.
type toneVoice struct {
	voiceID         string
	stability       float32
	similarityBoost float32
	style           float32
}

// elevenLabsVoices carries distinct tuning per tone. Voice IDs are the
// provider's stock voices (Bella, Dorothy, Adam).
var elevenLabsVoices = map[emotion.Tone]toneVoice{
	emotion.Calm:        {voiceID: "EXAVITQu4vr4xnSDxMaL", stability: 0.75, similarityBoost: 0.8, style: 0.2},
	emotion.Supportive:  {voiceID: "ThT5KcBeYPX3keUQqHPh", stability: 0.8, similarityBoost: 0.85, style: 0.3},
	emotion.Encouraging: {voiceID: "pNInz6obpgDQGcFmaJgB", stability: 0.7, similarityBoost: 0.9, style: 0.4},
	emotion.Empathetic:  {voiceID: "EXAVITQu4vr4xnSDxMaL", stability: 0.85, similarityBoost: 0.75, style: 0.1},
}

// elevenLabsSpeech is the secondary output provider, via the client SDK.
type elevenLabsSpeech struct {
	apiKey  string
	modelID string
	timeout time.Duration

	preflight    sync.Once
	preflightErr error
}

func newElevenLabsSpeech(apiKey, modelID string, timeout time.Duration) *elevenLabsSpeech {
	if modelID == "" {
		modelID = "eleven_multilingual_v2"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &elevenLabsSpeech{apiKey: apiKey, modelID: modelID, timeout: timeout}
}

func (s *elevenLabsSpeech) Name() string { return "elevenlabs" }

func (s *elevenLabsSpeech) Attempt(ctx context.Context, req SynthesisRequest) (*Audio, error) {
	if s.apiKey == "" {
		return nil, errors.New("elevenlabs: no api key configured")
	}
	client := elevenlabs.NewClient(ctx, s.apiKey, s.timeout)

	// One-time capability check; keys scoped without voices_read fail
	// here rather than mid-synthesis.
	s.preflight.Do(func() {
		if _, err := client.GetVoices(); err != nil {
			s.preflightErr = fmt.Errorf("elevenlabs preflight: %w", err)
		}
	})
	if s.preflightErr != nil {
		return nil, s.preflightErr
	}

	preset, ok := elevenLabsVoices[req.Tone]
	if !ok {
		preset = elevenLabsVoices[emotion.Calm]
	}

	data, err := client.TextToSpeech(preset.voiceID, elevenlabs.TextToSpeechRequest{
		Text:    req.Text,
		ModelID: s.modelID,
		VoiceSettings: &elevenlabs.VoiceSettings{
			Stability:       preset.stability,
			SimilarityBoost: preset.similarityBoost,
			Style:           preset.style,
			SpeakerBoost:    true,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("elevenlabs synthesize: %w", err)
	}
	return &Audio{Data: data, Format: "mp3"}, nil
}
