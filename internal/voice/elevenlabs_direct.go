package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// elevenLabsDirect calls the ElevenLabs HTTP API without the client SDK.
// It is the last output provider: it covers cases where the client-level
// integration is broken but the service itself is reachable, using a
// single known-good voice and conservative settings.
type elevenLabsDirect struct {
	apiKey    string
	baseURL   string
	voiceID   string
	http      *http.Client
	spool     *spool
	retryWait time.Duration
}

func newElevenLabsDirect(apiKey, baseURL, voiceID string, sp *spool) *elevenLabsDirect {
	if baseURL == "" {
		baseURL = "https://api.elevenlabs.io"
	}
	if voiceID == "" {
		voiceID = "21m00Tcm4TlvDq8ikWAM" // Rachel
	}
	return &elevenLabsDirect{
		apiKey:    apiKey,
		baseURL:   strings.TrimRight(baseURL, "/"),
		voiceID:   voiceID,
		http:      &http.Client{},
		spool:     sp,
		retryWait: defaultRetryWait,
	}
}

func (s *elevenLabsDirect) Name() string { return "elevenlabs-direct" }

func (s *elevenLabsDirect) Attempt(ctx context.Context, req SynthesisRequest) (*Audio, error) {
	if s.apiKey == "" {
		return nil, errors.New("elevenlabs-direct: no api key configured")
	}

	body, err := json.Marshal(map[string]any{
		"text":     req.Text,
		"model_id": "eleven_monolingual_v1",
		"voice_settings": map[string]float64{
			"stability":        0.5,
			"similarity_boost": 0.5,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("elevenlabs-direct: marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s", s.baseURL, s.voiceID)
	resp, err := doWithRetry(ctx, s.http, s.retryWait, func() (*http.Request, error) {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("elevenlabs-direct: build request: %w", err)
		}
		httpReq.Header.Set("xi-api-key", s.apiKey)
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("Accept", "audio/mpeg")
		return httpReq, nil
	})
	if err != nil {
		return nil, fmt.Errorf("elevenlabs-direct: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("elevenlabs-direct: status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	data, err := s.spool.capture("elevenlabs-direct-*.mp3", resp.Body)
	if err != nil {
		return nil, err
	}
	return &Audio{Data: data, Format: "mp3"}, nil
}
