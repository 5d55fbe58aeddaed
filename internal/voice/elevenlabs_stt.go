package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/samaira-ai/samaira/internal/audio"
)

// elevenLabsTranscriber is the secondary input provider. It first runs a
// best-effort ffmpeg transcode to a format the API accepts reliably;
// transcode failure is tolerated and the original bytes are sent instead.
type elevenLabsTranscriber struct {
	apiKey     string
	baseURL    string
	ffmpegPath string
	http       *http.Client
	spool      *spool
	retryWait  time.Duration
}

func newElevenLabsTranscriber(apiKey, baseURL, ffmpegPath string, sp *spool) *elevenLabsTranscriber {
	if baseURL == "" {
		baseURL = "https://api.elevenlabs.io"
	}
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &elevenLabsTranscriber{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		ffmpegPath: ffmpegPath,
		http:       &http.Client{},
		spool:      sp,
		retryWait:  defaultRetryWait,
	}
}

func (t *elevenLabsTranscriber) Name() string { return "elevenlabs" }

func (t *elevenLabsTranscriber) Attempt(ctx context.Context, req TranscriptionRequest) (string, error) {
	if t.apiKey == "" {
		return "", errors.New("elevenlabs stt: no api key configured")
	}

	data := req.Data
	if converted, err := t.transcode(ctx, req.Data); err == nil {
		data = converted
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("model_id", "scribe_v1"); err != nil {
		return "", fmt.Errorf("elevenlabs stt: build form: %w", err)
	}
	format := audio.DetectFormat(data)
	part, err := mw.CreateFormFile("file", "audio."+format.Extension())
	if err != nil {
		return "", fmt.Errorf("elevenlabs stt: build form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("elevenlabs stt: build form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("elevenlabs stt: build form: %w", err)
	}

	form := body.Bytes()
	resp, err := doWithRetry(ctx, t.http, t.retryWait, func() (*http.Request, error) {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/v1/speech-to-text", bytes.NewReader(form))
		if err != nil {
			return nil, fmt.Errorf("elevenlabs stt: build request: %w", err)
		}
		httpReq.Header.Set("xi-api-key", t.apiKey)
		httpReq.Header.Set("Content-Type", mw.FormDataContentType())
		return httpReq, nil
	})
	if err != nil {
		return "", fmt.Errorf("elevenlabs stt: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("elevenlabs stt: status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var parsed struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("elevenlabs stt: decode response: %w", err)
	}
	return parsed.Text, nil
}

// transcode converts the payload to 16 kHz mono MP3 via ffmpeg. Both
// scratch files are removed on every exit path.
func (t *elevenLabsTranscriber) transcode(ctx context.Context, data []byte) ([]byte, error) {
	inPath, cleanupIn, err := t.spool.file("stt-in-*", data)
	if err != nil {
		return nil, err
	}
	defer cleanupIn()

	outPath := inPath + ".mp3"
	defer os.Remove(outPath)

	cmd := exec.CommandContext(ctx, t.ffmpegPath, "-y", "-i", inPath, "-ar", "16000", "-ac", "1", outPath)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("ffmpeg transcode: %v: %s", err, strings.TrimSpace(string(out)))
	}

	converted, err := os.ReadFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("read transcoded audio: %w", err)
	}
	return converted, nil
}
