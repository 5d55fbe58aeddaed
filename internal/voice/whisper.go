package voice

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/samaira-ai/samaira/internal/audio"
)

// whisperTranscriber is the primary input provider, working on the raw
// uploaded bytes.
type whisperTranscriber struct {
	client openai.Client
	model  string
}

func newWhisperTranscriber(apiKey, baseURL, model string) *whisperTranscriber {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if model == "" {
		model = "whisper-1"
	}
	return &whisperTranscriber{client: openai.NewClient(opts...), model: model}
}

func (t *whisperTranscriber) Name() string { return "whisper" }

func (t *whisperTranscriber) Attempt(ctx context.Context, req TranscriptionRequest) (string, error) {
	format := audio.DetectFormat(req.Data)
	filename := uploadFilename(req.FilenameHint, format)

	resp, err := t.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		Model: openai.AudioModel(t.model),
		File:  openai.File(bytes.NewReader(req.Data), filename, format.ContentType()),
	})
	if err != nil {
		return "", fmt.Errorf("whisper: %w", err)
	}
	return resp.Text, nil
}

// uploadFilename prefers the caller's hint when its extension matches
// the sniffed bytes, since browsers routinely mislabel recordings.
func uploadFilename(hint string, format audio.Format) string {
	ext := "." + format.Extension()
	if hint != "" && strings.EqualFold(path.Ext(hint), ext) {
		return path.Base(hint)
	}
	return "audio" + ext
}
