package voice

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/samaira-ai/samaira/internal/emotion"
)

// openaiVoices maps delivery tones onto OpenAI's named voice presets.
var openaiVoices = map[emotion.Tone]openai.AudioSpeechNewParamsVoice{
	emotion.Calm:        openai.AudioSpeechNewParamsVoiceAlloy,
	emotion.Supportive:  openai.AudioSpeechNewParamsVoice("nova"),
	emotion.Empathetic:  openai.AudioSpeechNewParamsVoiceShimmer,
	emotion.Encouraging: openai.AudioSpeechNewParamsVoiceEcho,
}

// openaiSpeech is the primary output provider.
type openaiSpeech struct {
	client openai.Client
	model  string
	spool  *spool
}

func newOpenAISpeech(apiKey, baseURL, model string, sp *spool) *openaiSpeech {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if model == "" {
		model = "tts-1"
	}
	return &openaiSpeech{client: openai.NewClient(opts...), model: model, spool: sp}
}

func (s *openaiSpeech) Name() string { return "openai" }

func (s *openaiSpeech) Attempt(ctx context.Context, req SynthesisRequest) (*Audio, error) {
	voicePreset, ok := openaiVoices[req.Tone]
	if !ok {
		voicePreset = openaiVoices[emotion.Calm]
	}

	resp, err := s.client.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Model:          openai.SpeechModel(s.model),
		Voice:          voicePreset,
		Input:          req.Text,
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatMP3,
	})
	if err != nil {
		return nil, fmt.Errorf("openai speech: %w", err)
	}
	defer resp.Body.Close()

	data, err := s.spool.capture("openai-tts-*.mp3", resp.Body)
	if err != nil {
		return nil, err
	}
	return &Audio{Data: data, Format: "mp3"}, nil
}
