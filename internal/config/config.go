package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config contains all runtime settings for the therapy chat service.
type Config struct {
	BindAddr         string
	ShutdownTimeout  time.Duration
	MetricsNamespace string

	AllowAnyOrigin bool

	OpenAIAPIKey   string
	OpenAIBaseURL  string
	OpenAIModel    string
	OpenAITTSModel string
	OpenAISTTModel string

	ElevenLabsAPIKey        string
	ElevenLabsBaseURL       string
	ElevenLabsTTSModel      string
	ElevenLabsFallbackVoice string

	DatabaseURL string

	ProviderTimeout    time.Duration
	FFmpegPath         string
	TranscribeMinBytes int

	MaxResponseTokens   int
	HistoryContextLimit int
}

// Load reads environment variables and applies safe defaults.
func Load() (Config, error) {
	cfg := Config{
		BindAddr:         envOrDefault("APP_BIND_ADDR", ":8080"),
		MetricsNamespace: envOrDefault("APP_METRICS_NAMESPACE", "samaira"),
		AllowAnyOrigin:   false,

		OpenAIAPIKey:   envTrimmed("OPENAI_API_KEY"),
		OpenAIBaseURL:  envTrimmed("OPENAI_BASE_URL"),
		OpenAIModel:    envOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAITTSModel: envOrDefault("OPENAI_TTS_MODEL", "tts-1"),
		OpenAISTTModel: envOrDefault("OPENAI_STT_MODEL", "whisper-1"),

		ElevenLabsAPIKey:   envTrimmed("ELEVENLABS_API_KEY"),
		ElevenLabsBaseURL:  envOrDefault("ELEVENLABS_BASE_URL", "https://api.elevenlabs.io"),
		ElevenLabsTTSModel: envOrDefault("ELEVENLABS_TTS_MODEL_ID", "eleven_multilingual_v2"),
		// Rachel: usable without the voices_read permission, so the direct
		// transport works even on restricted API keys.
		ElevenLabsFallbackVoice: envOrDefault("ELEVENLABS_FALLBACK_VOICE_ID", "21m00Tcm4TlvDq8ikWAM"),

		DatabaseURL: envTrimmed("DATABASE_URL"),

		FFmpegPath:          envOrDefault("FFMPEG_PATH", "ffmpeg"),
		TranscribeMinBytes:  100,
		MaxResponseTokens:   300,
		HistoryContextLimit: 20,
		ShutdownTimeout:     15 * time.Second,
		ProviderTimeout:     30 * time.Second,
	}

	var err error
	cfg.ShutdownTimeout, err = durationFromEnv("APP_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.ProviderTimeout, err = durationFromEnv("APP_PROVIDER_TIMEOUT", cfg.ProviderTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.TranscribeMinBytes, err = intFromEnv("APP_TRANSCRIBE_MIN_BYTES", cfg.TranscribeMinBytes)
	if err != nil {
		return Config{}, err
	}
	cfg.MaxResponseTokens, err = intFromEnv("OPENAI_MAX_RESPONSE_TOKENS", cfg.MaxResponseTokens)
	if err != nil {
		return Config{}, err
	}
	cfg.HistoryContextLimit, err = intFromEnv("APP_HISTORY_CONTEXT_LIMIT", cfg.HistoryContextLimit)
	if err != nil {
		return Config{}, err
	}
	cfg.AllowAnyOrigin, err = boolFromEnv("APP_ALLOW_ANY_ORIGIN", cfg.AllowAnyOrigin)
	if err != nil {
		return Config{}, err
	}

	if cfg.ProviderTimeout < time.Second {
		return Config{}, fmt.Errorf("APP_PROVIDER_TIMEOUT must be at least 1s")
	}
	if cfg.TranscribeMinBytes <= 0 {
		return Config{}, fmt.Errorf("APP_TRANSCRIBE_MIN_BYTES must be positive")
	}
	if cfg.MaxResponseTokens <= 0 {
		return Config{}, fmt.Errorf("OPENAI_MAX_RESPONSE_TOKENS must be positive")
	}
	if cfg.HistoryContextLimit <= 0 {
		return Config{}, fmt.Errorf("APP_HISTORY_CONTEXT_LIMIT must be positive")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func envTrimmed(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := envTrimmed(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return d, nil
}

func intFromEnv(key string, fallback int) (int, error) {
	v := envTrimmed(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return n, nil
}

func boolFromEnv(key string, fallback bool) (bool, error) {
	v := strings.ToLower(envTrimmed(key))
	if v == "" {
		return fallback, nil
	}
	switch v {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("%s parse error: expected bool", key)
	}
}
