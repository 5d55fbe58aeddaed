package httpapi

import (
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/samaira-ai/samaira/internal/emotion"
	"github.com/samaira-ai/samaira/internal/voice"
)

type synthesizeRequest struct {
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
	Emotion   string `json:"emotion"`
}

type synthesizeResponse struct {
	SessionID         string  `json:"session_id"`
	AudioData         string  `json:"audio_data"`
	AudioFormat       string  `json:"audio_format"`
	Emotion           string  `json:"emotion"`
	Provider          string  `json:"provider"`
	EstimatedDuration float64 `json:"estimated_duration"`
}

func (s *Server) handleSynthesize(w http.ResponseWriter, r *http.Request) {
	var req synthesizeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "text is required")
		return
	}
	if strings.TrimSpace(req.SessionID) == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "session_id is required")
		return
	}
	if req.Emotion != "" && !emotion.Known(req.Emotion) {
		respondError(w, http.StatusBadRequest, "invalid_emotion", "unknown emotion tag")
		return
	}

	user := s.resolver.Resolve(r.Context(), bearerToken(r))
	sess, err := s.sessions.GetOrCreate(req.SessionID, user)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "session_create_failed", err.Error())
		return
	}

	tone := emotion.Tone(req.Emotion)
	if tone == "" {
		tone = sess.Config().VoiceEmotion
	}
	if tone == "" {
		tone = emotion.Detect(req.Text)
	}

	start := time.Now()
	out, err := sess.Output().Synthesize(r.Context(), req.Text, tone)
	s.metrics.ObserveSynthesis(time.Since(start))
	if err != nil {
		if errors.Is(err, voice.ErrAllProvidersFailed) {
			s.metrics.ProviderErrors.WithLabelValues("all", "tts").Inc()
			respondError(w, http.StatusBadGateway, "synthesis_unavailable", "all speech providers failed")
			return
		}
		respondError(w, http.StatusInternalServerError, "synthesis_failed", err.Error())
		return
	}
	if out.Provider != "openai" {
		s.metrics.VoiceFallbacks.WithLabelValues("tts", out.Provider).Inc()
	}

	respondJSON(w, http.StatusOK, synthesizeResponse{
		SessionID:         sess.ID(),
		AudioData:         base64.StdEncoding.EncodeToString(out.Data),
		AudioFormat:       out.Format,
		Emotion:           string(tone),
		Provider:          out.Provider,
		EstimatedDuration: out.DurationSec,
	})
}

type transcribeResponse struct {
	SessionID     string `json:"session_id"`
	Transcription string `json:"transcription"`
	Status        string `json:"status"`
}

func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(16 << 20); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	sessionID := strings.TrimSpace(r.FormValue("session_id"))
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "session_id is required")
		return
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "audio file is required")
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	user := s.resolver.Resolve(r.Context(), bearerToken(r))
	sess, err := s.sessions.GetOrCreate(sessionID, user)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "session_create_failed", err.Error())
		return
	}

	start := time.Now()
	text, err := sess.Input().Transcribe(r.Context(), data, header.Filename)
	s.metrics.ObserveTranscription(time.Since(start))
	if err != nil {
		if errors.Is(err, voice.ErrAudioTooShort) {
			respondJSON(w, http.StatusOK, transcribeResponse{
				SessionID: sess.ID(),
				Status:    "no_audio_data",
			})
			return
		}
		respondError(w, http.StatusInternalServerError, "transcription_failed", err.Error())
		return
	}

	status := "success"
	if text == voice.FallbackTranscript {
		status = "fallback"
		s.metrics.ProviderErrors.WithLabelValues("all", "stt").Inc()
	}
	respondJSON(w, http.StatusOK, transcribeResponse{
		SessionID:     sess.ID(),
		Transcription: text,
		Status:        status,
	})
}
