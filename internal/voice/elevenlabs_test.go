package voice

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestDirectSynthesisRetriesRetryableStatus(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("mp3-bytes"))
	}))
	defer srv.Close()

	s := newElevenLabsDirect("key", srv.URL, "", testSpool(t))
	s.retryWait = time.Millisecond

	audio, err := s.Attempt(context.Background(), SynthesisRequest{Text: "hello"})
	if err != nil {
		t.Fatalf("Attempt: %v", err)
	}
	if string(audio.Data) != "mp3-bytes" {
		t.Fatalf("Data = %q, want mp3-bytes", audio.Data)
	}
	if got := calls.Load(); got != 3 {
		t.Fatalf("server calls = %d, want 3", got)
	}
}

func TestDirectSynthesisDoesNotRetryClientError(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	s := newElevenLabsDirect("key", srv.URL, "", testSpool(t))
	s.retryWait = time.Millisecond

	if _, err := s.Attempt(context.Background(), SynthesisRequest{Text: "hello"}); err == nil {
		t.Fatal("Attempt succeeded, want 401 error")
	} else if !strings.Contains(err.Error(), "401") {
		t.Fatalf("error = %v, want status 401", err)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("server calls = %d, want 1 (no retry on 4xx)", got)
	}
}

func TestDirectSynthesisGivesUpAfterBoundedAttempts(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	s := newElevenLabsDirect("key", srv.URL, "", testSpool(t))
	s.retryWait = time.Millisecond

	if _, err := s.Attempt(context.Background(), SynthesisRequest{Text: "hello"}); err == nil {
		t.Fatal("Attempt succeeded, want exhaustion error")
	}
	if got := calls.Load(); got != maxHTTPAttempts {
		t.Fatalf("server calls = %d, want %d", got, maxHTTPAttempts)
	}
}

func TestTranscriberRetriesRetryableStatus(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 2 {
			http.Error(w, "slow down", http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text":"hello there"}`))
	}))
	defer srv.Close()

	// A bogus ffmpeg path makes the transcode fail fast; the original
	// bytes are sent instead.
	tr := newElevenLabsTranscriber("key", srv.URL, "/nonexistent/ffmpeg", testSpool(t))
	tr.retryWait = time.Millisecond

	text, err := tr.Attempt(context.Background(), TranscriptionRequest{Data: []byte("fake-audio-bytes")})
	if err != nil {
		t.Fatalf("Attempt: %v", err)
	}
	if text != "hello there" {
		t.Fatalf("text = %q, want %q", text, "hello there")
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("server calls = %d, want 2", got)
	}
}
