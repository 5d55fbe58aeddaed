package voice

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/samaira-ai/samaira/internal/emotion"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func testSpool(t *testing.T) *spool {
	t.Helper()
	sp, err := newSpool()
	if err != nil {
		t.Fatalf("newSpool: %v", err)
	}
	t.Cleanup(func() { sp.Close() })
	return sp
}

func TestSynthesizeFirstProviderWins(t *testing.T) {
	first := &StubSynthesizer{NameValue: "a", AttemptFunc: func(_ context.Context, _ SynthesisRequest) (*Audio, error) {
		return &Audio{Data: []byte("audio-a")}, nil
	}}
	second := &StubSynthesizer{NameValue: "b", AttemptFunc: func(_ context.Context, _ SynthesisRequest) (*Audio, error) {
		t.Fatal("second provider called after first succeeded")
		return nil, nil
	}}
	p := newOutputPipeline([]Synthesizer{first, second}, testSpool(t), time.Second, testLogger())

	out, err := p.Synthesize(context.Background(), "hello there my friend", emotion.Calm)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if out.Provider != "a" {
		t.Fatalf("Provider = %q, want a", out.Provider)
	}
	if out.Format != "mp3" {
		t.Fatalf("Format = %q, want default mp3", out.Format)
	}
	if out.DurationSec < 1 {
		t.Fatalf("DurationSec = %v, want estimated duration", out.DurationSec)
	}
}

func TestSynthesizeFallsThroughFailures(t *testing.T) {
	first := &StubSynthesizer{NameValue: "a", AttemptFunc: func(_ context.Context, _ SynthesisRequest) (*Audio, error) {
		return nil, errors.New("quota")
	}}
	second := &StubSynthesizer{NameValue: "b", AttemptFunc: func(_ context.Context, _ SynthesisRequest) (*Audio, error) {
		return &Audio{Data: nil}, nil // no usable audio also advances the chain
	}}
	third := &StubSynthesizer{NameValue: "c", AttemptFunc: func(_ context.Context, _ SynthesisRequest) (*Audio, error) {
		return &Audio{Data: []byte("audio-c"), Format: "wav"}, nil
	}}
	p := newOutputPipeline([]Synthesizer{first, second, third}, testSpool(t), time.Second, testLogger())

	out, err := p.Synthesize(context.Background(), "hello", emotion.Calm)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if out.Provider != "c" || out.Format != "wav" {
		t.Fatalf("out = %+v, want third provider's audio", out)
	}
	if first.Calls != 1 || second.Calls != 1 || third.Calls != 1 {
		t.Fatalf("calls = %d, %d, %d; want 1 each", first.Calls, second.Calls, third.Calls)
	}
}

func TestSynthesizeAllFailLeavesNoFiles(t *testing.T) {
	sp := testSpool(t)
	fail := func(_ context.Context, _ SynthesisRequest) (*Audio, error) {
		// Simulate a provider that spools partial output before failing.
		if _, err := sp.capture("partial-*.mp3", strings.NewReader("partial")); err != nil {
			return nil, err
		}
		return nil, errors.New("provider down")
	}
	steps := []Synthesizer{
		&StubSynthesizer{NameValue: "a", AttemptFunc: fail},
		&StubSynthesizer{NameValue: "b", AttemptFunc: fail},
		&StubSynthesizer{NameValue: "c", AttemptFunc: fail},
	}
	p := newOutputPipeline(steps, sp, time.Second, testLogger())

	_, err := p.Synthesize(context.Background(), "hello", emotion.Calm)
	if !errors.Is(err, ErrAllProvidersFailed) {
		t.Fatalf("err = %v, want ErrAllProvidersFailed", err)
	}

	left, err := sp.leftovers()
	if err != nil {
		t.Fatalf("leftovers: %v", err)
	}
	if len(left) != 0 {
		t.Fatalf("spool contains %v after total failure, want empty", left)
	}
}

func TestSynthesizeInfersToneWhenEmpty(t *testing.T) {
	var gotTone emotion.Tone
	step := &StubSynthesizer{NameValue: "a", AttemptFunc: func(_ context.Context, req SynthesisRequest) (*Audio, error) {
		gotTone = req.Tone
		return &Audio{Data: []byte("x")}, nil
	}}
	p := newOutputPipeline([]Synthesizer{step}, testSpool(t), time.Second, testLogger())

	if _, err := p.Synthesize(context.Background(), "I'm sorry this is difficult", ""); err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if gotTone != emotion.Empathetic {
		t.Fatalf("tone = %q, want inferred empathetic", gotTone)
	}
}

func TestSynthesizeStopsOnCallerCancellation(t *testing.T) {
	first := &StubSynthesizer{NameValue: "a", AttemptFunc: func(_ context.Context, _ SynthesisRequest) (*Audio, error) {
		return nil, context.Canceled
	}}
	second := &StubSynthesizer{NameValue: "b", AttemptFunc: func(_ context.Context, _ SynthesisRequest) (*Audio, error) {
		return &Audio{Data: []byte("x")}, nil
	}}
	p := newOutputPipeline([]Synthesizer{first, second}, testSpool(t), time.Second, testLogger())

	if _, err := p.Synthesize(context.Background(), "hello", emotion.Calm); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if second.Calls != 0 {
		t.Fatal("chain advanced past caller cancellation")
	}
}

func TestSynthesizeRejectsEmptyText(t *testing.T) {
	step := &StubSynthesizer{NameValue: "a", AttemptFunc: func(_ context.Context, _ SynthesisRequest) (*Audio, error) {
		return &Audio{Data: []byte("x")}, nil
	}}
	p := newOutputPipeline([]Synthesizer{step}, testSpool(t), time.Second, testLogger())

	if _, err := p.Synthesize(context.Background(), "   ", emotion.Calm); err == nil {
		t.Fatal("Synthesize accepted blank text")
	}
	if step.Calls != 0 {
		t.Fatal("provider called for blank text")
	}
}
