package voice

import "context"

// StubSynthesizer implements Synthesizer with an injected func for tests.
type StubSynthesizer struct {
	NameValue   string
	AttemptFunc func(ctx context.Context, req SynthesisRequest) (*Audio, error)
	Calls       int
}

func (s *StubSynthesizer) Name() string { return s.NameValue }

func (s *StubSynthesizer) Attempt(ctx context.Context, req SynthesisRequest) (*Audio, error) {
	s.Calls++
	return s.AttemptFunc(ctx, req)
}

// StubTranscriber implements Transcriber with an injected func for tests.
type StubTranscriber struct {
	NameValue   string
	AttemptFunc func(ctx context.Context, req TranscriptionRequest) (string, error)
	Calls       int
}

func (s *StubTranscriber) Name() string { return s.NameValue }

func (s *StubTranscriber) Attempt(ctx context.Context, req TranscriptionRequest) (string, error) {
	s.Calls++
	return s.AttemptFunc(ctx, req)
}
