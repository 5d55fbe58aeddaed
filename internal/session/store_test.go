package session

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/samaira-ai/samaira/internal/emotion"
	"github.com/samaira-ai/samaira/internal/identity"
	"github.com/samaira-ai/samaira/internal/therapy"
)

type nopCompleter struct{}

func (nopCompleter) Complete(_ context.Context, _ []therapy.Message) (string, error) {
	return "ok", nil
}

func testFactory(created *atomic.Int64) Factory {
	return func(sessionID string, mode therapy.Mode) (*Bundle, error) {
		if created != nil {
			created.Add(1)
		}
		engine := therapy.NewEngine(therapy.EngineConfig{
			SessionID: sessionID,
			Completer: nopCompleter{},
			Logger:    log.New(io.Discard, "", 0),
			Mode:      mode,
		})
		return &Bundle{Engine: engine}, nil
	}
}

func newTestStore(created *atomic.Int64) *Store {
	return NewStore(testFactory(created), nil, log.New(io.Discard, "", 0))
}

func TestGetOrCreateReturnsSameSession(t *testing.T) {
	s := newTestStore(nil)

	first, err := s.GetOrCreate("abc", nil)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	second, err := s.GetOrCreate("abc", nil)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if first != second {
		t.Fatal("GetOrCreate returned distinct sessions for the same id")
	}
	if first.ID() != "abc" {
		t.Fatalf("ID = %q, want abc", first.ID())
	}
	if first.CreatedAt().IsZero() {
		t.Fatal("CreatedAt not set")
	}
}

func TestGetOrCreateConcurrentSingleEngine(t *testing.T) {
	var created atomic.Int64
	s := newTestStore(&created)

	const goroutines = 32
	sessions := make([]*Session, goroutines)
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sess, err := s.GetOrCreate("shared", nil)
			if err != nil {
				t.Errorf("GetOrCreate: %v", err)
				return
			}
			sessions[i] = sess
		}(i)
	}
	wg.Wait()

	if created.Load() != 1 {
		t.Fatalf("factory invoked %d times for one unseen id, want 1", created.Load())
	}
	for i := 1; i < goroutines; i++ {
		if sessions[i] != sessions[0] {
			t.Fatal("concurrent callers observed distinct sessions")
		}
	}
}

func TestCreateGeneratesDistinctIDs(t *testing.T) {
	s := newTestStore(nil)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		sess, err := s.Create(Config{PersonaMode: therapy.ModeDefault}, nil)
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if seen[sess.ID()] {
			t.Fatalf("duplicate session id %q", sess.ID())
		}
		seen[sess.ID()] = true
	}
}

func TestCreateAppliesPersonaMode(t *testing.T) {
	s := newTestStore(nil)

	sess, err := s.Create(Config{PersonaMode: therapy.ModeGenZ}, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if sess.Engine().Mode() != therapy.ModeGenZ {
		t.Fatalf("Mode = %q, want gen-z", sess.Engine().Mode())
	}
}

func TestCreateCarriesConfig(t *testing.T) {
	s := newTestStore(nil)

	cfg := Config{
		PersonaMode:  therapy.ModeMillennial,
		VoiceEnabled: true,
		VoiceEmotion: emotion.Supportive,
		DisplayName:  "Sam",
	}
	sess, err := s.Create(cfg, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if sess.Config() != cfg {
		t.Fatalf("Config = %+v, want %+v", sess.Config(), cfg)
	}

	if err := s.SetPersonaMode(sess.ID(), therapy.ModeBoomer); err != nil {
		t.Fatalf("SetPersonaMode: %v", err)
	}
	if got := sess.Config(); got.PersonaMode != therapy.ModeBoomer || got.DisplayName != "Sam" {
		t.Fatalf("Config after mode switch = %+v", got)
	}
}

func TestConfigReadsDuringModeSwitch(t *testing.T) {
	s := newTestStore(nil)

	sess, err := s.Create(Config{PersonaMode: therapy.ModeDefault, VoiceEnabled: true}, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 500; i++ {
			if got := sess.Config(); !got.VoiceEnabled {
				t.Error("VoiceEnabled flipped during mode switch")
				return
			}
		}
	}()
	for i := 0; i < 500; i++ {
		if err := s.SetPersonaMode(sess.ID(), therapy.ModeGenZ); err != nil {
			t.Fatalf("SetPersonaMode: %v", err)
		}
	}
	<-done

	if got := sess.Config().PersonaMode; got != therapy.ModeGenZ {
		t.Fatalf("PersonaMode = %q, want gen-z", got)
	}
}

func TestEndRemovesSession(t *testing.T) {
	s := newTestStore(nil)

	sess, err := s.GetOrCreate("abc", nil)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if err := s.End(sess.ID()); err != nil {
		t.Fatalf("End: %v", err)
	}
	if _, err := s.Get("abc"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get after End = %v, want ErrNotFound", err)
	}
	if err := s.End("abc"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second End = %v, want ErrNotFound", err)
	}
}

func TestListSummaries(t *testing.T) {
	s := newTestStore(nil)

	if got := s.List(); len(got) != 0 {
		t.Fatalf("List on empty store = %d entries", len(got))
	}

	user := &identity.Identity{ID: "42", Username: "alice"}
	sess, err := s.GetOrCreate("abc", user)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	sess.Engine().Respond(context.Background(), "hello")

	got := s.List()
	if len(got) != 1 {
		t.Fatalf("List = %d entries, want 1", len(got))
	}
	if got[0].ID != "abc" || got[0].Username != "alice" || got[0].TurnCount != 2 {
		t.Fatalf("summary = %+v", got[0])
	}
}

func TestAttachIdentityOneWay(t *testing.T) {
	s := newTestStore(nil)

	if _, err := s.GetOrCreate("abc", nil); err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	user := &identity.Identity{ID: "1", Username: "alice"}
	if err := s.AttachIdentity("abc", user); err != nil {
		t.Fatalf("AttachIdentity: %v", err)
	}
	if err := s.AttachIdentity("abc", &identity.Identity{ID: "2", Username: "mallory"}); err != nil {
		t.Fatalf("AttachIdentity: %v", err)
	}

	sess, _ := s.Get("abc")
	if sess.Engine().User() != user {
		t.Fatal("identity downgraded after second attach")
	}

	if err := s.AttachIdentity("nope", user); !errors.Is(err, ErrNotFound) {
		t.Fatalf("AttachIdentity unknown id = %v, want ErrNotFound", err)
	}
}

func TestSetPersonaModePreservesIdentifier(t *testing.T) {
	s := newTestStore(nil)

	sess, err := s.GetOrCreate("abc", nil)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	created := sess.CreatedAt()

	if err := s.SetPersonaMode("abc", therapy.ModeBoomer); err != nil {
		t.Fatalf("SetPersonaMode: %v", err)
	}

	same, _ := s.Get("abc")
	if same.ID() != "abc" || !same.CreatedAt().Equal(created) {
		t.Fatal("id or creation timestamp changed on config mutation")
	}
	if same.Engine().Mode() != therapy.ModeBoomer {
		t.Fatalf("Mode = %q, want boomer", same.Engine().Mode())
	}

	if err := s.SetPersonaMode("nope", therapy.ModeDefault); !errors.Is(err, ErrNotFound) {
		t.Fatalf("SetPersonaMode unknown id = %v, want ErrNotFound", err)
	}
}

func TestFactoryFailurePropagates(t *testing.T) {
	s := NewStore(func(string, therapy.Mode) (*Bundle, error) {
		return nil, errors.New("pipeline construction failed")
	}, nil, log.New(io.Discard, "", 0))

	if _, err := s.GetOrCreate("abc", nil); err == nil {
		t.Fatal("GetOrCreate succeeded despite factory failure")
	}
	if _, err := s.Get("abc"); !errors.Is(err, ErrNotFound) {
		t.Fatal("failed creation left an entry in the store")
	}
}
