package identity

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type stubProfiles struct {
	profile *Profile
	err     error
	subject string
}

func (s *stubProfiles) ProfileBySubject(_ context.Context, subject string) (*Profile, error) {
	s.subject = subject
	return s.profile, s.err
}

func quietResolver(profiles ProfileSource) *Resolver {
	r := NewResolver(profiles, log.New(io.Discard, "", 0))
	r.now = func() time.Time { return time.Unix(1700000000, 0) }
	return r
}

func TestResolveEmptyTokenIsAnonymous(t *testing.T) {
	r := quietResolver(nil)
	if id := r.Resolve(context.Background(), ""); id != nil {
		t.Fatalf("Resolve(\"\") = %+v, want nil", id)
	}
	if id := r.Resolve(context.Background(), "   "); id != nil {
		t.Fatalf("Resolve(blank) = %+v, want nil", id)
	}
}

func TestResolveDemoTokenWithNumericID(t *testing.T) {
	r := quietResolver(nil)
	id := r.Resolve(context.Background(), "demo_token_alice_42")
	if id == nil {
		t.Fatal("Resolve returned nil for demo token")
	}
	if id.Username != "alice" {
		t.Fatalf("Username = %q, want %q", id.Username, "alice")
	}
	if id.ID != "42" {
		t.Fatalf("ID = %q, want %q", id.ID, "42")
	}
	if id.Email != "alice@demo.local" {
		t.Fatalf("Email = %q, want %q", id.Email, "alice@demo.local")
	}
}

func TestResolveDemoTokenWithoutID(t *testing.T) {
	r := quietResolver(nil)
	id := r.Resolve(context.Background(), "demo_token_bob")
	if id == nil {
		t.Fatal("Resolve returned nil for demo token")
	}
	if id.Username != "bob" {
		t.Fatalf("Username = %q, want %q", id.Username, "bob")
	}
	if id.ID != "1700000000" {
		t.Fatalf("ID = %q, want time-derived %q", id.ID, "1700000000")
	}
}

func TestResolveDemoTokenMalformedTailDegrades(t *testing.T) {
	r := quietResolver(nil)
	id := r.Resolve(context.Background(), "demo_token_carol_notanumber")
	if id == nil {
		t.Fatal("Resolve returned nil for demo token")
	}
	if id.Username != "carol" {
		t.Fatalf("Username = %q, want %q", id.Username, "carol")
	}
	if id.ID != "1700000000" {
		t.Fatalf("ID = %q, want time-derived fallback", id.ID)
	}
}

func TestResolveVerifiedTokenLooksUpProfile(t *testing.T) {
	profiles := &stubProfiles{profile: &Profile{Subject: "u-1", Username: "dana", Email: "dana@example.com"}}
	r := quietResolver(profiles)

	token := signedTestToken(t, "u-1")
	id := r.Resolve(context.Background(), token)
	if id == nil {
		t.Fatal("Resolve returned nil for verified token")
	}
	if profiles.subject != "u-1" {
		t.Fatalf("lookup subject = %q, want %q", profiles.subject, "u-1")
	}
	if id.Username != "dana" || id.Email != "dana@example.com" {
		t.Fatalf("identity = %+v, want profile fields", id)
	}
}

func TestResolveProviderFailureIsAnonymous(t *testing.T) {
	profiles := &stubProfiles{err: errors.New("store down")}
	r := quietResolver(profiles)

	if id := r.Resolve(context.Background(), signedTestToken(t, "u-2")); id != nil {
		t.Fatalf("Resolve = %+v, want nil on lookup failure", id)
	}
	if id := r.Resolve(context.Background(), "not-a-jwt"); id != nil {
		t.Fatalf("Resolve = %+v, want nil for garbage token", id)
	}
}

func TestRequireConvertsAbsentToError(t *testing.T) {
	r := quietResolver(nil)

	if _, err := r.Require(context.Background(), ""); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("Require error = %v, want ErrUnauthenticated", err)
	}

	id, err := r.Require(context.Background(), "demo_token_alice_42")
	if err != nil {
		t.Fatalf("Require error = %v", err)
	}
	if id.Username != "alice" {
		t.Fatalf("Username = %q, want %q", id.Username, "alice")
	}
}

func TestAnonymous(t *testing.T) {
	var id *Identity
	if !id.Anonymous() {
		t.Fatal("nil identity should be anonymous")
	}
	if (&Identity{ID: "u-1", Username: "alice"}).Anonymous() {
		t.Fatal("resolved identity should not be anonymous")
	}
}

func signedTestToken(t *testing.T, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": subject})
	s, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign test token: %v", err)
	}
	return s
}
