package reflink

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestTokenRoundTrip(t *testing.T) {
	s := NewSigner("super-secret", 0)
	hciID := uuid.New()
	jobID := uuid.New()

	token := s.Generate(hciID, jobID)
	link, err := s.Validate(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if link.HyperconnectorID != hciID {
		t.Fatalf("hci id=%v, want %v", link.HyperconnectorID, hciID)
	}
	if link.JobID != jobID {
		t.Fatalf("job id=%v, want %v", link.JobID, jobID)
	}
	if link.IssuedAt.IsZero() {
		t.Fatalf("issued_at should be set")
	}
}

func TestTokenForgery(t *testing.T) {
	s := NewSigner("super-secret", 0)
	token := s.Generate(uuid.New(), uuid.New())

	// Wrong secret.
	if _, err := NewSigner("other-secret", 0).Validate(token); !errors.Is(err, ErrTokenForged) {
		t.Fatalf("wrong secret: got %v, want ErrTokenForged", err)
	}

	// Tampered payload pointing at a different job.
	hash, encoded, _ := strings.Cut(token, ".")
	raw, _ := base64.RawURLEncoding.DecodeString(encoded)
	parts := strings.Split(string(raw), ":")
	parts[1] = uuid.New().String()
	tampered := hash + "." + base64.RawURLEncoding.EncodeToString([]byte(strings.Join(parts, ":")))
	if _, err := s.Validate(tampered); !errors.Is(err, ErrTokenForged) {
		t.Fatalf("tampered payload: got %v, want ErrTokenForged", err)
	}
}

func TestTokenMalformed(t *testing.T) {
	s := NewSigner("super-secret", 0)

	cases := []struct {
		name, token string
	}{
		{"empty", ""},
		{"no separator", "abcdef"},
		{"short hash", "abc." + base64.RawURLEncoding.EncodeToString([]byte("x:y:1"))},
		{"bad base64", strings.Repeat("a", 32) + ".!!!"},
		{"bad uuid", strings.Repeat("a", 32) + "." + base64.RawURLEncoding.EncodeToString([]byte("x:y:1"))},
	}
	for _, tc := range cases {
		_, err := s.Validate(tc.token)
		if !errors.Is(err, ErrTokenMalformed) && !errors.Is(err, ErrTokenForged) {
			t.Fatalf("%s: got %v, want malformed or forged", tc.name, err)
		}
	}
}

func TestTokenExpiry(t *testing.T) {
	s := NewSigner("super-secret", 0)

	issued := time.Now().Add(-MaxAge - time.Hour)
	s.now = func() time.Time { return issued }
	token := s.Generate(uuid.New(), uuid.New())

	s.now = time.Now
	if _, err := s.Validate(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("got %v, want ErrTokenExpired", err)
	}

	// Just inside the window still validates.
	s.now = func() time.Time { return time.Now().Add(-MaxAge + time.Hour) }
	fresh := s.Generate(uuid.New(), uuid.New())
	s.now = time.Now
	if _, err := s.Validate(fresh); err != nil {
		t.Fatalf("token inside the window rejected: %v", err)
	}
}

func TestTokenExpiry_ConfiguredWindow(t *testing.T) {
	s := NewSigner("super-secret", time.Hour)

	s.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	stale := s.Generate(uuid.New(), uuid.New())

	s.now = time.Now
	if _, err := s.Validate(stale); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("got %v, want ErrTokenExpired after the configured hour", err)
	}

	fresh := s.Generate(uuid.New(), uuid.New())
	if _, err := s.Validate(fresh); err != nil {
		t.Fatalf("fresh token rejected: %v", err)
	}
}

func TestBuildURL(t *testing.T) {
	cases := []struct {
		base, want string
	}{
		{"https://refer.example.com", "https://refer.example.com/recommend/tok"},
		{"refer.example.com/", "https://refer.example.com/recommend/tok"},
		{"localhost:3000", "http://localhost:3000/recommend/tok"},
		{"127.0.0.1:3000", "http://127.0.0.1:3000/recommend/tok"},
		{"http://refer.example.com", "http://refer.example.com/recommend/tok"},
	}
	for _, tc := range cases {
		if got := BuildURL(tc.base, "tok"); got != tc.want {
			t.Fatalf("base=%q: got %q, want %q", tc.base, got, tc.want)
		}
	}
}
