package session

import (
	"errors"
	"testing"
	"time"
)

func TestIssueAndLookup(t *testing.T) {
	svc := New()
	sessionID, token, err := svc.Issue()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sessionID == "" || token == "" {
		t.Fatalf("expected non-empty session id and token, got %q / %q", sessionID, token)
	}

	got, err := svc.Lookup(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != sessionID {
		t.Fatalf("expected session %q, got %q", sessionID, got)
	}
}

func TestLookupUnknownToken(t *testing.T) {
	svc := New()
	if _, err := svc.Lookup("nope"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token, got %v", err)
	}
}

func TestLookupExpiredToken(t *testing.T) {
	svc := New()
	_, token, err := svc.Issue()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	svc.mu.Lock()
	e := svc.entries[token]
	e.expiresAt = time.Now().Add(-time.Minute)
	svc.entries[token] = e
	svc.mu.Unlock()

	if _, err := svc.Lookup(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token, got %v", err)
	}
}

func TestLookupSlidesExpiry(t *testing.T) {
	svc := New()
	_, token, err := svc.Issue()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	svc.mu.Lock()
	e := svc.entries[token]
	e.expiresAt = time.Now().Add(time.Minute)
	svc.entries[token] = e
	svc.mu.Unlock()

	if _, err := svc.Lookup(token); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	svc.mu.Lock()
	slid := svc.entries[token].expiresAt
	svc.mu.Unlock()
	if !slid.After(time.Now().Add(time.Hour)) {
		t.Fatalf("expected expiry to slide forward, got %v", slid)
	}
}

func TestIssuedSessionsAreDistinct(t *testing.T) {
	svc := New()
	a, ta, err := svc.Issue()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, tb, err := svc.Issue()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a == b || ta == tb {
		t.Fatal("expected distinct sessions and tokens")
	}
}
