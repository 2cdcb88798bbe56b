package admin

import (
	"context"
	"errors"
	"testing"
	"time"

	"construapp/internal/domain"
)

type stubPriceWriter struct {
	err       error
	calls     int
	lastAppID string
	lastID    string
	lastPrice int64
}

func (s *stubPriceWriter) SetPrice(_ context.Context, appID, id string, priceCents int64) error {
	s.calls++
	s.lastAppID = appID
	s.lastID = id
	s.lastPrice = priceCents
	return s.err
}

type stubPublisher struct {
	err   error
	calls int
}

func (s *stubPublisher) PublishCatalogChanged(_ context.Context) error {
	s.calls++
	return s.err
}

func TestLoginWrongPIN(t *testing.T) {
	svc := New("app", "1234", &stubPriceWriter{}, nil, nil)
	_, err := svc.Login("0000")
	if !errors.Is(err, ErrIncorrectPIN) {
		t.Fatalf("expected incorrect PIN, got %v", err)
	}
}

func TestLoginIssuesToken(t *testing.T) {
	svc := New("app", "1234", &stubPriceWriter{}, nil, nil)
	token, err := svc.Login("1234")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == "" {
		t.Fatal("expected a token")
	}
	if err := svc.Authorize(token); err != nil {
		t.Fatalf("expected token to authorize, got %v", err)
	}
}

func TestAuthorizeUnknownToken(t *testing.T) {
	svc := New("app", "1234", &stubPriceWriter{}, nil, nil)
	if err := svc.Authorize("nope"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token, got %v", err)
	}
}

func TestAuthorizeExpiredToken(t *testing.T) {
	svc := New("app", "1234", &stubPriceWriter{}, nil, nil)
	token, err := svc.Login("1234")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	svc.mu.Lock()
	svc.tokens[token] = time.Now().Add(-time.Minute)
	svc.mu.Unlock()
	if err := svc.Authorize(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token, got %v", err)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	svc := New("app", "1234", &stubPriceWriter{}, nil, nil)
	token, err := svc.Login("1234")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	svc.Logout(token)
	if err := svc.Authorize(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token after logout, got %v", err)
	}
}

func TestSetPriceWritesAndPublishes(t *testing.T) {
	repo := &stubPriceWriter{}
	pub := &stubPublisher{}
	svc := New("app", "1234", repo, pub, nil)

	cents, err := svc.SetPrice(context.Background(), "1", "260.00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cents != 26000 {
		t.Fatalf("expected 26000 cents, got %d", cents)
	}
	if repo.calls != 1 || repo.lastAppID != "app" || repo.lastID != "1" || repo.lastPrice != 26000 {
		t.Fatalf("unexpected write: %+v", repo)
	}
	if pub.calls != 1 {
		t.Fatalf("expected one publish, got %d", pub.calls)
	}
}

func TestSetPriceRejectsInvalidInput(t *testing.T) {
	repo := &stubPriceWriter{}
	svc := New("app", "1234", repo, nil, nil)

	for _, raw := range []string{"", "   ", "abc", "NaN", "Inf", "-5"} {
		_, err := svc.SetPrice(context.Background(), "1", raw)
		var verr *domain.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("input %q: expected validation error, got %v", raw, err)
		}
	}
	// Invalid input must never reach the store.
	if repo.calls != 0 {
		t.Fatalf("expected no writes, got %d", repo.calls)
	}
}

func TestSetPriceRepoError(t *testing.T) {
	repo := &stubPriceWriter{err: domain.ErrNotFound}
	pub := &stubPublisher{}
	svc := New("app", "1234", repo, pub, nil)

	_, err := svc.SetPrice(context.Background(), "missing", "10")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if pub.calls != 0 {
		t.Fatalf("expected no publish after failed write, got %d", pub.calls)
	}
}

func TestSetPricePublishFailureIsNotFatal(t *testing.T) {
	repo := &stubPriceWriter{}
	pub := &stubPublisher{err: errors.New("bus down")}
	svc := New("app", "1234", repo, pub, nil)

	if _, err := svc.SetPrice(context.Background(), "1", "10"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParsePriceCents(t *testing.T) {
	cases := []struct {
		raw  string
		want int64
	}{
		{"260", 26000},
		{"185.50", 18550},
		{"0", 0},
		{" 7.5 ", 750},
		{"0.005", 1},
	}
	for _, tc := range cases {
		got, err := parsePriceCents(tc.raw)
		if err != nil {
			t.Fatalf("input %q: unexpected error: %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("input %q: expected %d, got %d", tc.raw, tc.want, got)
		}
	}
}
