package seed

import (
	"context"
	"errors"
	"testing"

	"construapp/internal/domain"
)

type stubWriter struct {
	err     error
	written []domain.Product
}

func (s *stubWriter) MergeUpsert(_ context.Context, p domain.Product) error {
	if s.err != nil {
		return s.err
	}
	s.written = append(s.written, p)
	return nil
}

type stubPublisher struct {
	err   error
	calls int
}

func (s *stubPublisher) PublishCatalogChanged(_ context.Context) error {
	s.calls++
	return s.err
}

func TestFallbackCatalog(t *testing.T) {
	products := Fallback("app")
	if len(products) != 4 {
		t.Fatalf("expected 4 fallback products, got %d", len(products))
	}
	for _, p := range products {
		if p.AppID != "app" {
			t.Fatalf("product %s: expected app scoping, got %q", p.ID, p.AppID)
		}
		if p.PriceCents == nil {
			t.Fatalf("product %s: expected a price", p.ID)
		}
		if p.Name == "" || p.Unit == "" || p.Category == "" {
			t.Fatalf("product %s: incomplete fields: %+v", p.ID, p)
		}
	}
	if products[0].Price() != 26000 || products[1].Price() != 18550 {
		t.Fatalf("unexpected prices: %d / %d", products[0].Price(), products[1].Price())
	}
}

func TestApplyWritesEveryProductOnce(t *testing.T) {
	repo := &stubWriter{}
	pub := &stubPublisher{}

	if err := Apply(context.Background(), "app", repo, pub, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.written) != len(Fallback("app")) {
		t.Fatalf("expected %d writes, got %d", len(Fallback("app")), len(repo.written))
	}
	if pub.calls != 1 {
		t.Fatalf("expected one publish after the batch, got %d", pub.calls)
	}
}

func TestApplyStopsOnWriteError(t *testing.T) {
	repo := &stubWriter{err: errors.New("boom")}
	pub := &stubPublisher{}

	err := Apply(context.Background(), "app", repo, pub, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if pub.calls != 0 {
		t.Fatalf("expected no publish after failed write, got %d", pub.calls)
	}
}

func TestApplyWithoutPublisher(t *testing.T) {
	if err := Apply(context.Background(), "app", &stubWriter{}, nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestApplyPublishFailureIsNotFatal(t *testing.T) {
	repo := &stubWriter{}
	pub := &stubPublisher{err: errors.New("bus down")}
	if err := Apply(context.Background(), "app", repo, pub, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
