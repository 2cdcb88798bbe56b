package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"construapp/internal/domain"
)

type stubLister struct {
	results [][]domain.Product
	errs    []error
	calls   chan int
	n       int
}

func newStubLister() *stubLister {
	return &stubLister{calls: make(chan int, 16)}
}

func (s *stubLister) ListByApp(_ context.Context, _ string) ([]domain.Product, error) {
	i := s.n
	s.n++
	s.calls <- s.n
	var err error
	if i < len(s.errs) {
		err = s.errs[i]
	}
	if err != nil {
		return nil, err
	}
	var res []domain.Product
	if len(s.results) > 0 {
		idx := i
		if idx >= len(s.results) {
			idx = len(s.results) - 1
		}
		res = s.results[idx]
	}
	return res, nil
}

type stubSubscription struct {
	events chan struct{}
	closed chan struct{}
}

func newStubSubscription() *stubSubscription {
	return &stubSubscription{events: make(chan struct{}, 1), closed: make(chan struct{}, 1)}
}

func (s *stubSubscription) Events() <-chan struct{} { return s.events }

func (s *stubSubscription) Close() error {
	s.closed <- struct{}{}
	return nil
}

func waitCall(t *testing.T, ch chan int) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a store read")
	}
}

func TestSyncRefreshReplacesMirror(t *testing.T) {
	lister := newStubLister()
	lister.results = [][]domain.Product{{{ID: "1", Name: "Cemento"}}}
	mirror := NewMirror()
	s := NewSync("app", lister, nil, nil, nil, mirror, nil)

	s.refresh(context.Background())

	snap := mirror.Snapshot()
	if len(snap) != 1 || snap[0].ID != "1" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	st := s.Status()
	if st.LastSyncAt.IsZero() || st.LastError != "" || st.Seeded {
		t.Fatalf("unexpected status: %+v", st)
	}
}

func TestSyncEmptyStoreBootstraps(t *testing.T) {
	lister := newStubLister()
	fallback := []domain.Product{{ID: "1", Name: "Cemento"}, {ID: "2", Name: "Varilla"}}
	mirror := NewMirror()

	seedCalls := 0
	var seenBeforeSeed int
	seed := func(context.Context) error {
		seedCalls++
		// The fallback list must already be visible when seeding starts.
		seenBeforeSeed = len(mirror.Snapshot())
		return nil
	}
	s := NewSync("app", lister, nil, seed, fallback, mirror, nil)

	s.refresh(context.Background())

	if seedCalls != 1 {
		t.Fatalf("expected one seed run, got %d", seedCalls)
	}
	if seenBeforeSeed != 2 {
		t.Fatalf("expected fallback installed before seeding, saw %d products", seenBeforeSeed)
	}
	if !s.Status().Seeded {
		t.Fatal("expected seeded status")
	}
}

func TestSyncRefreshErrorKeepsLastSnapshot(t *testing.T) {
	lister := newStubLister()
	lister.results = [][]domain.Product{{{ID: "1"}}, nil}
	lister.errs = []error{nil, errors.New("store down")}
	mirror := NewMirror()
	s := NewSync("app", lister, nil, nil, nil, mirror, nil)

	s.refresh(context.Background())
	s.refresh(context.Background())

	if snap := mirror.Snapshot(); len(snap) != 1 || snap[0].ID != "1" {
		t.Fatalf("expected last good snapshot kept, got %+v", snap)
	}
	if s.Status().LastError != "store down" {
		t.Fatalf("unexpected status: %+v", s.Status())
	}
}

func TestSyncRunReReadsOnEvents(t *testing.T) {
	lister := newStubLister()
	lister.results = [][]domain.Product{{{ID: "1"}}}
	mirror := NewMirror()
	sub := newStubSubscription()
	subscribe := func(context.Context) (Subscription, error) { return sub, nil }
	s := NewSync("app", lister, subscribe, nil, nil, mirror, nil)

	done := make(chan error, 1)
	go func() { done <- s.Run(context.Background()) }()

	// Initial refresh plus the post-subscribe one.
	waitCall(t, lister.calls)
	waitCall(t, lister.calls)

	sub.events <- struct{}{}
	waitCall(t, lister.calls)

	s.Stop()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for shutdown")
	}
	select {
	case <-sub.closed:
	case <-time.After(2 * time.Second):
		t.Fatal("expected subscription closed on shutdown")
	}
}

func TestSyncRunRetriesFailedSubscribe(t *testing.T) {
	lister := newStubLister()
	lister.results = [][]domain.Product{{{ID: "1"}}}
	mirror := NewMirror()
	sub := newStubSubscription()

	attempts := 0
	subscribe := func(context.Context) (Subscription, error) {
		attempts++
		if attempts == 1 {
			return nil, errors.New("bus down")
		}
		return sub, nil
	}
	s := NewSync("app", lister, subscribe, nil, nil, mirror, nil)
	s.retryWait = 10 * time.Millisecond

	done := make(chan error, 1)
	go func() { done <- s.Run(context.Background()) }()

	// Initial refresh, then the refresh after the second subscribe attempt
	// succeeds.
	waitCall(t, lister.calls)
	waitCall(t, lister.calls)

	if attempts != 2 {
		t.Fatalf("expected a retry, got %d attempts", attempts)
	}
	if !s.Status().Connected {
		t.Fatal("expected connected status after retry")
	}

	s.Stop()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for shutdown")
	}
}

func TestSyncRunResubscribesWhenFeedCloses(t *testing.T) {
	lister := newStubLister()
	lister.results = [][]domain.Product{{{ID: "1"}}}
	mirror := NewMirror()

	subs := make(chan *stubSubscription, 2)
	subscribe := func(context.Context) (Subscription, error) {
		sub := newStubSubscription()
		subs <- sub
		return sub, nil
	}
	s := NewSync("app", lister, subscribe, nil, nil, mirror, nil)

	done := make(chan error, 1)
	go func() { done <- s.Run(context.Background()) }()

	first := <-subs
	waitCall(t, lister.calls)
	waitCall(t, lister.calls)

	close(first.events)

	select {
	case <-subs:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a resubscribe after the feed closed")
	}

	s.Stop()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for shutdown")
	}
}

func TestSyncRunWithoutBusServesInitialSnapshot(t *testing.T) {
	lister := newStubLister()
	lister.results = [][]domain.Product{{{ID: "1"}}}
	mirror := NewMirror()
	s := NewSync("app", lister, nil, nil, nil, mirror, nil)

	done := make(chan error, 1)
	go func() { done <- s.Run(context.Background()) }()

	waitCall(t, lister.calls)
	if snap := mirror.Snapshot(); len(snap) != 1 {
		t.Fatalf("expected initial snapshot, got %+v", snap)
	}

	s.Stop()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for shutdown")
	}
}
