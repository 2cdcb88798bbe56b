package catalog

import (
	"context"
	"io"
	"log"
	"sync"
	"time"

	"construapp/internal/domain"
)

// Subscription is one live feed of catalog-changed notifications.
type Subscription interface {
	Events() <-chan struct{}
	Close() error
}

// SubscribeFunc opens a Subscription against the change bus.
type SubscribeFunc func(ctx context.Context) (Subscription, error)

type productLister interface {
	ListByApp(ctx context.Context, appID string) ([]domain.Product, error)
}

// Status describes the health of the sync loop for the status endpoint.
type Status struct {
	Connected  bool      `json:"connected"`
	LastError  string    `json:"lastError,omitempty"`
	LastSyncAt time.Time `json:"lastSyncAt"`
	Seeded     bool      `json:"seeded"`
}

// Sync keeps a Mirror aligned with the remote product collection. On every
// bus notification it re-reads the full collection and replaces the mirror
// contents. An empty collection triggers the bootstrap seeder and installs
// the fallback list optimistically, without waiting for the seed writes to
// round-trip.
type Sync struct {
	appID     string
	repo      productLister
	subscribe SubscribeFunc
	seed      func(ctx context.Context) error
	fallback  []domain.Product
	mirror    *Mirror
	logger    *log.Logger
	retryWait time.Duration

	mu     sync.Mutex
	status Status

	stopOnce sync.Once
	stop     chan struct{}
}

func NewSync(appID string, repo productLister, subscribe SubscribeFunc, seed func(ctx context.Context) error, fallback []domain.Product, mirror *Mirror, logger *log.Logger) *Sync {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Sync{
		appID:     appID,
		repo:      repo,
		subscribe: subscribe,
		seed:      seed,
		fallback:  fallback,
		mirror:    mirror,
		logger:    logger,
		retryWait: 5 * time.Second,
		stop:      make(chan struct{}),
	}
}

// Run drives the sync loop until the context is cancelled or Stop is called.
// The bus subscription is released exactly once on the way out.
func (s *Sync) Run(ctx context.Context) error {
	s.refresh(ctx)

	if s.subscribe == nil {
		// No change bus configured: serve the initial snapshot until told
		// to stop.
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.stop:
			return nil
		}
	}

	for {
		sub, err := s.subscribe(ctx)
		if err != nil {
			s.setError(err)
			s.logger.Printf("catalog sync: subscribe failed, retrying: %v", err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-s.stop:
				return nil
			case <-time.After(s.retryWait):
				continue
			}
		}

		s.setConnected(true)
		// The store may have changed between the initial read and the
		// subscription taking effect.
		s.refresh(ctx)

		if done := s.consume(ctx, sub); done {
			return ctx.Err()
		}
		s.setConnected(false)
	}
}

// Stop tears the loop down; safe to call more than once.
func (s *Sync) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// Status reports the current sync health.
func (s *Sync) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// consume drains subscription events until shutdown or the feed closes.
// It reports whether the loop should exit for good.
func (s *Sync) consume(ctx context.Context, sub Subscription) bool {
	defer sub.Close()
	for {
		select {
		case <-ctx.Done():
			return true
		case <-s.stop:
			return true
		case _, ok := <-sub.Events():
			if !ok {
				s.logger.Printf("catalog sync: subscription closed, resubscribing")
				return false
			}
			s.refresh(ctx)
		}
	}
}

// refresh re-reads the full collection. On error the last good snapshot is
// kept in place.
func (s *Sync) refresh(ctx context.Context) {
	products, err := s.repo.ListByApp(ctx, s.appID)
	if err != nil {
		s.setError(err)
		s.logger.Printf("catalog sync: refresh failed, keeping last snapshot: %v", err)
		return
	}

	if len(products) == 0 {
		s.bootstrap(ctx)
		return
	}

	s.mirror.Replace(products)
	s.setSynced()
}

// bootstrap handles the empty-store case: the fallback list is installed
// locally first, so clients see products before the seed writes round-trip.
// The seeder is merge-write idempotent, so observing emptiness twice is
// harmless.
func (s *Sync) bootstrap(ctx context.Context) {
	s.mirror.Replace(s.fallback)
	s.setSynced()

	if s.seed == nil {
		return
	}
	s.mu.Lock()
	s.status.Seeded = true
	s.mu.Unlock()

	if err := s.seed(ctx); err != nil {
		s.setError(err)
		s.logger.Printf("catalog sync: seed fallback catalog: %v", err)
	}
}

func (s *Sync) setConnected(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.Connected = v
	if v {
		s.status.LastError = ""
	}
}

func (s *Sync) setError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.LastError = err.Error()
}

func (s *Sync) setSynced() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.LastSyncAt = time.Now().UTC()
	s.status.LastError = ""
}
