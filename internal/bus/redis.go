package bus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Bus carries catalog-changed and order-created notifications between
// connected clients over Redis pub/sub. Catalog messages have no payload:
// subscribers re-read the full collection on every notification, so a lost
// payload can never desynchronize them.
type Bus struct {
	client *redis.Client
	appID  string
	logger *log.Logger
}

// Connect parses the Redis URL, opens a client and verifies connectivity.
func Connect(ctx context.Context, redisURL, appID string, logger *log.Logger) (*Bus, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &Bus{client: client, appID: appID, logger: logger}, nil
}

func (b *Bus) Close() error {
	if b == nil {
		return nil
	}
	return b.client.Close()
}

func (b *Bus) catalogChannel() string {
	return "catalog.changed." + b.appID
}

func (b *Bus) orderChannel() string {
	return "order.created." + b.appID
}

// PublishCatalogChanged tells every subscriber to re-read the catalog.
// A nil Bus is a no-op so callers need not special-case a missing broker.
func (b *Bus) PublishCatalogChanged(ctx context.Context) error {
	if b == nil {
		return nil
	}
	pubCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := b.client.Publish(pubCtx, b.catalogChannel(), "changed").Err(); err != nil {
		return fmt.Errorf("publish catalog changed: %w", err)
	}
	return nil
}

// OrderCreated is the event published after an order document is written.
type OrderCreated struct {
	EventType  string    `json:"eventType"`
	OrderID    string    `json:"orderId"`
	CustomerID string    `json:"customerId"`
	TotalCents int64     `json:"totalCents"`
	Timestamp  time.Time `json:"timestamp"`
}

// PublishOrderCreated announces a new order for downstream consumers.
// A nil Bus is a no-op.
func (b *Bus) PublishOrderCreated(ctx context.Context, orderID, customerID string, totalCents int64) error {
	if b == nil {
		return nil
	}
	ev := OrderCreated{
		EventType:  "OrderCreated",
		OrderID:    orderID,
		CustomerID: customerID,
		TotalCents: totalCents,
		Timestamp:  time.Now().UTC(),
	}
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal OrderCreated: %w", err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := b.client.Publish(pubCtx, b.orderChannel(), body).Err(); err != nil {
		return fmt.Errorf("publish order created: %w", err)
	}
	return nil
}

// CatalogSubscription is one live subscription to catalog-changed messages.
// Close releases it; calling Close more than once is safe.
type CatalogSubscription struct {
	pubsub *redis.PubSub
	events chan struct{}
	once   sync.Once
}

// SubscribeCatalog opens a pub/sub subscription on the catalog channel.
// go-redis reconnects the underlying connection on failure; the events
// channel stays open until Close.
func (b *Bus) SubscribeCatalog(ctx context.Context) (*CatalogSubscription, error) {
	pubsub := b.client.Subscribe(ctx, b.catalogChannel())
	// Force the SUBSCRIBE round-trip so connection errors surface here.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("subscribe catalog: %w", err)
	}

	sub := &CatalogSubscription{
		pubsub: pubsub,
		events: make(chan struct{}, 1),
	}
	go func() {
		for range pubsub.Channel() {
			select {
			case sub.events <- struct{}{}:
			default:
				// A notification is already pending; subscribers re-read the
				// full collection, so coalescing is lossless.
			}
		}
		close(sub.events)
	}()
	return sub, nil
}

// Events delivers one value per (coalesced) catalog change.
func (s *CatalogSubscription) Events() <-chan struct{} {
	return s.events
}

func (s *CatalogSubscription) Close() error {
	var err error
	s.once.Do(func() {
		err = s.pubsub.Close()
	})
	return err
}
