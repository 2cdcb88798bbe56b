package admin

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"io"
	"log"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"construapp/internal/domain"
)

var (
	// ErrIncorrectPIN is returned when the login PIN does not match.
	ErrIncorrectPIN = errors.New("incorrect PIN")
	// ErrInvalidToken indicates a missing, expired, or revoked admin token.
	ErrInvalidToken = errors.New("invalid token")
)

type priceWriter interface {
	SetPrice(ctx context.Context, appID, id string, priceCents int64) error
}

type changePublisher interface {
	PublishCatalogChanged(ctx context.Context) error
}

// Service gates the price editor behind a shared PIN. The PIN is a usability
// gate for a shared storefront demo, not an authorization boundary; real
// deployments put per-admin credentials in front of it.
type Service struct {
	appID  string
	pin    string
	repo   priceWriter
	pub    changePublisher
	logger *log.Logger
	ttl    time.Duration

	mu     sync.Mutex
	tokens map[string]time.Time
}

func New(appID, pin string, repo priceWriter, pub changePublisher, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		appID:  appID,
		pin:    pin,
		repo:   repo,
		pub:    pub,
		logger: logger,
		ttl:    12 * time.Hour,
		tokens: make(map[string]time.Time),
	}
}

// Login compares the PIN in constant time and issues an opaque admin token.
func (s *Service) Login(pin string) (string, error) {
	if subtle.ConstantTimeCompare([]byte(pin), []byte(s.pin)) != 1 {
		return "", ErrIncorrectPIN
	}
	token, err := randomToken()
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	s.tokens[token] = time.Now().Add(s.ttl)
	s.mu.Unlock()
	s.logger.Printf("admin: mode granted")
	return token, nil
}

// Authorize validates an admin token, expiring it lazily.
func (s *Service) Authorize(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	expires, ok := s.tokens[token]
	if !ok {
		return ErrInvalidToken
	}
	if time.Now().After(expires) {
		delete(s.tokens, token)
		return ErrInvalidToken
	}
	return nil
}

// Logout revokes the token; unknown tokens are a no-op.
func (s *Service) Logout(token string) {
	s.mu.Lock()
	delete(s.tokens, token)
	s.mu.Unlock()
}

// SetPrice parses the raw input as a currency amount and merge-writes only
// the price field of the product document. Empty, non-numeric, or negative
// input is rejected with a validation error rather than coerced to zero.
// The local mirror is not mutated here: the catalog-changed notification
// published after a successful write refreshes it from the store, so a
// failed write leaves no local/remote divergence.
func (s *Service) SetPrice(ctx context.Context, id, raw string) (int64, error) {
	cents, err := parsePriceCents(raw)
	if err != nil {
		return 0, err
	}

	if err := s.repo.SetPrice(ctx, s.appID, id, cents); err != nil {
		return 0, err
	}
	s.logger.Printf("admin: price updated id=%s cents=%d", id, cents)

	if s.pub != nil {
		if err := s.pub.PublishCatalogChanged(ctx); err != nil {
			// The write landed; mirrors catch up on the next notification.
			s.logger.Printf("admin: publish catalog changed: %v", err)
		}
	}
	return cents, nil
}

func parsePriceCents(raw string) (int64, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, &domain.ValidationError{Message: "price is required"}
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &domain.ValidationError{Message: "price must be a number"}
	}
	if v < 0 {
		return 0, &domain.ValidationError{Message: "price must not be negative"}
	}
	return int64(math.Round(v * 100)), nil
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
