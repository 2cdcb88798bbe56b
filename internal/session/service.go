package session

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

// Service issues anonymous session identities. The session id is only a
// customerId stamp on orders; it carries no authorization semantics.
type Service struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration
}

type entry struct {
	sessionID string
	expiresAt time.Time
}

func New() *Service {
	return &Service{
		entries: make(map[string]entry),
		ttl:     30 * 24 * time.Hour,
	}
}

// Issue creates a new anonymous session and its bearer token.
func (s *Service) Issue() (sessionID, token string, err error) {
	token, err = randomToken()
	if err != nil {
		return "", "", err
	}
	sessionID = uuid.NewString()

	s.mu.Lock()
	s.entries[token] = entry{sessionID: sessionID, expiresAt: time.Now().Add(s.ttl)}
	s.mu.Unlock()
	return sessionID, token, nil
}

// Lookup resolves a bearer token to its session id. Use slides the expiry
// forward.
func (s *Service) Lookup(token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[token]
	if !ok {
		return "", ErrInvalidToken
	}
	if time.Now().After(e.expiresAt) {
		delete(s.entries, token)
		return "", ErrInvalidToken
	}
	e.expiresAt = time.Now().Add(s.ttl)
	s.entries[token] = e
	return e.sessionID, nil
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
