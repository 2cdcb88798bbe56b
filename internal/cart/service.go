package cart

import (
	"sync"
	"time"

	"construapp/internal/domain"
)

// Service keeps one in-memory cart per session. Carts are never persisted;
// checkout snapshots them into an order document and an explicit Reset is the
// only thing that empties them afterwards.
type Service struct {
	mu    sync.Mutex
	carts map[string][]domain.CartLine
}

func New() *Service {
	return &Service{carts: make(map[string][]domain.CartLine)}
}

// Add increments the quantity of an existing line for the product, or appends
// a new line with quantity 1. The unit price is snapshotted at add time;
// later catalog price changes do not touch existing lines.
func (s *Service) Add(sessionID string, p domain.Product) domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.carts[sessionID]
	for i := range lines {
		if lines[i].ProductID == p.ID {
			lines[i].Quantity++
			return lines[i]
		}
	}

	line := domain.CartLine{
		ProductID:      p.ID,
		Name:           p.Name,
		Unit:           p.Unit,
		UnitPriceCents: p.Price(),
		Quantity:       1,
		AddedAt:        time.Now().UTC(),
	}
	s.carts[sessionID] = append(lines, line)
	return line
}

// Remove deletes the line for the product if present; otherwise it is a
// silent no-op.
func (s *Service) Remove(sessionID, productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.carts[sessionID]
	for i := range lines {
		if lines[i].ProductID == productID {
			s.carts[sessionID] = append(lines[:i], lines[i+1:]...)
			return
		}
	}
}

// ChangeQuantity applies a delta to a line's quantity, flooring at 1. Removal
// is the only way to drop a line; even a large negative delta leaves qty 1.
func (s *Service) ChangeQuantity(sessionID, productID string, delta int) (domain.CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.carts[sessionID]
	for i := range lines {
		if lines[i].ProductID == productID {
			qty := lines[i].Quantity + delta
			if qty < 1 {
				qty = 1
			}
			lines[i].Quantity = qty
			return lines[i], nil
		}
	}
	return domain.CartLine{}, domain.ErrNotFound
}

// Get returns a copy of the session's cart.
func (s *Service) Get(sessionID string) domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := make([]domain.CartLine, len(s.carts[sessionID]))
	copy(lines, s.carts[sessionID])
	return domain.Cart{SessionID: sessionID, Lines: lines}
}

// Reset empties the session's cart. This is the explicit user action after a
// confirmed order; order submission itself leaves the cart intact.
func (s *Service) Reset(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
}
