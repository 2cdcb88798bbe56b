package catalog

import (
	"sync"

	"construapp/internal/domain"
)

// Mirror holds the latest full snapshot of the product collection. Every
// update replaces the whole list; there is no incremental patching.
type Mirror struct {
	mu       sync.RWMutex
	products []domain.Product
	subs     map[int]chan []domain.Product
	nextSub  int
}

func NewMirror() *Mirror {
	return &Mirror{subs: make(map[int]chan []domain.Product)}
}

// Snapshot returns a copy of the current product list.
func (m *Mirror) Snapshot() []domain.Product {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Product, len(m.products))
	copy(out, m.products)
	return out
}

// Get looks a product up by id in the current snapshot.
func (m *Mirror) Get(id string) (*domain.Product, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := range m.products {
		if m.products[i].ID == id {
			p := m.products[i]
			return &p, true
		}
	}
	return nil, false
}

// Replace swaps in a new snapshot and fans it out to subscribers. Slow
// subscribers only ever see the newest snapshot; intermediate ones are
// coalesced away.
func (m *Mirror) Replace(products []domain.Product) {
	snap := make([]domain.Product, len(products))
	copy(snap, products)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.products = snap

	for _, ch := range m.subs {
		select {
		case ch <- snap:
		default:
			// Drop the stale pending snapshot, then deliver the new one.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}

// Subscribe registers for future snapshots. The returned func unregisters;
// calling it more than once is safe.
func (m *Mirror) Subscribe() (<-chan []domain.Product, func()) {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	ch := make(chan []domain.Product, 1)
	m.subs[id] = ch
	m.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subs, id)
			m.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}
