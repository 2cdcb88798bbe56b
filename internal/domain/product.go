package domain

import "time"

// Product is a catalog document keyed by an opaque string id.
// A nil PriceCents means the price has not been set; it serializes as null
// so clients render it as unavailable rather than zero.
type Product struct {
	ID          string    `json:"id"`
	AppID       string    `json:"-"`
	Name        string    `json:"name"`
	PriceCents  *int64    `json:"priceCents"`
	Unit        string    `json:"unit"`
	Category    string    `json:"category"`
	Image       string    `json:"image"`
	Description string    `json:"description,omitempty"`
	Specs       []Spec    `json:"specs,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Spec is one technical-sheet entry. Specs keep their authored order, so they
// are a slice of pairs rather than a map.
type Spec struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Price returns the price in cents, or 0 when unset.
func (p Product) Price() int64 {
	if p.PriceCents == nil {
		return 0
	}
	return *p.PriceCents
}
