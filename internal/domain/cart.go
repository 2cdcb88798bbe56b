package domain

import "time"

// Cart is the in-memory cart for one session. It is never persisted; lines
// survive only until checkout plus an explicit reset.
type Cart struct {
	SessionID string     `json:"sessionId"`
	Lines     []CartLine `json:"lines"`
}

// CartLine pairs a product snapshot with a quantity. UnitPriceCents is copied
// at add time and is not updated by later catalog price changes.
type CartLine struct {
	ProductID      string    `json:"productId"`
	Name           string    `json:"name"`
	Unit           string    `json:"unit"`
	UnitPriceCents int64     `json:"unitPriceCents"`
	Quantity       int       `json:"quantity"`
	AddedAt        time.Time `json:"addedAt"`
}

// TotalCents sums price times quantity over all lines. It is recomputed on
// every call rather than cached.
func (c Cart) TotalCents() int64 {
	var total int64
	for _, line := range c.Lines {
		total += line.UnitPriceCents * int64(line.Quantity)
	}
	return total
}

// ItemCount sums quantities across lines.
func (c Cart) ItemCount() int {
	count := 0
	for _, line := range c.Lines {
		count += line.Quantity
	}
	return count
}
