package domain

import "time"

// OrderStatusPending is the only status this system assigns; orders are
// immutable once written.
const OrderStatusPending = "Pending"

type Order struct {
	ID             string      `json:"id"`
	AppID          string      `json:"-"`
	CustomerID     string      `json:"customerId"`
	Status         string      `json:"status"`
	TotalCents     int64       `json:"totalCents"`
	Address        string      `json:"address"`
	Phone          string      `json:"phone"`
	Items          []OrderItem `json:"items"`
	IdempotencyKey string      `json:"-"`
	CreatedAt      time.Time   `json:"createdAt"`
}

// OrderItem is the line snapshot stored on the order document.
type OrderItem struct {
	ProductID  string `json:"id"`
	Name       string `json:"name"`
	Quantity   int    `json:"qty"`
	PriceCents int64  `json:"priceCents"`
	Unit       string `json:"unit"`
}
