package order

import (
	"context"

	"construapp/internal/domain"
)

// CreateResult reports whether the write created a new order or hit an
// existing idempotency key.
type CreateResult struct {
	Order         *domain.Order
	AlreadyExists bool
}

type Repository interface {
	// Create inserts the order with a server-assigned id and timestamp.
	// A repeated idempotency key returns the previously created order.
	Create(ctx context.Context, in domain.Order) (*CreateResult, error)
	GetByID(ctx context.Context, appID, id string) (*domain.Order, error)
	ListByCustomer(ctx context.Context, appID, customerID string) ([]domain.Order, error)
}
