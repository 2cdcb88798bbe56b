package product

import (
	"context"

	"construapp/internal/domain"
)

type Repository interface {
	ListByApp(ctx context.Context, appID string) ([]domain.Product, error)
	GetByID(ctx context.Context, appID, id string) (*domain.Product, error)
	// MergeUpsert overlays the given fields onto the document keyed by
	// (appID, id), creating it when absent. Fields not carried by the input
	// are left untouched on an existing row.
	MergeUpsert(ctx context.Context, product domain.Product) error
	// SetPrice is a merge-write restricted to the price field.
	SetPrice(ctx context.Context, appID, id string, priceCents int64) error
}
