package order

import (
	"context"
	"errors"
	"io"
	"log"

	"construapp/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Create(ctx context.Context, in domain.Order) (*CreateResult, error) {
	const q = `
INSERT INTO orders (app_id, customer_id, status, total_cents, address, phone, items, idempotency_key)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (app_id, idempotency_key) DO NOTHING
RETURNING id::text, created_at
`
	items := in.Items
	if items == nil {
		items = []domain.OrderItem{}
	}
	out := in
	err := r.pool.QueryRow(ctx, q,
		in.AppID,
		in.CustomerID,
		in.Status,
		in.TotalCents,
		in.Address,
		in.Phone,
		items,
		in.IdempotencyKey,
	).Scan(&out.ID, &out.CreatedAt)
	if err == nil {
		r.logger.Printf("order repo: created app_id=%s id=%s total_cents=%d", in.AppID, out.ID, in.TotalCents)
		return &CreateResult{Order: &out}, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		r.logger.Printf("order repo: create app_id=%s error=%v", in.AppID, err)
		return nil, err
	}

	// Conflict on the idempotency key: return the order from the first attempt.
	existing, err := r.getByIdempotencyKey(ctx, in.AppID, in.IdempotencyKey)
	if err != nil {
		return nil, err
	}
	r.logger.Printf("order repo: duplicate submission app_id=%s id=%s key=%s", in.AppID, existing.ID, in.IdempotencyKey)
	return &CreateResult{Order: existing, AlreadyExists: true}, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, appID, id string) (*domain.Order, error) {
	const q = `
SELECT id::text, app_id, customer_id, status, total_cents, address, phone, items, idempotency_key, created_at
FROM orders
WHERE app_id = $1 AND id = $2::uuid
`
	return r.fetchOrder(ctx, q, appID, id)
}

func (r *postgresRepo) ListByCustomer(ctx context.Context, appID, customerID string) ([]domain.Order, error) {
	const q = `
SELECT id::text, app_id, customer_id, status, total_cents, address, phone, items, idempotency_key, created_at
FROM orders
WHERE app_id = $1 AND customer_id = $2
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q, appID, customerID)
	if err != nil {
		r.logger.Printf("order repo: list app_id=%s customer_id=%s error=%v", appID, customerID, err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.AppID, &o.CustomerID, &o.Status, &o.TotalCents, &o.Address, &o.Phone, &o.Items, &o.IdempotencyKey, &o.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) getByIdempotencyKey(ctx context.Context, appID, key string) (*domain.Order, error) {
	const q = `
SELECT id::text, app_id, customer_id, status, total_cents, address, phone, items, idempotency_key, created_at
FROM orders
WHERE app_id = $1 AND idempotency_key = $2
`
	return r.fetchOrder(ctx, q, appID, key)
}

func (r *postgresRepo) fetchOrder(ctx context.Context, query, appID, arg string) (*domain.Order, error) {
	var o domain.Order
	err := r.pool.QueryRow(ctx, query, appID, arg).Scan(
		&o.ID,
		&o.AppID,
		&o.CustomerID,
		&o.Status,
		&o.TotalCents,
		&o.Address,
		&o.Phone,
		&o.Items,
		&o.IdempotencyKey,
		&o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}
