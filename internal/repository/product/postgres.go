package product

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

func (r *postgresRepo) ListByApp(ctx context.Context, appID string) ([]domain.Product, error) {
	const q = `
SELECT id, app_id, name, price_cents, unit, category, image, description, specs, created_at
FROM products
WHERE app_id = $1
ORDER BY created_at, id
`
	rows, err := r.pool.Query(ctx, q, appID)
	if err != nil {
		r.logger.Printf("product repo: list app_id=%s error=%v", appID, err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.AppID, &p.Name, &p.PriceCents, &p.Unit, &p.Category, &p.Image, &p.Description, &p.Specs, &p.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("product repo: list rows app_id=%s error=%v", appID, err)
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, appID, id string) (*domain.Product, error) {
	const q = `
SELECT id, app_id, name, price_cents, unit, category, image, description, specs, created_at
FROM products
WHERE app_id = $1 AND id = $2
`
	var p domain.Product
	err := r.pool.QueryRow(ctx, q, appID, id).Scan(&p.ID, &p.AppID, &p.Name, &p.PriceCents, &p.Unit, &p.Category, &p.Image, &p.Description, &p.Specs, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: get app_id=%s id=%s error=%v", appID, id, err)
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) MergeUpsert(ctx context.Context, product domain.Product) error {
	const q = `
INSERT INTO products (app_id, id, name, price_cents, unit, category, image, description, specs)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (app_id, id) DO UPDATE SET
    name = EXCLUDED.name,
    price_cents = EXCLUDED.price_cents,
    unit = EXCLUDED.unit,
    category = EXCLUDED.category,
    image = EXCLUDED.image,
    description = EXCLUDED.description,
    specs = EXCLUDED.specs
`
	specs := product.Specs
	if specs == nil {
		specs = []domain.Spec{}
	}
	_, err := r.pool.Exec(ctx, q,
		product.AppID,
		product.ID,
		product.Name,
		product.PriceCents,
		product.Unit,
		product.Category,
		product.Image,
		product.Description,
		specs,
	)
	if err != nil {
		r.logger.Printf("product repo: merge upsert app_id=%s id=%s error=%v", product.AppID, product.ID, err)
		return err
	}
	r.logger.Printf("product repo: merge upsert app_id=%s id=%s", product.AppID, product.ID)
	return nil
}

func (r *postgresRepo) SetPrice(ctx context.Context, appID, id string, priceCents int64) error {
	const q = `
UPDATE products
SET price_cents = $3
WHERE app_id = $1 AND id = $2
`
	tag, err := r.pool.Exec(ctx, q, appID, id, priceCents)
	if err != nil {
		r.logger.Printf("product repo: set price app_id=%s id=%s error=%v", appID, id, err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	r.logger.Printf("product repo: set price app_id=%s id=%s cents=%d", appID, id, priceCents)
	return nil
}
