package postgres

import (
	"context"

	domain "inventory/backend/internal/domain/product"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

const productColumns = `id, name, sku, price_in_cents, quantity, category, depleting, created_at, updated_at`

// ProductRepository persists products in PostgreSQL.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository constructs a repository.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

var _ domain.Repository = (*ProductRepository)(nil)

// FindAll returns all products sorted by name.
func (r *ProductRepository) FindAll(ctx context.Context) ([]*domain.Product, error) {
	return r.query(ctx, `SELECT `+productColumns+` FROM products ORDER BY name ASC, id ASC`)
}

// FindByID fetches a product by id.
func (r *ProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundByID(id)
		}
		return nil, errors.Wrap(err, "select product by id")
	}
	return product, nil
}

// FindBySKU fetches a product using its SKU.
func (r *ProductRepository) FindBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE sku = $1`, sku)
	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundBySKU(sku)
		}
		return nil, errors.Wrap(err, "select product by sku")
	}
	return product, nil
}

// FindByCategory returns products whose stored category equals category.
func (r *ProductRepository) FindByCategory(ctx context.Context, category string) ([]*domain.Product, error) {
	return r.query(ctx, `
SELECT `+productColumns+`
FROM products
WHERE category = $1
ORDER BY name ASC, id ASC
`, category)
}

// FindLowStock returns depleting products with quantity below threshold.
func (r *ProductRepository) FindLowStock(ctx context.Context, threshold int) ([]*domain.Product, error) {
	return r.query(ctx, `
SELECT `+productColumns+`
FROM products
WHERE depleting AND quantity < $1
ORDER BY name ASC, id ASC
`, threshold)
}

// ExistsBySKU reports whether any product holds sku.
func (r *ProductRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE sku = $1)`, sku).Scan(&exists)
	if err != nil {
		return false, errors.Wrap(err, "check sku")
	}
	return exists, nil
}

// Save inserts a product under a new id.
func (r *ProductRepository) Save(ctx context.Context, product *domain.Product) error {
	const query = `
INSERT INTO products (` + productColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`
	id := uuid.NewString()
	_, err := r.pool.Exec(ctx, query,
		id,
		product.Name,
		product.SKU,
		product.PriceInCents,
		product.Quantity,
		product.Category,
		product.Depleting,
		product.CreatedAt,
		product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.ConflictError{SKU: product.SKU}
		}
		return errors.Wrap(err, "insert product")
	}
	product.ID = id
	return nil
}

// Update locks the row, applies fn and writes the result in one transaction.
func (r *ProductRepository) Update(ctx context.Context, id string, fn domain.MutateFunc) (*domain.Product, error) {
	var updated *domain.Product
	err := pgx.BeginTxFunc(ctx, r.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id)
		product, err := scanProduct(row)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.NewNotFoundByID(id)
			}
			return errors.Wrap(err, "lock product")
		}
		if err := fn(product); err != nil {
			return err
		}
		product.ID = id
		if err := r.write(ctx, tx, product); err != nil {
			return err
		}
		updated = product
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a product by id.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "delete product")
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundByID(id)
	}
	return nil
}

func (r *ProductRepository) write(ctx context.Context, tx pgx.Tx, product *domain.Product) error {
	const query = `
UPDATE products
SET name = $2,
    sku = $3,
    price_in_cents = $4,
    quantity = $5,
    category = $6,
    depleting = $7,
    updated_at = $8
WHERE id = $1
`
	tag, err := tx.Exec(ctx, query,
		product.ID,
		product.Name,
		product.SKU,
		product.PriceInCents,
		product.Quantity,
		product.Category,
		product.Depleting,
		product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.ConflictError{SKU: product.SKU}
		}
		return errors.Wrap(err, "update product")
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundByID(product.ID)
	}
	return nil
}

func (r *ProductRepository) query(ctx context.Context, sql string, args ...any) ([]*domain.Product, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query products")
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan product")
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.SKU,
		&p.PriceInCents,
		&p.Quantity,
		&p.Category,
		&p.Depleting,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return &p, nil
}
