package mysql

import (
	"context"
	"database/sql"
	"time"

	domain "inventory/backend/internal/domain/product"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

const productColumns = `id, name, sku, price_in_cents, quantity, category, depleting, created_at, updated_at`

type productRow struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	SKU          string    `db:"sku"`
	PriceInCents int64     `db:"price_in_cents"`
	Quantity     int       `db:"quantity"`
	Category     string    `db:"category"`
	Depleting    bool      `db:"depleting"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (r productRow) toDomain() *domain.Product {
	return &domain.Product{
		ID:           r.ID,
		Name:         r.Name,
		SKU:          r.SKU,
		PriceInCents: r.PriceInCents,
		Quantity:     r.Quantity,
		Category:     r.Category,
		Depleting:    r.Depleting,
		CreatedAt:    r.CreatedAt.UTC(),
		UpdatedAt:    r.UpdatedAt.UTC(),
	}
}

func fromDomain(p *domain.Product) productRow {
	return productRow{
		ID:           p.ID,
		Name:         p.Name,
		SKU:          p.SKU,
		PriceInCents: p.PriceInCents,
		Quantity:     p.Quantity,
		Category:     p.Category,
		Depleting:    p.Depleting,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// ProductRepository persists products in MySQL.
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository constructs a repository.
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

var _ domain.Repository = (*ProductRepository)(nil)

// FindAll returns all products sorted by name.
func (r *ProductRepository) FindAll(ctx context.Context) ([]*domain.Product, error) {
	return r.selectMany(ctx, `SELECT `+productColumns+` FROM products ORDER BY name ASC, id ASC`)
}

// FindByID fetches a product by id.
func (r *ProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	var row productRow
	err := r.db.GetContext(ctx, &row, `SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundByID(id)
		}
		return nil, errors.Wrap(err, "select product by id")
	}
	return row.toDomain(), nil
}

// FindBySKU fetches a product using its SKU.
func (r *ProductRepository) FindBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	var row productRow
	err := r.db.GetContext(ctx, &row, `SELECT `+productColumns+` FROM products WHERE sku = ?`, sku)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundBySKU(sku)
		}
		return nil, errors.Wrap(err, "select product by sku")
	}
	return row.toDomain(), nil
}

// FindByCategory returns products whose stored category equals category.
func (r *ProductRepository) FindByCategory(ctx context.Context, category string) ([]*domain.Product, error) {
	return r.selectMany(ctx, `SELECT `+productColumns+` FROM products WHERE category = ? ORDER BY name ASC, id ASC`, category)
}

// FindLowStock returns depleting products with quantity below threshold.
func (r *ProductRepository) FindLowStock(ctx context.Context, threshold int) ([]*domain.Product, error) {
	return r.selectMany(ctx, `SELECT `+productColumns+` FROM products WHERE depleting AND quantity < ? ORDER BY name ASC, id ASC`, threshold)
}

// ExistsBySKU reports whether any product holds sku.
func (r *ProductRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM products WHERE sku = ?)`, sku); err != nil {
		return false, errors.Wrap(err, "check sku")
	}
	return exists, nil
}

// Save inserts a product under a new id.
func (r *ProductRepository) Save(ctx context.Context, product *domain.Product) error {
	row := fromDomain(product)
	row.ID = uuid.NewString()
	_, err := r.db.NamedExecContext(ctx, `
INSERT INTO products (`+productColumns+`)
VALUES (:id, :name, :sku, :price_in_cents, :quantity, :category, :depleting, :created_at, :updated_at)
`, row)
	if err != nil {
		if isDuplicateEntry(err) {
			return &domain.ConflictError{SKU: product.SKU}
		}
		return errors.Wrap(err, "insert product")
	}
	product.ID = row.ID
	return nil
}

// Update locks the row, applies fn and writes the result in one transaction.
func (r *ProductRepository) Update(ctx context.Context, id string, fn domain.MutateFunc) (*domain.Product, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "begin transaction")
	}
	defer func() { _ = tx.Rollback() }()

	var row productRow
	if err := tx.GetContext(ctx, &row, `SELECT `+productColumns+` FROM products WHERE id = ? FOR UPDATE`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundByID(id)
		}
		return nil, errors.Wrap(err, "lock product")
	}

	product := row.toDomain()
	if err := fn(product); err != nil {
		return nil, err
	}
	product.ID = id
	if err := r.write(ctx, tx, product); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "commit")
	}
	return product, nil
}

// Delete removes a product by id.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(err, "delete product")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NewNotFoundByID(id)
	}
	return nil
}

func (r *ProductRepository) write(ctx context.Context, tx *sqlx.Tx, product *domain.Product) error {
	_, err := tx.NamedExecContext(ctx, `
UPDATE products
SET name = :name,
    sku = :sku,
    price_in_cents = :price_in_cents,
    quantity = :quantity,
    category = :category,
    depleting = :depleting,
    updated_at = :updated_at
WHERE id = :id
`, fromDomain(product))
	if err != nil {
		if isDuplicateEntry(err) {
			return &domain.ConflictError{SKU: product.SKU}
		}
		return errors.Wrap(err, "update product")
	}
	return nil
}

func (r *ProductRepository) selectMany(ctx context.Context, query string, args ...any) ([]*domain.Product, error) {
	var rows []productRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "query products")
	}
	products := make([]*domain.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, row.toDomain())
	}
	return products, nil
}
