package repository

import (
	"context"
	"database/sql"

	"restaurant-admin/internal/domain"
)

// SaleRepository defines the interface for sale data access. Sales are
// append-only; there is no update or delete.
type SaleRepository interface {
	Create(ctx context.Context, sale *domain.Sale) error
	List(ctx context.Context) ([]*domain.SaleListing, error)
	CountByProduct(ctx context.Context, productID int64) (int, error)
	CountByCategory(ctx context.Context, categoryID int64) (int, error)
	WithTx(tx *sql.Tx) SaleRepository
}

type saleRepository struct {
	db DBTX
}

// NewSaleRepository creates a new instance of SaleRepository
func NewSaleRepository(db DBTX) SaleRepository {
	return &saleRepository{db: db}
}

func (r *saleRepository) WithTx(tx *sql.Tx) SaleRepository {
	return &saleRepository{db: tx}
}

// Create inserts a sale and fills in its generated id
func (r *saleRepository) Create(ctx context.Context, sale *domain.Sale) error {
	query := `
		INSERT INTO sales (product_id, quantity, unit_price, total_price, sale_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		sale.ProductID,
		sale.Quantity,
		sale.UnitPrice,
		sale.TotalPrice,
		sale.SaleDate,
	).Scan(&sale.ID, &sale.CreatedAt)

	if err != nil {
		return classifyError("create sale", err)
	}

	return nil
}

// List retrieves every sale with its product name, newest first
func (r *saleRepository) List(ctx context.Context) ([]*domain.SaleListing, error) {
	query := `
		SELECT s.id, s.product_id, s.quantity, s.unit_price, s.total_price,
		       s.sale_date, s.created_at, COALESCE(p.name, $1)
		FROM sales s
		LEFT JOIN products p ON p.id = s.product_id
		ORDER BY s.sale_date DESC, s.id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, UnknownProductName)
	if err != nil {
		return nil, classifyError("list sales", err)
	}
	defer rows.Close()

	sales := []*domain.SaleListing{}
	for rows.Next() {
		listing := &domain.SaleListing{}
		err := rows.Scan(
			&listing.ID,
			&listing.ProductID,
			&listing.Quantity,
			&listing.UnitPrice,
			&listing.TotalPrice,
			&listing.SaleDate,
			&listing.CreatedAt,
			&listing.ProductName,
		)
		if err != nil {
			return nil, classifyError("scan sale", err)
		}
		sales = append(sales, listing)
	}

	if err = rows.Err(); err != nil {
		return nil, classifyError("iterate sales", err)
	}

	return sales, nil
}

// CountByProduct returns the number of sales recorded for a product
func (r *saleRepository) CountByProduct(ctx context.Context, productID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sales WHERE product_id = $1`, productID).Scan(&count)
	if err != nil {
		return 0, classifyError("count sales by product", err)
	}
	return count, nil
}

// CountByCategory returns the number of sales recorded for any product of a category
func (r *saleRepository) CountByCategory(ctx context.Context, categoryID int64) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM sales s
		JOIN products p ON p.id = s.product_id
		WHERE p.category_id = $1
	`

	var count int
	if err := r.db.QueryRowContext(ctx, query, categoryID).Scan(&count); err != nil {
		return 0, classifyError("count sales by category", err)
	}
	return count, nil
}
