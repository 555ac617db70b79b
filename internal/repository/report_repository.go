package repository

import (
	"context"

	"restaurant-admin/internal/domain"

	"github.com/shopspring/decimal"
)

// UnknownProductName labels sales whose product row is gone
const UnknownProductName = "unknown product"

// ReportRepository runs the read-only aggregate queries behind the reports
type ReportRepository interface {
	SalesByProduct(ctx context.Context) ([]*domain.ProductSales, error)
	TotalRevenue(ctx context.Context) (decimal.Decimal, error)
	StockStatus(ctx context.Context) ([]*domain.StockStatus, error)
}

type reportRepository struct {
	db DBTX
}

// NewReportRepository creates a new instance of ReportRepository
func NewReportRepository(db DBTX) ReportRepository {
	return &reportRepository{db: db}
}

// SalesByProduct sums quantity and revenue per product name
func (r *reportRepository) SalesByProduct(ctx context.Context) ([]*domain.ProductSales, error) {
	query := `
		SELECT COALESCE(p.name, $1) AS product_name,
		       SUM(s.quantity) AS quantity_sold,
		       SUM(s.total_price) AS revenue
		FROM sales s
		LEFT JOIN products p ON p.id = s.product_id
		GROUP BY product_name
		ORDER BY product_name ASC
	`

	rows, err := r.db.QueryContext(ctx, query, UnknownProductName)
	if err != nil {
		return nil, classifyError("aggregate sales by product", err)
	}
	defer rows.Close()

	report := []*domain.ProductSales{}
	for rows.Next() {
		row := &domain.ProductSales{}
		if err := rows.Scan(&row.ProductName, &row.QuantitySold, &row.Revenue); err != nil {
			return nil, classifyError("scan sales by product", err)
		}
		report = append(report, row)
	}

	if err = rows.Err(); err != nil {
		return nil, classifyError("iterate sales by product", err)
	}

	return report, nil
}

// TotalRevenue sums total_price across all sales, zero when there are none
func (r *reportRepository) TotalRevenue(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(total_price), 0) FROM sales`).Scan(&total)
	if err != nil {
		return decimal.Zero, classifyError("sum revenue", err)
	}
	return total, nil
}

// StockStatus lists every product with its current stock, ordered by name
func (r *reportRepository) StockStatus(ctx context.Context) ([]*domain.StockStatus, error) {
	query := `
		SELECT id, name, stock
		FROM products
		ORDER BY name ASC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, classifyError("list stock status", err)
	}
	defer rows.Close()

	report := []*domain.StockStatus{}
	for rows.Next() {
		row := &domain.StockStatus{}
		if err := rows.Scan(&row.ProductID, &row.ProductName, &row.Stock); err != nil {
			return nil, classifyError("scan stock status", err)
		}
		row.Status = domain.StockStatusFor(row.Stock)
		report = append(report, row)
	}

	if err = rows.Err(); err != nil {
		return nil, classifyError("iterate stock status", err)
	}

	return report, nil
}
