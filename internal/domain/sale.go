package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is an immutable record of a quantity of a product sold at a point-in-time price
type Sale struct {
	ID         int64           `json:"id" db:"id"`
	ProductID  int64           `json:"product_id" db:"product_id"`
	Quantity   int             `json:"quantity" db:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price" db:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price" db:"total_price"`
	SaleDate   time.Time       `json:"sale_date" db:"sale_date"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
}

// SaleListing is a sale joined with the name of the product sold
type SaleListing struct {
	Sale
	ProductName string `json:"product_name" db:"product_name"`
}

// NewSale snapshots the product price and computes the total for quantity units.
func NewSale(product *Product, quantity int, at time.Time) *Sale {
	return &Sale{
		ProductID:  product.ID,
		Quantity:   quantity,
		UnitPrice:  product.Price,
		TotalPrice: product.Price.Mul(decimal.NewFromInt(int64(quantity))),
		SaleDate:   at,
		CreatedAt:  at,
	}
}
