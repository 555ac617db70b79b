package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a sellable item with its on-hand stock
type Product struct {
	ID          int64           `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Stock       int             `json:"stock" db:"stock"`
	CategoryID  int64           `json:"category_id" db:"category_id"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// ProductListing is a product joined with the name of its category
type ProductListing struct {
	Product
	CategoryName string `json:"category_name" db:"category_name"`
}

// ProductInput carries the raw form values for a product create or update.
// Price and Stock stay textual until the product store parses them.
type ProductInput struct {
	Name          string
	Description   string
	Price         string
	Stock         string
	CategoryID    int64
	// ExpectedStock is the stock the editor last saw; nil skips the check
	ExpectedStock *int
}
