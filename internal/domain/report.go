package domain

import "github.com/shopspring/decimal"

const (
	StockStatusInStock    = "in stock"
	StockStatusOutOfStock = "out of stock"
)

// ProductSales aggregates all sales recorded under one product name
type ProductSales struct {
	ProductName  string          `json:"product_name"`
	QuantitySold int             `json:"quantity_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// StockStatus reports the current stock of a product
type StockStatus struct {
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	Stock       int    `json:"stock"`
	Status      string `json:"status"`
}

// StockStatusFor derives the status label for a stock level.
func StockStatusFor(stock int) string {
	if stock > 0 {
		return StockStatusInStock
	}
	return StockStatusOutOfStock
}
