package transport

import (
	"encoding/json"
	"time"

	"restaurant-admin/internal/domain"

	"github.com/shopspring/decimal"
)

// formValue accepts a JSON string or number and keeps its text, so price and
// stock reach the product store exactly as the user typed them.
type formValue string

func (v *formValue) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = formValue(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*v = formValue(n.String())
	return nil
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// CategoryRequest is the payload of category create and update
type CategoryRequest struct {
	Name string `json:"name" validate:"notblank,max=255"`
}

// CategoryResponse represents a category
type CategoryResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newCategoryResponse(c *domain.Category) CategoryResponse {
	return CategoryResponse{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt}
}

// ProductRequest is the payload of product create and update
type ProductRequest struct {
	Name        string    `json:"name" validate:"notblank,max=255"`
	Description string    `json:"description"`
	Price       formValue `json:"price" validate:"required"`
	Stock       formValue `json:"stock"`
	CategoryID  int64     `json:"category_id" validate:"required,gt=0"`

	// ExpectedStock is the stock shown when the edit form was loaded
	ExpectedStock *int `json:"expected_stock,omitempty" validate:"omitempty,gte=0"`
}

func (r ProductRequest) input() domain.ProductInput {
	return domain.ProductInput{
		Name:          r.Name,
		Description:   r.Description,
		Price:         string(r.Price),
		Stock:         string(r.Stock),
		CategoryID:    r.CategoryID,
		ExpectedStock: r.ExpectedStock,
	}
}

// ProductResponse represents a product, optionally with its category name
type ProductResponse struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Price        string    `json:"price"`
	Stock        int       `json:"stock"`
	CategoryID   int64     `json:"category_id"`
	CategoryName string    `json:"category_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func newProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       money(p.Price),
		Stock:       p.Stock,
		CategoryID:  p.CategoryID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// SaleRequest is the payload of a sale submission
type SaleRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required,gt=0"`
}

// SaleResponse represents a recorded sale
type SaleResponse struct {
	ID          int64     `json:"id"`
	ProductID   int64     `json:"product_id"`
	ProductName string    `json:"product_name,omitempty"`
	Quantity    int       `json:"quantity"`
	UnitPrice   string    `json:"unit_price"`
	TotalPrice  string    `json:"total_price"`
	SaleDate    time.Time `json:"sale_date"`
}

func newSaleResponse(s *domain.Sale) SaleResponse {
	return SaleResponse{
		ID:         s.ID,
		ProductID:  s.ProductID,
		Quantity:   s.Quantity,
		UnitPrice:  money(s.UnitPrice),
		TotalPrice: money(s.TotalPrice),
		SaleDate:   s.SaleDate,
	}
}

// ProductSalesResponse is one row of the sales-by-product report
type ProductSalesResponse struct {
	ProductName  string `json:"product_name"`
	QuantitySold int    `json:"quantity_sold"`
	Revenue      string `json:"revenue"`
}

// RevenueResponse is the total revenue report
type RevenueResponse struct {
	TotalRevenue string `json:"total_revenue"`
}
