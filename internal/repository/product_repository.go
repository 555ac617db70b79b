package repository

import (
	"context"
	"database/sql"
	"errors"

	"restaurant-admin/internal/domain"
)

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id int64) error
	DeleteByCategory(ctx context.Context, categoryID int64) (int64, error)
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	FindByIDForUpdate(ctx context.Context, id int64) (*domain.Product, error)
	FindByNameInCategory(ctx context.Context, categoryID int64, name string) (*domain.Product, error)
	UpdateStock(ctx context.Context, id int64, stock int) error
	List(ctx context.Context) ([]*domain.ProductListing, error)
	WithTx(tx *sql.Tx) ProductRepository
}

type productRepository struct {
	db DBTX
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db DBTX) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) WithTx(tx *sql.Tx) ProductRepository {
	return &productRepository{db: tx}
}

const productColumns = `id, name, description, price, stock, category_id, created_at, updated_at`

// Create inserts a new product and fills in its generated id and timestamps
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (name, description, price, stock, category_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		product.Name,
		product.Description,
		product.Price,
		product.Stock,
		product.CategoryID,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)

	if err != nil {
		return classifyError("create product", err)
	}

	return nil
}

// Update overwrites every editable field of an existing product
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET name = $2, description = $3, price = $4, stock = $5, category_id = $6,
		    updated_at = now()
		WHERE id = $1
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Description,
		product.Price,
		product.Stock,
		product.CategoryID,
	).Scan(&product.CreatedAt, &product.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NewNotFoundError("product", product.ID)
		}
		return classifyError("update product", err)
	}

	return nil
}

// Delete removes a product. Products referenced by sales are rejected by the
// fk_sales_product constraint.
func (r *productRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return classifyError("delete product", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return classifyError("get rows affected", err)
	}

	if rowsAffected == 0 {
		return domain.NewNotFoundError("product", id)
	}

	return nil
}

// DeleteByCategory removes every product of a category and returns how many were removed
func (r *productRepository) DeleteByCategory(ctx context.Context, categoryID int64) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE category_id = $1`, categoryID)
	if err != nil {
		return 0, classifyError("delete products by category", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, classifyError("get rows affected", err)
	}

	return rowsAffected, nil
}

// FindByID retrieves a product by ID
func (r *productRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return r.findOne(ctx, "find product by ID", query, id)
}

// FindByIDForUpdate retrieves a product and holds an exclusive row lock on it
// until the surrounding transaction ends. Must run on a repository bound with WithTx.
func (r *productRepository) FindByIDForUpdate(ctx context.Context, id int64) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 FOR UPDATE`
	return r.findOne(ctx, "lock product", query, id)
}

func (r *productRepository) findOne(ctx context.Context, op, query string, id int64) (*domain.Product, error) {
	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError("product", id)
		}
		return nil, classifyError(op, err)
	}

	return product, nil
}

// FindByNameInCategory returns the product with the exact name inside a
// category, or nil when there is none
func (r *productRepository) FindByNameInCategory(ctx context.Context, categoryID int64, name string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE category_id = $1 AND name = $2`

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, categoryID, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, classifyError("find product by name", err)
	}

	return product, nil
}

// UpdateStock sets the stock of a product
func (r *productRepository) UpdateStock(ctx context.Context, id int64, stock int) error {
	query := `
		UPDATE products
		SET stock = $2, updated_at = now()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, stock)
	if err != nil {
		return classifyError("update product stock", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return classifyError("get rows affected", err)
	}

	if rowsAffected == 0 {
		return domain.NewNotFoundError("product", id)
	}

	return nil
}

// List retrieves all products with their category name, ordered by product name
func (r *productRepository) List(ctx context.Context) ([]*domain.ProductListing, error) {
	query := `
		SELECT p.id, p.name, p.description, p.price, p.stock, p.category_id,
		       p.created_at, p.updated_at, c.name
		FROM products p
		JOIN categories c ON c.id = p.category_id
		ORDER BY p.name ASC, p.id ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, classifyError("list products", err)
	}
	defer rows.Close()

	products := []*domain.ProductListing{}
	for rows.Next() {
		listing := &domain.ProductListing{}
		err := rows.Scan(
			&listing.ID,
			&listing.Name,
			&listing.Description,
			&listing.Price,
			&listing.Stock,
			&listing.CategoryID,
			&listing.CreatedAt,
			&listing.UpdatedAt,
			&listing.CategoryName,
		)
		if err != nil {
			return nil, classifyError("scan product", err)
		}
		products = append(products, listing)
	}

	if err = rows.Err(); err != nil {
		return nil, classifyError("iterate products", err)
	}

	return products, nil
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	product := &domain.Product{}
	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.Stock,
		&product.CategoryID,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return product, nil
}
