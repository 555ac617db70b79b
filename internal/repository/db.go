package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"restaurant-admin/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx, so every repository can
// run standalone or inside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Postgres error codes the repositories translate
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgLockNotAvailable    = "55P03"
)

// constraintErrors maps schema constraint names onto user-facing validation errors
var constraintErrors = map[string]*domain.ValidationError{
	"categories_name_key":           domain.NewConflictError("name", "a category with this name already exists"),
	"products_category_id_name_key": domain.NewConflictError("name", "a product with this name already exists in this category"),
	"fk_products_category":          domain.NewValidationError("category_id", "category does not exist"),
	"fk_sales_product":              domain.NewConflictError("product_id", "product is referenced by recorded sales"),
	"products_price_check":          domain.NewValidationError("price", "must be a non-negative number"),
	"products_stock_check":          domain.NewValidationError("stock", "must be a non-negative integer"),
	"sales_quantity_check":          domain.NewValidationError("quantity", "must be a positive integer"),
}

// classifyError converts driver errors into the domain error taxonomy.
// Constraint violations become validation errors, everything else a
// persistence error carrying op.
func classifyError(op string, err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation, pgForeignKeyViolation, pgCheckViolation:
			if known, ok := constraintErrors[pgErr.ConstraintName]; ok {
				classified := *known
				return &classified
			}
			return domain.NewValidationError("", pgErr.Message)
		case pgLockNotAvailable:
			return domain.NewPersistenceError(op, fmt.Errorf("lock timeout: %w", err))
		}
	}

	return domain.NewPersistenceError(op, err)
}

// IsLockTimeout reports whether err was caused by a lock wait exceeding lock_timeout.
func IsLockTimeout(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgLockNotAvailable
}

// WithTx runs fn inside a transaction. The transaction commits only when fn
// returns nil; any error or panic rolls it back.
func WithTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return domain.NewPersistenceError("begin transaction", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return domain.NewPersistenceError("commit transaction", err)
	}

	return nil
}

// SetLockTimeout bounds how long the current transaction waits for row locks.
// A zero duration leaves the server default in place.
func SetLockTimeout(ctx context.Context, tx DBTX, timeout time.Duration) error {
	if timeout <= 0 {
		return nil
	}

	// SET does not accept bind parameters; the value is an integer in ms.
	// Round up: lock_timeout = 0 would disable the bound.
	ms := (timeout + time.Millisecond - 1) / time.Millisecond
	query := fmt.Sprintf("SET LOCAL lock_timeout = %d", int64(ms))
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return classifyError("set lock timeout", err)
	}
	return nil
}

// Transactor opens scoped transactions for the services. Repositories join
// the transaction through their WithTx method.
type Transactor interface {
	InTx(ctx context.Context, lockTimeout time.Duration, fn func(tx *sql.Tx) error) error
}

type sqlTransactor struct {
	db *sql.DB
}

// NewTransactor creates a Transactor over a connection pool
func NewTransactor(db *sql.DB) Transactor {
	return &sqlTransactor{db: db}
}

// InTx runs fn in a transaction whose row-lock waits are bounded by lockTimeout
func (t *sqlTransactor) InTx(ctx context.Context, lockTimeout time.Duration, fn func(tx *sql.Tx) error) error {
	return WithTx(ctx, t.db, func(tx *sql.Tx) error {
		if err := SetLockTimeout(ctx, tx, lockTimeout); err != nil {
			return err
		}
		return fn(tx)
	})
}
