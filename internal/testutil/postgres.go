// Package testutil starts throwaway infrastructure for integration tests.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"restaurant-admin/internal/database"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	dbName = "restaurant_test"
	dbUser = "user"
	dbPwd  = "password"
)

// StartPostgres runs a Postgres container, applies the embedded migrations and
// returns an open pool plus a teardown func. Callers should treat an error as
// "Docker unavailable" and skip.
func StartPostgres(ctx context.Context) (*sql.DB, func(), error) {
	container, err := runContainer(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("start postgres container: %w", err)
	}

	terminate := func() {
		_ = container.Terminate(context.Background())
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		terminate()
		return nil, nil, fmt.Errorf("container connection string: %w", err)
	}

	db, err := sql.Open("pgx", connStr)
	if err != nil {
		terminate()
		return nil, nil, fmt.Errorf("open test database: %w", err)
	}

	if err := database.RunMigrations(db, zap.NewNop()); err != nil {
		db.Close()
		terminate()
		return nil, nil, err
	}

	teardown := func() {
		db.Close()
		terminate()
	}

	return db, teardown, nil
}

// runContainer starts the container. testcontainers panics when it cannot
// locate a Docker host at all; that is reported as an error like any other
// startup failure.
func runContainer(ctx context.Context) (container *postgres.PostgresContainer, err error) {
	defer recoverAsError(&err)

	return postgres.Run(
		ctx,
		"postgres:15",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
}

func recoverAsError(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("docker unavailable: %v", r)
	}
}

// Truncate empties every domain table and resets identities between tests.
func Truncate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `TRUNCATE sales, products, categories RESTART IDENTITY CASCADE`)
	return err
}
