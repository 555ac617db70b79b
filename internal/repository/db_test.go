package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"restaurant-admin/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithTx_CommitsOnSuccess(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE products`)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := WithTx(context.Background(), db, func(tx *sql.Tx) error {
		return NewProductRepository(db).WithTx(tx).UpdateStock(context.Background(), 1, 4)
	})

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	db, mock := newMockDB(t)
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := WithTx(context.Background(), db, func(tx *sql.Tx) error {
		return boom
	})

	assert.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_RollsBackOnPanic(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.PanicsWithValue(t, "kaboom", func() {
		_ = WithTx(context.Background(), db, func(tx *sql.Tx) error {
			panic("kaboom")
		})
	})
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_BeginFailure(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin().WillReturnError(errors.New("pool exhausted"))

	called := false
	err := WithTx(context.Background(), db, func(tx *sql.Tx) error {
		called = true
		return nil
	})

	assert.False(t, called)
	assert.ErrorIs(t, err, domain.ErrPersistence)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSetLockTimeout(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec(regexp.QuoteMeta(`SET LOCAL lock_timeout = 1500`)).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, SetLockTimeout(context.Background(), db, 1500*time.Millisecond))
	require.NoError(t, SetLockTimeout(context.Background(), db, 0))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSetLockTimeout_SubMillisecondRoundsUp(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec(regexp.QuoteMeta(`SET LOCAL lock_timeout = 1`) + `$`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`SET LOCAL lock_timeout = 2`) + `$`).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, SetLockTimeout(context.Background(), db, 500*time.Microsecond))
	require.NoError(t, SetLockTimeout(context.Background(), db, 1001*time.Microsecond))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind error
	}{
		{"unique violation", &pgconn.PgError{Code: "23505", ConstraintName: "products_category_id_name_key"}, domain.ErrValidation},
		{"unmapped constraint", &pgconn.PgError{Code: "23505", ConstraintName: "other_key", Message: "duplicate"}, domain.ErrValidation},
		{"lock timeout", &pgconn.PgError{Code: "55P03"}, domain.ErrPersistence},
		{"driver failure", errors.New("broken pipe"), domain.ErrPersistence},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, classifyError("op", tt.err), tt.kind)
		})
	}

	assert.NoError(t, classifyError("op", nil))
	assert.True(t, IsLockTimeout(classifyError("lock product", &pgconn.PgError{Code: "55P03"})))
}

func TestTransactor_SetsLockTimeoutFirst(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`SET LOCAL lock_timeout = 5000`)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`FOR UPDATE`)).
		WithArgs(int64(3)).
		WillReturnError(&pgconn.PgError{Code: "55P03"})
	mock.ExpectRollback()

	err := NewTransactor(db).InTx(context.Background(), 5*time.Second, func(tx *sql.Tx) error {
		_, err := NewProductRepository(db).WithTx(tx).FindByIDForUpdate(context.Background(), 3)
		return err
	})

	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.True(t, IsLockTimeout(err))
	require.NoError(t, mock.ExpectationsWereMet())
}
