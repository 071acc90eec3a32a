package pg

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	// Packages
	pgx "github.com/jackc/pgx/v5"
	pgconn "github.com/jackc/pgx/v5/pgconn"
	assert "github.com/stretchr/testify/assert"
)

func Test_Error_001(t *testing.T) {
	assert := assert.New(t)

	t.Run("With", func(t *testing.T) {
		err := ErrNotFound.Withf("task %d", 42)
		assert.ErrorIs(err, ErrNotFound)
		assert.Equal("not found: task 42", err.Error())
	})

	t.Run("Nil", func(t *testing.T) {
		assert.NoError(pgerror(nil))
	})

	t.Run("NoRows", func(t *testing.T) {
		assert.ErrorIs(pgerror(pgx.ErrNoRows), ErrNotFound)
	})

	t.Run("Classified", func(t *testing.T) {
		err := ErrBadParameter.With("x")
		assert.Equal(err, pgerror(err))
	})

	t.Run("Context", func(t *testing.T) {
		assert.Equal(context.Canceled, pgerror(context.Canceled))
		assert.False(errors.Is(pgerror(context.DeadlineExceeded), ErrConnectivity))
	})

	t.Run("Constraint", func(t *testing.T) {
		err := pgerror(&pgconn.PgError{Code: "23505"})
		assert.ErrorIs(err, ErrConstraint)
		var pgErr *pgconn.PgError
		assert.True(errors.As(err, &pgErr))
	})

	t.Run("AdminShutdown", func(t *testing.T) {
		assert.ErrorIs(pgerror(&pgconn.PgError{Code: "57P01"}), ErrConnectivity)
		assert.ErrorIs(pgerror(&pgconn.PgError{Code: "08006"}), ErrConnectivity)
	})

	t.Run("SyntaxError", func(t *testing.T) {
		err := pgerror(&pgconn.PgError{Code: "42601"})
		assert.False(errors.Is(err, ErrConnectivity))
		assert.False(errors.Is(err, ErrConstraint))
	})

	t.Run("EOF", func(t *testing.T) {
		assert.ErrorIs(pgerror(fmt.Errorf("read: %w", io.ErrUnexpectedEOF)), ErrConnectivity)
	})
}
