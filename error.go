package pg

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	// Packages
	pgx "github.com/jackc/pgx/v5"
	pgconn "github.com/jackc/pgx/v5/pgconn"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Err is a store error category. Errors returned from this package wrap
// one of these values, so callers can test with errors.Is.
type Err int

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	ErrSuccess Err = iota
	ErrNotFound
	ErrBadParameter
	ErrNotImplemented
	ErrConnectivity
	ErrConstraint
	ErrDecode
)

////////////////////////////////////////////////////////////////////////////////
// ERROR

func (e Err) Error() string {
	switch e {
	case ErrSuccess:
		return "success"
	case ErrNotFound:
		return "not found"
	case ErrBadParameter:
		return "bad parameter"
	case ErrNotImplemented:
		return "not implemented"
	case ErrConnectivity:
		return "connectivity error"
	case ErrConstraint:
		return "constraint violation"
	case ErrDecode:
		return "decode error"
	}
	return fmt.Sprintf("error code %d", int(e))
}

// With returns the error with additional context
func (e Err) With(args ...any) error {
	return fmt.Errorf("%w: %s", e, fmt.Sprint(args...))
}

// Withf returns the error with formatted context
func (e Err) Withf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", e, fmt.Sprintf(format, args...))
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// pgerror classifies driver errors into an Err category, keeping the
// original error in the chain.
func pgerror(err error) error {
	if err == nil {
		return nil
	}

	// Already classified, or cancelled by the caller
	var e Err
	if errors.As(err, &e) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	// No rows
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	// Server-side errors are classified by SQLSTATE class
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case strings.HasPrefix(pgErr.Code, "23"):
			return fmt.Errorf("%w: %w", ErrConstraint, err)
		case strings.HasPrefix(pgErr.Code, "08"):
			return fmt.Errorf("%w: %w", ErrConnectivity, err)
		case pgErr.Code == "57P01", pgErr.Code == "57P02", pgErr.Code == "57P03":
			return fmt.Errorf("%w: %w", ErrConnectivity, err)
		}
		return err
	}

	// Client-side connection failures
	var connErr *pgconn.ConnectError
	var netErr net.Error
	switch {
	case errors.As(err, &connErr), errors.As(err, &netErr), pgconn.Timeout(err):
		return fmt.Errorf("%w: %w", ErrConnectivity, err)
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, net.ErrClosed):
		return fmt.Errorf("%w: %w", ErrConnectivity, err)
	}

	// Return the error unchanged
	return err
}
