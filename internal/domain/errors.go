package domain

import (
	"errors"
	"fmt"
)

// ErrorKind names a failure class of the response contract.
type ErrorKind string

const (
	KindNotFound          ErrorKind = "NotFound"
	KindInvalidRequest    ErrorKind = "InvalidRequest"
	KindInsufficientStock ErrorKind = "InsufficientStock"
	KindIOError           ErrorKind = "IOError"
	KindInternal          ErrorKind = "Internal"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidRequest = errors.New("invalid request")
)

// NotFoundf wraps ErrNotFound with a formatted message.
func NotFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrNotFound)
}

// Invalidf wraps ErrInvalidRequest with a formatted message.
func Invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalidRequest)
}

// InsufficientStockError reports a validation-phase stock shortfall. A product
// that does not exist is reported with Available == 0.
type InsufficientStockError struct {
	ProductID string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s (requested: %d, available: %d)", e.ProductID, e.Requested, e.Available)
}

// IOError is a backing storage read or write failure.
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// KindOf classifies err into the response taxonomy.
func KindOf(err error) ErrorKind {
	var stockErr *InsufficientStockError
	var ioErr *IOError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &stockErr):
		return KindInsufficientStock
	case errors.As(err, &ioErr):
		return KindIOError
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrInvalidRequest):
		return KindInvalidRequest
	default:
		return KindInternal
	}
}
