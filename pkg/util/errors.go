package util

import (
	"github.com/pkg/errors"
)

var (
	// ErrInternal marks a broken invariant inside the engine. It is never
	// caused by user input.
	ErrInternal = errors.New("internal error")

	ErrOutOfBounds  = errors.New("address out of bounds")
	ErrNullAddress  = errors.New("null address in non-null gather")
	ErrLengthShape  = errors.New("column length mismatch")
	ErrUnknownType  = errors.New("unknown type")
	ErrDuplicateKey = errors.New("duplicate key")
)

// NewInternalError wraps ErrInternal with a formatted message and a stack.
func NewInternalError(format string, args ...any) error {
	return errors.Wrapf(ErrInternal, format, args...)
}

// Fatalf panics with an internal error. Used where continuing would
// produce corrupt output.
func Fatalf(format string, args ...any) {
	panic(NewInternalError(format, args...))
}

func IsInternal(err error) bool {
	return errors.Is(err, ErrInternal)
}
