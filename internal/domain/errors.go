package domain

import (
	"errors"
	"fmt"
)

// Cart mutation failures are returned as values and mapped to response
// envelopes at the boundary; none of them escape the service layer as a
// panic or a raw 500.
var (
	// ErrNotFound covers both "does not exist" and "not yours" so that a
	// caller cannot probe other users' carts.
	ErrNotFound = errors.New("not found")

	// ErrAuthRequired marks mutations attempted without a session; the add
	// path turns it into a login redirect.
	ErrAuthRequired = errors.New("authentication required")

	// ErrSizeNotInLine marks a quantity update for a size the line does not
	// carry. Updates change quantity, never composition.
	ErrSizeNotInLine = errors.New("size not found in cart item")
)

type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// InsufficientStockError reports the size and the quantity actually
// available, so the storefront can tell the customer how far to back off.
type InsufficientStockError struct {
	Size      string
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("only %d pieces available for size %s", e.Available, e.Size)
}
