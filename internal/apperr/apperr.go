// Package apperr defines the closed error taxonomy returned by the OTP manager
// and the order workflow. Every failure a handler can see is one of these kinds;
// nothing else crosses the workflow boundary.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind discriminates the failure classes.
type Kind int

const (
	KindValidation Kind = iota
	KindNotFound
	KindExpired
	KindMismatch
	KindProductNotFound
	KindInsufficientStock
	KindDispatch
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindExpired:
		return "expired"
	case KindMismatch:
		return "mismatch"
	case KindProductNotFound:
		return "product_not_found"
	case KindInsufficientStock:
		return "insufficient_stock"
	case KindDispatch:
		return "dispatch_failed"
	default:
		return "internal"
	}
}

// Error carries a kind, a short user-facing message and an optional wrapped cause.
// ProductID/Available/Requested are set for stock failures only.
type Error struct {
	Kind      Kind
	Message   string
	ProductID string
	Available int
	Requested int
	cause     error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New builds an Error of the given kind with a user-facing message.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Newf is New with formatting.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a cause that is logged but never shown to the client.
func Wrap(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, cause: cause}
}

// InsufficientStock reports a failed reservation with availability details.
func InsufficientStock(productID, name string, available, requested int) *Error {
	return &Error{
		Kind:      KindInsufficientStock,
		Message:   fmt.Sprintf("Insufficient stock for %s. Available: %d, Requested: %d", name, available, requested),
		ProductID: productID,
		Available: available,
		Requested: requested,
	}
}

// ProductNotFound reports a line item whose product record is absent or disabled.
func ProductNotFound(productID, name string) *Error {
	return &Error{
		Kind:      KindProductNotFound,
		Message:   fmt.Sprintf("Product %s not found in stock", name),
		ProductID: productID,
	}
}

// KindOf extracts the Kind from err, defaulting to KindInternal for anything
// outside the taxonomy.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// UserMessage returns the client-safe message for err.
func UserMessage(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	return "Internal server error. Please try again."
}

// HTTPStatus maps an error kind to its response status code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation, KindProductNotFound, KindInsufficientStock:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindExpired, KindMismatch:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
