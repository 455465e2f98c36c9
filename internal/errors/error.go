// Package errors provides the error kinds returned by product operations.
package errors

// ValidationError reports input that breaks a product invariant.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// NotFoundError reports an operation on a product that does not exist.
type NotFoundError struct {
	Reason string
}

func (e *NotFoundError) Error() string {
	return e.Reason
}

var (
	ErrInvalidPriceFormat = &ValidationError{Reason: "invalid price format"}
	ErrNegativePrice      = &ValidationError{Reason: "price cannot be negative"}
	ErrInvalidSizeOrColor = &ValidationError{Reason: "invalid size or color"}

	ErrProductDoesNotExist = &NotFoundError{Reason: "product does not exist"}
)
