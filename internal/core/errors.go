package core

import (
	"errors"
	"fmt"
)

// ErrMalformedID signals an identifier that is not a well-formed store id.
// The HTTP layer maps it to 400 before any query is attempted.
var ErrMalformedID = errors.New("identificador mal formado")

// NotFoundError reports a missing entity or a missing referenced entity.
// Message is the user-visible detail, e.g. "Grupo não encontrado".
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// ConflictError reports an operation blocked by current state, such as a
// duplicate membership add or a self-delete with pending expenses.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// ValidationError reports a missing or malformed field in a payload.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsConflict(err error) bool {
	var c *ConflictError
	return errors.As(err, &c)
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
