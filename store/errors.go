// Package store defines error types for row store operations.
package store

import "fmt"

// NotRegisteredError is returned when an operation is attempted for a Go type
// that has not been registered (and therefore not shape-validated).
type NotRegisteredError struct {
	TypeName string
}

// Error returns the error message for NotRegisteredError.
func (e *NotRegisteredError) Error() string {
	return fmt.Sprintf("type %q is not registered", e.TypeName)
}

// NotFoundError is returned when a lookup by identifier matches no row.
type NotFoundError struct {
	TypeName string
	ID       int64
}

// Error returns the error message for NotFoundError.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: id %d not found", e.TypeName, e.ID)
}
