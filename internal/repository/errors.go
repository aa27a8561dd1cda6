// Package repository defines the transfer store and the error values shared
// by its drivers.  Handlers and the dashboard controller only see the
// TransferStore interface; ErrTransferNotFound lets them tell an unknown id
// apart from a transport or backend failure, and StoreError records which
// store operation failed.
package repository

import (
	"errors"
	"fmt"
)

// ErrTransferNotFound is returned by Update and Delete when no transfer has
// the given id.  Handlers should translate this into an HTTP 404 response.
var ErrTransferNotFound = errors.New("transfer not found")

// Store operation names used in StoreError and in metrics labels.
const (
	OpList   = "list"
	OpInsert = "insert"
	OpUpdate = "update"
	OpDelete = "delete"
)

// StoreError wraps any failure of a store call together with the operation
// that produced it.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("transfer store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// wrap returns nil for a nil err and a *StoreError otherwise.  Errors that
// already are a *StoreError are returned as is.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}
