package domain

import (
	"errors"
	"fmt"
)

// Error kinds callers branch on with errors.Is. Repository lookups report a
// missing row as found=false; ErrNotFound is only returned by service
// operations that need an existing author.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrOutOfRange   = errors.New("out of range")
	ErrStore        = errors.New("store error")
	ErrNotFound     = errors.New("author not found")
)

// FieldError reports a value rejected by one of the Author setters.
type FieldError struct {
	Field   string
	Kind    error
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *FieldError) Unwrap() error {
	return e.Kind
}

func invalidInput(field, message string) *FieldError {
	return &FieldError{Field: field, Kind: ErrInvalidInput, Message: message}
}

// StoreError wraps a failure surfaced while talking to the relational store.
// It matches ErrStore and still exposes the cause, so a validation error hit
// while rebuilding a row keeps its original kind.
type StoreError struct {
	Op  string
	Err error
}

func NewStoreError(op string, err error) *StoreError {
	return &StoreError{Op: op, Err: err}
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("author %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() []error {
	return []error{ErrStore, e.Err}
}
