package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidID is returned when a transaction id is not a base-10 integer.
	ErrInvalidID = errors.New("invalid transaction id")
	// ErrNotFound is returned when the requested rows do not exist.
	ErrNotFound = errors.New("not found")
)

// ValidationError lists every required input field that was missing or empty
// in Fields, and every present field the store cannot hold in Invalid.
type ValidationError struct {
	Fields  []string
	Invalid []string
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Fields) > 0 {
		parts = append(parts, "missing required fields: "+strings.Join(e.Fields, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid fields: "+strings.Join(e.Invalid, ", "))
	}
	return strings.Join(parts, "; ")
}

// StoreError wraps a failure from the ledger store with the operation that
// issued it.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
