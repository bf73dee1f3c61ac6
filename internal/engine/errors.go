package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrClosed is returned by every operation on a closed engine.
	ErrClosed = errors.New("engine closed")
	// ErrUnknownLayer signals a reference to a layer id that does not exist.
	// The operation was a no-op; callers may ignore it.
	ErrUnknownLayer = errors.New("unknown layer")
	// ErrUnknownText is the text element counterpart of ErrUnknownLayer.
	ErrUnknownText = errors.New("unknown text element")
)

// ValidationError rejects an input value. Nothing was mutated.
type ValidationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

func invalid(field string, value any, reason string) error {
	return &ValidationError{Field: field, Value: value, Reason: reason}
}
