package lexgraph

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure conditions. Use errors.Is to test for
// them through wrapped errors.
var (
	// ErrNoTokenizer indicates IngestDocument was called on an engine
	// built without a tokenizer.
	ErrNoTokenizer = errors.New("no tokenizer configured")

	// ErrInvalidConfig indicates the provided configuration is invalid or
	// incomplete.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Error kinds categorize errors by their type.
const (
	// KindStore represents backing-store failures.
	KindStore = "store"

	// KindValidation represents errors related to input validation.
	KindValidation = "validation"

	// KindConfiguration represents errors related to configuration.
	KindConfiguration = "configuration"

	// KindTokenize represents tokenizer failures.
	KindTokenize = "tokenize"
)

// Error is a structured error wrapping an underlying cause with the
// operation that failed and the category of failure. It supports
// errors.Is and errors.As through Unwrap.
type Error struct {
	// Op is the operation that failed (e.g., "Engine.Search").
	Op string

	// Kind categorizes the error (e.g., KindStore, KindValidation).
	Kind string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("lexgraph: %s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("lexgraph: %s (%s): %v", e.Op, e.Kind, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error by Kind (and Op when the target sets one), or
// defers to the underlying error chain.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != "" && e.Kind != t.Kind {
		return false
	}
	if t.Op != "" && e.Op != t.Op {
		return false
	}
	return t.Kind != "" || t.Op != ""
}

func opErr(op, kind string, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}
