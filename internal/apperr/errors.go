// Package apperr defines the error kinds the API distinguishes between.
// Everything else is treated as an internal error by the handlers.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrExtractionParse marks an LLM reply that did not match the expected
	// attribute schema. The candidate row is still written with null scores.
	ErrExtractionParse = errors.New("extraction parse error")

	// ErrAPIUnavailable marks an LLM vendor that stayed unreachable or
	// unauthorized after the bounded retries.
	ErrAPIUnavailable = errors.New("llm api unavailable")

	// ErrDatabase marks a constraint violation or failed query.
	ErrDatabase = errors.New("database error")

	// ErrNotFound marks a candidate id that does not exist.
	ErrNotFound = errors.New("not found")
)

// PartialExtraction reports which attribute fields could not be read from
// the LLM reply. It wraps ErrExtractionParse so callers can match the kind.
type PartialExtraction struct {
	Missing []string
}

func (e *PartialExtraction) Error() string {
	return fmt.Sprintf("%v: missing fields %v", ErrExtractionParse, e.Missing)
}

func (e *PartialExtraction) Unwrap() error { return ErrExtractionParse }

// Wrap annotates err with one of the sentinel kinds while keeping the
// original cause in the chain.
func Wrap(kind, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", kind, err)
}

func IsExtractionParse(err error) bool { return errors.Is(err, ErrExtractionParse) }
func IsAPIUnavailable(err error) bool  { return errors.Is(err, ErrAPIUnavailable) }
func IsDatabase(err error) bool        { return errors.Is(err, ErrDatabase) }
func IsNotFound(err error) bool        { return errors.Is(err, ErrNotFound) }
