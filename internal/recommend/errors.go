package recommend

import (
	"errors"
	"fmt"

	"github.com/pageza/recipenest/backend/internal/store"
)

var (
	// ErrNotFound is returned when the referenced user does not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation is returned for malformed identifiers.
	ErrValidation = errors.New("validation failed")
	// ErrTransient is returned when a store is unreachable or timed out.
	// Callers may retry.
	ErrTransient = errors.New("store temporarily unavailable")
)

// classify wraps a store error with the matching sentinel. The original
// error stays in the chain so context.DeadlineExceeded and friends are
// still visible to errors.Is.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%s: %w: %w", op, ErrNotFound, err)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrTransient, err)
}

// errorKind is the metrics label for err.
func errorKind(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrTransient):
		return "transient"
	default:
		return "internal"
	}
}
