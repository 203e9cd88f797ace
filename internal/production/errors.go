package production

import (
	"errors"
	"fmt"
	"strings"

	"fitlot/internal/quality"
)

var (
	// ErrLookup marks a scanned or typed identifier that resolves to no
	// known record. Recovered locally; the operator keeps their input.
	ErrLookup = errors.New("lookup failed")

	// ErrValidation marks input rejected before any write.
	ErrValidation = errors.New("validation error")

	// ErrMissingReason re-exports the quality-gate sentinel so callers can
	// match it without importing the gate.
	ErrMissingReason = quality.ErrMissingReason

	// ErrRemoteWrite marks a persistence failure. Retryable by
	// re-submitting the identical action; nothing retries automatically.
	ErrRemoteWrite = errors.New("remote write failed")
)

// Wrap builds an error message that includes operation context while
// tagging it with the provided marker for later classification. The marker
// should be one of the exported sentinel errors above.
func Wrap(marker error, operation, message string, err error) error {
	detail := buildDetail(operation, message)
	if marker == nil {
		marker = ErrRemoteWrite
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(operation, message string) string {
	parts := make([]string, 0, 2)
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "operation failed"
	}
	return strings.Join(parts, ": ")
}
