package offer

import (
	"errors"
	"fmt"
)

// ErrExpired is returned when a mutation is attempted on a view-expired
// offer. The UI should only ever render a disabled "expired" chip for these,
// but the engine guards anyway.
var ErrExpired = errors.New("offer has expired")

// ValidationError reports a precondition violation on offer input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid offer: %s: %s", e.Field, e.Reason)
}

// IsValidationError reports whether err is a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
