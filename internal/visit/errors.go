package visit

import (
	"errors"
	"fmt"
)

// ErrInvalidVisit is returned when a mutation is attempted on a visit the
// server has marked non-actionable. It must surface before any network
// interaction.
var ErrInvalidVisit = errors.New("visit is no longer valid")

// ErrIllegalTransition is returned when a requested status change is not
// permitted by the visit state machine, independent of server enforcement.
var ErrIllegalTransition = errors.New("illegal visit transition")

// ValidationError reports a precondition violation on visit input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid visit: %s: %s", e.Field, e.Reason)
}

// IsValidationError reports whether err is a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
