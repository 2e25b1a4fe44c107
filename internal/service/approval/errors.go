package approval

import "errors"

var (
	ErrLoanNotFound   = errors.New("loan not found")
	ErrLoanNotPending = errors.New("loan is not pending")
)

// ValidationError rejects a request before any store access.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + " " + e.Message
}
