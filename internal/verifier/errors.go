package verifier

import (
	"errors"
	"fmt"
)

var (
	// ErrSigning is matched by every *SigningError. Signing failures are fatal
	// and never retried automatically.
	ErrSigning = errors.New("signing error")
	// ErrInvalidArgument reports a caller contract violation.
	ErrInvalidArgument = errors.New("invalid argument")
)

// SigningError describes which container invariant was violated.
type SigningError struct {
	Reason string
	Err    error
}

func (e *SigningError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("signing error: %s: %v", e.Reason, e.Err)
	}
	return "signing error: " + e.Reason
}

func (e *SigningError) Is(target error) bool {
	return target == ErrSigning
}

func (e *SigningError) Unwrap() error {
	return e.Err
}

func signingErr(err error, format string, args ...any) error {
	return &SigningError{Reason: fmt.Sprintf(format, args...), Err: err}
}
