package application

import (
	"errors"
	"strings"
)

var (
	ErrInvalidRole             = errors.New("invalid role specified")
	ErrMissingInstructorFields = errors.New("department and position are required for instructors")
	ErrEmailExists             = errors.New("email already registered")
	ErrInvalidCredentials      = errors.New("invalid credentials")
	ErrStoreUnavailable        = errors.New("credential store unavailable")
)

// ValidationError reports missing or malformed input fields.
type ValidationError struct {
	Fields []string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason != "" {
		return e.Reason
	}
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

// storeError classifies an unexpected repository failure. The cause stays
// reachable through errors.Is/As for logging.
func storeError(err error) error {
	return errors.Join(ErrStoreUnavailable, err)
}
