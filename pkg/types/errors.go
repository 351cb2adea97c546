package types

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the workflow engine. Callers classify with
// errors.Is; the specific reason travels in the wrapping message.
var (
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrPrecondition    = errors.New("precondition failed")
	ErrExternalService = errors.New("external service failure")
)

var (
	ErrUserNotFound       = fmt.Errorf("user %w", ErrNotFound)
	ErrSubmissionNotFound = fmt.Errorf("submission %w", ErrNotFound)
	ErrDocumentNotFound   = fmt.Errorf("document %w", ErrNotFound)
	ErrFileNotFound       = fmt.Errorf("file %w", ErrNotFound)
)

// InvalidTransitionError names both sides of a rejected status change.
type InvalidTransitionError struct {
	From SubmissionStatus
	To   SubmissionStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %s to %s", e.From, e.To)
}

func IsInvalidTransition(err error) bool {
	var ite *InvalidTransitionError
	return errors.As(err, &ite)
}
