package wizard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formwizard/pkg/validation"
)

var (
	// ErrUnknownField is returned when an operation names an undeclared field.
	ErrUnknownField = errors.New("wizard: unknown field")
	// ErrKindMismatch is returned when a value's kind differs from the field's.
	ErrKindMismatch = errors.New("wizard: value kind mismatch")
	// ErrInvalidValue is returned for values that cannot be stored, such as
	// NaN or infinite numbers.
	ErrInvalidValue = errors.New("wizard: invalid value")
	// ErrNotAList is returned when a list operation targets a non-list field.
	ErrNotAList = errors.New("wizard: field is not a list")
	// ErrSubmitInProgress is returned when Submit is called while a previous
	// submission is still outstanding.
	ErrSubmitInProgress = errors.New("wizard: submission already in progress")
	// ErrValidation matches every *ValidationError via errors.Is.
	ErrValidation = errors.New("wizard: validation failed")
)

// ValidationError reports field-scoped failures that blocked a step
// transition or a submission. Step is -1 for whole-record validation.
type ValidationError struct {
	Step   int
	Errors validation.Errors
}

func (e *ValidationError) Error() string {
	keys := e.Errors.Keys()
	if e.Step >= 0 {
		return fmt.Sprintf("wizard: step %d has %d invalid field(s): %s", e.Step+1, len(keys), strings.Join(keys, ", "))
	}
	return fmt.Sprintf("wizard: %d invalid field(s): %s", len(keys), strings.Join(keys, ", "))
}

// Is lets errors.Is(err, ErrValidation) match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// SubmissionError wraps a failure reported by the Submitter. The draft is kept
// intact so the user can retry.
type SubmissionError struct {
	WizardID string
	Err      error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("wizard: submit %s: %v", e.WizardID, e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}
