package apperrors

import "errors"

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")
	ErrTimeConflict      = errors.New("time conflict")
	ErrMalformedShare    = errors.New("malformed share link")
	ErrNothingToShare    = errors.New("no active sessions to share")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrCorruptStore      = errors.New("corrupt session store")
)

// FieldError describes a failed rule on a single input field.
type FieldError struct {
	Field   string
	Tag     string
	Message string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, fields ...FieldError) *ValidationError {
	return &ValidationError{Err: err, Fields: fields}
}

func (e *ValidationError) Error() string {
	if e.Err == nil {
		return ErrInvalidInput.Error()
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	if e.Err == nil {
		return ErrInvalidInput
	}
	return e.Err
}

// HasTag reports whether any field failed the given rule.
func (e *ValidationError) HasTag(tags ...string) bool {
	for _, f := range e.Fields {
		for _, tag := range tags {
			if f.Tag == tag {
				return true
			}
		}
	}
	return false
}
