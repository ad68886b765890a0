package quiz

import (
	"errors"
	"fmt"
)

// ErrEmptyCaption is returned when the caption is blank after trimming.
// It is the only error a generate call surfaces to its caller.
var ErrEmptyCaption = errors.New("empty_caption")

// ErrShuffleMismatch means the correct answer could not be located among
// the options. It signals a caller bug: the correct answer must be present
// before shuffling.
var ErrShuffleMismatch = errors.New("correct answer not found among options")

// InsufficientParseError reports that a backend produced fewer usable items
// than requested.
type InsufficientParseError struct {
	Got  int
	Want int
}

func (e *InsufficientParseError) Error() string {
	return fmt.Sprintf("parsed %d of %d quiz items", e.Got, e.Want)
}

// ValidationError describes why an item failed validation.
type ValidationError struct {
	Validator string // Name of the validator that failed
	Message   string // Human-readable description of the failure
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}
