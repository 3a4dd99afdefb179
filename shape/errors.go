package shape

import (
	"errors"
	"fmt"
)

var (
	ErrUnrecognizedValueType = errors.New("unrecognized value type")
	ErrDepthExceeded         = errors.New("nesting depth exceeded")
)

// ValueError reports the document location at which processing failed.
type ValueError struct {
	Path  string
	Value any
	Err   error
}

func (e *ValueError) Error() string {
	if errors.Is(e.Err, ErrUnrecognizedValueType) {
		return fmt.Sprintf("%s: %v (%T) at %s", e.Err, e.Value, e.Value, e.Path)
	}
	return fmt.Sprintf("%s at %s", e.Err, e.Path)
}

func (e *ValueError) Unwrap() error {
	return e.Err
}
