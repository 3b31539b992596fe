package markup

import (
	"errors"
	"fmt"
)

// ErrEmptyMarkup is returned when the markup holds no element.
var ErrEmptyMarkup = errors.New("markup contains no elements")

// ParseError locates a structural error in the markup.
type ParseError struct {
	Line   int
	Column int
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("markup:%d:%d: %v", e.Line, e.Column, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
