package kindle

import (
	"errors"
	"fmt"
)

var (
	// ErrEndedPrematurely indicates the input ended before a record separator
	ErrEndedPrematurely = errors.New("file ended prematurely")

	// ErrKindCapture indicates the header named an unknown annotation kind
	ErrKindCapture = errors.New("capturing entry kind")

	// ErrLocationCapture indicates the end of a location range is not a number
	// or lies before its start
	ErrLocationCapture = errors.New("capturing entry location")

	// ErrDateCapture indicates the header timestamp could not be parsed
	ErrDateCapture = errors.New("capturing entry date")

	// ErrOther covers malformed records with no more specific cause,
	// such as a title line with nothing after it
	ErrOther = errors.New("other error")
)

// InfoLineError is returned when the header line of a record does not have
// the expected shape.
type InfoLineError struct {
	DocumentTitle string
}

func (e *InfoLineError) Error() string {
	return fmt.Sprintf("matching info line (for document %q)", e.DocumentTitle)
}

// ParseError wraps a record-level failure with the line at which it was
// detected. Parsing can continue after a ParseError.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
