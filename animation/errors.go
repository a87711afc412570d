package animation

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind separates malformed documents from well-formed but invalid ones.
type ErrorKind uint8

const (
	// KindDecode means the document did not match the descriptor schema.
	KindDecode ErrorKind = iota
	// KindValidation means the document decoded but describes an invalid animation.
	KindValidation
)

func (k ErrorKind) String() string {
	if k == KindValidation {
		return "validation"
	}
	return "decode"
}

// ParseError is returned by every parse entry point.
type ParseError struct {
	Kind ErrorKind
	Err  error
}

func (e *ParseError) Error() string {
	return "animation format is invalid: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error { return e.Err }

func decodeError(err error) *ParseError {
	return &ParseError{Kind: KindDecode, Err: err}
}

var (
	// ErrZeroDuration is reported for a frame whose duration is zero or missing.
	ErrZeroDuration = errors.New("invalid duration, must be > 0")
	// ErrDurationOverflow is reported for a millisecond count too large for time.Duration.
	ErrDurationOverflow = errors.New("invalid duration, too long")
	// ErrNegativeIndex is reported for a Descriptor built in code with a negative index.
	ErrNegativeIndex = errors.New("invalid frame index, must be >= 0")
)

// FrameError locates a validation failure in the frame list.
type FrameError struct {
	Position int
	Err      error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("frame %d: %v", e.Position, e.Err)
}

func (e *FrameError) Unwrap() error { return e.Err }

const frameEntryExpectation = "either a frame index, or a frame-index with a duration"

// InvalidFrameEntryError reports a frame entry that is neither a usable
// index nor an index record.
type InvalidFrameEntryError struct {
	Literal  string
	Expected string
}

func (e *InvalidFrameEntryError) Error() string {
	return fmt.Sprintf("invalid value: %s, expected %s", e.Literal, e.Expected)
}

func invalidFrameEntry(literal string) *InvalidFrameEntryError {
	return &InvalidFrameEntryError{Literal: literal, Expected: frameEntryExpectation}
}

// SyntaxError is a field-notation diagnostic with its source location.
// Err is set when the diagnostic wraps one of the typed errors above.
type SyntaxError struct {
	Line   int
	Column int
	Msg    string
	Err    error
}

func (e *SyntaxError) Error() string {
	msg := e.Msg
	if e.Err != nil {
		msg = e.Err.Error()
	}
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, msg)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// UnknownFieldError reports a key outside a closed record schema.
type UnknownFieldError struct {
	Field    string
	Expected []string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown field `%s`, expected one of %s", e.Field, quoteList(e.Expected))
}

// MissingFieldError reports a required key that is absent.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing field `%s`", e.Field)
}

// DuplicateFieldError reports a key written more than once in one record.
type DuplicateFieldError struct {
	Field string
}

func (e *DuplicateFieldError) Error() string {
	return fmt.Sprintf("duplicate field `%s`", e.Field)
}

// UnknownVariantError reports a loop mode that does not exist.
type UnknownVariantError struct {
	Variant string
}

func (e *UnknownVariantError) Error() string {
	return fmt.Sprintf("unknown variant `%s`, expected one of %s", e.Variant, quoteList(modeVariants))
}

var (
	frameEntryFields = []string{"index", "duration"}
	modeVariants     = []string{"Repeat", "RepeatFrom", "Once", "PingPong"}
)

func quoteList(names []string) string {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = "`" + name + "`"
	}
	return strings.Join(quoted, ", ")
}
