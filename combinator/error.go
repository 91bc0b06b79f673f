package combinator

import (
	"errors"
	"fmt"

	"github.com/shibukawa/parsec/cursor"
)

// Sentinel errors matched by Error.Is, one per Kind.
var (
	ErrEndOfInput     = errors.New("end of input")
	ErrUnexpectedChar = errors.New("unexpected character")
	ErrCustom         = errors.New("parse failure")
)

// Kind categorizes a diagnostic.
type Kind int

const (
	// EndOfInput means a parser tried to read past the end of the buffer.
	EndOfInput Kind = iota
	// UnexpectedChar means a character or literal did not match.
	UnexpectedChar
	// Custom is raised by Fail and by productions with their own checks.
	Custom
)

// String returns the string representation of Kind
func (k Kind) String() string {
	switch k {
	case EndOfInput:
		return "EndOfInput"
	case UnexpectedChar:
		return "UnexpectedChar"
	case Custom:
		return "Custom"
	default:
		return "Unknown"
	}
}

// Error is a parse diagnostic: a message anchored at the cursor position where
// the failure was detected (or the rollback position after Try).
//
// Only *Error values count as recoverable failures. Or, Try and the Many
// family intercept them; every other error is fatal and passes through
// unchanged.
type Error struct {
	Kind     Kind
	Pos      cursor.Position
	Expected string // label of what was required, empty for EndOfInput
	Actual   rune   // offending character, zero at end of input
	Message  string
}

// Error renders "[line L, col C] message".
func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s", e.Pos, e.Message)
}

// Is matches the sentinel for the diagnostic's Kind. EndOfInput also matches
// cursor.ErrEndOfInput.
func (e *Error) Is(target error) bool {
	switch e.Kind {
	case EndOfInput:
		return target == ErrEndOfInput || target == cursor.ErrEndOfInput
	case UnexpectedChar:
		return target == ErrUnexpectedChar
	case Custom:
		return target == ErrCustom
	}

	return false
}

// AsError extracts the diagnostic from err.
func AsError(err error) (*Error, bool) {
	var perr *Error
	if errors.As(err, &perr) {
		return perr, true
	}

	return nil, false
}

func endOfInput(c *cursor.Cursor) *Error {
	return &Error{
		Kind:    EndOfInput,
		Pos:     c.Position(),
		Message: cursor.ErrEndOfInput.Error(),
	}
}

func unexpected(c *cursor.Cursor, expected string, actual rune, message string) *Error {
	return &Error{
		Kind:     UnexpectedChar,
		Pos:      c.Position(),
		Expected: expected,
		Actual:   actual,
		Message:  message,
	}
}

// merge combines two diagnostics raised at the same position by sibling
// alternatives. Messages keep the order the alternatives were tried in.
func merge(first, second *Error, at cursor.Position) *Error {
	kind := Custom
	if first.Kind == second.Kind {
		kind = first.Kind
	}

	expected := first.Expected
	switch {
	case expected == "":
		expected = second.Expected
	case second.Expected != "":
		expected = first.Expected + " or " + second.Expected
	}

	actual := first.Actual
	if actual == 0 {
		actual = second.Actual
	}

	message := first.Message
	if second.Message != first.Message {
		message += " or " + second.Message
	}

	return &Error{
		Kind:     kind,
		Pos:      at,
		Expected: expected,
		Actual:   actual,
		Message:  message,
	}
}
