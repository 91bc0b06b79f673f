package combinator

import (
	"fmt"

	"github.com/shibukawa/parsec/cursor"
)

// Satisfy consumes one character accepted by pred. On rejection it fails with
// "not <label>: '<char>'" without consuming anything.
func Satisfy(pred func(rune) bool, label string) Parser[rune] {
	return func(c *cursor.Cursor) (rune, error) {
		r, err := c.Peek()
		if err != nil {
			return 0, endOfInput(c)
		}

		if !pred(r) {
			return 0, unexpected(c, label, r, fmt.Sprintf("not %s: '%c'", label, r))
		}

		if err := c.Advance(); err != nil {
			return 0, endOfInput(c)
		}

		return r, nil
	}
}

// Char consumes exactly ch.
func Char(ch rune) Parser[rune] {
	return Satisfy(func(r rune) bool { return r == ch }, fmt.Sprintf("char '%c'", ch))
}

// AnyChar consumes any single character.
func AnyChar() Parser[rune] {
	return Satisfy(func(rune) bool { return true }, "any char")
}

// String consumes s character by character. A mismatch leaves the cursor at
// the offending character; wrap with Try when the match must be atomic.
func String(s string) Parser[string] {
	want := []rune(s)

	return func(c *cursor.Cursor) (string, error) {
		for _, w := range want {
			r, err := c.Peek()
			if err != nil {
				return "", endOfInput(c)
			}

			if r != w {
				return "", unexpected(c, fmt.Sprintf("string %q", s), r, fmt.Sprintf("not string %q: '%c'", s, r))
			}

			if err := c.Advance(); err != nil {
				return "", endOfInput(c)
			}
		}

		return s, nil
	}
}

// Fail consumes nothing and always fails with message, followed by the
// current character when there is one.
func Fail[T any](message string) Parser[T] {
	return func(c *cursor.Cursor) (T, error) {
		var zero T

		r, err := c.Peek()
		if err != nil {
			return zero, &Error{Kind: Custom, Pos: c.Position(), Message: message}
		}

		return zero, &Error{
			Kind:    Custom,
			Pos:     c.Position(),
			Actual:  r,
			Message: fmt.Sprintf("%s: '%c'", message, r),
		}
	}
}

// Pure consumes nothing and returns v.
func Pure[T any](v T) Parser[T] {
	return func(*cursor.Cursor) (T, error) {
		return v, nil
	}
}

// EOF succeeds only when all input has been consumed.
func EOF() Parser[struct{}] {
	return func(c *cursor.Cursor) (struct{}, error) {
		r, err := c.Peek()
		if err != nil {
			return struct{}{}, nil
		}

		return struct{}{}, unexpected(c, "end of input", r, fmt.Sprintf("expected end of input: '%c'", r))
	}
}
