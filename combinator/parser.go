// Package combinator is a backtracking parser-combinator engine over a
// cursor.Cursor.
//
// A Parser either returns a value with the cursor advanced, or fails with an
// *Error. How far the cursor moved before a failure matters: Or only tries the
// next alternative when the failed one consumed nothing, and Try turns any
// failure into a zero-consumption failure by restoring the cursor.
package combinator

import (
	"sync"

	"github.com/shibukawa/parsec/cursor"
)

// Parser consumes input from c and returns a value, or fails.
type Parser[T any] func(c *cursor.Cursor) (T, error)

// Text is the result type of parsers whose results can be concatenated.
type Text interface {
	rune | string
}

func text[T Text](v T) string {
	switch v := any(v).(type) {
	case rune:
		return string(v)
	case string:
		return v
	}

	return ""
}

// Parse runs p over a fresh cursor on input. Trailing input is allowed.
func Parse[T any](p Parser[T], input string, options ...cursor.Options) (T, error) {
	return p(cursor.New(input, options...))
}

// ParseAll runs p over a fresh cursor and requires it to consume all input.
func ParseAll[T any](p Parser[T], input string, options ...cursor.Options) (T, error) {
	return Parse(Left(p, EOF()), input, options...)
}

// Lazy defers building a parser until it is first used, so that mutually
// recursive productions can refer to each other.
func Lazy[T any](f func() Parser[T]) Parser[T] {
	var (
		once sync.Once
		p    Parser[T]
	)

	return func(c *cursor.Cursor) (T, error) {
		once.Do(func() { p = f() })
		return p(c)
	}
}

// Trace logs entry and outcome of p at debug level through the cursor's
// tracer. Without a tracer it is a plain call.
func Trace[T any](name string, p Parser[T]) Parser[T] {
	return func(c *cursor.Cursor) (T, error) {
		tracer := c.Tracer()
		if tracer == nil {
			return p(c)
		}

		start := c.Position()
		tracer.Debug("enter", "parser", name, "line", start.Line, "col", start.Column)

		v, err := p(c)
		end := c.Position()

		if err != nil {
			tracer.Debug("fail", "parser", name, "line", end.Line, "col", end.Column, "rest", c.Remaining(), "error", err)
			return v, err
		}

		tracer.Debug("ok", "parser", name, "line", end.Line, "col", end.Column, "consumed", end.Offset-start.Offset)

		return v, nil
	}
}
