package cursor

import (
	"errors"
	"fmt"
	"log/slog"
)

// ErrEndOfInput is returned when reading at or past the end of the buffer.
var ErrEndOfInput = errors.New("unexpected end of input")

// Position is a point in the input. Offset is the rune index (0-based),
// Line/Column are 1-based for error reporting.
type Position struct {
	Offset int
	Line   int
	Column int
}

// String renders the position the way diagnostics prefix it.
func (p Position) String() string {
	return fmt.Sprintf("line %d, col %d", p.Line, p.Column)
}

// Options are options for the cursor
type Options struct {
	// Tracer receives debug records from combinator.Trace. Nil disables tracing.
	Tracer *slog.Logger
}

// Cursor is a read position over an immutable rune buffer.
type Cursor struct {
	src    []rune
	pos    Position
	tracer *slog.Logger
}

// New creates a cursor at the start of input.
func New(input string, options ...Options) *Cursor {
	var opts Options
	if len(options) > 0 {
		opts = options[0]
	}

	return &Cursor{
		src:    []rune(input),
		pos:    Position{Offset: 0, Line: 1, Column: 1},
		tracer: opts.Tracer,
	}
}

// Peek returns the rune at the current offset without consuming it.
func (c *Cursor) Peek() (rune, error) {
	if c.AtEnd() {
		return 0, ErrEndOfInput
	}

	return c.src[c.pos.Offset], nil
}

// Advance consumes one rune and keeps Line/Column in step with the offset.
func (c *Cursor) Advance() error {
	if c.AtEnd() {
		return ErrEndOfInput
	}

	if c.src[c.pos.Offset] == '\n' {
		c.pos.Line++
		c.pos.Column = 1
	} else {
		c.pos.Column++
	}

	c.pos.Offset++

	return nil
}

// Snapshot captures the current position for a later Restore.
func (c *Cursor) Snapshot() Position {
	return c.pos
}

// Restore reinstates a position captured by Snapshot.
func (c *Cursor) Restore(p Position) {
	c.pos = p
}

// PositionEquals reports whether the cursor is still at p. Combinators use it
// to decide whether a failed parser consumed input.
func (c *Cursor) PositionEquals(p Position) bool {
	return c.pos == p
}

// Position returns the current position.
func (c *Cursor) Position() Position {
	return c.pos
}

// AtEnd reports whether all input has been consumed.
func (c *Cursor) AtEnd() bool {
	return c.pos.Offset >= len(c.src)
}

// Remaining returns the unconsumed input.
func (c *Cursor) Remaining() string {
	if c.AtEnd() {
		return ""
	}

	return string(c.src[c.pos.Offset:])
}

// Tracer returns the logger configured through Options, or nil.
func (c *Cursor) Tracer() *slog.Logger {
	return c.tracer
}
