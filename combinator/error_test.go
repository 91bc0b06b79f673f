package combinator

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/shibukawa/parsec/cursor"
)

func TestErrorIs(t *testing.T) {
	tests := []struct {
		kind    Kind
		matches []error
		misses  []error
	}{
		{kind: EndOfInput, matches: []error{ErrEndOfInput, cursor.ErrEndOfInput}, misses: []error{ErrUnexpectedChar, ErrCustom}},
		{kind: UnexpectedChar, matches: []error{ErrUnexpectedChar}, misses: []error{ErrEndOfInput, ErrCustom}},
		{kind: Custom, matches: []error{ErrCustom}, misses: []error{ErrEndOfInput, ErrUnexpectedChar}},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			err := fmt.Errorf("wrapped: %w", &Error{Kind: tt.kind, Pos: cursor.Position{Line: 1, Column: 1}})
			for _, target := range tt.matches {
				assert.True(t, errors.Is(err, target))
			}
			for _, target := range tt.misses {
				assert.False(t, errors.Is(err, target))
			}

			perr, ok := AsError(err)
			assert.True(t, ok)
			assert.Equal(t, tt.kind, perr.Kind)
		})
	}
}

func TestErrorFormat(t *testing.T) {
	err := &Error{Kind: Custom, Pos: cursor.Position{Offset: 12, Line: 2, Column: 5}, Message: "broken"}
	assert.Equal(t, "[line 2, col 5] broken", err.Error())
	assert.Equal(t, "Unknown", Kind(99).String())
}

func TestDiagnosticsAcrossLines(t *testing.T) {
	_, err := Parse(Sequence(Char('a'), Char('\n'), Char('b')), "a\nc")
	assert.EqualError(t, err, "[line 2, col 1] not char 'b': 'c'")
}

func TestTrace(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	p := Trace("number", Many1(Trace("digit", Digit())))

	got, err := Parse(p, "12x", cursor.Options{Tracer: logger})
	assert.NoError(t, err)
	assert.Equal(t, "12", got)

	out := buf.String()
	assert.Contains(t, out, "msg=enter parser=number")
	assert.Contains(t, out, "msg=ok parser=digit")
	assert.Contains(t, out, "msg=fail parser=digit line=1 col=3 rest=x")
	assert.Contains(t, out, "consumed=2")
}

func TestTraceWithoutTracer(t *testing.T) {
	got, err := Parse(Trace("digit", Digit()), "7")
	assert.NoError(t, err)
	assert.Equal(t, '7', got)
}
