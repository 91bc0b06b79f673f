package combinator

import (
	"strings"

	"github.com/shibukawa/parsec/cursor"
)

// Seq runs a then b and concatenates their results. The first failure is
// returned as is, with the cursor wherever the failing parser left it.
func Seq[A, B Text](a Parser[A], b Parser[B]) Parser[string] {
	return func(c *cursor.Cursor) (string, error) {
		x, err := a(c)
		if err != nil {
			return "", err
		}

		y, err := b(c)
		if err != nil {
			return "", err
		}

		return text(x) + text(y), nil
	}
}

// Sequence runs parsers in order and concatenates their results.
func Sequence[T Text](parsers ...Parser[T]) Parser[string] {
	return func(c *cursor.Cursor) (string, error) {
		var sb strings.Builder

		for _, p := range parsers {
			v, err := p(c)
			if err != nil {
				return "", err
			}

			sb.WriteString(text(v))
		}

		return sb.String(), nil
	}
}

// Count runs p exactly n times and concatenates the results. Consumption up
// to a failure is kept.
func Count[T Text](n int, p Parser[T]) Parser[string] {
	return func(c *cursor.Cursor) (string, error) {
		var sb strings.Builder

		for range max(n, 0) {
			v, err := p(c)
			if err != nil {
				return "", err
			}

			sb.WriteString(text(v))
		}

		return sb.String(), nil
	}
}

// Or tries each alternative in turn. An alternative that fails after
// consuming input commits the choice: its failure is returned and later
// alternatives are not tried. Failures that consumed nothing are combined.
// Or(a, b, c) behaves as Or(Or(a, b), c).
func Or[T any](parsers ...Parser[T]) Parser[T] {
	if len(parsers) == 0 {
		return Fail[T]("no alternatives")
	}

	p := parsers[0]
	for _, next := range parsers[1:] {
		p = or(p, next)
	}

	return p
}

func or[T any](a, b Parser[T]) Parser[T] {
	return func(c *cursor.Cursor) (T, error) {
		var zero T

		start := c.Snapshot()

		v, err := a(c)
		if err == nil {
			return v, nil
		}

		first, ok := AsError(err)
		if !ok || !c.PositionEquals(start) {
			return zero, err
		}

		v, err = b(c)
		if err == nil {
			return v, nil
		}

		second, ok := AsError(err)
		if !ok || !c.PositionEquals(start) {
			return zero, err
		}

		return zero, merge(first, second, start)
	}
}

// Try restores the cursor when p fails, so the failure looks like it consumed
// nothing. The diagnostic is re-anchored at the restored position.
func Try[T any](p Parser[T]) Parser[T] {
	return func(c *cursor.Cursor) (T, error) {
		start := c.Snapshot()

		v, err := p(c)
		if err == nil {
			return v, nil
		}

		c.Restore(start)

		if perr, ok := AsError(err); ok {
			rolled := *perr
			rolled.Pos = start

			return v, &rolled
		}

		return v, err
	}
}

// ManyOf applies p until it fails and collects the results. The final
// failure is discarded and the cursor stays where p left it, so ManyOf never
// fails on a diagnostic. It also stops when p succeeds without consuming
// input, which would otherwise loop forever. The value of that zero-width
// match is not collected.
func ManyOf[T any](p Parser[T]) Parser[[]T] {
	return func(c *cursor.Cursor) ([]T, error) {
		var values []T

		for {
			start := c.Snapshot()

			v, err := p(c)
			if err != nil {
				if _, ok := AsError(err); ok {
					return values, nil
				}

				return nil, err
			}

			if c.PositionEquals(start) {
				return values, nil
			}

			values = append(values, v)
		}
	}
}

// Many is ManyOf with the results concatenated.
func Many[T Text](p Parser[T]) Parser[string] {
	return Map(ManyOf(p), concat[T])
}

// Many1Of is p followed by ManyOf(p).
func Many1Of[T any](p Parser[T]) Parser[[]T] {
	rest := ManyOf(p)

	return func(c *cursor.Cursor) ([]T, error) {
		first, err := p(c)
		if err != nil {
			return nil, err
		}

		more, err := rest(c)
		if err != nil {
			return nil, err
		}

		return append([]T{first}, more...), nil
	}
}

// Many1 is Seq(p, Many(p)).
func Many1[T Text](p Parser[T]) Parser[string] {
	return Seq(p, Many(p))
}

// SkipMany is ManyOf discarding the results.
func SkipMany[T any](p Parser[T]) Parser[struct{}] {
	return Right(ManyOf(p), Pure(struct{}{}))
}

// Map transforms the result of p with f.
func Map[A, B any](p Parser[A], f func(A) B) Parser[B] {
	return func(c *cursor.Cursor) (B, error) {
		v, err := p(c)
		if err != nil {
			var zero B
			return zero, err
		}

		return f(v), nil
	}
}

// Right runs a then b and keeps b's result.
func Right[A, B any](a Parser[A], b Parser[B]) Parser[B] {
	return func(c *cursor.Cursor) (B, error) {
		if _, err := a(c); err != nil {
			var zero B
			return zero, err
		}

		return b(c)
	}
}

// Left runs a then b and keeps a's result.
func Left[A, B any](a Parser[A], b Parser[B]) Parser[A] {
	return func(c *cursor.Cursor) (A, error) {
		var zero A

		v, err := a(c)
		if err != nil {
			return zero, err
		}

		if _, err := b(c); err != nil {
			return zero, err
		}

		return v, nil
	}
}

// Between runs open, p and closing and keeps p's result.
func Between[O, T, C any](open Parser[O], p Parser[T], closing Parser[C]) Parser[T] {
	return Left(Right(open, p), closing)
}

func concat[T Text](values []T) string {
	var sb strings.Builder
	for _, v := range values {
		sb.WriteString(text(v))
	}

	return sb.String()
}
