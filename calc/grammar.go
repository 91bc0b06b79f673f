// Package calc is an integer calculator expressed purely as combinators.
//
//	expr   = term, {("+", term) | ("-", term)}
//	term   = factor, {("*", factor) | ("/", factor)}
//	factor = [spaces], ("(", expr, ")") | number, [spaces]
//
// Each operator/operand pair becomes a Section and the chain is folded left
// to right while parsing; no syntax tree is built.
package calc

import (
	"fmt"
	"strconv"

	pc "github.com/shibukawa/parsec/combinator"
	"github.com/shibukawa/parsec/cursor"
)

// Number parses a run of ASCII digits as a non-negative int.
func Number() pc.Parser[int] {
	digits := pc.Many1(pc.Digit())

	return pc.Trace("number", func(c *cursor.Cursor) (int, error) {
		s, err := digits(c)
		if err != nil {
			return 0, err
		}

		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, &pc.Error{Kind: pc.Custom, Pos: c.Position(), Message: fmt.Sprintf("number out of range: %q", s)}
		}

		return n, nil
	})
}

// Apply turns the result of p into a Section for op.
func Apply(op Op, p pc.Parser[int]) pc.Parser[Section] {
	return pc.Map(p, func(operand int) Section {
		return Section{Op: op, Operand: operand}
	})
}

// Factor parses a parenthesized expression or a number, with surrounding
// spaces skipped.
func Factor() pc.Parser[int] {
	spaces := pc.Spaces()
	parens := pc.Between(pc.Char('('), pc.Lazy(Expr), pc.Char(')'))

	return pc.Trace("factor", pc.Between(spaces, pc.Or(parens, Number()), spaces))
}

// Term parses factors joined by '*' and '/'.
func Term() pc.Parser[int] {
	factor := Factor()

	return pc.Trace("term", chain(factor, pc.Or(
		pc.Right(pc.Char('*'), Apply(Mul, factor)),
		pc.Right(pc.Char('/'), Apply(Div, factor)),
	)))
}

// Expr parses terms joined by '+' and '-'.
func Expr() pc.Parser[int] {
	term := Term()

	return pc.Trace("expr", chain(term, pc.Or(
		pc.Right(pc.Char('+'), Apply(Add, term)),
		pc.Right(pc.Char('-'), Apply(Sub, term)),
	)))
}

// Evaluate parses and evaluates input, which must be a complete expression.
func Evaluate(input string, options ...cursor.Options) (int, error) {
	return pc.ParseAll(Expr(), input, options...)
}

// chain parses first and any number of sections, then folds them.
func chain(first pc.Parser[int], section pc.Parser[Section]) pc.Parser[int] {
	sections := pc.ManyOf(section)

	return func(c *cursor.Cursor) (int, error) {
		x, err := first(c)
		if err != nil {
			return 0, err
		}

		fs, err := sections(c)
		if err != nil {
			return 0, err
		}

		return Fold(x, fs)
	}
}
