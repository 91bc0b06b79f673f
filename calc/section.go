package calc

import (
	"errors"
	"fmt"
)

// ErrDivisionByZero is wrapped by ArithmeticError when a fold divides by zero.
var ErrDivisionByZero = errors.New("division by zero")

// ArithmeticError is a fault raised while folding Sections. It is not a parse
// diagnostic, so alternation and repetition never swallow it.
type ArithmeticError struct {
	Op    Op
	Left  int
	Right int
	Err   error
}

func (e *ArithmeticError) Error() string {
	return fmt.Sprintf("%v: %d %s %d", e.Err, e.Left, e.Op, e.Right)
}

func (e *ArithmeticError) Unwrap() error {
	return e.Err
}

// Op is a binary operator of the grammar.
type Op int

const (
	Add Op = iota
	Sub
	Mul
	Div
)

// String returns the operator symbol
func (o Op) String() string {
	switch o {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	default:
		return "?"
	}
}

// Section is a deferred binary operation with its right-hand operand bound.
// Applying it to an accumulator x computes x Op Operand.
type Section struct {
	Op      Op
	Operand int
}

// Apply computes acc Op Operand. Division truncates toward zero.
func (s Section) Apply(acc int) (int, error) {
	switch s.Op {
	case Add:
		return acc + s.Operand, nil
	case Sub:
		return acc - s.Operand, nil
	case Mul:
		return acc * s.Operand, nil
	case Div:
		if s.Operand == 0 {
			return 0, &ArithmeticError{Op: s.Op, Left: acc, Right: s.Operand, Err: ErrDivisionByZero}
		}
		return acc / s.Operand, nil
	}

	return 0, fmt.Errorf("unknown operator %d", int(s.Op))
}

// Fold applies sections to init strictly left to right.
func Fold(init int, sections []Section) (int, error) {
	acc := init
	for _, s := range sections {
		var err error
		if acc, err = s.Apply(acc); err != nil {
			return 0, err
		}
	}

	return acc, nil
}
