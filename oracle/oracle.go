// Package oracle evaluates arithmetic with CEL so calculator results can be
// checked against an independent implementation.
package oracle

import (
	"errors"
	"fmt"

	"github.com/google/cel-go/cel"
)

var (
	ErrCompile     = errors.New("oracle compile error")
	ErrEvaluation  = errors.New("oracle evaluation error")
	ErrNotInteger  = errors.New("oracle result is not an integer")
	ErrMismatch    = errors.New("result mismatch")
	ErrEnvNotReady = errors.New("oracle environment is not initialized")
)

// Oracle wraps a CEL environment without variables.
type Oracle struct {
	env *cel.Env
}

// New creates an Oracle.
func New() (*Oracle, error) {
	env, err := cel.NewEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	return &Oracle{env: env}, nil
}

// Evaluate computes expr as a CEL int expression. Integer overflow and
// division by zero are evaluation errors.
func (o *Oracle) Evaluate(expr string) (int64, error) {
	if o == nil || o.env == nil {
		return 0, ErrEnvNotReady
	}

	ast, issues := o.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return 0, fmt.Errorf("%w: %v", ErrCompile, issues.Err())
	}

	program, err := o.env.Program(ast)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to create CEL program: %v", ErrCompile, err)
	}

	result, _, err := program.Eval(map[string]any{})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrEvaluation, err)
	}

	v, ok := result.Value().(int64)
	if !ok {
		return 0, fmt.Errorf("%w: %s has type %s", ErrNotInteger, expr, result.Type().TypeName())
	}

	return v, nil
}

// Crosscheck evaluates expr and compares the result with got. An oracle
// failure counts as a mismatch.
func (o *Oracle) Crosscheck(expr string, got int) error {
	want, err := o.Evaluate(expr)
	if err != nil {
		return fmt.Errorf("%w: %q evaluated to %d, oracle failed: %w", ErrMismatch, expr, got, err)
	}

	if int64(got) != want {
		return fmt.Errorf("%w: %q evaluated to %d, oracle says %d", ErrMismatch, expr, got, want)
	}

	return nil
}
