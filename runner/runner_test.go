package runner

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shibukawa/parsec/calc"
	"github.com/shibukawa/parsec/casefile"
	"github.com/shibukawa/parsec/oracle"
)

func newQuietRunner(t *testing.T) (*CaseRunner, *bytes.Buffer) {
	t.Helper()

	var out bytes.Buffer

	cr := NewCaseRunner(nil)
	cr.SetOutput(&out)
	cr.SetLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))

	return cr, &out
}

func TestNewCaseRunner(t *testing.T) {
	cr := NewCaseRunner(nil)

	assert.NotNil(t, cr.registry)
	assert.False(t, cr.verbose)
	assert.Nil(t, cr.runPattern)
	assert.Nil(t, cr.oracle)
}

func TestSetRunPattern(t *testing.T) {
	cr := NewCaseRunner(nil)

	err := cr.SetRunPattern("^expr")
	assert.NoError(t, err)
	assert.Equal(t, "^expr", cr.runPattern.String())

	err = cr.SetRunPattern("")
	assert.NoError(t, err)
	assert.Nil(t, cr.runPattern)

	err = cr.SetRunPattern("[invalid")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid run pattern")
}

func TestDemoCasesPass(t *testing.T) {
	o, err := oracle.New()
	require.NoError(t, err)

	cr, _ := newQuietRunner(t)
	cr.SetCrosscheck(o)

	cases := DemoCases()
	summary, err := cr.RunCases(context.Background(), cases)
	require.NoError(t, err)

	for _, result := range summary.Results {
		assert.True(t, result.Success, "%s: %v", result.Case.Name, result.Failure)
	}

	assert.Equal(t, len(cases), summary.TotalCases)
	assert.Equal(t, 0, summary.FailedCases)
	assert.False(t, summary.Failed())
}

func strptr(s string) *string {
	return &s
}

func TestRunCase(t *testing.T) {
	tests := []struct {
		name    string
		c       casefile.Case
		wantErr error
	}{
		{
			name: "value matches",
			c:    casefile.Case{Name: "ok", Parser: "expr", Input: "1+2", Want: strptr("3")},
		},
		{
			name: "diagnostic substring matches",
			c:    casefile.Case{Name: "diag", Parser: "number", Input: "abc", Error: "not digit: 'a'"},
		},
		{
			name: "fatal error matches",
			c:    casefile.Case{Name: "div", Parser: "expr", Input: "2+(1/0)", Error: "division by zero"},
		},
		{
			name:    "wrong value",
			c:       casefile.Case{Name: "bad", Parser: "expr", Input: "1+2", Want: strptr("4")},
			wantErr: ErrUnexpectedValue,
		},
		{
			name:    "unexpected success",
			c:       casefile.Case{Name: "succ", Parser: "expr", Input: "1+2", Error: "anything"},
			wantErr: ErrUnexpectedSuccess,
		},
		{
			name:    "unexpected error",
			c:       casefile.Case{Name: "err", Parser: "expr", Input: "1/0", Want: strptr("0")},
			wantErr: ErrUnexpectedError,
		},
		{
			name:    "diagnostic mismatch",
			c:       casefile.Case{Name: "mismatch", Parser: "digit", Input: "a", Error: "not letter"},
			wantErr: ErrDiagnosticMismatch,
		},
		{
			name:    "unknown parser",
			c:       casefile.Case{Name: "unknown", Parser: "nope", Input: "a", Want: strptr("a")},
			wantErr: ErrUnknownParser,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cr, _ := newQuietRunner(t)

			result := cr.RunCase(tt.c)
			if tt.wantErr == nil {
				assert.True(t, result.Success, "%v", result.Failure)
				assert.NoError(t, result.Failure)
			} else {
				assert.False(t, result.Success)
				assert.ErrorIs(t, result.Failure, tt.wantErr)
			}
		})
	}
}

func TestRunCaseFatalErrorIsKept(t *testing.T) {
	cr, _ := newQuietRunner(t)

	result := cr.RunCase(casefile.Case{Name: "div", Parser: "expr", Input: "1/0", Error: "division"})
	assert.True(t, result.Success)
	assert.ErrorIs(t, result.Err, calc.ErrDivisionByZero)
}

func TestRunCaseCrosscheckMismatch(t *testing.T) {
	o, err := oracle.New()
	require.NoError(t, err)

	cr, _ := newQuietRunner(t)
	cr.SetCrosscheck(o)

	// int wraps around, CEL reports overflow
	result := cr.RunCase(casefile.Case{
		Name:   "overflow",
		Parser: "expr",
		Input:  "9223372036854775807+1",
		Want:   strptr("-9223372036854775808"),
	})
	assert.False(t, result.Success)
	assert.ErrorIs(t, result.Failure, oracle.ErrMismatch)

	// non-arithmetic entries are not cross-checked
	result = cr.RunCase(casefile.Case{Name: "digit", Parser: "digit", Input: "1", Want: strptr("1")})
	assert.True(t, result.Success)
}

func TestRunCaseTrace(t *testing.T) {
	var trace bytes.Buffer

	cr, _ := newQuietRunner(t)
	cr.SetTracer(slog.New(slog.NewTextHandler(&trace, &slog.HandlerOptions{Level: slog.LevelDebug})))

	result := cr.RunCase(casefile.Case{Name: "traced", Parser: "test4", Input: "1", Want: strptr("1")})
	require.True(t, result.Success)
	assert.Contains(t, trace.String(), "parser=test4")
}

func TestRunCasesPatternAndVerbose(t *testing.T) {
	cr, out := newQuietRunner(t)
	cr.SetVerbose(true)
	require.NoError(t, cr.SetRunPattern("^expr"))

	cases := []casefile.Case{
		{Name: "expr ok", Parser: "expr", Input: "2*3", Want: strptr("6")},
		{Name: "expr bad", Parser: "expr", Input: "2*3", Want: strptr("7")},
		{Name: "skipped", Parser: "digit", Input: "1", Want: strptr("1")},
	}

	summary, err := cr.RunCases(context.Background(), cases)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.TotalCases)
	assert.Equal(t, 1, summary.PassedCases)
	assert.Equal(t, 1, summary.FailedCases)
	assert.True(t, summary.Failed())

	output := out.String()
	assert.Contains(t, output, "=== RUN   expr ok")
	assert.Contains(t, output, "--- PASS: expr ok")
	assert.Contains(t, output, "--- FAIL: expr bad")
	assert.Contains(t, output, `want "7", got "6"`)
	assert.NotContains(t, output, "skipped")
}

func TestRunCasesCancelled(t *testing.T) {
	cr, _ := newQuietRunner(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := cr.RunCases(ctx, DemoCases())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunFiles(t *testing.T) {
	dir := t.TempDir()

	good := "parser: expr\ncases:\n  - name: sum\n    input: \"1+2\"\n    want: \"3\"\n  - name: wrong\n    input: \"2*2\"\n    want: \"5\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "good.yaml"), []byte(good), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("cases:\n  - input: \"1\"\n"), 0o644))

	cr, out := newQuietRunner(t)

	summary, err := cr.RunFiles(context.Background(), []string{dir})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.TotalCases)
	assert.Equal(t, 1, summary.PassedCases)
	assert.Len(t, summary.LoadErrors, 1)
	assert.ErrorIs(t, summary.LoadErrors[0], casefile.ErrInvalidCase)

	cr.PrintSummary(summary)

	output := out.String()
	assert.Contains(t, output, "=== Case Summary ===")
	assert.Contains(t, output, "Cases: 2 total, 1 passed, 1 failed")
	assert.Contains(t, output, "Unreadable files:")
	assert.Contains(t, output, "wrong (")
	assert.Contains(t, output, "Some cases failed!")
}

func TestPrintSummaryAllPassed(t *testing.T) {
	cr, out := newQuietRunner(t)

	cr.PrintSummary(&Summary{TotalCases: 3, PassedCases: 3})

	assert.Contains(t, out.String(), "Cases: 3 total, 3 passed, 0 failed")
	assert.Contains(t, out.String(), "All cases passed!")
}

func TestRunCaseDefaultParser(t *testing.T) {
	cr, _ := newQuietRunner(t)

	result := cr.RunCase(casefile.Case{Name: "implicit", Input: "2*3", Want: strptr("6")})
	assert.True(t, result.Success)
	assert.Equal(t, "expr", result.Case.Parser)

	cr.SetDefaultParser("test7")
	result = cr.RunCase(casefile.Case{Name: "implicit", Input: "ab1", Want: strptr("ab")})
	assert.True(t, result.Success, "%v", result.Failure)
}
