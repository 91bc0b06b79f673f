package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shibukawa/parsec"
	"github.com/shibukawa/parsec/runner"
	"github.com/shibukawa/parsec/testhelper"
)

func newTestContext(t *testing.T) (*Context, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	return &Context{
		Config: filepath.Join(t.TempDir(), "parsec.yaml"),
		Stdout: &stdout,
		Stderr: &stderr,
	}, &stdout, &stderr
}

func TestVersionCmd(t *testing.T) {
	ctx, stdout, _ := newTestContext(t)

	require.NoError(t, (&VersionCmd{}).Run(ctx))
	assert.Equal(t, "parsec v0.1.0\n", stdout.String())
}

func TestEvalCmd(t *testing.T) {
	t.Run("SingleInput", func(t *testing.T) {
		ctx, stdout, _ := newTestContext(t)

		cmd := &EvalCmd{Inputs: []string{"( 2 + 3 ) * 4"}}
		require.NoError(t, cmd.Run(ctx))
		assert.Equal(t, "20\n", stdout.String())
	})

	t.Run("MultipleInputs", func(t *testing.T) {
		ctx, stdout, _ := newTestContext(t)

		cmd := &EvalCmd{Inputs: []string{"1+2", "abc"}}
		err := cmd.Run(ctx)
		assert.ErrorIs(t, err, ErrEvalFailed)

		lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
		require.Len(t, lines, 2)
		assert.Equal(t, `"1+2": 3`, lines[0])
		assert.Equal(t, `"abc": [line 1, col 1] not char '(': 'a' or not digit: 'a'`, lines[1])
	})

	t.Run("QuietPrintsValuesOnly", func(t *testing.T) {
		ctx, stdout, _ := newTestContext(t)
		ctx.Quiet = true

		cmd := &EvalCmd{Inputs: []string{"1+2", "2*3"}}
		require.NoError(t, cmd.Run(ctx))
		assert.Equal(t, "3\n6\n", stdout.String())
	})

	t.Run("OtherParser", func(t *testing.T) {
		ctx, stdout, _ := newTestContext(t)

		cmd := &EvalCmd{Parser: "test4", Inputs: []string{"!"}}
		assert.ErrorIs(t, cmd.Run(ctx), ErrEvalFailed)
		assert.Equal(t, "[line 1, col 1] not letter: '!' or not digit: '!'\n", stdout.String())
	})

	t.Run("DivisionByZero", func(t *testing.T) {
		ctx, stdout, _ := newTestContext(t)

		cmd := &EvalCmd{Inputs: []string{"2+(1/0)"}}
		assert.ErrorIs(t, cmd.Run(ctx), ErrEvalFailed)
		assert.Contains(t, stdout.String(), "division by zero")
	})

	t.Run("Crosscheck", func(t *testing.T) {
		ctx, stdout, _ := newTestContext(t)

		cmd := &EvalCmd{Crosscheck: true, Inputs: []string{"9223372036854775807+1"}}
		assert.ErrorIs(t, cmd.Run(ctx), ErrEvalFailed)
		assert.Contains(t, stdout.String(), "result mismatch")

		stdout.Reset()

		cmd = &EvalCmd{Crosscheck: true, Inputs: []string{"100/10/2"}}
		require.NoError(t, cmd.Run(ctx))
		assert.Equal(t, "5\n", stdout.String())
	})

	t.Run("Trace", func(t *testing.T) {
		ctx, _, stderr := newTestContext(t)

		cmd := &EvalCmd{Trace: true, Inputs: []string{"7"}}
		require.NoError(t, cmd.Run(ctx))
		assert.Contains(t, stderr.String(), "parser=number")
	})

	t.Run("UnknownParser", func(t *testing.T) {
		ctx, _, _ := newTestContext(t)

		cmd := &EvalCmd{Parser: "sql", Inputs: []string{"1"}}
		assert.ErrorIs(t, cmd.Run(ctx), runner.ErrUnknownParser)
	})

	t.Run("NoInput", func(t *testing.T) {
		ctx, _, _ := newTestContext(t)

		assert.ErrorIs(t, (&EvalCmd{}).Run(ctx), ErrNoInput)
	})

	t.Run("DefaultParserFromConfig", func(t *testing.T) {
		ctx, stdout, _ := newTestContext(t)
		require.NoError(t, os.WriteFile(ctx.Config, []byte("default_parser: test7\n"), 0o644))

		cmd := &EvalCmd{Inputs: []string{"abc123"}}
		require.NoError(t, cmd.Run(ctx))
		assert.Equal(t, "abc\n", stdout.String())
	})
}

func TestCheckCmd(t *testing.T) {
	dir := t.TempDir()

	passing := testhelper.WriteFile(t, dir, "pass.yaml", testhelper.TrimIndent(t, `
		parser: expr
		cases:
		- name: precedence
		  input: "2+3*4"
		  want: "14"
		- name: garbage
		  input: "1+2)"
		  error: "expected end of input"
	`))

	failing := testhelper.WriteFile(t, dir, "fail.md", testhelper.TrimIndent(t, `
		## Cases

		| name | input | want |
		|------|-------|------|
		| off by one | `+"`1+1`"+` | 3 |
	`))

	t.Run("Passing", func(t *testing.T) {
		ctx, stdout, _ := newTestContext(t)

		cmd := &CheckCmd{Files: []string{passing}}
		require.NoError(t, cmd.Run(ctx))
		assert.Contains(t, stdout.String(), "Cases: 2 total, 2 passed, 0 failed")
		assert.Contains(t, stdout.String(), "All cases passed!")
	})

	t.Run("Failing", func(t *testing.T) {
		ctx, stdout, _ := newTestContext(t)

		cmd := &CheckCmd{Files: []string{dir}}
		assert.ErrorIs(t, cmd.Run(ctx), parsec.ErrCasesFailed)
		assert.Contains(t, stdout.String(), "off by one")
		assert.Contains(t, stdout.String(), `want "3", got "2"`)
	})

	t.Run("RunPattern", func(t *testing.T) {
		ctx, stdout, _ := newTestContext(t)

		cmd := &CheckCmd{Files: []string{passing, failing}, RunPattern: "^prec"}
		require.NoError(t, cmd.Run(ctx))
		assert.Contains(t, stdout.String(), "Cases: 1 total, 1 passed, 0 failed")
	})

	t.Run("PathsFromConfig", func(t *testing.T) {
		ctx, stdout, _ := newTestContext(t)
		t.Setenv("PARSEC_CASES_FILE", passing)
		require.NoError(t, os.WriteFile(ctx.Config, []byte("cases:\n  paths:\n    - ${PARSEC_CASES_FILE}\n"), 0o644))

		require.NoError(t, (&CheckCmd{}).Run(ctx))
		assert.Contains(t, stdout.String(), "2 passed")
	})

	t.Run("NoFiles", func(t *testing.T) {
		ctx, _, _ := newTestContext(t)

		assert.ErrorIs(t, (&CheckCmd{}).Run(ctx), parsec.ErrNoCaseFiles)
	})

	t.Run("InvalidPattern", func(t *testing.T) {
		ctx, _, _ := newTestContext(t)

		err := (&CheckCmd{Files: []string{passing}, RunPattern: "[oops"}).Run(ctx)
		assert.ErrorContains(t, err, "invalid run pattern")
	})

	t.Run("InvalidConfig", func(t *testing.T) {
		ctx, _, _ := newTestContext(t)
		require.NoError(t, os.WriteFile(ctx.Config, []byte("color: rainbow\n"), 0o644))

		err := (&CheckCmd{Files: []string{passing}}).Run(ctx)
		assert.ErrorIs(t, err, parsec.ErrConfigValidation)
	})
}

func TestDemoCmd(t *testing.T) {
	ctx, stdout, _ := newTestContext(t)

	require.NoError(t, (&DemoCmd{}).Run(ctx))

	output := stdout.String()
	assert.Contains(t, output, `"abc123"`)
	assert.Contains(t, output, "[line 1, col 2] not char 'b': 'c'")
	assert.Contains(t, output, "( 2 + 3 ) * 4")

	lines := strings.Split(strings.TrimSpace(output), "\n")
	assert.Len(t, lines, len(runner.DemoCases()))
}

func TestParsersCmd(t *testing.T) {
	ctx, stdout, _ := newTestContext(t)

	require.NoError(t, (&ParsersCmd{}).Run(ctx))

	output := stdout.String()
	assert.Contains(t, output, "expr")
	assert.Contains(t, output, "arithmetic expression")
	assert.Contains(t, output, "test13")
	assert.Contains(t, output, "char:<c>")
}

func TestNewLogger(t *testing.T) {
	config := &parsec.Config{LogLevel: "info"}
	background := context.Background()

	ctx, _, _ := newTestContext(t)
	logger := newLogger(ctx, config)
	assert.True(t, logger.Enabled(background, slog.LevelInfo))
	assert.False(t, logger.Enabled(background, slog.LevelDebug))

	ctx.Verbose = true
	assert.True(t, newLogger(ctx, config).Enabled(background, slog.LevelDebug))

	ctx.Verbose = false
	ctx.Quiet = true
	assert.False(t, newLogger(ctx, config).Enabled(background, slog.LevelWarn))

	assert.Nil(t, newTracer(ctx, false))
	assert.True(t, newTracer(ctx, true).Enabled(background, slog.LevelDebug))
}
