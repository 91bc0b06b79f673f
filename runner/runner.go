// Package runner executes parse cases against named parsers and reports the
// outcome.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/shibukawa/parsec/casefile"
	"github.com/shibukawa/parsec/cursor"
	"github.com/shibukawa/parsec/oracle"
)

// Failure reasons recorded on CaseResult.Failure.
var (
	ErrUnexpectedValue    = errors.New("unexpected value")
	ErrUnexpectedSuccess  = errors.New("expected a parse error")
	ErrUnexpectedError    = errors.New("unexpected parse error")
	ErrDiagnosticMismatch = errors.New("diagnostic mismatch")
)

var (
	passFmt    = color.New(color.FgGreen).SprintfFunc()
	failFmt    = color.New(color.FgRed).SprintfFunc()
	headingFmt = color.New(color.FgBlue, color.Bold).SprintfFunc()
)

// CaseResult is the outcome of one case.
type CaseResult struct {
	Case     casefile.Case
	Success  bool
	Got      string // rendered value, empty when parsing failed
	Err      error  // error returned by the parser
	Failure  error  // why the case failed, nil on success
	Duration time.Duration
}

// Summary aggregates the results of a run.
type Summary struct {
	TotalCases    int
	PassedCases   int
	FailedCases   int
	TotalDuration time.Duration
	Results       []CaseResult
	LoadErrors    []error
}

// Failed reports whether any case failed or any file could not be loaded.
func (s *Summary) Failed() bool {
	return s.FailedCases > 0 || len(s.LoadErrors) > 0
}

// CaseRunner runs cases through a Registry.
type CaseRunner struct {
	registry      *Registry
	defaultParser string
	oracle        *oracle.Oracle
	verbose       bool
	runPattern    *regexp.Regexp
	tracer        *slog.Logger
	logger        *slog.Logger
	out           io.Writer
}

// NewCaseRunner creates a runner. A nil registry means NewRegistry().
func NewCaseRunner(registry *Registry) *CaseRunner {
	if registry == nil {
		registry = NewRegistry()
	}

	return &CaseRunner{
		registry:      registry,
		defaultParser: "expr",
		logger:        slog.Default(),
		out:           os.Stdout,
	}
}

// SetDefaultParser sets the parser used by cases that do not name one.
func (cr *CaseRunner) SetDefaultParser(name string) {
	cr.defaultParser = name
}

// SetVerbose enables or disables per-case output
func (cr *CaseRunner) SetVerbose(verbose bool) {
	cr.verbose = verbose
}

// SetRunPattern sets the case name filter pattern
func (cr *CaseRunner) SetRunPattern(pattern string) error {
	if pattern == "" {
		cr.runPattern = nil
		return nil
	}

	regex, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("invalid run pattern: %w", err)
	}

	cr.runPattern = regex

	return nil
}

// SetCrosscheck compares arithmetic results with o. Nil disables it.
func (cr *CaseRunner) SetCrosscheck(o *oracle.Oracle) {
	cr.oracle = o
}

// SetTracer routes parse traces to logger. Nil disables tracing.
func (cr *CaseRunner) SetTracer(logger *slog.Logger) {
	cr.tracer = logger
}

// SetLogger sets the logger for progress messages.
func (cr *CaseRunner) SetLogger(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	cr.logger = logger
}

// SetOutput redirects console output.
func (cr *CaseRunner) SetOutput(out io.Writer) {
	cr.out = out
}

// RunFiles loads every case file under paths and runs the cases. Files that
// fail to load are reported in Summary.LoadErrors.
func (cr *CaseRunner) RunFiles(ctx context.Context, paths []string) (*Summary, error) {
	files, err := casefile.Collect(paths)
	if err != nil {
		return nil, fmt.Errorf("failed to find case files: %w", err)
	}

	if cr.verbose {
		fmt.Fprintf(cr.out, "Found %d case files\n", len(files))
	}

	var (
		cases      []casefile.Case
		loadErrors []error
	)

	for _, path := range files {
		file, err := casefile.Load(path)
		if err != nil {
			cr.logger.Warn("failed to load case file", "path", path, "error", err)
			loadErrors = append(loadErrors, err)

			continue
		}

		cases = append(cases, file.Cases...)
	}

	summary, err := cr.RunCases(ctx, cases)
	if err != nil {
		return nil, err
	}

	summary.LoadErrors = loadErrors

	return summary, nil
}

// RunCases runs cases in order, skipping those filtered out by the run
// pattern. It stops early when ctx is cancelled.
func (cr *CaseRunner) RunCases(ctx context.Context, cases []casefile.Case) (*Summary, error) {
	summary := &Summary{Results: make([]CaseResult, 0, len(cases))}
	startTime := time.Now()

	for _, c := range cases {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("case run interrupted: %w", err)
		}

		if cr.runPattern != nil && !cr.runPattern.MatchString(c.Name) {
			continue
		}

		if cr.verbose {
			fmt.Fprintf(cr.out, "=== RUN   %s\n", c.Name)
		}

		result := cr.RunCase(c)
		summary.Results = append(summary.Results, result)
		summary.TotalCases++

		if result.Success {
			summary.PassedCases++
			if cr.verbose {
				fmt.Fprintln(cr.out, passFmt("--- PASS: %s (%.3fs)", c.Name, result.Duration.Seconds()))
			}
		} else {
			summary.FailedCases++
			if cr.verbose {
				fmt.Fprintln(cr.out, failFmt("--- FAIL: %s (%.3fs)", c.Name, result.Duration.Seconds()))
				fmt.Fprintf(cr.out, "    Error: %v\n", result.Failure)
			}
		}
	}

	summary.TotalDuration = time.Since(startTime)

	return summary, nil
}

// RunCase runs a single case regardless of the run pattern.
func (cr *CaseRunner) RunCase(c casefile.Case) CaseResult {
	startTime := time.Now()
	result := CaseResult{Case: c}

	if c.Parser == "" {
		c.Parser = cr.defaultParser
		result.Case = c
	}

	cr.logger.Debug("running case", "name", c.Name, "parser", c.Parser, "source", c.Source)

	entry, err := cr.registry.Lookup(c.Parser)
	if err != nil {
		result.Failure = err
		result.Duration = time.Since(startTime)

		return result
	}

	var options []cursor.Options
	if cr.tracer != nil {
		options = append(options, cursor.Options{Tracer: cr.tracer})
	}

	value, err := entry.Run(c.Input, options...)
	result.Err = err
	if err == nil {
		result.Got = Render(value)
	}

	result.Failure = check(c, result.Got, err)

	if result.Failure == nil && cr.oracle != nil && entry.Arithmetic {
		if n, ok := value.(int); ok {
			result.Failure = cr.oracle.Crosscheck(c.Input, n)
		}
	}

	result.Success = result.Failure == nil
	result.Duration = time.Since(startTime)

	return result
}

func check(c casefile.Case, got string, err error) error {
	if c.ExpectsError() {
		if err == nil {
			return fmt.Errorf("%w: got %q", ErrUnexpectedSuccess, got)
		}

		if !strings.Contains(err.Error(), c.Error) {
			return fmt.Errorf("%w: want %q in %q", ErrDiagnosticMismatch, c.Error, err.Error())
		}

		return nil
	}

	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnexpectedError, err)
	}

	if c.Want != nil && got != *c.Want {
		return fmt.Errorf("%w: want %q, got %q", ErrUnexpectedValue, *c.Want, got)
	}

	return nil
}

// PrintSummary prints the run summary
func (cr *CaseRunner) PrintSummary(summary *Summary) {
	fmt.Fprintf(cr.out, "\n")
	fmt.Fprintln(cr.out, headingFmt("=== Case Summary ==="))
	fmt.Fprintf(cr.out, "Cases: %d total, %d passed, %d failed\n",
		summary.TotalCases, summary.PassedCases, summary.FailedCases)
	fmt.Fprintf(cr.out, "Duration: %.3fs\n", summary.TotalDuration.Seconds())

	if len(summary.LoadErrors) > 0 {
		fmt.Fprintf(cr.out, "\nUnreadable files:\n")

		for _, err := range summary.LoadErrors {
			fmt.Fprintf(cr.out, "  %v\n", err)
		}
	}

	if summary.FailedCases > 0 {
		fmt.Fprintf(cr.out, "\nFailed cases:\n")

		for _, result := range summary.Results {
			if !result.Success {
				fmt.Fprintf(cr.out, "  %s (%s)\n", result.Case.Name, result.Case.Source)
				fmt.Fprintf(cr.out, "    Error: %v\n", result.Failure)
			}
		}
	}

	if summary.Failed() {
		fmt.Fprintln(cr.out, failFmt("\nSome cases failed! ❌"))
	} else {
		fmt.Fprintln(cr.out, passFmt("\nAll cases passed! ✅"))
	}
}
