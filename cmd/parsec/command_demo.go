package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/shibukawa/parsec"
	"github.com/shibukawa/parsec/runner"
)

// DemoCmd represents the demo command
type DemoCmd struct {
	Trace bool `help:"Log every parser step to stderr"`
}

// Run executes the demo command
func (cmd *DemoCmd) Run(ctx *Context) error {
	config, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	cr := runner.NewCaseRunner(nil)
	cr.SetLogger(newLogger(ctx, config))
	cr.SetOutput(ctx.Stdout)
	cr.SetTracer(newTracer(ctx, cmd.Trace || config.Trace))

	summary, err := cr.RunCases(context.Background(), runner.DemoCases())
	if err != nil {
		return err
	}

	if !ctx.Quiet {
		w := tabwriter.NewWriter(ctx.Stdout, 0, 0, 2, ' ', 0)
		for _, result := range summary.Results {
			output := valueFmt(result.Got)
			if result.Err != nil {
				output = diagnosticFmt(result.Err.Error())
			}

			fmt.Fprintf(w, "%s\t%q\t%s\n", result.Case.Parser, result.Case.Input, output)
		}

		if err := w.Flush(); err != nil {
			return err
		}
	}

	if ctx.Verbose {
		cr.PrintSummary(summary)
	}

	if summary.Failed() {
		return parsec.ErrCasesFailed
	}

	return nil
}
