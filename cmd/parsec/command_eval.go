package main

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/shibukawa/parsec/cursor"
	"github.com/shibukawa/parsec/oracle"
	"github.com/shibukawa/parsec/runner"
)

var (
	valueFmt      = color.New(color.FgGreen).SprintFunc()
	diagnosticFmt = color.New(color.FgRed).SprintFunc()
	labelFmt      = color.New(color.FgBlue).SprintfFunc()
)

// EvalCmd represents the eval command
type EvalCmd struct {
	Parser     string   `help:"Parser to run (see 'parsec parsers'); defaults to default_parser from config" short:"p"`
	Crosscheck bool     `help:"Compare arithmetic results with an independent CEL evaluation"`
	Trace      bool     `help:"Log every parser step to stderr"`
	Inputs     []string `arg:"" name:"input" help:"Inputs to parse"`
}

// Run executes the eval command
func (cmd *EvalCmd) Run(ctx *Context) error {
	if len(cmd.Inputs) == 0 {
		return ErrNoInput
	}

	config, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	logger := newLogger(ctx, config)

	name := cmd.Parser
	if name == "" {
		name = config.DefaultParser
	}

	entry, err := runner.NewRegistry().Lookup(name)
	if err != nil {
		return err
	}

	var checker *oracle.Oracle
	if (cmd.Crosscheck || config.Crosscheck) && entry.Arithmetic {
		checker, err = oracle.New()
		if err != nil {
			return err
		}
	}

	var options []cursor.Options
	if tracer := newTracer(ctx, cmd.Trace || config.Trace); tracer != nil {
		options = append(options, cursor.Options{Tracer: tracer})
	}

	logger.Debug("evaluating inputs", "parser", entry.Name, "count", len(cmd.Inputs), "crosscheck", checker != nil)

	failed := false

	for _, input := range cmd.Inputs {
		value, err := entry.Run(input, options...)
		if err == nil && checker != nil {
			if n, ok := value.(int); ok {
				err = checker.Crosscheck(input, n)
			}
		}

		switch {
		case err != nil:
			failed = true
			cmd.print(ctx, input, diagnosticFmt(err.Error()))
		default:
			cmd.print(ctx, input, valueFmt(runner.Render(value)))
		}
	}

	if failed {
		return ErrEvalFailed
	}

	return nil
}

func (cmd *EvalCmd) print(ctx *Context, input, result string) {
	if ctx.Quiet || len(cmd.Inputs) == 1 {
		fmt.Fprintln(ctx.Stdout, result)
		return
	}

	fmt.Fprintf(ctx.Stdout, "%s %s\n", labelFmt("%q:", input), result)
}
