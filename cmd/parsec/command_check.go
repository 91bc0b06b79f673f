package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/shibukawa/parsec"
	"github.com/shibukawa/parsec/oracle"
	"github.com/shibukawa/parsec/runner"
)

// CheckCmd represents the check command
type CheckCmd struct {
	Files      []string `arg:"" optional:"" help:"Case files or directories; defaults to cases.paths from config"`
	RunPattern string   `name:"run" help:"Run only cases matching the regular expression" short:"r"`
	Watch      bool     `help:"Run again whenever a case file changes" short:"w"`
	Crosscheck bool     `help:"Compare arithmetic results with an independent CEL evaluation"`
	Trace      bool     `help:"Log every parser step to stderr"`
}

// Run executes the check command
func (cmd *CheckCmd) Run(ctx *Context) error {
	config, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	logger := newLogger(ctx, config)

	paths := cmd.Files
	if len(paths) == 0 {
		paths = config.Cases.Paths
	}

	if len(paths) == 0 {
		return parsec.ErrNoCaseFiles
	}

	cr := runner.NewCaseRunner(nil)
	cr.SetDefaultParser(config.DefaultParser)
	cr.SetVerbose(ctx.Verbose)
	cr.SetLogger(logger)
	cr.SetOutput(ctx.Stdout)
	cr.SetTracer(newTracer(ctx, cmd.Trace || config.Trace))

	pattern := cmd.RunPattern
	if pattern == "" {
		pattern = config.Cases.Run
	}

	if err := cr.SetRunPattern(pattern); err != nil {
		return err
	}

	if cmd.Crosscheck || config.Crosscheck {
		checker, err := oracle.New()
		if err != nil {
			return err
		}

		cr.SetCrosscheck(checker)
	}

	if !cmd.Watch {
		return cmd.runOnce(context.Background(), ctx, cr, paths)
	}

	watchCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cmd.runOnce(watchCtx, ctx, cr, paths); err != nil && !errors.Is(err, parsec.ErrCasesFailed) {
		return err
	}

	watcher, err := runner.NewWatcher(paths, config.Watch.DebounceInterval(), logger)
	if err != nil {
		return err
	}
	defer watcher.Close()

	return watcher.Watch(watchCtx, func() error {
		err := cmd.runOnce(watchCtx, ctx, cr, paths)
		if errors.Is(err, parsec.ErrCasesFailed) {
			return nil
		}

		return err
	})
}

func (cmd *CheckCmd) runOnce(runCtx context.Context, ctx *Context, cr *runner.CaseRunner, paths []string) error {
	summary, err := cr.RunFiles(runCtx, paths)
	if err != nil {
		return fmt.Errorf("case run failed: %w", err)
	}

	if !ctx.Quiet {
		cr.PrintSummary(summary)
	}

	if summary.Failed() {
		return parsec.ErrCasesFailed
	}

	return nil
}
