package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"

	"github.com/shibukawa/parsec"
)

// Context represents the global context for commands
type Context struct {
	Config  string
	Verbose bool
	Quiet   bool

	Stdout io.Writer
	Stderr io.Writer
}

// CLI represents the command-line interface
var CLI struct {
	Config  string     `help:"Configuration file path" default:"parsec.yaml"`
	Verbose bool       `help:"Enable verbose output" short:"v"`
	Quiet   bool       `help:"Suppress output" short:"q"`
	Eval    EvalCmd    `cmd:"" help:"Parse and evaluate inputs"`
	Check   CheckCmd   `cmd:"" help:"Run case files"`
	Demo    DemoCmd    `cmd:"" help:"Run the built-in demonstration cases"`
	Parsers ParsersCmd `cmd:"" help:"List the available parsers"`
	Version VersionCmd `cmd:"" help:"Show version information"`
}

// VersionCmd represents the version command
type VersionCmd struct{}

// Run executes the version command
func (cmd *VersionCmd) Run(ctx *Context) error {
	fmt.Fprintln(ctx.Stdout, "parsec v0.1.0")
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("parsec"),
		kong.Description("Backtracking parser combinators and an integer calculator."),
	)

	appCtx := &Context{
		Config:  CLI.Config,
		Verbose: CLI.Verbose,
		Quiet:   CLI.Quiet,
		Stdout:  color.Output,
		Stderr:  os.Stderr,
	}

	err := ctx.Run(appCtx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the configuration and applies its color setting.
func loadConfig(ctx *Context) (*parsec.Config, error) {
	path := ctx.Config
	if path == "" {
		path = parsec.DefaultConfigFile
	}

	config, err := parsec.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	switch config.Color {
	case parsec.ColorAlways:
		color.NoColor = false
	case parsec.ColorNever:
		color.NoColor = true
	}

	return config, nil
}
