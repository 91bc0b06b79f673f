package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/shibukawa/parsec/runner"
)

// ParsersCmd represents the parsers command
type ParsersCmd struct{}

// Run executes the parsers command
func (cmd *ParsersCmd) Run(ctx *Context) error {
	registry := runner.NewRegistry()

	w := tabwriter.NewWriter(ctx.Stdout, 0, 0, 2, ' ', 0)
	for _, name := range registry.Names() {
		entry, err := registry.Lookup(name)
		if err != nil {
			return err
		}

		fmt.Fprintf(w, "%s\t%s\n", labelFmt("%s", name), entry.Description)
	}

	fmt.Fprintf(w, "%s\t%s\n", labelFmt("char:<c>"), "the single character c")
	fmt.Fprintf(w, "%s\t%s\n", labelFmt("string:<s>"), "the literal string s")

	return w.Flush()
}
