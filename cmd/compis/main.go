// Command compis is the front-end driver: it reads one or more source
// files, runs the scanner/parser pipeline over each, and reports
// diagnostics — the CLI surface named an "external collaborator" by the
// front-end spec's scope, kept here only as the thin dispatcher that
// exercises internal/parser end to end (SPEC_FULL.md §A).
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hringjurfn/compis/internal/compiler"
	"github.com/hringjurfn/compis/internal/diag"
)

var (
	errColor  = color.New(color.FgRed, color.Bold).SprintFunc()
	warnColor = color.New(color.FgYellow).SprintFunc()
	infoColor = color.New(color.FgCyan).SprintFunc()
	dumpAST   bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "compis",
		Short: "compis front-end: scan and parse source files",
		Long:  "compis drives the lexer/parser front end over one or more source files and reports diagnostics.",
	}

	parseCmd := &cobra.Command{
		Use:   "parse [files...]",
		Short: "Parse the given source files and report diagnostics",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runParse,
	}
	parseCmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "print a textual dump of each parsed unit's AST")

	rootCmd.AddCommand(parseCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runParse(cmd *cobra.Command, args []string) error {
	c := compiler.New()

	var hadErrors bool
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("session %s: reading %s: %w", c.ID, path, err)
		}
		unit, sink := c.ParseFile(path, data)
		for _, d := range sink.All() {
			printDiagnostic(c, d)
		}
		if sink.HasErrors() {
			hadErrors = true
		}
		if dumpAST && unit != nil {
			d := newAstDumper(os.Stdout)
			d.dumpUnit(unit, path)
			d.flush()
		}
	}

	if hadErrors {
		return fmt.Errorf("parsing failed")
	}
	return nil
}

func printDiagnostic(c *compiler.Compiler, d diag.Diagnostic) {
	label := infoColor(d.Severity.String())
	switch d.Severity {
	case diag.Error:
		label = errColor(d.Severity.String())
	case diag.Warning:
		label = warnColor(d.Severity.String())
	}
	fmt.Fprintln(os.Stderr, diag.Format(c.Sources().Name, d), "["+label+"]")
}
