package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/exalt-dev/exalt"
	"github.com/exalt-dev/exalt/diagnostics"
	"github.com/exalt-dev/exalt/syntax"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse a source file and dump its syntax tree",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	src, err := loadSource(cmd, args[0])
	if err != nil {
		return err
	}

	dumpTree(src.Tree, src.Tree.Root(), 0)
	printDiagnostics(src.Diagnostics)
	return nil
}

func dumpTree(t *syntax.Tree, id syntax.NodeID, depth int) {
	sp := t.Span(id)
	line := fmt.Sprintf("%s%s %s",
		strings.Repeat("  ", depth),
		colorize(colCyan, t.Kind(id).String()),
		colorize(colDim, fmt.Sprintf("%d:%d", sp.StartLine, sp.StartCol)))
	if len(t.Children(id)) == 0 {
		if text := t.Text(id); text != "" {
			line += " " + colorize(colGreen, fmt.Sprintf("%q", text))
		}
	}
	fmt.Println(line)
	for _, c := range t.Children(id) {
		dumpTree(t, c, depth+1)
	}
}

// loadSource reads and parses one file through a fresh engine.
func loadSource(cmd *cobra.Command, path string) (*exalt.Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return exalt.New().Load(cmd.Context(), path, data)
}

func printDiagnostics(diags []*diagnostics.DiagnosticError) {
	for _, d := range diags {
		fmt.Fprintln(os.Stderr, colorize(colYellow, d.Error()))
	}
}
