package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var flagNoColor bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "exalt",
	Short:         "Elixir frontend tooling: parse, quote, resolve, index",
	Long:          "Exalt parses Elixir sources with tree-sitter, quotes them into canonical terms, resolves identifiers through lexical scopes and maintains a SQLite module index.",
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable ANSI colors even on a terminal")

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(quoteCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(indexCmd)
}

func colorEnabled() bool {
	if flagNoColor {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// colorize wraps s in the ANSI code when stdout is a terminal.
func colorize(code, s string) string {
	if !colorEnabled() {
		return s
	}
	return "\x1b[" + code + "m" + s + "\x1b[0m"
}

const (
	colGreen  = "32"
	colYellow = "33"
	colCyan   = "36"
	colDim    = "2"
)
