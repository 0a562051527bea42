package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/exalt-dev/exalt/etf"
	"github.com/exalt-dev/exalt/term"
)

var (
	flagQuoteFormat string
	flagQuoteOut    string
)

var quoteCmd = &cobra.Command{
	Use:   "quote <file>",
	Short: "Quote a source file into its canonical term",
	Long:  "Parses the file and prints the quoted term, either as Elixir literal syntax or as External Term Format bytes compatible with :erlang.binary_to_term.",
	Args:  cobra.ExactArgs(1),
	RunE:  runQuote,
}

func init() {
	quoteCmd.Flags().StringVar(&flagQuoteFormat, "format", "inspect", "output format: inspect|etf")
	quoteCmd.Flags().StringVar(&flagQuoteOut, "out", "", "write output to a file instead of stdout")
}

func runQuote(cmd *cobra.Command, args []string) error {
	src, err := loadSource(cmd, args[0])
	if err != nil {
		return err
	}

	quoted, diags, err := src.Quote()
	if err != nil {
		return err
	}
	printDiagnostics(src.Diagnostics)
	printDiagnostics(diags)

	var out []byte
	switch flagQuoteFormat {
	case "inspect":
		out = []byte(term.Inspect(quoted) + "\n")
	case "etf":
		out, err = etf.Encode(quoted)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format %q (want inspect or etf)", flagQuoteFormat)
	}

	if flagQuoteOut != "" {
		return os.WriteFile(flagQuoteOut, out, 0o644)
	}
	_, err = os.Stdout.Write(out)
	return err
}
