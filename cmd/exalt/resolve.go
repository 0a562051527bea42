package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/exalt-dev/exalt"
	"github.com/exalt-dev/exalt/internal/config"
	"github.com/exalt-dev/exalt/modindex"
	"github.com/exalt-dev/exalt/scope"
	"github.com/exalt-dev/exalt/syntax"
	"github.com/exalt-dev/exalt/term"
)

var (
	flagResolveLine int
	flagResolveCol  int
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <file>",
	Short: "Resolve the identifier at a position",
	Long:  "Parses the file, finds the innermost node at --line/--col and lists every definition candidate the scope walk reaches, nearest first. The module index from exalt.yaml backs cross-file hits when present.",
	Args:  cobra.ExactArgs(1),
	RunE:  runResolve,
}

func init() {
	resolveCmd.Flags().IntVar(&flagResolveLine, "line", 0, "1-based line of the reference")
	resolveCmd.Flags().IntVar(&flagResolveCol, "col", 0, "1-based column of the reference")
	_ = resolveCmd.MarkFlagRequired("line")
	_ = resolveCmd.MarkFlagRequired("col")
}

func runResolve(cmd *cobra.Command, args []string) error {
	table, closeTable, err := openProjectTable(".")
	if err != nil {
		return err
	}
	defer closeTable()

	eng := exalt.New(exalt.WithTable(table))
	src, err := loadSourceWith(cmd, eng, args[0])
	if err != nil {
		return err
	}

	node := src.NodeAt(flagResolveLine, flagResolveCol)
	if node == syntax.NoNode {
		return fmt.Errorf("no node at %d:%d", flagResolveLine, flagResolveCol)
	}
	// Identifiers sit under the operation or call that names them; resolve
	// from the reference node itself when the hit is a bare leaf.
	if k := src.Tree.Kind(node); k == syntax.KindOperator {
		node = src.Tree.Parent(node)
	}

	resolver := eng.Resolver(src)
	res := resolver.Resolve(resolver.NewRequest(node))
	printDiagnostics(src.Diagnostics)
	printDiagnostics(res.Diagnostics)

	if len(res.Candidates) == 0 {
		fmt.Println(colorize(colYellow, "no candidates"))
		return nil
	}
	for _, c := range res.Candidates {
		printCandidate(src, c)
	}
	return nil
}

func printCandidate(src *exalt.Source, c scope.Candidate) {
	loc := c.Module
	if c.Node != syntax.NoNode {
		sp := src.Tree.Span(c.Node)
		loc = fmt.Sprintf("%s:%d:%d", src.File, sp.StartLine, sp.StartCol)
	}
	name := c.Name
	if c.Kind == scope.CandidateClause || c.Kind == scope.CandidateFunction {
		name = fmt.Sprintf("%s/%s", c.Name, c.Arities)
	}
	mark := colorize(colGreen, "ok")
	if !c.Valid {
		mark = colorize(colYellow, "invalid")
	}
	fmt.Printf("%-9s %s  %s  %s  %s\n", c.Kind, colorize(colCyan, name), loc, mark,
		colorize(colDim, term.Inspect(annotatedMeta(c).Term())))
}

// annotatedMeta is the metadata a quoted reference at the requested position
// would carry once the candidate's resolution identity is stamped on: the
// import key for table hits, the context key for local clauses.
func annotatedMeta(c scope.Candidate) term.Metadata {
	return scope.Annotate(term.Meta(flagResolveLine), c)
}

// loadSourceWith is loadSource against a caller-owned engine, so the
// resolver sees the engine's table.
func loadSourceWith(cmd *cobra.Command, eng *exalt.Engine, path string) (*exalt.Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return eng.Load(cmd.Context(), path, data)
}

// openProjectTable opens the project's SQLite index when one exists, and
// falls back to an empty in-memory table otherwise. Resolution without an
// index is still useful: lexical candidates come from the tree alone.
func openProjectTable(dir string) (modindex.Table, func(), error) {
	proj, err := config.LoadProject(dir)
	if err != nil {
		return nil, nil, err
	}
	path := proj.IndexPath()
	if _, err := os.Stat(path); err != nil {
		return modindex.NewMemTable(), func() {}, nil
	}
	table, err := modindex.OpenSQLite(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening index %s: %w", path, err)
	}
	return table, func() { _ = table.Close() }, nil
}
