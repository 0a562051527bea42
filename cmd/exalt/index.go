package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/exalt-dev/exalt"
	"github.com/exalt-dev/exalt/internal/config"
	"github.com/exalt-dev/exalt/modindex"
)

var indexCmd = &cobra.Command{
	Use:   "index [dir]",
	Short: "Index a source tree into the SQLite module table",
	Long:  "Walks the project's source directories, extracts every defmodule with its definitions, imports and aliases, and writes them to the SQLite index resolvers consult for cross-file candidates.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runIndex,
}

func runIndex(cmd *cobra.Command, args []string) error {
	start := time.Now()

	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	proj, err := config.LoadProject(dir)
	if err != nil {
		return err
	}

	dbPath := proj.IndexPath()
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(dbPath), err)
	}
	table, err := modindex.OpenSQLite(dbPath)
	if err != nil {
		return fmt.Errorf("opening index %s: %w", dbPath, err)
	}
	defer table.Close()

	eng := exalt.New()
	files, mods := 0, 0
	for _, root := range proj.SourceDirs() {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() || !config.IsSourceFile(path) {
				return err
			}
			n, err := indexFile(cmd, eng, table, path)
			if err != nil {
				// One broken file should not sink the run.
				fmt.Fprintf(os.Stderr, "%s: %s\n", path, err)
				return nil
			}
			files++
			mods += n
			return nil
		})
		if err != nil {
			return err
		}
	}

	fmt.Printf("indexed %s modules from %s files in %s\n",
		colorize(colGreen, fmt.Sprint(mods)),
		colorize(colGreen, fmt.Sprint(files)),
		time.Since(start).Round(time.Millisecond))
	return nil
}

func indexFile(cmd *cobra.Command, eng *exalt.Engine, table *modindex.SQLiteTable, path string) (int, error) {
	src, err := loadSourceWith(cmd, eng, path)
	if err != nil {
		return 0, err
	}
	printDiagnostics(src.Diagnostics)

	mods := src.Modules()
	for _, m := range mods {
		if err := table.PutModule(m.Module, m.Imports, m.Aliases); err != nil {
			return 0, err
		}
	}
	return len(mods), nil
}
