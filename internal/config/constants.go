// Package config carries the tool's fixed constants and the optional
// exalt.yaml project file.
package config

import (
	"path/filepath"
	"strings"
)

const (
	// ToolName is the binary and diagnostics prefix name.
	ToolName = "exalt"

	// ProjectFileName is the optional per-project configuration file.
	ProjectFileName = "exalt.yaml"

	// DefaultIndexPath is where the index command writes its module table
	// when the project file does not say otherwise.
	DefaultIndexPath = ".exalt/index.db"
)

// SourceFileExtensions are the recognized Elixir source extensions.
var SourceFileExtensions = []string{".ex", ".exs"}

// IsSourceFile reports whether path names an Elixir source file.
func IsSourceFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range SourceFileExtensions {
		if ext == e {
			return true
		}
	}
	return false
}
