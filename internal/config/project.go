package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Project is the parsed exalt.yaml.
type Project struct {
	// Index is the module-table database path the index command writes
	// and the resolve command reads. Relative to the project file.
	Index string `yaml:"index,omitempty"`

	// Sources lists the directories scanned for .ex/.exs files. Empty
	// means the project root.
	Sources []string `yaml:"sources,omitempty"`

	// Table optionally points at a YAML module-table fixture used instead
	// of the SQLite index, mainly for tests and small setups.
	Table string `yaml:"table,omitempty"`

	// Dir is the directory the project file was found in. Not serialized.
	Dir string `yaml:"-"`
}

// DefaultProject is what hosts get without an exalt.yaml.
func DefaultProject(dir string) *Project {
	return &Project{Index: DefaultIndexPath, Dir: dir}
}

// LoadProject reads exalt.yaml from dir. A missing file is not an error;
// the defaults come back instead.
func LoadProject(dir string) (*Project, error) {
	path := filepath.Join(dir, ProjectFileName)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultProject(dir), nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	p.Dir = dir
	if p.Index == "" {
		p.Index = DefaultIndexPath
	}
	if err := p.validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return &p, nil
}

func (p *Project) validate() error {
	if filepath.IsAbs(p.Index) {
		return fmt.Errorf("index path %q must be relative to the project", p.Index)
	}
	for _, s := range p.Sources {
		if filepath.IsAbs(s) {
			return fmt.Errorf("source path %q must be relative to the project", s)
		}
	}
	return nil
}

// IndexPath resolves the index database location against the project dir.
func (p *Project) IndexPath() string {
	return filepath.Join(p.Dir, p.Index)
}

// SourceDirs resolves the configured source directories, defaulting to the
// project root itself.
func (p *Project) SourceDirs() []string {
	if len(p.Sources) == 0 {
		return []string{p.Dir}
	}
	out := make([]string, len(p.Sources))
	for i, s := range p.Sources {
		out[i] = filepath.Join(p.Dir, s)
	}
	return out
}
