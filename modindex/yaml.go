package modindex

import (
	"fmt"
	"os"

	"github.com/exalt-dev/exalt/call"
	"gopkg.in/yaml.v3"
)

// yamlTable is the fixture file layout:
//
//	modules:
//	  - name: Elixir.Enum
//	    file: lib/enum.ex
//	    functions:
//	      - name: map
//	        arity: 2
//	      - name: reduce
//	        primary: 2
//	        secondary: 3
//	    imports:
//	      - module: Elixir.Kernel
//	        only: [max/2]
//	    aliases:
//	      - name: Chunk
//	        target: Elixir.Enum.Chunk
type yamlTable struct {
	Modules []yamlModule `yaml:"modules"`
}

type yamlModule struct {
	Name      string         `yaml:"name"`
	File      string         `yaml:"file,omitempty"`
	Functions []yamlFunction `yaml:"functions,omitempty"`
	Imports   []yamlImport   `yaml:"imports,omitempty"`
	Aliases   []yamlAlias    `yaml:"aliases,omitempty"`
}

type yamlFunction struct {
	Name string `yaml:"name"`
	// Arity is the single-point shorthand for primary == secondary.
	Arity     *uint32 `yaml:"arity,omitempty"`
	Primary   uint32  `yaml:"primary,omitempty"`
	Secondary uint32  `yaml:"secondary,omitempty"`
	Macro     bool    `yaml:"macro,omitempty"`
}

type yamlImport struct {
	Module string   `yaml:"module"`
	Only   []string `yaml:"only,omitempty"`
	Except []string `yaml:"except,omitempty"`
}

type yamlAlias struct {
	Name   string `yaml:"name"`
	Target string `yaml:"target"`
}

// LoadYAML reads a fixture table from path.
func LoadYAML(path string) (*MemTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading table %s: %w", path, err)
	}
	return ParseYAML(data, path)
}

// ParseYAML parses fixture-table content from bytes. The path argument is
// used only for error messages.
func ParseYAML(data []byte, path string) (*MemTable, error) {
	var doc yamlTable
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	table := NewMemTable()
	for i, ym := range doc.Modules {
		if ym.Name == "" {
			return nil, fmt.Errorf("%s: modules[%d] has no name", path, i)
		}
		mod := Module{Name: ym.Name, File: ym.File}
		for _, yf := range ym.Functions {
			if yf.Name == "" {
				return nil, fmt.Errorf("%s: module %s has a nameless function", path, ym.Name)
			}
			mod.Functions = append(mod.Functions, Function{
				Name:    yf.Name,
				Arities: yf.interval(),
				Macro:   yf.Macro,
			})
		}
		table.AddModule(mod)
		for _, yi := range ym.Imports {
			imp := Import{Module: yi.Module}
			var err error
			if imp.Only, err = parseFilter(yi.Only); err != nil {
				return nil, fmt.Errorf("%s: module %s: %w", path, ym.Name, err)
			}
			if imp.Except, err = parseFilter(yi.Except); err != nil {
				return nil, fmt.Errorf("%s: module %s: %w", path, ym.Name, err)
			}
			table.AddImport(ym.Name, imp)
		}
		for _, ya := range ym.Aliases {
			table.AddAlias(ym.Name, Alias{Name: ya.Name, Target: ya.Target})
		}
	}
	return table, nil
}

func (f yamlFunction) interval() call.ArityInterval {
	if f.Arity != nil {
		return call.NewArityInterval(*f.Arity)
	}
	iv := call.ArityInterval{Primary: f.Primary, Secondary: f.Secondary}
	if iv.Secondary < iv.Primary {
		iv.Secondary = iv.Primary
	}
	return iv
}

func parseFilter(entries []string) ([]NameArity, error) {
	var out []NameArity
	for _, e := range entries {
		na, err := ParseNameArity(e)
		if err != nil {
			return nil, err
		}
		out = append(out, na)
	}
	return out, nil
}
