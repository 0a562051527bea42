package modindex

import (
	"sort"

	"github.com/google/uuid"
)

// MemTable is the in-memory Table used by tests and embedding hosts.
// Populate it first, then hand it to resolvers; Add calls refresh the
// snapshot id and are not safe under concurrent reads.
type MemTable struct {
	snapshot string
	modules  map[string]Module
	imports  map[string][]Import
	aliases  map[string][]Alias
}

func NewMemTable() *MemTable {
	return &MemTable{
		snapshot: uuid.NewString(),
		modules:  make(map[string]Module),
		imports:  make(map[string][]Import),
		aliases:  make(map[string][]Alias),
	}
}

// AddModule registers or replaces a module.
func (m *MemTable) AddModule(mod Module) {
	m.modules[mod.Name] = mod
	m.snapshot = uuid.NewString()
}

// AddImport appends an import directive to module's body.
func (m *MemTable) AddImport(module string, imp Import) {
	m.imports[module] = append(m.imports[module], imp)
	m.snapshot = uuid.NewString()
}

// AddAlias appends an alias directive to module's body.
func (m *MemTable) AddAlias(module string, al Alias) {
	m.aliases[module] = append(m.aliases[module], al)
	m.snapshot = uuid.NewString()
}

func (m *MemTable) Module(name string) (Module, bool) {
	mod, ok := m.modules[name]
	return mod, ok
}

func (m *MemTable) Functions(module string) []Function {
	return m.modules[module].Functions
}

func (m *MemTable) ImportsOf(module string) []Import {
	return m.imports[module]
}

func (m *MemTable) AliasesOf(module string) []Alias {
	return m.aliases[module]
}

func (m *MemTable) Modules() []string {
	names := make([]string, 0, len(m.modules))
	for name := range m.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m *MemTable) SnapshotID() string {
	return m.snapshot
}
