// Package modindex holds the module/import/alias table the scope engine
// queries. The table is populated by out-of-scope compilation-unit
// bookkeeping (the exalt index command, an embedding host, a test fixture)
// and read here through one interface, so resolution code never knows which
// backend produced it. Tables are snapshots: every state carries a uuid and
// consumers memoize per snapshot, discarding wholesale when the id changes.
package modindex

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/exalt-dev/exalt/call"
)

// Function is one function or macro a module exports.
type Function struct {
	Name    string
	Arities call.ArityInterval
	Macro   bool
}

func (f Function) String() string {
	return fmt.Sprintf("%s/%s", f.Name, f.Arities)
}

// Module is one indexed module.
type Module struct {
	// Name is the full module name: "Elixir.Enum", "erlang".
	Name string
	// File is the defining source path, when known.
	File string
	// Functions lists the module's definitions in source order.
	Functions []Function
}

// NameArity selects one function by exact name and arity, the granularity
// of import filters.
type NameArity struct {
	Name  string
	Arity uint32
}

func (na NameArity) String() string {
	return na.Name + "/" + strconv.FormatUint(uint64(na.Arity), 10)
}

// ParseNameArity reads the "name/arity" notation.
func ParseNameArity(s string) (NameArity, error) {
	i := strings.LastIndexByte(s, '/')
	if i <= 0 || i == len(s)-1 {
		return NameArity{}, fmt.Errorf("modindex: %q is not name/arity", s)
	}
	arity, err := strconv.ParseUint(s[i+1:], 10, 32)
	if err != nil {
		return NameArity{}, fmt.Errorf("modindex: bad arity in %q", s)
	}
	return NameArity{Name: s[:i], Arity: uint32(arity)}, nil
}

// Import records one import directive in a module body.
type Import struct {
	// Module is the imported module's full name.
	Module string
	// Only restricts the import to the listed functions when non-empty.
	Only []NameArity
	// Except removes the listed functions from an unrestricted import.
	Except []NameArity
}

// Allows reports whether the import exposes name at the given arity. A
// negative arity matches any listed arity of that name.
func (im Import) Allows(name string, arity int) bool {
	if len(im.Only) > 0 {
		return containsNameArity(im.Only, name, arity)
	}
	if len(im.Except) > 0 {
		return !containsNameArity(im.Except, name, arity)
	}
	return true
}

func containsNameArity(set []NameArity, name string, arity int) bool {
	for _, na := range set {
		if na.Name != name {
			continue
		}
		if arity < 0 || uint32(arity) == na.Arity {
			return true
		}
	}
	return false
}

// Alias records one alias directive: `alias Enum.Chunk` binds Name "Chunk"
// to Target "Elixir.Enum.Chunk" in the aliasing module.
type Alias struct {
	Name   string
	Target string
}

// Table is a read-only snapshot of the module table. Implementations must
// be safe for concurrent reads once populated.
type Table interface {
	// Module returns the named module. ok is false for unknown names; an
	// unknown module is not an error, just an empty scope level.
	Module(name string) (Module, bool)
	// Functions returns the module's definitions, nil when unknown.
	Functions(module string) []Function
	// ImportsOf returns the import directives of module's body.
	ImportsOf(module string) []Import
	// AliasesOf returns the alias directives of module's body.
	AliasesOf(module string) []Alias
	// Modules returns all module names, sorted.
	Modules() []string
	// SnapshotID identifies this table state for memoization.
	SnapshotID() string
}
