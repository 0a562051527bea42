package modindex

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/exalt-dev/exalt/call"
	"github.com/google/uuid"

	_ "modernc.org/sqlite"
)

// SQLiteTable is the on-disk Table backend. `exalt index` writes it through
// PutModule; resolvers read it like any other snapshot. Reads load from the
// database on every call so several processes can share one index file.
type SQLiteTable struct {
	db       *sql.DB
	snapshot string
}

// OpenSQLite opens (creating if needed) the index database at path with WAL
// mode enabled and the schema migrated.
func OpenSQLite(path string) (*SQLiteTable, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(30000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping index: %w", err)
	}
	t := &SQLiteTable{db: db}
	if err := t.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	if err := t.loadSnapshot(); err != nil {
		db.Close()
		return nil, err
	}
	return t, nil
}

// Close closes the underlying database connection.
func (t *SQLiteTable) Close() error {
	return t.db.Close()
}

func (t *SQLiteTable) migrate() error {
	if _, err := t.db.Exec(schemaDDL); err != nil {
		return fmt.Errorf("migrate index: %w", err)
	}
	return nil
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS snapshots (
  seq         INTEGER PRIMARY KEY,
  id          TEXT NOT NULL,
  created_at  TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS modules (
  id    INTEGER PRIMARY KEY,
  name  TEXT NOT NULL UNIQUE,
  file  TEXT
);

CREATE TABLE IF NOT EXISTS functions (
  id              INTEGER PRIMARY KEY,
  module_id       INTEGER NOT NULL REFERENCES modules(id) ON DELETE CASCADE,
  name            TEXT NOT NULL,
  primary_arity   INTEGER NOT NULL,
  secondary_arity INTEGER NOT NULL,
  macro           BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE INDEX IF NOT EXISTS idx_functions_module ON functions(module_id, name);

CREATE TABLE IF NOT EXISTS imports (
  id         INTEGER PRIMARY KEY,
  module_id  INTEGER NOT NULL REFERENCES modules(id) ON DELETE CASCADE,
  imported   TEXT NOT NULL,
  only_list  TEXT NOT NULL DEFAULT '',
  except_list TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS aliases (
  id         INTEGER PRIMARY KEY,
  module_id  INTEGER NOT NULL REFERENCES modules(id) ON DELETE CASCADE,
  name       TEXT NOT NULL,
  target     TEXT NOT NULL
);
`

// loadSnapshot reads the latest snapshot id, minting one for a fresh file.
func (t *SQLiteTable) loadSnapshot() error {
	row := t.db.QueryRow(`SELECT id FROM snapshots ORDER BY seq DESC LIMIT 1`)
	switch err := row.Scan(&t.snapshot); err {
	case nil:
		return nil
	case sql.ErrNoRows:
		return t.bumpSnapshot(t.db)
	default:
		return fmt.Errorf("read snapshot: %w", err)
	}
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func (t *SQLiteTable) bumpSnapshot(e execer) error {
	id := uuid.NewString()
	if _, err := e.Exec(`INSERT INTO snapshots (id) VALUES (?)`, id); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	t.snapshot = id
	return nil
}

// PutModule replaces the module row and everything hanging off it in one
// transaction, then advances the snapshot.
func (t *SQLiteTable) PutModule(mod Module, imports []Import, aliases []Alias) error {
	tx, err := t.db.Begin()
	if err != nil {
		return fmt.Errorf("put module: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM modules WHERE name = ?`, mod.Name); err != nil {
		return fmt.Errorf("put module %s: %w", mod.Name, err)
	}
	res, err := tx.Exec(`INSERT INTO modules (name, file) VALUES (?, ?)`, mod.Name, mod.File)
	if err != nil {
		return fmt.Errorf("put module %s: %w", mod.Name, err)
	}
	moduleID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("put module %s: %w", mod.Name, err)
	}

	for _, fn := range mod.Functions {
		_, err := tx.Exec(
			`INSERT INTO functions (module_id, name, primary_arity, secondary_arity, macro) VALUES (?, ?, ?, ?, ?)`,
			moduleID, fn.Name, fn.Arities.Primary, fn.Arities.Secondary, fn.Macro)
		if err != nil {
			return fmt.Errorf("put function %s.%s: %w", mod.Name, fn.Name, err)
		}
	}
	for _, imp := range imports {
		_, err := tx.Exec(
			`INSERT INTO imports (module_id, imported, only_list, except_list) VALUES (?, ?, ?, ?)`,
			moduleID, imp.Module, joinNameArities(imp.Only), joinNameArities(imp.Except))
		if err != nil {
			return fmt.Errorf("put import %s: %w", imp.Module, err)
		}
	}
	for _, al := range aliases {
		_, err := tx.Exec(
			`INSERT INTO aliases (module_id, name, target) VALUES (?, ?, ?)`,
			moduleID, al.Name, al.Target)
		if err != nil {
			return fmt.Errorf("put alias %s: %w", al.Name, err)
		}
	}
	if err := t.bumpSnapshot(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (t *SQLiteTable) Module(name string) (Module, bool) {
	var id int64
	mod := Module{Name: name}
	row := t.db.QueryRow(`SELECT id, file FROM modules WHERE name = ?`, name)
	if err := row.Scan(&id, &mod.File); err != nil {
		return Module{}, false
	}
	mod.Functions = t.functionsByID(id)
	return mod, true
}

func (t *SQLiteTable) Functions(module string) []Function {
	id, ok := t.moduleID(module)
	if !ok {
		return nil
	}
	return t.functionsByID(id)
}

func (t *SQLiteTable) ImportsOf(module string) []Import {
	id, ok := t.moduleID(module)
	if !ok {
		return nil
	}
	rows, err := t.db.Query(
		`SELECT imported, only_list, except_list FROM imports WHERE module_id = ? ORDER BY id`, id)
	if err != nil {
		return nil
	}
	defer rows.Close()
	var out []Import
	for rows.Next() {
		var imp Import
		var only, except string
		if err := rows.Scan(&imp.Module, &only, &except); err != nil {
			return out
		}
		imp.Only = splitNameArities(only)
		imp.Except = splitNameArities(except)
		out = append(out, imp)
	}
	return out
}

func (t *SQLiteTable) AliasesOf(module string) []Alias {
	id, ok := t.moduleID(module)
	if !ok {
		return nil
	}
	rows, err := t.db.Query(`SELECT name, target FROM aliases WHERE module_id = ? ORDER BY id`, id)
	if err != nil {
		return nil
	}
	defer rows.Close()
	var out []Alias
	for rows.Next() {
		var al Alias
		if err := rows.Scan(&al.Name, &al.Target); err != nil {
			return out
		}
		out = append(out, al)
	}
	return out
}

func (t *SQLiteTable) Modules() []string {
	rows, err := t.db.Query(`SELECT name FROM modules ORDER BY name`)
	if err != nil {
		return nil
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return out
		}
		out = append(out, name)
	}
	return out
}

func (t *SQLiteTable) SnapshotID() string {
	return t.snapshot
}

func (t *SQLiteTable) moduleID(name string) (int64, bool) {
	var id int64
	row := t.db.QueryRow(`SELECT id FROM modules WHERE name = ?`, name)
	if err := row.Scan(&id); err != nil {
		return 0, false
	}
	return id, true
}

func (t *SQLiteTable) functionsByID(id int64) []Function {
	rows, err := t.db.Query(
		`SELECT name, primary_arity, secondary_arity, macro FROM functions WHERE module_id = ? ORDER BY id`, id)
	if err != nil {
		return nil
	}
	defer rows.Close()
	var out []Function
	for rows.Next() {
		var fn Function
		var iv call.ArityInterval
		if err := rows.Scan(&fn.Name, &iv.Primary, &iv.Secondary, &fn.Macro); err != nil {
			return out
		}
		fn.Arities = iv
		out = append(out, fn)
	}
	return out
}

// joinNameArities serializes an import filter for storage.
func joinNameArities(set []NameArity) string {
	if len(set) == 0 {
		return ""
	}
	parts := make([]string, len(set))
	for i, na := range set {
		parts[i] = na.String()
	}
	return strings.Join(parts, " ")
}

func splitNameArities(s string) []NameArity {
	if s == "" {
		return nil
	}
	var out []NameArity
	for _, part := range strings.Fields(s) {
		na, err := ParseNameArity(part)
		if err != nil {
			continue
		}
		out = append(out, na)
	}
	return out
}
