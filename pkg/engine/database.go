// Package engine ties together catalog, fk, join, undo, and txn into
// the single entry point a caller (the SQL bridge, the MCP tool
// surface, the bulk-import/export layer, or a direct Go caller) drives:
// Database, spec §3/§4.4's top-level type (C5).
package engine

import (
	"sort"

	"github.com/moyashi/reldb/pkg/catalog"
	"github.com/moyashi/reldb/pkg/dberr"
	"github.com/moyashi/reldb/pkg/engineconfig"
	"github.com/moyashi/reldb/pkg/enginelog"
	"github.com/moyashi/reldb/pkg/fk"
	"github.com/moyashi/reldb/pkg/lock"
	"github.com/moyashi/reldb/pkg/txn"
)

// Database is the engine's top-level handle: a set of tables, the
// foreign keys between them, and the one transaction that may be
// active at a time. Database first, Table second is the engine's fixed
// lock-acquisition order (spec §5, C10) — Guard is held only long
// enough to look up or register a *catalog.Table; all row-level work
// happens under that Table's own Guard.
type Database struct {
	Name        string
	Guard       lock.Guard
	Tables      map[string]*catalog.Table
	ForeignKeys []fk.ForeignKey
	Txns        *txn.Manager
	Config      *engineconfig.Config
	Log         enginelog.Logger
	open        bool
}

// New constructs a closed Database; call Open before executing
// statements against it.
func New(name string, cfg *engineconfig.Config, logger enginelog.Logger) *Database {
	if cfg == nil {
		cfg = engineconfig.DefaultConfig()
	}
	if logger == nil {
		logger = enginelog.NoOp{}
	}
	return &Database{
		Name:   name,
		Tables: make(map[string]*catalog.Table),
		Txns:   txn.NewManager(),
		Config: cfg,
		Log:    logger,
	}
}

// Open marks the database ready to accept statements.
func (d *Database) Open() {
	d.Guard.Lock()
	defer d.Guard.Unlock()
	d.open = true
	d.Log.Info("database %q opened", d.Name)
}

// Close marks the database closed; further Execute calls fail with
// dberr.NotOpen.
func (d *Database) Close() {
	d.Guard.Lock()
	defer d.Guard.Unlock()
	d.open = false
	d.Log.Info("database %q closed", d.Name)
}

// IsOpen reports whether the database currently accepts statements.
func (d *Database) IsOpen() bool {
	d.Guard.Lock()
	defer d.Guard.Unlock()
	return d.open
}

// Table resolves name to its *catalog.Table, implementing
// fk.TableLookup (so fk enforcement never imports engine).
func (d *Database) Table(name string) (*catalog.Table, bool) {
	d.Guard.Lock()
	defer d.Guard.Unlock()
	t, ok := d.Tables[name]
	return t, ok
}

// DropTableForRollback implements undo.DatabaseAccess: it reverses a
// CREATE TABLE entry by removing the table from the registry. It never
// touches the *catalog.Table object itself, so anyone still holding a
// reference to a table dropped via the ordinary DROP TABLE path is
// unaffected — only CREATE TABLE rollback uses this path.
func (d *Database) DropTableForRollback(name string) {
	d.Guard.Lock()
	defer d.Guard.Unlock()
	delete(d.Tables, name)
}

// RestoreTableForRollback implements undo.DatabaseAccess: it reverses a
// DROP TABLE entry by re-registering the exact *catalog.Table object
// that was removed, rows/indexes intact.
func (d *Database) RestoreTableForRollback(t *catalog.Table) {
	d.Guard.Lock()
	defer d.Guard.Unlock()
	d.Tables[t.Name] = t
}

// TableNames returns the names of every table currently registered, in
// sorted order — used by the MCP tool surface's list_tables call.
func (d *Database) TableNames() []string {
	d.Guard.Lock()
	defer d.Guard.Unlock()
	names := make([]string, 0, len(d.Tables))
	for name := range d.Tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (d *Database) getTable(name string) (*catalog.Table, error) {
	t, ok := d.Table(name)
	if !ok {
		return nil, &dberr.NotFound{Kind: "table", Name: name}
	}
	return t, nil
}

func (d *Database) requireOpen() error {
	if !d.IsOpen() {
		return &dberr.NotOpen{Database: d.Name}
	}
	return nil
}
