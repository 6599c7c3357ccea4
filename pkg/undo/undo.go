// Package undo implements the engine's undo log (spec §4.7, C9): a
// per-transaction, append-only record of the inverse of every mutation,
// replayed LIFO on ROLLBACK. Log implements catalog.Logger so Table
// never imports this package; it only calls back through the narrow
// Logger interface it already knows about.
package undo

import (
	"sync"

	"github.com/moyashi/reldb/pkg/catalog"
)

// Op tags an undo Entry's kind. These seven variants are the complete
// vocabulary spec §4.7 defines; DDL outside this list (ADD COLUMN, DROP
// COLUMN) is documented as not reversible within a transaction.
type Op int

const (
	OpInsert Op = iota
	OpUpdate
	OpDelete
	OpCreateTable
	OpDropTable
	OpCreateIndex
	OpDropIndex
)

// Entry is one undo-log record. Which fields are populated depends on
// Op; Table is always set except it cannot be for OpCreateTable entries
// logged before the table exists (it never is — LogCreateTable is
// always called with the already-constructed table).
type Entry struct {
	Op    Op
	Table *catalog.Table

	Before *catalog.Row
	After  *catalog.Row

	// CreateTable/DropTable
	TableName string

	// CreateIndex/DropIndex
	IndexName     string
	IndexColumn   string
	IndexUnique   bool
	IndexFullText bool
}

// DatabaseAccess is the narrow surface Rollback needs for table-lifecycle
// entries (CREATE TABLE / DROP TABLE), which mutate a table's membership
// in the database rather than anything the table itself owns. The
// top-level engine.Database implements this; undo never imports engine.
type DatabaseAccess interface {
	DropTableForRollback(name string)
	RestoreTableForRollback(t *catalog.Table)
}

// Log is one transaction's undo log: append-only during the
// transaction, replayed and cleared on Rollback, discarded without
// replay on Commit.
type Log struct {
	mu      sync.Mutex
	entries []Entry
}

// NewLog returns an empty undo log, ready for a new transaction.
func NewLog() *Log { return &Log{} }

func (l *Log) append(e Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, e)
}

// LogInsert implements catalog.Logger: reversing an insert means
// removing the row it created.
func (l *Log) LogInsert(t *catalog.Table, after *catalog.Row) {
	l.append(Entry{Op: OpInsert, Table: t, After: after})
}

// LogUpdate implements catalog.Logger: reversing an update means
// restoring the row's prior values.
func (l *Log) LogUpdate(t *catalog.Table, before, after *catalog.Row) {
	l.append(Entry{Op: OpUpdate, Table: t, Before: before, After: after})
}

// LogDelete implements catalog.Logger: reversing a delete means
// reinserting the row under its original RowID.
func (l *Log) LogDelete(t *catalog.Table, before *catalog.Row) {
	l.append(Entry{Op: OpDelete, Table: t, Before: before})
}

// LogCreateTable records that t (registered in the database under name)
// was created; rollback drops it.
func (l *Log) LogCreateTable(name string, t *catalog.Table) {
	l.append(Entry{Op: OpCreateTable, Table: t, TableName: name})
}

// LogDropTable records that t (formerly registered under name) was
// dropped; rollback re-registers the same table object.
func (l *Log) LogDropTable(name string, t *catalog.Table) {
	l.append(Entry{Op: OpDropTable, Table: t, TableName: name})
}

// LogCreateIndex records that an index was created on t; rollback drops
// it by name.
func (l *Log) LogCreateIndex(t *catalog.Table, name, column string, unique, fullText bool) {
	l.append(Entry{Op: OpCreateIndex, Table: t, IndexName: name, IndexColumn: column, IndexUnique: unique, IndexFullText: fullText})
}

// LogDropIndex records that an index was dropped from t; rollback
// rebuilds it from t's current rows (a best-effort rebuild, spec §4.3).
// Replay is LIFO, so rows deleted earlier in the same transaction are
// not yet back when the index is rebuilt; their later ReinsertRow undo
// adds them to the rebuilt index.
func (l *Log) LogDropIndex(t *catalog.Table, name, column string, unique, fullText bool) {
	l.append(Entry{Op: OpDropIndex, Table: t, IndexName: name, IndexColumn: column, IndexUnique: unique, IndexFullText: fullText})
}

// Len reports how many entries are currently recorded.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Discard clears the log without replaying it (spec §4.7: COMMIT
// discards the undo log).
func (l *Log) Discard() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}

// Rollback replays every entry in LIFO order, undoing each mutation in
// turn, then clears the log. db is consulted only for the two entry
// kinds that change which tables exist.
func (l *Log) Rollback(db DatabaseAccess) {
	l.mu.Lock()
	entries := l.entries
	l.entries = nil
	l.mu.Unlock()

	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		switch e.Op {
		case OpInsert:
			e.Table.RemoveRowByID(e.After.RowID)
		case OpUpdate:
			e.Table.RestoreRow(e.Before)
		case OpDelete:
			e.Table.ReinsertRow(e.Before)
		case OpCreateTable:
			db.DropTableForRollback(e.TableName)
		case OpDropTable:
			db.RestoreTableForRollback(e.Table)
		case OpCreateIndex:
			e.Table.DropIndex(e.IndexName)
		case OpDropIndex:
			e.Table.CreateIndex(e.IndexName, e.IndexColumn, e.IndexUnique, e.IndexFullText)
		}
	}
}
