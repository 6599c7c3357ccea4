package catalog

import (
	"github.com/moyashi/reldb/pkg/dberr"
	"github.com/moyashi/reldb/pkg/index"
	"github.com/moyashi/reldb/pkg/lock"
	"github.com/moyashi/reldb/pkg/stmt"
	"github.com/moyashi/reldb/pkg/value"
)

// Logger receives a notification for every committed-shape mutation a
// Table performs, in the order it performs them. pkg/undo.Log implements
// this so a Table never imports the undo package directly — it only
// knows "something wants to hear about this row changing" (spec §4.7).
// A nil Logger is valid: it means "do not record an undo entry" and is
// used for operations the engine documents as non-reversible. The Table
// pointer is passed (rather than just its name) so the logger can later
// replay a rollback directly against the same table object, with no
// name-based lookup required.
type Logger interface {
	LogInsert(t *Table, after *Row)
	LogUpdate(t *Table, before, after *Row)
	LogDelete(t *Table, before *Row)
}

// Table is one table's columns, rows, and secondary indexes. All of a
// Table's exported methods are safe for concurrent use; each acquires
// Guard for its duration (spec §5: Database lock first, then Table
// lock, with the two never held recursively by the same goroutine).
type Table struct {
	Name           string
	Columns        []Column
	Rows           []*Row
	Indexes        map[string]index.Index
	PrimaryKeyName string
	NextRowID      uint64
	Guard          lock.Guard
}

// New creates an empty table with the given columns. At most one column
// may be PrimaryKey; New does not validate this — callers (engine.Database)
// validate column sets before calling New.
func New(name string, columns []Column) *Table {
	t := &Table{
		Name:      name,
		Columns:   append([]Column(nil), columns...),
		Indexes:   make(map[string]index.Index),
		NextRowID: 1,
	}
	for _, c := range columns {
		if c.PrimaryKey {
			t.PrimaryKeyName = c.Name
		}
	}
	return t
}

func (t *Table) columnIndex(name string) int {
	return columnIndex(t.Columns, name)
}

// ColumnIndex reports the position of column name, or -1 if absent.
func (t *Table) ColumnIndex(name string) int { return t.columnIndex(name) }

// InsertRow appends a new row with a freshly assigned, never-reused
// RowID (spec §3) and maintains every secondary index. logger, if
// non-nil, is notified after the row is durably part of the table.
func (t *Table) InsertRow(values []value.Value, logger Logger) (*Row, error) {
	t.Guard.Lock()
	defer t.Guard.Unlock()

	if len(values) != len(t.Columns) {
		return nil, &dberr.Arity{Table: t.Name, Expected: len(t.Columns), Got: len(values)}
	}

	row := &Row{RowID: t.NextRowID, Values: copyValues(values), Version: 1}
	t.NextRowID++
	t.Rows = append(t.Rows, row)

	for _, idx := range t.Indexes {
		pos := t.columnIndex(idx.Info().Column)
		idx.Insert(row.Values[pos], row.RowID)
	}

	if logger != nil {
		logger.LogInsert(t, row.Copy())
	}
	return row, nil
}

// UpdateRows applies setCols/setVals to every row matching where,
// maintaining indexes on changed columns and notifying logger once per
// changed row with its before/after images. Returns the count updated.
func (t *Table) UpdateRows(setCols []string, setVals []value.Value, where stmt.Where, logger Logger) (int64, error) {
	t.Guard.Lock()
	defer t.Guard.Unlock()

	if len(setCols) != len(setVals) {
		return 0, &dberr.Internal{Op: "update", Err: errMismatchedSetLists}
	}
	setPos := make([]int, len(setCols))
	for i, name := range setCols {
		pos := t.columnIndex(name)
		if pos < 0 {
			return 0, &dberr.NotFound{Kind: "column", Name: name}
		}
		setPos[i] = pos
	}

	var count int64
	for _, row := range t.Rows {
		if !Matches(t.Columns, row, where) {
			continue
		}
		before := row.Copy()
		for i, pos := range setPos {
			newVal := setVals[i]
			for _, idx := range t.Indexes {
				idxPos := t.columnIndex(idx.Info().Column)
				if idxPos == pos {
					idx.Delete(row.Values[pos], row.RowID)
					idx.Insert(newVal, row.RowID)
				}
			}
			row.Values[pos] = newVal.Copy()
		}
		row.Version++
		after := row.Copy()
		if logger != nil {
			logger.LogUpdate(t, before, after)
		}
		count++
	}
	return count, nil
}

// DeleteRows removes every row matching where, maintaining indexes and
// notifying logger once per removed row with its pre-delete image.
// Returns the count removed.
func (t *Table) DeleteRows(where stmt.Where, logger Logger) (int64, error) {
	t.Guard.Lock()
	defer t.Guard.Unlock()

	var count int64
	kept := t.Rows[:0]
	for _, row := range t.Rows {
		if !Matches(t.Columns, row, where) {
			kept = append(kept, row)
			continue
		}
		before := row.Copy()
		for _, idx := range t.Indexes {
			pos := t.columnIndex(idx.Info().Column)
			idx.Delete(row.Values[pos], row.RowID)
		}
		if logger != nil {
			logger.LogDelete(t, before)
		}
		count++
	}
	t.Rows = kept
	return count, nil
}

// RemoveRowByID removes the row with the given RowID, maintaining
// indexes, without notifying any Logger. Used by undo replay to reverse
// an INSERT — a row identity, once rolled back, is simply gone, not a
// candidate for RowID reuse (spec §3).
func (t *Table) RemoveRowByID(id uint64) bool {
	t.Guard.Lock()
	defer t.Guard.Unlock()

	for i, row := range t.Rows {
		if row.RowID != id {
			continue
		}
		for _, idx := range t.Indexes {
			pos := t.columnIndex(idx.Info().Column)
			idx.Delete(row.Values[pos], row.RowID)
		}
		t.Rows = append(t.Rows[:i], t.Rows[i+1:]...)
		return true
	}
	return false
}

// RestoreRow overwrites the current values of the row identified by
// snapshot.RowID with snapshot.Values, maintaining indexes. Used by undo
// replay to reverse an UPDATE.
func (t *Table) RestoreRow(snapshot *Row) bool {
	t.Guard.Lock()
	defer t.Guard.Unlock()

	for _, row := range t.Rows {
		if row.RowID != snapshot.RowID {
			continue
		}
		for _, idx := range t.Indexes {
			pos := t.columnIndex(idx.Info().Column)
			idx.Delete(row.Values[pos], row.RowID)
			idx.Insert(snapshot.Values[pos], row.RowID)
		}
		row.Values = copyValues(snapshot.Values)
		row.Version = snapshot.Version
		return true
	}
	return false
}

// ReinsertRow appends snapshot back into the table, preserving its
// original RowID rather than drawing a new one from NextRowID, and
// maintains indexes. Used by undo replay to reverse a DELETE. The row's
// physical position after rollback is the end of the table rather than
// its original slot — row identity (RowID) is what spec §3's ordering
// invariant protects, not physical slot.
func (t *Table) ReinsertRow(snapshot *Row) {
	t.Guard.Lock()
	defer t.Guard.Unlock()

	row := snapshot.Copy()
	t.Rows = append(t.Rows, row)
	for _, idx := range t.Indexes {
		pos := t.columnIndex(idx.Info().Column)
		idx.Insert(row.Values[pos], row.RowID)
	}
}

// ScanAll returns every row currently in the table, in insertion order.
// Callers that need a stable snapshot should Copy() rows they retain
// past the next mutation.
func (t *Table) ScanAll() []*Row {
	t.Guard.Lock()
	defer t.Guard.Unlock()
	out := make([]*Row, len(t.Rows))
	copy(out, t.Rows)
	return out
}

// RowByID returns the row with the given RowID, or nil if absent. Used
// by foreign-key enforcement and undo replay, both of which address
// rows by identity rather than by predicate.
func (t *Table) RowByID(id uint64) *Row {
	t.Guard.Lock()
	defer t.Guard.Unlock()
	for _, row := range t.Rows {
		if row.RowID == id {
			return row
		}
	}
	return nil
}

// RowVersion reports the current version stamp of the row with the
// given RowID, or (0, false) if it no longer exists — the primitive a
// REPEATABLE_READ/SERIALIZABLE transaction would compare its recorded
// read version against at commit (spec §4.7).
func (t *Table) RowVersion(id uint64) (uint64, bool) {
	t.Guard.Lock()
	defer t.Guard.Unlock()
	for _, row := range t.Rows {
		if row.RowID == id {
			return row.Version, true
		}
	}
	return 0, false
}

// AddColumn appends a new column to every existing row, backfilling def
// (or the column's Kind's zero value if def is NULL and the column is
// NOT NULL). add_column is DDL outside the undo log's entry vocabulary
// (spec §4.7 enumerates INSERT/UPDATE/DELETE/CREATE_TABLE/DROP_TABLE/
// CREATE_INDEX/DROP_INDEX only) and so is not reversible within a
// transaction. No engine statement calls AddColumn.
func (t *Table) AddColumn(col Column, def value.Value) error {
	t.Guard.Lock()
	defer t.Guard.Unlock()

	if t.columnIndex(col.Name) >= 0 {
		return &dberr.DuplicateName{Kind: "column", Name: col.Name}
	}
	if len(col.Name) > MaxIdentifierLen {
		return &dberr.NameTooLong{Kind: "column", Name: col.Name, MaxChars: MaxIdentifierLen}
	}

	fill := def
	if fill.IsNull() && !col.Nullable {
		fill = value.ZeroFor(col.Kind)
	}

	t.Columns = append(t.Columns, col)
	for _, row := range t.Rows {
		row.Values = append(row.Values, fill.Copy())
	}
	if col.PrimaryKey {
		t.PrimaryKeyName = col.Name
	}
	return nil
}

// DropColumn removes a column and its per-row values. Dropping the
// primary key column is refused (spec §3: a table's primary key is
// fixed at creation in this engine's model).
func (t *Table) DropColumn(name string) error {
	t.Guard.Lock()
	defer t.Guard.Unlock()

	pos := t.columnIndex(name)
	if pos < 0 {
		return &dberr.NotFound{Kind: "column", Name: name}
	}
	if t.Columns[pos].PrimaryKey {
		return &dberr.CannotDropPK{Table: t.Name, Column: name}
	}

	for idxName, idx := range t.Indexes {
		if idx.Info().Column != name {
			continue
		}
		if fulltext, ok := idx.(*index.FullTextIndex); ok {
			fulltext.Close()
		}
		delete(t.Indexes, idxName)
	}
	t.Columns = append(t.Columns[:pos], t.Columns[pos+1:]...)
	for _, row := range t.Rows {
		row.Values = append(row.Values[:pos], row.Values[pos+1:]...)
	}
	return nil
}

// CreateIndex registers idx under name for the given column, building it
// from the table's current rows. Returns dberr.DuplicateName if an
// index by that name already exists on this table.
func (t *Table) CreateIndex(name, column string, unique, fullText bool) (index.Index, error) {
	t.Guard.Lock()
	defer t.Guard.Unlock()

	if _, exists := t.Indexes[name]; exists {
		return nil, &dberr.DuplicateName{Kind: "index", Name: name}
	}
	pos := t.columnIndex(column)
	if pos < 0 {
		return nil, &dberr.NotFound{Kind: "column", Name: column}
	}

	info := index.Info{Name: name, Table: t.Name, Column: column, Unique: unique}
	var idx index.Index
	if fullText {
		idx = index.NewFullTextIndex(info)
	} else {
		idx = index.NewOrderedIndex(info)
	}
	for _, row := range t.Rows {
		idx.Insert(row.Values[pos], row.RowID)
	}
	t.Indexes[name] = idx
	return idx, nil
}

// DropIndex removes and returns the named index so the caller (the
// undo log, on rollback of a transaction that created it) can record
// its Info for a best-effort rebuild.
func (t *Table) DropIndex(name string) (index.Index, error) {
	t.Guard.Lock()
	defer t.Guard.Unlock()

	idx, ok := t.Indexes[name]
	if !ok {
		return nil, &dberr.NotFound{Kind: "index", Name: name}
	}
	if fulltext, ok := idx.(*index.FullTextIndex); ok {
		fulltext.Close()
	}
	delete(t.Indexes, name)
	return idx, nil
}

type simpleErr string

func (e simpleErr) Error() string { return string(e) }

const errMismatchedSetLists = simpleErr("update: mismatched column/value list lengths")
