package engine

import (
	"github.com/moyashi/reldb/pkg/catalog"
	"github.com/moyashi/reldb/pkg/dberr"
	"github.com/moyashi/reldb/pkg/fk"
	"github.com/moyashi/reldb/pkg/stmt"
	"github.com/moyashi/reldb/pkg/undo"
	"github.com/moyashi/reldb/pkg/value"
)

func (d *Database) insert(s *stmt.Statement, log *undo.Log) (*Result, error) {
	table, err := d.getTable(s.Table)
	if err != nil {
		return nil, err
	}
	if len(s.Values) != len(table.Columns) {
		return nil, &dberr.Arity{Table: s.Table, Expected: len(table.Columns), Got: len(s.Values)}
	}

	d.Guard.Lock()
	fks := append([]fk.ForeignKey(nil), d.ForeignKeys...)
	d.Guard.Unlock()

	if err := fk.Enforce(d, fks, s.Table, table.Columns, s.Values); err != nil {
		return nil, err
	}
	if _, err := table.InsertRow(s.Values, log); err != nil {
		return nil, err
	}
	return &Result{RowsAffected: 1}, nil
}

func (d *Database) update(s *stmt.Statement, log *undo.Log) (*Result, error) {
	table, err := d.getTable(s.Table)
	if err != nil {
		return nil, err
	}
	if len(s.SetColumns) != len(s.SetValues) {
		return nil, &dberr.Internal{Op: "update", Err: errMismatched}
	}
	setPos := make([]int, len(s.SetColumns))
	for i, name := range s.SetColumns {
		pos := table.ColumnIndex(name)
		if pos < 0 {
			return nil, &dberr.NotFound{Kind: "column", Name: name}
		}
		setPos[i] = pos
	}

	d.Guard.Lock()
	fks := append([]fk.ForeignKey(nil), d.ForeignKeys...)
	d.Guard.Unlock()

	matched := matchingRows(table, s.Where)
	newValuesByRow := make(map[uint64][]value.Value, len(matched))
	for _, row := range matched {
		newValues := applySet(row.Values, setPos, s.SetValues)
		if err := fk.Enforce(d, fks, s.Table, table.Columns, newValues); err != nil {
			return nil, err
		}
		if err := fk.CheckRestrictOnUpdate(d, fks, table, table.Columns, row.Values, newValues); err != nil {
			return nil, err
		}
		newValuesByRow[row.RowID] = newValues
	}

	count, err := table.UpdateRows(s.SetColumns, s.SetValues, s.Where, log)
	if err != nil {
		return nil, err
	}

	for _, row := range matched {
		newValues := newValuesByRow[row.RowID]
		if err := fk.CascadeUpdate(d, fks, table, table.Columns, row.Values, newValues, log); err != nil {
			return nil, err
		}
	}

	return &Result{RowsAffected: count}, nil
}

func (d *Database) deleteStmt(s *stmt.Statement, log *undo.Log) (*Result, error) {
	table, err := d.getTable(s.Table)
	if err != nil {
		return nil, err
	}

	d.Guard.Lock()
	fks := append([]fk.ForeignKey(nil), d.ForeignKeys...)
	d.Guard.Unlock()

	matched := matchingRows(table, s.Where)
	for _, row := range matched {
		if err := fk.CheckRestrictOnDelete(d, fks, table, table.Columns, row.Values); err != nil {
			return nil, err
		}
	}

	count, err := table.DeleteRows(s.Where, log)
	if err != nil {
		return nil, err
	}

	for _, row := range matched {
		if err := fk.CascadeDelete(d, fks, table, table.Columns, row.Values, log); err != nil {
			return nil, err
		}
	}

	return &Result{RowsAffected: count}, nil
}

func matchingRows(table *catalog.Table, where stmt.Where) []*catalog.Row {
	var out []*catalog.Row
	for _, row := range table.ScanAll() {
		if catalog.Matches(table.Columns, row, where) {
			out = append(out, row.Copy())
		}
	}
	return out
}

func applySet(current []value.Value, setPos []int, setVals []value.Value) []value.Value {
	out := make([]value.Value, len(current))
	copy(out, current)
	for i, pos := range setPos {
		out[pos] = setVals[i]
	}
	return out
}

type simpleErr string

func (e simpleErr) Error() string { return string(e) }

const errMismatched = simpleErr("update: mismatched column/value list lengths")
