// Package fk implements referential-integrity enforcement between
// tables (spec §4.5, C6): validating INSERT/UPDATE against a foreign
// key's parent table, and cascading or restricting DELETE/UPDATE on the
// parent side. Restrict-checking is always a separate, non-mutating
// pass from cascade-applying, so a caller can validate every matched
// row before committing any of them (spec §4.7's all-or-nothing
// statement semantics).
package fk

import (
	"github.com/moyashi/reldb/pkg/catalog"
	"github.com/moyashi/reldb/pkg/dberr"
	"github.com/moyashi/reldb/pkg/stmt"
	"github.com/moyashi/reldb/pkg/value"
)

// ForeignKey is one constraint: ChildColumn of ChildTable must, for any
// non-NULL value, equal ParentColumn of some row in ParentTable.
type ForeignKey struct {
	Name            string
	ChildTable      string
	ChildColumn     string
	ParentTable     string
	ParentColumn    string
	OnDeleteCascade bool
	OnUpdateCascade bool
}

// TableLookup is the narrow surface fk needs to resolve a constraint's
// parent/child tables by name. engine.Database implements it; fk never
// imports engine.
type TableLookup interface {
	Table(name string) (*catalog.Table, bool)
}

// Enforce validates that values (about to become a row of childTable)
// satisfies every foreign key declared with ChildTable == childTable.
// A NULL foreign-key column value is always valid (standard SQL
// semantics: the constraint only binds non-NULL values).
func Enforce(lookup TableLookup, fks []ForeignKey, childTable string, columns []catalog.Column, values []value.Value) error {
	for _, f := range fks {
		if f.ChildTable != childTable {
			continue
		}
		pos := columnPos(columns, f.ChildColumn)
		if pos < 0 {
			continue
		}
		v := values[pos]
		if v.IsNull() {
			continue
		}
		parent, ok := lookup.Table(f.ParentTable)
		if !ok {
			return &dberr.Internal{Op: "fk enforce", Err: &dberr.NotFound{Kind: "table", Name: f.ParentTable}}
		}
		if !parentHasMatch(parent, f.ParentColumn, v) {
			return &dberr.FKViolation{Constraint: f.Name, Table: childTable, Column: f.ChildColumn, Value: v.GoString()}
		}
	}
	return nil
}

func parentHasMatch(parent *catalog.Table, column string, v value.Value) bool {
	if idx, ok := parent.Indexes[column]; ok {
		_, found := idx.Find(v)
		return found
	}
	pos := parent.ColumnIndex(column)
	if pos < 0 {
		return false
	}
	for _, row := range parent.ScanAll() {
		if value.Equal(row.Values[pos], v) {
			return true
		}
	}
	return false
}

func columnPos(columns []catalog.Column, name string) int {
	for i, c := range columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

func referencingRowExists(child *catalog.Table, column string, key value.Value) bool {
	if idx, ok := child.Indexes[column]; ok {
		_, found := idx.Find(key)
		return found
	}
	pos := child.ColumnIndex(column)
	if pos < 0 {
		return false
	}
	for _, row := range child.ScanAll() {
		if value.Equal(row.Values[pos], key) {
			return true
		}
	}
	return false
}

// CheckRestrictOnDelete returns dberr.FKViolation if deleting a parent
// row with the given values would orphan a child row through any
// non-cascading foreign key. It mutates nothing, so callers can check
// every row about to be deleted before committing any of them.
func CheckRestrictOnDelete(lookup TableLookup, fks []ForeignKey, parent *catalog.Table, parentColumns []catalog.Column, deletedValues []value.Value) error {
	for _, f := range fks {
		if f.ParentTable != parent.Name || f.OnDeleteCascade {
			continue
		}
		pos := columnPos(parentColumns, f.ParentColumn)
		if pos < 0 {
			continue
		}
		key := deletedValues[pos]
		if key.IsNull() {
			continue
		}
		child, ok := lookup.Table(f.ChildTable)
		if !ok {
			continue
		}
		if referencingRowExists(child, f.ChildColumn, key) {
			return &dberr.FKViolation{Constraint: f.Name, Table: f.ChildTable, Column: f.ChildColumn, Value: key.GoString()}
		}
	}
	return nil
}

// CascadeDelete propagates a parent row's deletion into every child
// table reachable through a ON DELETE CASCADE foreign key. Callers
// must have already passed CheckRestrictOnDelete for the same row.
func CascadeDelete(lookup TableLookup, fks []ForeignKey, parent *catalog.Table, parentColumns []catalog.Column, deletedValues []value.Value, logger catalog.Logger) error {
	for _, f := range fks {
		if f.ParentTable != parent.Name || !f.OnDeleteCascade {
			continue
		}
		pos := columnPos(parentColumns, f.ParentColumn)
		if pos < 0 {
			continue
		}
		key := deletedValues[pos]
		if key.IsNull() {
			continue
		}
		child, ok := lookup.Table(f.ChildTable)
		if !ok {
			continue
		}
		where := stmt.Where{{Column: f.ChildColumn, Op: stmt.Eq, Value: key}}
		if _, err := child.DeleteRows(where, logger); err != nil {
			return err
		}
	}
	return nil
}

// CheckRestrictOnUpdate returns dberr.FKViolation if changing a parent
// row's referenced column from oldValues to newValues would orphan a
// child row through any non-cascading foreign key. It mutates nothing.
func CheckRestrictOnUpdate(lookup TableLookup, fks []ForeignKey, parent *catalog.Table, parentColumns []catalog.Column, oldValues, newValues []value.Value) error {
	for _, f := range fks {
		if f.ParentTable != parent.Name || f.OnUpdateCascade {
			continue
		}
		pos := columnPos(parentColumns, f.ParentColumn)
		if pos < 0 {
			continue
		}
		oldVal, newVal := oldValues[pos], newValues[pos]
		if value.Equal(oldVal, newVal) {
			continue
		}
		child, ok := lookup.Table(f.ChildTable)
		if !ok {
			continue
		}
		if referencingRowExists(child, f.ChildColumn, oldVal) {
			return &dberr.FKViolation{Constraint: f.Name, Table: f.ChildTable, Column: f.ChildColumn, Value: oldVal.GoString()}
		}
	}
	return nil
}

// CascadeUpdate propagates a parent row's referenced-column change into
// every child table reachable through an ON UPDATE CASCADE foreign key.
// Callers must have already passed CheckRestrictOnUpdate for the same
// row.
func CascadeUpdate(lookup TableLookup, fks []ForeignKey, parent *catalog.Table, parentColumns []catalog.Column, oldValues, newValues []value.Value, logger catalog.Logger) error {
	for _, f := range fks {
		if f.ParentTable != parent.Name || !f.OnUpdateCascade {
			continue
		}
		pos := columnPos(parentColumns, f.ParentColumn)
		if pos < 0 {
			continue
		}
		oldVal, newVal := oldValues[pos], newValues[pos]
		if value.Equal(oldVal, newVal) {
			continue
		}
		child, ok := lookup.Table(f.ChildTable)
		if !ok {
			continue
		}
		where := stmt.Where{{Column: f.ChildColumn, Op: stmt.Eq, Value: oldVal}}
		if _, err := child.UpdateRows([]string{f.ChildColumn}, []value.Value{newVal}, where, logger); err != nil {
			return err
		}
	}
	return nil
}
