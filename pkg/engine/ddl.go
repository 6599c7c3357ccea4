package engine

import (
	"github.com/moyashi/reldb/pkg/catalog"
	"github.com/moyashi/reldb/pkg/dberr"
	"github.com/moyashi/reldb/pkg/fk"
	"github.com/moyashi/reldb/pkg/index"
	"github.com/moyashi/reldb/pkg/stmt"
	"github.com/moyashi/reldb/pkg/undo"
	"github.com/moyashi/reldb/pkg/value"
)

func (d *Database) createTable(s *stmt.Statement, log *undo.Log) (*Result, error) {
	d.Guard.Lock()
	defer d.Guard.Unlock()

	if len(s.Table) > d.Config.Engine.MaxIdentifierLen {
		return nil, &dberr.NameTooLong{Kind: "table", Name: s.Table, MaxChars: d.Config.Engine.MaxIdentifierLen}
	}
	if _, exists := d.Tables[s.Table]; exists {
		return nil, &dberr.DuplicateName{Kind: "table", Name: s.Table}
	}

	seenNames := make(map[string]bool, len(s.Columns))
	pkSeen := false
	columns := make([]catalog.Column, len(s.Columns))
	for i, cd := range s.Columns {
		if len(cd.Name) > d.Config.Engine.MaxIdentifierLen {
			return nil, &dberr.NameTooLong{Kind: "column", Name: cd.Name, MaxChars: d.Config.Engine.MaxIdentifierLen}
		}
		if seenNames[cd.Name] {
			return nil, &dberr.DuplicateName{Kind: "column", Name: cd.Name}
		}
		seenNames[cd.Name] = true
		if cd.PrimaryKey {
			if pkSeen {
				return nil, &dberr.Unsupported{Operation: "create table", Reason: "more than one primary key column"}
			}
			pkSeen = true
		}
		columns[i] = catalog.Column{
			Name: cd.Name, Kind: cd.Kind, Nullable: cd.Nullable,
			PrimaryKey: cd.PrimaryKey, Unique: cd.Unique, Default: cd.Default,
		}
	}

	table := catalog.New(s.Table, columns)
	d.Tables[s.Table] = table
	if log != nil {
		log.LogCreateTable(s.Table, table)
	}
	d.Log.Info("table %q created with %d columns", s.Table, len(columns))
	return &Result{}, nil
}

func (d *Database) dropTable(s *stmt.Statement, log *undo.Log) (*Result, error) {
	d.Guard.Lock()
	defer d.Guard.Unlock()

	table, ok := d.Tables[s.Name]
	if !ok {
		return nil, &dberr.NotFound{Kind: "table", Name: s.Name}
	}
	for _, f := range d.ForeignKeys {
		if f.ParentTable == s.Name || f.ChildTable == s.Name {
			return nil, &dberr.Unsupported{Operation: "drop table", Reason: "table " + s.Name + " is referenced by foreign key " + f.Name}
		}
	}

	delete(d.Tables, s.Name)
	if log != nil {
		log.LogDropTable(s.Name, table)
	}
	d.Log.Info("table %q dropped", s.Name)
	return &Result{}, nil
}

func (d *Database) addForeignKey(s *stmt.Statement) (*Result, error) {
	d.Guard.Lock()
	defer d.Guard.Unlock()

	if len(s.ConstraintName) > d.Config.Engine.MaxIdentifierLen {
		return nil, &dberr.NameTooLong{Kind: "constraint", Name: s.ConstraintName, MaxChars: d.Config.Engine.MaxIdentifierLen}
	}
	child, ok := d.Tables[s.Table]
	if !ok {
		return nil, &dberr.NotFound{Kind: "table", Name: s.Table}
	}
	parent, ok := d.Tables[s.RefTable]
	if !ok {
		return nil, &dberr.NotFound{Kind: "table", Name: s.RefTable}
	}
	if child.ColumnIndex(s.FKColumn) < 0 {
		return nil, &dberr.NotFound{Kind: "column", Name: s.Table + "." + s.FKColumn}
	}
	if parent.ColumnIndex(s.RefColumn) < 0 {
		return nil, &dberr.NotFound{Kind: "column", Name: s.RefTable + "." + s.RefColumn}
	}
	for _, f := range d.ForeignKeys {
		if f.Name == s.ConstraintName {
			return nil, &dberr.DuplicateName{Kind: "constraint", Name: s.ConstraintName}
		}
	}

	refPos := parent.ColumnIndex(s.RefColumn)
	childPos := child.ColumnIndex(s.FKColumn)
	for _, row := range child.ScanAll() {
		v := row.Values[childPos]
		if v.IsNull() {
			continue
		}
		if !parentHasValue(parent, refPos, v) {
			return nil, &dberr.FKViolation{Constraint: s.ConstraintName, Table: s.Table, Column: s.FKColumn, Value: v.GoString()}
		}
	}

	d.ForeignKeys = append(d.ForeignKeys, foreignKeyFromStmt(s))
	d.Log.Info("foreign key %q added on %s(%s) -> %s(%s)", s.ConstraintName, s.Table, s.FKColumn, s.RefTable, s.RefColumn)
	return &Result{}, nil
}

func parentHasValue(parent *catalog.Table, pos int, v value.Value) bool {
	if idx, ok := parent.Indexes[parent.Columns[pos].Name]; ok {
		_, found := idx.Find(v)
		return found
	}
	for _, row := range parent.ScanAll() {
		if value.Equal(row.Values[pos], v) {
			return true
		}
	}
	return false
}

func (d *Database) dropForeignKey(s *stmt.Statement) (*Result, error) {
	d.Guard.Lock()
	defer d.Guard.Unlock()

	for i, f := range d.ForeignKeys {
		if f.Name == s.Name {
			d.ForeignKeys = append(d.ForeignKeys[:i], d.ForeignKeys[i+1:]...)
			d.Log.Info("foreign key %q dropped", s.Name)
			return &Result{}, nil
		}
	}
	return nil, &dberr.NotFound{Kind: "constraint", Name: s.Name}
}

func (d *Database) createIndex(s *stmt.Statement, log *undo.Log) (*Result, error) {
	table, err := d.getTable(s.Table)
	if err != nil {
		return nil, err
	}
	if len(s.IndexName) > d.Config.Engine.MaxIdentifierLen {
		return nil, &dberr.NameTooLong{Kind: "index", Name: s.IndexName, MaxChars: d.Config.Engine.MaxIdentifierLen}
	}
	_, err = table.CreateIndex(s.IndexName, s.IndexColumn, false, s.FullText)
	if err != nil {
		return nil, err
	}
	if log != nil {
		log.LogCreateIndex(table, s.IndexName, s.IndexColumn, false, s.FullText)
	}
	d.Log.Info("index %q created on %s(%s)", s.IndexName, s.Table, s.IndexColumn)
	return &Result{}, nil
}

func (d *Database) dropIndex(s *stmt.Statement, log *undo.Log) (*Result, error) {
	table, err := d.getTable(s.Table)
	if err != nil {
		return nil, err
	}
	idx, err := table.DropIndex(s.Name)
	if err != nil {
		return nil, err
	}
	if log != nil {
		info := idx.Info()
		log.LogDropIndex(table, info.Name, info.Column, info.Unique, info.Kind == index.FullText)
	}
	d.Log.Info("index %q dropped from %s", s.Name, s.Table)
	return &Result{}, nil
}

func foreignKeyFromStmt(s *stmt.Statement) fk.ForeignKey {
	return fk.ForeignKey{
		Name:            s.ConstraintName,
		ChildTable:      s.Table,
		ChildColumn:     s.FKColumn,
		ParentTable:     s.RefTable,
		ParentColumn:    s.RefColumn,
		OnDeleteCascade: s.OnDeleteCascade,
		OnUpdateCascade: s.OnUpdateCascade,
	}
}
