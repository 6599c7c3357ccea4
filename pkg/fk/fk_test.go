package fk

import (
	"testing"

	"github.com/moyashi/reldb/pkg/catalog"
	"github.com/moyashi/reldb/pkg/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lookup map[string]*catalog.Table

func (l lookup) Table(name string) (*catalog.Table, bool) {
	t, ok := l[name]
	return t, ok
}

func setup() (lookup, []ForeignKey) {
	authors := catalog.New("authors", []catalog.Column{
		{Name: "id", Kind: value.Int, PrimaryKey: true},
	})
	books := catalog.New("books", []catalog.Column{
		{Name: "id", Kind: value.Int, PrimaryKey: true},
		{Name: "author_id", Kind: value.Int, Nullable: true},
	})
	authors.InsertRow([]value.Value{value.NewInt(1)}, nil)
	fks := []ForeignKey{{Name: "fk_books_author", ChildTable: "books", ChildColumn: "author_id", ParentTable: "authors", ParentColumn: "id"}}
	return lookup{"authors": authors, "books": books}, fks
}

func TestEnforceAcceptsMatchingParent(t *testing.T) {
	tables, fks := setup()
	err := Enforce(tables, fks, "books", tables["books"].Columns, []value.Value{value.NewInt(1), value.NewInt(1)})
	assert.NoError(t, err)
}

func TestEnforceAcceptsNull(t *testing.T) {
	tables, fks := setup()
	err := Enforce(tables, fks, "books", tables["books"].Columns, []value.Value{value.NewInt(1), value.NewNull(value.Int)})
	assert.NoError(t, err)
}

func TestEnforceRejectsMissingParent(t *testing.T) {
	tables, fks := setup()
	err := Enforce(tables, fks, "books", tables["books"].Columns, []value.Value{value.NewInt(1), value.NewInt(99)})
	require.Error(t, err)
}

func TestCheckRestrictOnDeleteBlocksByDefault(t *testing.T) {
	tables, fks := setup()
	tables["books"].InsertRow([]value.Value{value.NewInt(1), value.NewInt(1)}, nil)

	err := CheckRestrictOnDelete(tables, fks, tables["authors"], tables["authors"].Columns, []value.Value{value.NewInt(1)})
	require.Error(t, err)
}

func TestCascadeDeleteRemovesChildren(t *testing.T) {
	tables, fks := setup()
	fks[0].OnDeleteCascade = true
	tables["books"].InsertRow([]value.Value{value.NewInt(1), value.NewInt(1)}, nil)

	require.NoError(t, CheckRestrictOnDelete(tables, fks, tables["authors"], tables["authors"].Columns, []value.Value{value.NewInt(1)}))
	err := CascadeDelete(tables, fks, tables["authors"], tables["authors"].Columns, []value.Value{value.NewInt(1)}, nil)
	require.NoError(t, err)
	assert.Len(t, tables["books"].ScanAll(), 0)
}

func TestCascadeUpdatePropagatesNewValue(t *testing.T) {
	tables, fks := setup()
	fks[0].OnUpdateCascade = true
	tables["books"].InsertRow([]value.Value{value.NewInt(1), value.NewInt(1)}, nil)

	old := []value.Value{value.NewInt(1)}
	updated := []value.Value{value.NewInt(2)}
	require.NoError(t, CheckRestrictOnUpdate(tables, fks, tables["authors"], tables["authors"].Columns, old, updated))
	err := CascadeUpdate(tables, fks, tables["authors"], tables["authors"].Columns, old, updated, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), tables["books"].ScanAll()[0].Values[1].Int())
}
