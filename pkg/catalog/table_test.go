package catalog

import (
	"testing"

	"github.com/moyashi/reldb/pkg/stmt"
	"github.com/moyashi/reldb/pkg/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLogger struct {
	inserts []string
	updates []string
	deletes []string
}

func (f *fakeLogger) LogInsert(t *Table, after *Row) { f.inserts = append(f.inserts, t.Name) }
func (f *fakeLogger) LogUpdate(t *Table, before, after *Row) {
	f.updates = append(f.updates, t.Name)
}
func (f *fakeLogger) LogDelete(t *Table, before *Row) { f.deletes = append(f.deletes, t.Name) }

func newPeopleTable() *Table {
	return New("people", []Column{
		{Name: "id", Kind: value.Int, PrimaryKey: true},
		{Name: "name", Kind: value.Varchar, Nullable: true},
		{Name: "age", Kind: value.Int, Nullable: true},
	})
}

func TestInsertRowAssignsSequentialRowIDs(t *testing.T) {
	tbl := newPeopleTable()
	log := &fakeLogger{}

	r1, err := tbl.InsertRow([]value.Value{value.NewInt(1), value.NewVarchar("ann"), value.NewInt(30)}, log)
	require.NoError(t, err)
	r2, err := tbl.InsertRow([]value.Value{value.NewInt(2), value.NewVarchar("bob"), value.NewInt(40)}, log)
	require.NoError(t, err)

	assert.Equal(t, uint64(1), r1.RowID)
	assert.Equal(t, uint64(2), r2.RowID)
	assert.Len(t, log.inserts, 2)
}

func TestInsertRowArityMismatch(t *testing.T) {
	tbl := newPeopleTable()
	_, err := tbl.InsertRow([]value.Value{value.NewInt(1)}, nil)
	require.Error(t, err)
}

func TestUpdateRowsMatchesWhereAndLogsBeforeAfter(t *testing.T) {
	tbl := newPeopleTable()
	tbl.InsertRow([]value.Value{value.NewInt(1), value.NewVarchar("ann"), value.NewInt(30)}, nil)
	tbl.InsertRow([]value.Value{value.NewInt(2), value.NewVarchar("bob"), value.NewInt(40)}, nil)

	log := &fakeLogger{}
	where := stmt.Where{{Column: "name", Op: stmt.Eq, Value: value.NewVarchar("bob")}}
	n, err := tbl.UpdateRows([]string{"age"}, []value.Value{value.NewInt(41)}, where, log)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Len(t, log.updates, 1)

	rows := tbl.ScanAll()
	assert.Equal(t, int64(41), rows[1].Values[2].Int())
}

func TestDeleteRowsRemovesMatchingAndPreservesOrder(t *testing.T) {
	tbl := newPeopleTable()
	tbl.InsertRow([]value.Value{value.NewInt(1), value.NewVarchar("ann"), value.NewInt(30)}, nil)
	tbl.InsertRow([]value.Value{value.NewInt(2), value.NewVarchar("bob"), value.NewInt(40)}, nil)
	tbl.InsertRow([]value.Value{value.NewInt(3), value.NewVarchar("cid"), value.NewInt(50)}, nil)

	log := &fakeLogger{}
	where := stmt.Where{{Column: "age", Op: stmt.Lt, Value: value.NewInt(45)}}
	n, err := tbl.DeleteRows(where, log)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	rows := tbl.ScanAll()
	require.Len(t, rows, 1)
	assert.Equal(t, "cid", rows[0].Values[1].Str())
}

func TestAddColumnBackfillsZeroValueWhenNotNullable(t *testing.T) {
	tbl := newPeopleTable()
	tbl.InsertRow([]value.Value{value.NewInt(1), value.NewVarchar("ann"), value.NewInt(30)}, nil)

	err := tbl.AddColumn(Column{Name: "active", Kind: value.Boolean, Nullable: false}, value.NewNull(value.Boolean))
	require.NoError(t, err)

	rows := tbl.ScanAll()
	assert.Equal(t, false, rows[0].Values[3].Bool())
}

func TestDropColumnRefusesPrimaryKey(t *testing.T) {
	tbl := newPeopleTable()
	err := tbl.DropColumn("id")
	require.Error(t, err)
}

func TestDropColumnRemovesValues(t *testing.T) {
	tbl := newPeopleTable()
	tbl.InsertRow([]value.Value{value.NewInt(1), value.NewVarchar("ann"), value.NewInt(30)}, nil)
	require.NoError(t, tbl.DropColumn("age"))

	rows := tbl.ScanAll()
	assert.Len(t, rows[0].Values, 2)
	assert.Equal(t, -1, tbl.ColumnIndex("age"))
}

func TestCreateIndexBuildsFromExistingRows(t *testing.T) {
	tbl := newPeopleTable()
	tbl.InsertRow([]value.Value{value.NewInt(1), value.NewVarchar("ann"), value.NewInt(30)}, nil)
	tbl.InsertRow([]value.Value{value.NewInt(2), value.NewVarchar("bob"), value.NewInt(30)}, nil)

	idx, err := tbl.CreateIndex("idx_age", "age", false, false)
	require.NoError(t, err)
	ids, ok := idx.Find(value.NewInt(30))
	require.True(t, ok)
	assert.ElementsMatch(t, []uint64{1, 2}, ids)
}

func TestWhereGridAndOrPrecedence(t *testing.T) {
	tbl := newPeopleTable()
	tbl.InsertRow([]value.Value{value.NewInt(1), value.NewVarchar("ann"), value.NewInt(30)}, nil)
	tbl.InsertRow([]value.Value{value.NewInt(2), value.NewVarchar("bob"), value.NewInt(40)}, nil)
	tbl.InsertRow([]value.Value{value.NewInt(3), value.NewVarchar("cid"), value.NewInt(50)}, nil)

	// age = 30 OR (age = 50 AND name = 'cid')
	where := stmt.Where{
		{Column: "age", Op: stmt.Eq, Value: value.NewInt(30), Connector: stmt.Or},
		{Column: "age", Op: stmt.Eq, Value: value.NewInt(50), Connector: stmt.And},
		{Column: "name", Op: stmt.Eq, Value: value.NewVarchar("cid")},
	}
	var matched []string
	for _, row := range tbl.ScanAll() {
		if Matches(tbl.Columns, row, where) {
			matched = append(matched, row.Values[1].Str())
		}
	}
	assert.ElementsMatch(t, []string{"ann", "cid"}, matched)
}

func TestLikeWildcards(t *testing.T) {
	tbl := newPeopleTable()
	tbl.InsertRow([]value.Value{value.NewInt(1), value.NewVarchar("annabelle"), value.NewInt(30)}, nil)
	tbl.InsertRow([]value.Value{value.NewInt(2), value.NewVarchar("bob"), value.NewInt(40)}, nil)

	where := stmt.Where{{Column: "name", Op: stmt.Like, Value: value.NewVarchar("ann%")}}
	rows := tbl.ScanAll()
	assert.True(t, Matches(tbl.Columns, rows[0], where))
	assert.False(t, Matches(tbl.Columns, rows[1], where))
}
