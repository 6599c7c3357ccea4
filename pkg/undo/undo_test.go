package undo

import (
	"testing"

	"github.com/moyashi/reldb/pkg/catalog"
	"github.com/moyashi/reldb/pkg/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTable() *catalog.Table {
	return catalog.New("t", []catalog.Column{
		{Name: "id", Kind: value.Int, PrimaryKey: true},
		{Name: "n", Kind: value.Int},
	})
}

type fakeDB struct {
	dropped  []string
	restored []*catalog.Table
}

func (f *fakeDB) DropTableForRollback(name string)            { f.dropped = append(f.dropped, name) }
func (f *fakeDB) RestoreTableForRollback(t *catalog.Table)     { f.restored = append(f.restored, t) }

func TestRollbackUndoesInsert(t *testing.T) {
	tbl := newTable()
	log := NewLog()
	_, err := tbl.InsertRow([]value.Value{value.NewInt(1), value.NewInt(100)}, log)
	require.NoError(t, err)
	assert.Len(t, tbl.ScanAll(), 1)

	log.Rollback(&fakeDB{})
	assert.Len(t, tbl.ScanAll(), 0)
}

func TestRollbackUndoesUpdate(t *testing.T) {
	tbl := newTable()
	tbl.InsertRow([]value.Value{value.NewInt(1), value.NewInt(100)}, nil)

	log := NewLog()
	_, err := tbl.UpdateRows([]string{"n"}, []value.Value{value.NewInt(999)}, nil, log)
	require.NoError(t, err)
	assert.Equal(t, int64(999), tbl.ScanAll()[0].Values[1].Int())

	log.Rollback(&fakeDB{})
	assert.Equal(t, int64(100), tbl.ScanAll()[0].Values[1].Int())
}

func TestRollbackUndoesDelete(t *testing.T) {
	tbl := newTable()
	tbl.InsertRow([]value.Value{value.NewInt(1), value.NewInt(100)}, nil)

	log := NewLog()
	_, err := tbl.DeleteRows(nil, log)
	require.NoError(t, err)
	assert.Len(t, tbl.ScanAll(), 0)

	log.Rollback(&fakeDB{})
	rows := tbl.ScanAll()
	require.Len(t, rows, 1)
	assert.Equal(t, uint64(1), rows[0].RowID)
	assert.Equal(t, int64(100), rows[0].Values[1].Int())
}

func TestRollbackReplaysLIFO(t *testing.T) {
	tbl := newTable()
	log := NewLog()
	tbl.InsertRow([]value.Value{value.NewInt(1), value.NewInt(1)}, log)
	tbl.UpdateRows([]string{"n"}, []value.Value{value.NewInt(2)}, nil, log)
	tbl.UpdateRows([]string{"n"}, []value.Value{value.NewInt(3)}, nil, log)

	log.Rollback(&fakeDB{})
	assert.Len(t, tbl.ScanAll(), 0)
}

func TestRollbackDropTableRestoresSameObject(t *testing.T) {
	tbl := newTable()
	log := NewLog()
	log.LogDropTable("t", tbl)

	db := &fakeDB{}
	log.Rollback(db)
	require.Len(t, db.restored, 1)
	assert.Same(t, tbl, db.restored[0])
}

func TestRollbackCreateTableDropsByName(t *testing.T) {
	tbl := newTable()
	log := NewLog()
	log.LogCreateTable("t", tbl)

	db := &fakeDB{}
	log.Rollback(db)
	assert.Equal(t, []string{"t"}, db.dropped)
}

func TestDiscardClearsWithoutReplay(t *testing.T) {
	tbl := newTable()
	log := NewLog()
	tbl.InsertRow([]value.Value{value.NewInt(1), value.NewInt(1)}, log)
	log.Discard()
	assert.Equal(t, 0, log.Len())

	log.Rollback(&fakeDB{})
	assert.Len(t, tbl.ScanAll(), 1)
}

func TestRollbackCreateIndexDropsIndex(t *testing.T) {
	tbl := newTable()
	log := NewLog()
	_, err := tbl.CreateIndex("idx_n", "n", false, false)
	require.NoError(t, err)
	log.LogCreateIndex(tbl, "idx_n", "n", false, false)

	log.Rollback(&fakeDB{})
	_, err = tbl.DropIndex("idx_n")
	assert.Error(t, err) // already gone
}

func TestRollbackDropIndexRebuilds(t *testing.T) {
	tbl := newTable()
	tbl.InsertRow([]value.Value{value.NewInt(1), value.NewInt(5)}, nil)
	tbl.CreateIndex("idx_n", "n", false, false)

	log := NewLog()
	idx, err := tbl.DropIndex("idx_n")
	require.NoError(t, err)
	info := idx.Info()
	log.LogDropIndex(tbl, info.Name, info.Column, info.Unique, false)

	log.Rollback(&fakeDB{})
	rebuilt, err := tbl.DropIndex("idx_n")
	require.NoError(t, err)
	ids, ok := rebuilt.Find(value.NewInt(5))
	require.True(t, ok)
	assert.Equal(t, []uint64{1}, ids)
}
