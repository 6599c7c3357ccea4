package sqlbridge

import (
	"testing"

	"github.com/moyashi/reldb/pkg/stmt"
	"github.com/moyashi/reldb/pkg/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func translateOne(t *testing.T, sql string) *stmt.Statement {
	t.Helper()
	s, err := New().TranslateOne(sql)
	require.NoError(t, err)
	return s
}

func TestCreateTableColumns(t *testing.T) {
	s := translateOne(t, `CREATE TABLE people (id INT PRIMARY KEY, name VARCHAR(64) NOT NULL, age INT)`)
	require.Equal(t, stmt.CreateTable, s.Kind)
	assert.Equal(t, "people", s.Table)
	require.Len(t, s.Columns, 3)
	assert.True(t, s.Columns[0].PrimaryKey)
	assert.Equal(t, value.Varchar, s.Columns[1].Kind)
	assert.False(t, s.Columns[1].Nullable)
	assert.True(t, s.Columns[2].Nullable)
}

func TestInsertValues(t *testing.T) {
	s := translateOne(t, `INSERT INTO people VALUES (1, 'ann', 30)`)
	require.Equal(t, stmt.Insert, s.Kind)
	assert.Equal(t, "people", s.Table)
	require.Len(t, s.Values, 3)
	assert.Equal(t, int64(1), s.Values[0].Int())
	assert.Equal(t, "ann", s.Values[1].Str())
}

func TestSelectWhereAndOrder(t *testing.T) {
	s := translateOne(t, `SELECT id, name FROM people WHERE age > 18 AND age < 65 ORDER BY name DESC LIMIT 10 OFFSET 5`)
	require.Equal(t, stmt.Select, s.Kind)
	assert.Equal(t, []string{"people"}, s.FromTables)
	assert.Equal(t, []string{"id", "name"}, s.Projection)
	require.Len(t, s.Where, 2)
	assert.Equal(t, stmt.Gt, s.Where[0].Op)
	assert.Equal(t, stmt.Lt, s.Where[1].Op)
	require.Len(t, s.Order, 1)
	assert.True(t, s.Order[0].Desc)
	assert.Equal(t, int64(10), s.Limit)
	assert.Equal(t, int64(5), s.Offset)
}

func TestSelectWhereOrGrouping(t *testing.T) {
	s := translateOne(t, `SELECT * FROM people WHERE age = 18 OR age = 21 AND name = 'ann'`)
	require.Len(t, s.Where, 3)
	assert.Equal(t, stmt.Or, s.Where[0].Connector)
	assert.Equal(t, stmt.And, s.Where[1].Connector)
	assert.Equal(t, stmt.NoConnector, s.Where[2].Connector)
	assert.Nil(t, s.Projection)
}

func TestSelectJoinInner(t *testing.T) {
	s := translateOne(t, `SELECT authors.name FROM authors JOIN books ON authors.id = books.author_id`)
	require.Equal(t, stmt.Select, s.Kind)
	assert.Equal(t, []string{"authors", "books"}, s.FromTables)
	require.Len(t, s.JoinConditions, 1)
	assert.Equal(t, stmt.Inner, s.JoinType)
	assert.Equal(t, "id", s.JoinConditions[0].LeftColumn)
	assert.Equal(t, "author_id", s.JoinConditions[0].RightColumn)
}

func TestSelectJoinLeftOuter(t *testing.T) {
	s := translateOne(t, `SELECT authors.name FROM authors LEFT JOIN books ON authors.id = books.author_id`)
	assert.Equal(t, stmt.LeftOuter, s.JoinType)
}

func TestUpdateSetWhere(t *testing.T) {
	s := translateOne(t, `UPDATE people SET age = 31 WHERE id = 1`)
	require.Equal(t, stmt.Update, s.Kind)
	assert.Equal(t, []string{"age"}, s.SetColumns)
	assert.Equal(t, int64(31), s.SetValues[0].Int())
	require.Len(t, s.Where, 1)
	assert.Equal(t, stmt.Eq, s.Where[0].Op)
}

func TestDeleteWhere(t *testing.T) {
	s := translateOne(t, `DELETE FROM people WHERE id = 1`)
	require.Equal(t, stmt.Delete, s.Kind)
	assert.Equal(t, "people", s.Table)
	require.Len(t, s.Where, 1)
}

func TestDropTable(t *testing.T) {
	s := translateOne(t, `DROP TABLE people`)
	require.Equal(t, stmt.DropTable, s.Kind)
	assert.Equal(t, "people", s.Name)
}

func TestCreateIndex(t *testing.T) {
	s := translateOne(t, `CREATE INDEX idx_age ON people (age)`)
	require.Equal(t, stmt.CreateIndex, s.Kind)
	assert.Equal(t, "people", s.Table)
	assert.Equal(t, "idx_age", s.IndexName)
	assert.Equal(t, "age", s.IndexColumn)
}

func TestBeginCommitRollback(t *testing.T) {
	assert.Equal(t, stmt.Begin, translateOne(t, `BEGIN`).Kind)
	assert.Equal(t, stmt.Commit, translateOne(t, `COMMIT`).Kind)
	assert.Equal(t, stmt.Rollback, translateOne(t, `ROLLBACK`).Kind)
}

func TestTranslateMultipleStatements(t *testing.T) {
	stmts, err := New().Translate(`CREATE TABLE t (id INT PRIMARY KEY); INSERT INTO t VALUES (1);`)
	require.NoError(t, err)
	require.Len(t, stmts, 2)
	assert.Equal(t, stmt.CreateTable, stmts[0].Kind)
	assert.Equal(t, stmt.Insert, stmts[1].Kind)
}

func TestDistinctRejected(t *testing.T) {
	_, err := New().TranslateOne(`SELECT DISTINCT name FROM people`)
	assert.Error(t, err)
}
