package join

import (
	"testing"

	"github.com/moyashi/reldb/pkg/catalog"
	"github.com/moyashi/reldb/pkg/stmt"
	"github.com/moyashi/reldb/pkg/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTables() (*catalog.Table, *catalog.Table) {
	authors := catalog.New("authors", []catalog.Column{
		{Name: "id", Kind: value.Int, PrimaryKey: true},
		{Name: "name", Kind: value.Varchar},
	})
	books := catalog.New("books", []catalog.Column{
		{Name: "id", Kind: value.Int, PrimaryKey: true},
		{Name: "author_id", Kind: value.Int, Nullable: true},
	})
	authors.InsertRow([]value.Value{value.NewInt(1), value.NewVarchar("ann")}, nil)
	authors.InsertRow([]value.Value{value.NewInt(2), value.NewVarchar("bob")}, nil)
	books.InsertRow([]value.Value{value.NewInt(10), value.NewInt(1)}, nil)
	books.InsertRow([]value.Value{value.NewInt(11), value.NewInt(99)}, nil) // dangling, no author 99
	return authors, books
}

func TestInnerJoinOnlyMatchingRows(t *testing.T) {
	authors, books := setupTables()
	_, rows, err := Execute(authors, "id", books, "author_id", stmt.Inner)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "ann", rows[0].Values[1].Str())
}

func TestLeftOuterJoinPadsUnmatchedLeft(t *testing.T) {
	authors, books := setupTables()
	_, rows, err := Execute(authors, "id", books, "author_id", stmt.LeftOuter)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	var bobRow *ResultRow
	for i := range rows {
		if rows[i].Values[1].Str() == "bob" {
			bobRow = &rows[i]
		}
	}
	require.NotNil(t, bobRow)
	assert.True(t, bobRow.Values[2].IsNull())
}

func TestRightOuterJoinPadsUnmatchedRight(t *testing.T) {
	authors, books := setupTables()
	_, rows, err := Execute(authors, "id", books, "author_id", stmt.RightOuter)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	var danglingRow *ResultRow
	for i := range rows {
		if rows[i].Values[2].Int() == 11 {
			danglingRow = &rows[i]
		}
	}
	require.NotNil(t, danglingRow)
	assert.True(t, danglingRow.Values[0].IsNull())
}

func TestFullOuterJoinKeepsBothSides(t *testing.T) {
	authors, books := setupTables()
	_, rows, err := Execute(authors, "id", books, "author_id", stmt.FullOuter)
	require.NoError(t, err)
	assert.Len(t, rows, 3) // 1 match + 1 unmatched author + 1 unmatched book
}

func TestJoinRejectsUnknownColumn(t *testing.T) {
	authors, books := setupTables()
	_, _, err := Execute(authors, "nope", books, "author_id", stmt.Inner)
	assert.Error(t, err)
}
