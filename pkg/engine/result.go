package engine

import "github.com/moyashi/reldb/pkg/value"

// Result is the outcome of executing one Statement: either a row set
// (Select, possibly qualified by table name for joins) or an affected
// row count (Insert/Update/Delete/DDL).
type Result struct {
	Columns      []string
	Rows         [][]value.Value
	RowsAffected int64

	// RowIDs carries each Rows entry's catalog RowID for a single-table
	// SELECT (a sequence of Row deep-copies), aligned by index with
	// Rows. Left nil for joins, where no single RowID applies per row.
	RowIDs []uint64
}
