// Package join implements the engine's two-table equi-join executor
// (spec §4.6, C7): INNER, LEFT OUTER, RIGHT OUTER, and FULL OUTER,
// producing qualified-name result rows. Grounded on the hash-join shape
// used elsewhere in the corpus — build a hash side once, probe the
// other — rather than a nested-loop scan.
package join

import (
	"github.com/moyashi/reldb/pkg/catalog"
	"github.com/moyashi/reldb/pkg/dberr"
	"github.com/moyashi/reldb/pkg/stmt"
	"github.com/moyashi/reldb/pkg/value"
)

// ResultColumn is one column of a join's output: qualified by the table
// it came from so that left.id and right.id don't collide.
type ResultColumn struct {
	Table string
	Name  string
	Kind  value.Kind
}

// ResultRow is one tuple of a join's output, in ResultColumn order.
type ResultRow struct {
	Values []value.Value
}

// Execute joins left and right on left.leftColumn = right.rightColumn
// under jt, returning the qualified result schema and every matching
// (and, for outer joins, padded) row. A NULL join-key value never
// matches anything, including another NULL — standard SQL equi-join
// semantics.
func Execute(left *catalog.Table, leftColumn string, right *catalog.Table, rightColumn string, jt stmt.JoinType) ([]ResultColumn, []ResultRow, error) {
	leftPos := left.ColumnIndex(leftColumn)
	if leftPos < 0 {
		return nil, nil, &dberr.NotFound{Kind: "column", Name: left.Name + "." + leftColumn}
	}
	rightPos := right.ColumnIndex(rightColumn)
	if rightPos < 0 {
		return nil, nil, &dberr.NotFound{Kind: "column", Name: right.Name + "." + rightColumn}
	}

	columns := make([]ResultColumn, 0, len(left.Columns)+len(right.Columns))
	for _, c := range left.Columns {
		columns = append(columns, ResultColumn{Table: left.Name, Name: c.Name, Kind: c.Kind})
	}
	for _, c := range right.Columns {
		columns = append(columns, ResultColumn{Table: right.Name, Name: c.Name, Kind: c.Kind})
	}

	rightRows := right.ScanAll()
	probe := make(map[value.Value][]*catalog.Row)
	for _, r := range rightRows {
		key := r.Values[rightPos]
		if key.IsNull() {
			continue
		}
		probe[key] = append(probe[key], r)
	}

	keepAllLeft := jt == stmt.LeftOuter || jt == stmt.FullOuter
	keepAllRight := jt == stmt.RightOuter || jt == stmt.FullOuter

	matched := make(map[uint64]bool, len(rightRows))
	var out []ResultRow

	for _, lrow := range left.ScanAll() {
		key := lrow.Values[leftPos]
		var matches []*catalog.Row
		if !key.IsNull() {
			matches = probe[key]
		}
		if len(matches) == 0 {
			if keepAllLeft {
				out = append(out, combine(lrow, nullRow(right.Columns)))
			}
			continue
		}
		for _, rrow := range matches {
			matched[rrow.RowID] = true
			out = append(out, combine(lrow, rrow))
		}
	}

	if keepAllRight {
		for _, rrow := range rightRows {
			if !matched[rrow.RowID] {
				out = append(out, combine(nullRow(left.Columns), rrow))
			}
		}
	}

	return columns, out, nil
}

func combine(left, right *catalog.Row) ResultRow {
	values := make([]value.Value, 0, len(left.Values)+len(right.Values))
	values = append(values, left.Values...)
	values = append(values, right.Values...)
	return ResultRow{Values: values}
}

func nullRow(columns []catalog.Column) *catalog.Row {
	values := make([]value.Value, len(columns))
	for i, c := range columns {
		values[i] = value.NewNull(c.Kind)
	}
	return &catalog.Row{Values: values}
}
