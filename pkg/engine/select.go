package engine

import (
	"sort"
	"strings"

	"github.com/moyashi/reldb/pkg/catalog"
	"github.com/moyashi/reldb/pkg/dberr"
	"github.com/moyashi/reldb/pkg/join"
	"github.com/moyashi/reldb/pkg/stmt"
	"github.com/moyashi/reldb/pkg/value"
)

func (d *Database) selectStmt(s *stmt.Statement) (*Result, error) {
	switch len(s.FromTables) {
	case 0:
		return nil, &dberr.Unsupported{Operation: "select", Reason: "no FROM table"}
	case 1:
		return d.selectSingle(s)
	case 2:
		return d.selectJoin(s)
	default:
		return nil, &dberr.Unsupported{Operation: "select", Reason: "more than two FROM tables"}
	}
}

func (d *Database) selectSingle(s *stmt.Statement) (*Result, error) {
	table, err := d.getTable(s.FromTables[0])
	if err != nil {
		return nil, err
	}

	names := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		names[i] = c.Name
	}

	var matched [][]value.Value
	var rowIDs []uint64
	for _, row := range table.ScanAll() {
		if catalog.Matches(table.Columns, row, s.Where) {
			matched = append(matched, row.Values)
			rowIDs = append(rowIDs, row.RowID)
		}
	}

	return buildResult(names, matched, rowIDs, s)
}

func (d *Database) selectJoin(s *stmt.Statement) (*Result, error) {
	if len(s.JoinConditions) == 0 {
		return nil, &dberr.Unsupported{Operation: "select", Reason: "join with no join condition"}
	}
	jc := s.JoinConditions[0]

	left, err := d.getTable(jc.LeftTable)
	if err != nil {
		return nil, err
	}
	right, err := d.getTable(jc.RightTable)
	if err != nil {
		return nil, err
	}

	columns, rows, err := join.Execute(left, jc.LeftColumn, right, jc.RightColumn, s.JoinType)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = c.Table + "." + c.Name
	}

	var matched [][]value.Value
	for _, row := range rows {
		if matchesGeneric(names, row.Values, s.Where) {
			matched = append(matched, row.Values)
		}
	}

	return buildResult(names, matched, nil, s)
}

// matchesGeneric evaluates a Where against an arbitrary name/value
// tuple — the join path's result rows carry qualified "table.column"
// names rather than catalog.Column definitions, so it cannot reuse
// catalog.Matches directly. Condition.Column may be bare ("id") or
// qualified ("books.id"); bare names match if exactly one result column
// has that unqualified suffix.
func matchesGeneric(names []string, values []value.Value, where stmt.Where) bool {
	if len(where) == 0 {
		return true
	}
	result := false
	clause := true
	for i, cond := range where {
		clause = clause && evalConditionGeneric(names, values, cond)
		if cond.Connector != stmt.And || i == len(where)-1 {
			result = result || clause
			clause = true
		}
	}
	return result
}

func evalConditionGeneric(names []string, values []value.Value, cond stmt.Condition) bool {
	pos := resolveName(names, cond.Column)
	if pos < 0 {
		return false
	}
	v := values[pos]
	switch cond.Op {
	case stmt.Eq:
		return value.Equal(v, cond.Value)
	case stmt.Neq:
		return !value.Equal(v, cond.Value)
	case stmt.Lt:
		return value.Less(v, cond.Value)
	case stmt.Gt:
		return value.Less(cond.Value, v)
	case stmt.Lte:
		return !value.Less(cond.Value, v)
	case stmt.Gte:
		return !value.Less(v, cond.Value)
	case stmt.Like:
		single := stmt.Condition{Column: "v", Op: stmt.Like, Value: cond.Value}
		return catalog.Matches([]catalog.Column{{Name: "v"}}, &catalog.Row{Values: []value.Value{v}}, stmt.Where{single})
	case stmt.IsNull:
		return v.IsNull()
	case stmt.IsNotNull:
		return !v.IsNull()
	case stmt.In:
		for _, c := range cond.Values {
			if value.Equal(v, c) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func resolveName(names []string, want string) int {
	for i, n := range names {
		if n == want {
			return i
		}
	}
	if !strings.Contains(want, ".") {
		match := -1
		for i, n := range names {
			parts := strings.SplitN(n, ".", 2)
			if len(parts) == 2 && parts[1] == want {
				if match >= 0 {
					return -1 // ambiguous
				}
				match = i
			}
		}
		return match
	}
	return -1
}

func buildResult(names []string, rows [][]value.Value, rowIDs []uint64, s *stmt.Statement) (*Result, error) {
	projected, projNames, err := project(names, rows, s.Projection)
	if err != nil {
		return nil, err
	}
	ids := rowIDs
	if ids != nil {
		ids = append([]uint64(nil), ids...)
	}
	if len(s.Order) > 0 {
		sortRows(projNames, projected, ids, s.Order)
	}
	if s.Offset > 0 {
		if int(s.Offset) >= len(projected) {
			projected = nil
			ids = nil
		} else {
			projected = projected[s.Offset:]
			if ids != nil {
				ids = ids[s.Offset:]
			}
		}
	}
	if s.HasLimit && int64(len(projected)) > s.Limit {
		projected = projected[:s.Limit]
		if ids != nil {
			ids = ids[:s.Limit]
		}
	}
	return &Result{Columns: projNames, Rows: projected, RowIDs: ids}, nil
}

func project(names []string, rows [][]value.Value, projection []string) ([][]value.Value, []string, error) {
	if len(projection) == 0 {
		out := make([][]value.Value, len(rows))
		copy(out, rows)
		return out, names, nil
	}
	positions := make([]int, len(projection))
	for i, p := range projection {
		pos := resolveName(names, p)
		if pos < 0 {
			return nil, nil, &dberr.NotFound{Kind: "column", Name: p}
		}
		positions[i] = pos
	}
	out := make([][]value.Value, len(rows))
	for r, row := range rows {
		projected := make([]value.Value, len(positions))
		for i, pos := range positions {
			projected[i] = row[pos]
		}
		out[r] = projected
	}
	return out, projection, nil
}

// sortRows reorders rows in place, carrying ids (if non-nil) along with
// them so each RowID stays matched to the row it came from.
func sortRows(names []string, rows [][]value.Value, ids []uint64, order []stmt.OrderBy) {
	positions := make([]int, len(order))
	for i, o := range order {
		positions[i] = resolveName(names, o.Column)
	}
	perm := make([]int, len(rows))
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(i, j int) bool {
		a, b := rows[perm[i]], rows[perm[j]]
		for k, pos := range positions {
			if pos < 0 {
				continue
			}
			cmp := value.Compare(a[pos], b[pos])
			if cmp == 0 {
				continue
			}
			if order[k].Desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
	sortedRows := make([][]value.Value, len(rows))
	var sortedIDs []uint64
	if ids != nil {
		sortedIDs = make([]uint64, len(ids))
	}
	for i, p := range perm {
		sortedRows[i] = rows[p]
		if ids != nil {
			sortedIDs[i] = ids[p]
		}
	}
	copy(rows, sortedRows)
	if ids != nil {
		copy(ids, sortedIDs)
	}
}
