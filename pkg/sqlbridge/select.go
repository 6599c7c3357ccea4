package sqlbridge

import (
	"github.com/moyashi/reldb/pkg/dberr"
	"github.com/moyashi/reldb/pkg/stmt"
	"github.com/pingcap/tidb/pkg/parser/ast"
)

func convertSelect(n *ast.SelectStmt) (*stmt.Statement, error) {
	if n.Distinct {
		return nil, &dberr.Unsupported{Operation: "sqlbridge select", Reason: "DISTINCT is not supported"}
	}
	if n.From == nil || n.From.TableRefs == nil {
		return nil, &dberr.Unsupported{Operation: "sqlbridge select", Reason: "SELECT without FROM is not supported"}
	}

	out := &stmt.Statement{Kind: stmt.Select}

	leftSource, ok := n.From.TableRefs.Left.(*ast.TableSource)
	if !ok {
		return nil, &dberr.Unsupported{Operation: "sqlbridge select", Reason: "expected a plain table source"}
	}
	leftName, ok := leftSource.Source.(*ast.TableName)
	if !ok {
		return nil, &dberr.Unsupported{Operation: "sqlbridge select", Reason: "expected a table name"}
	}
	out.FromTables = append(out.FromTables, leftName.Name.String())

	if n.From.TableRefs.Right != nil {
		join, err := convertJoin(n.From.TableRefs, out.FromTables[0])
		if err != nil {
			return nil, err
		}
		out.FromTables = append(out.FromTables, join.cond.RightTable)
		out.JoinType = join.jt
		out.JoinConditions = []stmt.JoinCondition{join.cond}
	}

	if err := convertProjection(n, out); err != nil {
		return nil, err
	}

	where, err := flattenWhere(n.Where)
	if err != nil {
		return nil, err
	}
	out.Where = where

	if n.GroupBy != nil || n.Having != nil {
		return nil, &dberr.Unsupported{Operation: "sqlbridge select", Reason: "GROUP BY / HAVING are not supported"}
	}

	if n.OrderBy != nil {
		for _, item := range n.OrderBy.Items {
			col, ok := columnName(item.Expr)
			if !ok {
				return nil, &dberr.Unsupported{Operation: "sqlbridge select", Reason: "ORDER BY requires a plain column"}
			}
			out.Order = append(out.Order, stmt.OrderBy{Column: col, Desc: item.Desc})
		}
	}

	if n.Limit != nil {
		if n.Limit.Count != nil {
			count, err := limitOperand(n.Limit.Count)
			if err != nil {
				return nil, err
			}
			out.Limit = count
			out.HasLimit = true
		}
		if n.Limit.Offset != nil {
			offset, err := limitOperand(n.Limit.Offset)
			if err != nil {
				return nil, err
			}
			out.Offset = offset
		}
	}

	return out, nil
}

type joinInfo struct {
	jt   stmt.JoinType
	cond stmt.JoinCondition
}

// convertJoin handles the single two-table join the engine's join.Execute
// supports. j is the top-level join node itself — its Left is the
// primary table (already consumed by the caller), its Right the joined
// table, and its On/Tp the join's own condition and kind. A deeper join
// tree (three or more tables, where Left would itself be a nested *ast.Join)
// is rejected rather than silently dropped.
func convertJoin(j *ast.Join, leftTable string) (joinInfo, error) {
	if _, ok := j.Left.(*ast.Join); ok {
		return joinInfo{}, &dberr.Unsupported{Operation: "sqlbridge select", Reason: "joins across more than two tables are not supported"}
	}

	rightSource, ok := j.Right.(*ast.TableSource)
	if !ok {
		return joinInfo{}, &dberr.Unsupported{Operation: "sqlbridge select", Reason: "expected a plain table source on the join's right side"}
	}
	rightName, ok := rightSource.Source.(*ast.TableName)
	if !ok {
		return joinInfo{}, &dberr.Unsupported{Operation: "sqlbridge select", Reason: "expected a table name on the join's right side"}
	}

	jt := stmt.Inner
	switch j.Tp {
	case ast.LeftJoin:
		jt = stmt.LeftOuter
	case ast.RightJoin:
		jt = stmt.RightOuter
	}

	if j.On == nil || j.On.Expr == nil {
		return joinInfo{}, &dberr.Unsupported{Operation: "sqlbridge select", Reason: "join without an ON condition is not supported"}
	}
	cond, err := joinConditionFromOn(j.On.Expr, leftTable, rightName.Name.String())
	if err != nil {
		return joinInfo{}, err
	}

	return joinInfo{jt: jt, cond: cond}, nil
}

func joinConditionFromOn(expr ast.ExprNode, leftTable, rightTable string) (stmt.JoinCondition, error) {
	bin, ok := expr.(*ast.BinaryOperationExpr)
	if !ok {
		return stmt.JoinCondition{}, &dberr.Unsupported{Operation: "sqlbridge select", Reason: "join ON must be a single column equality"}
	}
	lCol, lOk := bin.L.(*ast.ColumnNameExpr)
	rCol, rOk := bin.R.(*ast.ColumnNameExpr)
	if !lOk || !rOk {
		return stmt.JoinCondition{}, &dberr.Unsupported{Operation: "sqlbridge select", Reason: "join ON must compare two columns"}
	}

	left := stmt.JoinCondition{LeftTable: leftTable, RightTable: rightTable}
	lTable := lCol.Name.Table.String()
	rTable := rCol.Name.Table.String()

	switch {
	case lTable == leftTable || rTable == rightTable:
		left.LeftColumn = lCol.Name.Name.String()
		left.RightColumn = rCol.Name.Name.String()
	case lTable == rightTable || rTable == leftTable:
		left.LeftColumn = rCol.Name.Name.String()
		left.RightColumn = lCol.Name.Name.String()
	default:
		left.LeftColumn = lCol.Name.Name.String()
		left.RightColumn = rCol.Name.Name.String()
	}
	return left, nil
}

func convertProjection(n *ast.SelectStmt, out *stmt.Statement) error {
	if n.Fields == nil {
		return nil
	}
	for _, field := range n.Fields.Fields {
		if field.WildCard != nil {
			out.Projection = nil
			return nil
		}
		col, ok := columnName(field.Expr)
		if !ok {
			return &dberr.Unsupported{Operation: "sqlbridge select", Reason: "only plain column projections are supported"}
		}
		out.Projection = append(out.Projection, col)
	}
	return nil
}

func limitOperand(node ast.ExprNode) (int64, error) {
	v, err := literalValue(node)
	if err != nil {
		return 0, err
	}
	return v.Int(), nil
}
