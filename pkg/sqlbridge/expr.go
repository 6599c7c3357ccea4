package sqlbridge

import (
	"github.com/moyashi/reldb/pkg/dberr"
	"github.com/moyashi/reldb/pkg/stmt"
	"github.com/moyashi/reldb/pkg/value"
	"github.com/pingcap/tidb/pkg/parser/ast"
	"github.com/pingcap/tidb/pkg/parser/opcode"
)

// tableNameFromRefs extracts the single table name from a TableRefsClause
// of the form "FROM t" — INSERT/UPDATE/DELETE never target more than one
// table, so the Left side of the join tree is always a bare TableSource.
func tableNameFromRefs(refs *ast.TableRefsClause) (string, error) {
	if refs == nil || refs.TableRefs == nil {
		return "", &dberr.Unsupported{Operation: "sqlbridge", Reason: "missing table reference"}
	}
	src, ok := refs.TableRefs.Left.(*ast.TableSource)
	if !ok {
		return "", &dberr.Unsupported{Operation: "sqlbridge", Reason: "expected a plain table source"}
	}
	name, ok := src.Source.(*ast.TableName)
	if !ok {
		return "", &dberr.Unsupported{Operation: "sqlbridge", Reason: "expected a table name"}
	}
	return name.Name.String(), nil
}

// literalValue converts a parsed literal expression into a typed Value.
// The Kind is inferred from the literal's Go representation, since the
// parser carries no column-type context at expression level.
func literalValue(node ast.ExprNode) (value.Value, error) {
	valExpr, ok := node.(ast.ValueExpr)
	if !ok {
		return value.Value{}, &dberr.Unsupported{Operation: "sqlbridge", Reason: "expected a literal value"}
	}
	return goValueToValue(valExpr.GetValue())
}

func goValueToValue(v interface{}) (value.Value, error) {
	switch n := v.(type) {
	case nil:
		return value.NewNull(value.Varchar), nil
	case int64:
		return value.NewInt(n), nil
	case int:
		return value.NewInt(int64(n)), nil
	case uint64:
		return value.NewInt(int64(n)), nil
	case float32:
		return value.NewFloat(float64(n)), nil
	case float64:
		return value.NewFloat(n), nil
	case bool:
		return value.NewBool(n), nil
	case string:
		return value.NewVarchar(n), nil
	default:
		return value.Value{}, &dberr.Unsupported{Operation: "sqlbridge", Reason: "unrecognized literal type"}
	}
}

// columnName returns the unqualified column name a ColumnNameExpr
// refers to. The engine's Where grid matches by bare name (catalog.Matches)
// or by bare-suffix (the join path's matchesGeneric), so the table
// qualifier carries no information the engine needs.
func columnName(node ast.ExprNode) (string, bool) {
	col, ok := node.(*ast.ColumnNameExpr)
	if !ok {
		return "", false
	}
	return col.Name.Name.String(), true
}

// flattenWhere walks a WHERE expression tree and produces the flat,
// connector-tagged Condition list stmt.Where expects. AND/OR nodes
// recurse into their operands and stitch the resulting lists together by
// overwriting the trailing connector of the left-hand list; leaf
// comparisons become single terminal Conditions. This mirrors exactly
// the grouping catalog.Matches interprets: AND binds tighter than OR.
func flattenWhere(node ast.ExprNode) (stmt.Where, error) {
	if node == nil {
		return nil, nil
	}

	if bin, ok := node.(*ast.BinaryOperationExpr); ok {
		switch bin.Op {
		case opcode.LogicAnd:
			return joinClauses(bin.L, bin.R, stmt.And)
		case opcode.LogicOr:
			return joinClauses(bin.L, bin.R, stmt.Or)
		}
	}

	cond, err := convertCondition(node)
	if err != nil {
		return nil, err
	}
	return stmt.Where{cond}, nil
}

func joinClauses(l, r ast.ExprNode, connector stmt.Connector) (stmt.Where, error) {
	left, err := flattenWhere(l)
	if err != nil {
		return nil, err
	}
	right, err := flattenWhere(r)
	if err != nil {
		return nil, err
	}
	left[len(left)-1].Connector = connector
	return append(left, right...), nil
}

func convertCondition(node ast.ExprNode) (stmt.Condition, error) {
	switch n := node.(type) {
	case *ast.BinaryOperationExpr:
		col, val, swapped, err := columnAndLiteral(n.L, n.R)
		if err != nil {
			return stmt.Condition{}, err
		}
		op, err := comparisonOp(n.Op, swapped)
		if err != nil {
			return stmt.Condition{}, err
		}
		return stmt.Condition{Column: col, Op: op, Value: val}, nil

	case *ast.PatternLikeOrIlikeExpr:
		col, ok := columnName(n.Expr)
		if !ok {
			return stmt.Condition{}, &dberr.Unsupported{Operation: "sqlbridge where", Reason: "LIKE requires a column operand"}
		}
		if n.Not {
			return stmt.Condition{}, &dberr.Unsupported{Operation: "sqlbridge where", Reason: "NOT LIKE is not supported"}
		}
		pattern, err := literalValue(n.Pattern)
		if err != nil {
			return stmt.Condition{}, err
		}
		return stmt.Condition{Column: col, Op: stmt.Like, Value: pattern}, nil

	case *ast.IsNullExpr:
		col, ok := columnName(n.Expr)
		if !ok {
			return stmt.Condition{}, &dberr.Unsupported{Operation: "sqlbridge where", Reason: "IS NULL requires a column operand"}
		}
		op := stmt.IsNull
		if n.Not {
			op = stmt.IsNotNull
		}
		return stmt.Condition{Column: col, Op: op}, nil

	case *ast.PatternInExpr:
		col, ok := columnName(n.Expr)
		if !ok {
			return stmt.Condition{}, &dberr.Unsupported{Operation: "sqlbridge where", Reason: "IN requires a column operand"}
		}
		if n.Not {
			return stmt.Condition{}, &dberr.Unsupported{Operation: "sqlbridge where", Reason: "NOT IN is not supported"}
		}
		values := make([]value.Value, 0, len(n.List))
		for _, item := range n.List {
			v, err := literalValue(item)
			if err != nil {
				return stmt.Condition{}, err
			}
			values = append(values, v)
		}
		return stmt.Condition{Column: col, Op: stmt.In, Values: values}, nil

	default:
		return stmt.Condition{}, &dberr.Unsupported{Operation: "sqlbridge where", Reason: "unrecognized predicate"}
	}
}

// columnAndLiteral normalizes a binary comparison's two operands into
// (column name, literal value), reporting whether the column appeared on
// the right (so the caller can flip an asymmetric operator like < or >).
func columnAndLiteral(l, r ast.ExprNode) (string, value.Value, bool, error) {
	if col, ok := columnName(l); ok {
		v, err := literalValue(r)
		return col, v, false, err
	}
	if col, ok := columnName(r); ok {
		v, err := literalValue(l)
		return col, v, true, err
	}
	return "", value.Value{}, false, &dberr.Unsupported{Operation: "sqlbridge where", Reason: "comparison requires a column operand"}
}

func comparisonOp(op opcode.Op, swapped bool) (stmt.Operator, error) {
	switch op {
	case opcode.EQ:
		return stmt.Eq, nil
	case opcode.NE:
		return stmt.Neq, nil
	case opcode.LT:
		if swapped {
			return stmt.Gt, nil
		}
		return stmt.Lt, nil
	case opcode.GT:
		if swapped {
			return stmt.Lt, nil
		}
		return stmt.Gt, nil
	case opcode.LE:
		if swapped {
			return stmt.Gte, nil
		}
		return stmt.Lte, nil
	case opcode.GE:
		if swapped {
			return stmt.Lte, nil
		}
		return stmt.Gte, nil
	default:
		return 0, &dberr.Unsupported{Operation: "sqlbridge where", Reason: "unsupported comparison operator"}
	}
}
