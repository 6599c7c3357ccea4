package sqlbridge

import (
	"github.com/moyashi/reldb/pkg/dberr"
	"github.com/moyashi/reldb/pkg/stmt"
	"github.com/moyashi/reldb/pkg/value"
	"github.com/pingcap/tidb/pkg/parser/ast"
)

func convertInsert(n *ast.InsertStmt) (*stmt.Statement, error) {
	table, err := tableNameFromRefs(n.Table)
	if err != nil {
		return nil, err
	}
	if len(n.Lists) != 1 {
		return nil, &dberr.Unsupported{Operation: "sqlbridge insert", Reason: "multi-row INSERT is not supported"}
	}
	if len(n.Columns) > 0 {
		return nil, &dberr.Unsupported{Operation: "sqlbridge insert", Reason: "INSERT with an explicit column list is not supported; values must cover every column in order"}
	}

	values := make([]value.Value, 0, len(n.Lists[0]))
	for _, expr := range n.Lists[0] {
		v, err := literalValue(expr)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}

	return &stmt.Statement{Kind: stmt.Insert, Table: table, Values: values}, nil
}

func convertUpdate(n *ast.UpdateStmt) (*stmt.Statement, error) {
	table, err := tableNameFromRefs(n.TableRefs)
	if err != nil {
		return nil, err
	}

	out := &stmt.Statement{Kind: stmt.Update, Table: table}
	for _, assign := range n.List {
		v, err := literalValue(assign.Expr)
		if err != nil {
			return nil, err
		}
		out.SetColumns = append(out.SetColumns, assign.Column.Name.String())
		out.SetValues = append(out.SetValues, v)
	}

	where, err := flattenWhere(n.Where)
	if err != nil {
		return nil, err
	}
	out.Where = where
	return out, nil
}

func convertDelete(n *ast.DeleteStmt) (*stmt.Statement, error) {
	table, err := tableNameFromRefs(n.TableRefs)
	if err != nil {
		return nil, err
	}
	where, err := flattenWhere(n.Where)
	if err != nil {
		return nil, err
	}
	return &stmt.Statement{Kind: stmt.Delete, Table: table, Where: where}, nil
}
