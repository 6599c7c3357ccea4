// Package sqlbridge is one concrete adapter from SQL text to the
// stmt.Statement descriptors pkg/engine consumes. It wraps the tidb
// parser (github.com/pingcap/tidb/pkg/parser), the same tokenizer the
// corpus's own SQL-facing services embed, and walks the resulting AST
// into the engine's flat statement shape.
//
// The adapter is scoped to the statement forms the engine understands:
// CREATE/DROP TABLE, CREATE/DROP INDEX, INSERT, single- and two-table
// SELECT, UPDATE, DELETE, and BEGIN/COMMIT/ROLLBACK. Anything else —
// ALTER TABLE (including foreign-key clauses), views, multi-way joins,
// subqueries, window functions, vector indexes — is rejected with
// dberr.Unsupported rather than silently approximated.
package sqlbridge

import (
	"github.com/moyashi/reldb/pkg/dberr"
	"github.com/moyashi/reldb/pkg/stmt"
	"github.com/pingcap/tidb/pkg/parser"
	"github.com/pingcap/tidb/pkg/parser/ast"
	_ "github.com/pingcap/tidb/pkg/parser/test_driver"
)

// Bridge parses SQL text and converts it into engine statement
// descriptors. A Bridge is not safe for concurrent use; callers that
// translate from multiple goroutines should use one Bridge per
// goroutine, mirroring the underlying tidb parser's own contract.
type Bridge struct {
	parser *parser.Parser
}

// New builds a Bridge ready to translate SQL text.
func New() *Bridge {
	return &Bridge{parser: parser.New()}
}

// Translate parses sql (one or more semicolon-separated statements) and
// converts every statement into a stmt.Statement the engine can execute.
func (b *Bridge) Translate(sql string) ([]*stmt.Statement, error) {
	nodes, _, err := b.parser.Parse(sql, "", "")
	if err != nil {
		return nil, &dberr.Internal{Op: "sqlbridge parse", Err: err}
	}

	out := make([]*stmt.Statement, 0, len(nodes))
	for _, node := range nodes {
		s, err := convert(node)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// TranslateOne parses sql and requires exactly one statement, returning
// it directly rather than a slice — the common case for an interactive
// SQL frontend or the MCP tool surface.
func (b *Bridge) TranslateOne(sql string) (*stmt.Statement, error) {
	stmts, err := b.Translate(sql)
	if err != nil {
		return nil, err
	}
	if len(stmts) != 1 {
		return nil, &dberr.Unsupported{Operation: "sqlbridge translate", Reason: "expected exactly one statement"}
	}
	return stmts[0], nil
}

func convert(node ast.StmtNode) (*stmt.Statement, error) {
	switch n := node.(type) {
	case *ast.CreateTableStmt:
		return convertCreateTable(n)
	case *ast.DropTableStmt:
		return convertDropTable(n)
	case *ast.AlterTableStmt:
		return convertAlterTable(n)
	case *ast.CreateIndexStmt:
		return convertCreateIndex(n)
	case *ast.DropIndexStmt:
		return convertDropIndex(n)
	case *ast.InsertStmt:
		return convertInsert(n)
	case *ast.SelectStmt:
		return convertSelect(n)
	case *ast.UpdateStmt:
		return convertUpdate(n)
	case *ast.DeleteStmt:
		return convertDelete(n)
	case *ast.BeginStmt:
		return &stmt.Statement{Kind: stmt.Begin, IsolationLevel: stmt.ReadCommitted}, nil
	case *ast.CommitStmt:
		return &stmt.Statement{Kind: stmt.Commit}, nil
	case *ast.RollbackStmt:
		return &stmt.Statement{Kind: stmt.Rollback}, nil
	default:
		return nil, &dberr.Unsupported{Operation: "sqlbridge convert", Reason: "unsupported statement type"}
	}
}
