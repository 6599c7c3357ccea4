// Package mcpserver exposes the engine over the Model Context Protocol,
// the same tool surface the corpus's own MCP frontend wraps its SQL
// session in. Instead of wrapping a session-per-call API, each tool call
// here runs directly against one engine.Database via pkg/sqlbridge.
package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/moyashi/reldb/pkg/engine"
	"github.com/moyashi/reldb/pkg/sqlbridge"
	"github.com/moyashi/reldb/pkg/value"
)

// Server wraps an engine.Database with an MCP tool surface.
type Server struct {
	db     *engine.Database
	bridge *sqlbridge.Bridge
}

// New builds a Server over db. db must already be open.
func New(db *engine.Database) *Server {
	return &Server{db: db, bridge: sqlbridge.New()}
}

// MCPServer builds the underlying mcp-go server with every tool
// registered, ready to be run over stdio or HTTP by the caller.
func (s *Server) MCPServer() *mcpserver.MCPServer {
	srv := mcpserver.NewMCPServer(
		"reldb",
		"1.0.0",
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithRecovery(),
	)

	executeTool := mcp.NewTool("execute_sql",
		mcp.WithDescription("Execute a SQL statement against the in-memory database. Supports CREATE/DROP TABLE, CREATE/DROP INDEX, INSERT, SELECT, UPDATE, DELETE, and BEGIN/COMMIT/ROLLBACK."),
		mcp.WithString("sql", mcp.Description("The SQL statement to execute"), mcp.Required()),
	)
	listTablesTool := mcp.NewTool("list_tables",
		mcp.WithDescription("List the tables currently defined in the database"),
	)
	describeTableTool := mcp.NewTool("describe_table",
		mcp.WithDescription("Get the column names, types, and constraints of a table"),
		mcp.WithString("table", mcp.Description("The table name"), mcp.Required()),
	)

	srv.AddTool(executeTool, s.handleExecute)
	srv.AddTool(listTablesTool, s.handleListTables)
	srv.AddTool(describeTableTool, s.handleDescribeTable)
	return srv
}

func (s *Server) handleExecute(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sql := req.GetString("sql", "")
	if sql == "" {
		return mcp.NewToolResultError("sql parameter is required"), nil
	}

	statement, err := s.bridge.TranslateOne(sql)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("parse failed: %v", err)), nil
	}

	result, err := s.db.Execute(statement)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("execute failed: %v", err)), nil
	}

	if len(result.Columns) > 0 {
		return mcp.NewToolResultText(renderRows(result.Columns, result.Rows)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("OK, %d row(s) affected", result.RowsAffected)), nil
}

func (s *Server) handleListTables(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names := s.db.TableNames()
	if len(names) == 0 {
		return mcp.NewToolResultText("(no tables)"), nil
	}
	var sb strings.Builder
	for _, name := range names {
		sb.WriteString("- ")
		sb.WriteString(name)
		sb.WriteString("\n")
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (s *Server) handleDescribeTable(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("table", "")
	if name == "" {
		return mcp.NewToolResultError("table parameter is required"), nil
	}

	table, ok := s.db.Table(name)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("table %q not found", name)), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Table: %s\n\n", name))
	sb.WriteString("name\ttype\tnullable\tprimary_key\tunique\n")
	for _, c := range table.Columns {
		sb.WriteString(fmt.Sprintf("%s\t%s\t%t\t%t\t%t\n", c.Name, c.Kind, c.Nullable, c.PrimaryKey, c.Unique))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func renderRows(columns []string, rows [][]value.Value) string {
	var sb strings.Builder
	sb.WriteString(strings.Join(columns, "\t"))
	sb.WriteString("\n")
	for _, row := range rows {
		vals := make([]string, len(row))
		for i, v := range row {
			vals[i] = v.GoString()
		}
		sb.WriteString(strings.Join(vals, "\t"))
		sb.WriteString("\n")
	}
	sb.WriteString(fmt.Sprintf("\n(%d rows)", len(rows)))
	return sb.String()
}
