// Command reldbd is a minimal demo host for the engine: it loads
// configuration the way the corpus's own daemon does, opens one
// in-memory database, and serves it over MCP's streamable HTTP
// transport so any MCP-speaking client can run SQL against it.
package main

import (
	"flag"
	"log"

	mcphttp "github.com/mark3labs/mcp-go/server"
	"github.com/moyashi/reldb/pkg/engine"
	"github.com/moyashi/reldb/pkg/engineconfig"
	"github.com/moyashi/reldb/pkg/enginelog"
	"github.com/moyashi/reldb/pkg/mcpserver"
)

func main() {
	addr := flag.String("addr", ":8765", "listen address for the MCP streamable HTTP transport")
	dbName := flag.String("db", "reldb", "database name")
	flag.Parse()

	cfg := engineconfig.LoadConfigOrDefault()
	logger := enginelog.New(cfg.Log.Level)

	db := engine.New(*dbName, cfg, logger)
	db.Open()
	defer db.Close()

	srv := mcpserver.New(db)
	httpServer := mcphttp.NewStreamableHTTPServer(srv.MCPServer(), mcphttp.WithEndpointPath("/mcp"))

	logger.Info("reldbd listening on %s", *addr)
	if err := httpServer.Start(*addr); err != nil {
		log.Fatalf("reldbd: %v", err)
	}
}
