// Command mcp-infracost runs the MCP tool server for infracost comments.
// Uses stdio transport for integration with AI assistants.
package main

import (
	"context"
	"log"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/finops-claw-gang/infracost-comment/internal/comment"
	"github.com/finops-claw-gang/infracost-comment/internal/config"
	"github.com/finops-claw-gang/infracost-comment/internal/mcpserver"
	"github.com/finops-claw-gang/infracost-comment/internal/observability"
	"github.com/finops-claw-gang/infracost-comment/internal/storage"
)

var version = "dev"

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	// stdout carries the protocol.
	logger := observability.InitLogger(cfg.LogLevel, os.Stderr)
	g := comment.New(storage.New(cfg.S3()), comment.WithLogger(logger))

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "infracost-comment",
		Version: version,
	}, nil)
	mcpserver.RegisterTools(server, g)

	if err := server.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		log.Fatalf("mcp server error: %v", err)
	}
}
