package main

import (
	"context"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	mcpadapter "dupfinder/internal/adapters/mcp"
	"dupfinder/internal/adapters/phash"
)

func main() {
	mcpServer := server.NewMCPServer(
		"dupfinder-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check. Returns pong."),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	mcpadapter.RegisterTools(mcpServer, phash.NewProvider())

	if err := server.ServeStdio(mcpServer); err != nil {
		log.Fatalf("dupfinder-mcp: %v", err)
	}
}
