package mcp

import (
	"github.com/mark3labs/mcp-go/server"
)

// NewGuardrailsMCPServer creates a new MCP server with all Guardrails tools
// registered. The projectPath is the root directory of the project to check.
func NewGuardrailsMCPServer(projectPath string) *server.MCPServer {
	s := server.NewMCPServer(
		"guardrails",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	registerTools(s, projectPath)

	return s
}
