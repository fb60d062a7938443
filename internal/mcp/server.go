package mcp

import (
	"context"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/roivaz/azure-devops-mcp/internal/logging"
)

const (
	ServerName    = "azure-devops-mcp"
	ServerVersion = "1.0.0"

	ToolListWorkItems    = "list_work_items_by_wiql"
	ToolListPullRequests = "list_all_pull_requests"
)

type ToolAdapter interface {
	ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

type Server struct {
	MCP     *server.MCPServer
	HTTP    *server.StreamableHTTPServer
	Handler http.Handler
	log     logging.Logger
}

// ToolDefinitions returns the schema of every tool the server can expose.
func ToolDefinitions() map[string]mcp.Tool {
	return map[string]mcp.Tool{
		ToolListWorkItems: mcp.NewTool(ToolListWorkItems,
			mcp.WithDescription("Retrieves work items based on a WIQL query for the project. Returns a JSON array of {id, title, state}."),
			mcp.WithString("wiql_query",
				mcp.Required(),
				mcp.Description("WIQL query (e.g., \"SELECT [System.Id] FROM WorkItems WHERE [System.State] = 'Active'\")"),
			),
			mcp.WithReadOnlyHintAnnotation(true),
		),
		ToolListPullRequests: mcp.NewTool(ToolListPullRequests,
			mcp.WithDescription("Retrieves all pull requests across all repositories in the project. Returns a JSON array of {repositoryId, pullRequestId, title, status, createdBy, creationDate}."),
			mcp.WithReadOnlyHintAnnotation(true),
		),
	}
}

func New(cfg Config) *Server {
	log := cfg.Logger.WithName("mcp")
	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	definitions := ToolDefinitions()
	for name, adapter := range cfg.ToolAdapters {
		tool, ok := definitions[name]
		if !ok {
			log.Info("skipping adapter without tool definition", "tool", name)
			continue
		}
		mcpServer.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			start := time.Now()
			log.Debug("tool call", "tool", name)
			res, err := adapter.ToolAdapter(ctx, req)
			if err != nil {
				log.Error(err, "tool call failed", "tool", name, "elapsed", time.Since(start))
				return nil, err
			}
			log.Debug("tool call done", "tool", name, "elapsed", time.Since(start))
			return res, nil
		})
	}

	httpServer := server.NewStreamableHTTPServer(mcpServer, cfg.Options...)

	return &Server{
		MCP:     mcpServer,
		HTTP:    httpServer,
		Handler: httpServer,
		log:     log,
	}
}

// ServeStdio serves MCP over stdin/stdout until the input closes or the
// process is signalled.
func (s *Server) ServeStdio() error {
	s.log.Info("serving MCP over stdio")
	return server.ServeStdio(s.MCP)
}
