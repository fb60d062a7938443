package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/roivaz/azure-devops-mcp/internal/azdo"
	"github.com/roivaz/azure-devops-mcp/internal/config"
	"github.com/roivaz/azure-devops-mcp/internal/logging"
	"github.com/roivaz/azure-devops-mcp/internal/mcp/tools"
)

type Config struct {
	ToolAdapters map[string]ToolAdapter
	Options      []server.StreamableHTTPOption
	Logger       logging.Logger
}

// NewConfig binds both tools to client.
func NewConfig(client *azdo.Client, log logging.Logger) Config {
	return Config{
		ToolAdapters: map[string]ToolAdapter{
			ToolListWorkItems:    &tools.ListWorkItemsHandler{Service: client},
			ToolListPullRequests: &tools.ListPullRequestsHandler{Service: client},
		},
		Options: []server.StreamableHTTPOption{
			server.WithEndpointPath("/mcp/jsonrpc"),
			server.WithStateLess(true),
		},
		Logger: log,
	}
}

// DefaultConfig builds the Azure DevOps client from the loaded settings.
// Missing credentials surface as *azdo.ConfigurationError before any tool
// is registered.
func DefaultConfig(log logging.Logger) (Config, error) {
	client, err := config.NewAzureDevOpsClient(log)
	if err != nil {
		return Config{}, err
	}
	org, project := client.Project()
	log.Info("azure devops client ready", "organization", org, "project", project, "baseURL", config.BaseURL())
	return NewConfig(client, log), nil
}
