package tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/roivaz/azure-devops-mcp/internal/azdo"
)

type WorkItemService interface {
	QueryWorkItems(ctx context.Context, wiql string) ([]azdo.WorkItemSummary, error)
}

type ListWorkItemsHandler struct {
	Service WorkItemService
}

func (h *ListWorkItemsHandler) ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	wiql, _ := req.GetArguments()["wiql_query"].(string)
	if strings.TrimSpace(wiql) == "" {
		return mcp.NewToolResultError("wiql_query parameter is required"), nil
	}
	items, err := h.Service.QueryWorkItems(ctx, wiql)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []azdo.WorkItemSummary{}
	}
	text, err := toJSON(items)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(text), nil
}
