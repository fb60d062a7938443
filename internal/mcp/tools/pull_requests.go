package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/roivaz/azure-devops-mcp/internal/azdo"
)

type PullRequestService interface {
	ListAllPullRequests(ctx context.Context) ([]azdo.PullRequestSummary, error)
}

type ListPullRequestsHandler struct {
	Service PullRequestService
}

func (h *ListPullRequestsHandler) ToolAdapter(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prs, err := h.Service.ListAllPullRequests(ctx)
	if err != nil {
		return nil, err
	}
	if prs == nil {
		prs = []azdo.PullRequestSummary{}
	}
	text, err := toJSON(prs)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(text), nil
}
