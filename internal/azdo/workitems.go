package azdo

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

const (
	titleField = `fields.System\.Title`
	stateField = `fields.System\.State`
)

type wiqlRequest struct {
	Query string `json:"query"`
}

// QueryWorkItems runs a WIQL query and returns id, title and state of every
// match in the order the batch endpoint returns them. An empty match set
// returns an empty slice without fetching details.
func (c *Client) QueryWorkItems(ctx context.Context, wiql string) ([]WorkItemSummary, error) {
	ids, err := c.queryWorkItemIDs(ctx, wiql)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		c.log.Debug("wiql query matched no work items")
		return []WorkItemSummary{}, nil
	}
	items, err := c.getWorkItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	c.log.Debug("wiql query resolved", "matched", len(ids), "returned", len(items))
	return items, nil
}

func (c *Client) queryWorkItemIDs(ctx context.Context, wiql string) ([]int, error) {
	body, err := c.post(ctx, c.endpoint("_apis/wit/wiql", nil), wiqlRequest{Query: wiql})
	if err != nil {
		return nil, fmt.Errorf("run wiql query: %w", err)
	}

	refs, err := arrayAt(gjson.ParseBytes(body), "workItems", "workItems")
	if err != nil {
		return nil, fmt.Errorf("run wiql query: %w", err)
	}
	ids := make([]int, 0, len(refs))
	for i, ref := range refs {
		id, err := intAt(ref, "id", fmt.Sprintf("workItems[%d].id", i))
		if err != nil {
			return nil, fmt.Errorf("run wiql query: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (c *Client) getWorkItems(ctx context.Context, ids []int) ([]WorkItemSummary, error) {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	query := url.Values{}
	query.Set("ids", strings.Join(parts, ","))

	body, err := c.get(ctx, c.endpoint("_apis/wit/workitems", query))
	if err != nil {
		return nil, fmt.Errorf("fetch work items: %w", err)
	}

	records, err := arrayAt(gjson.ParseBytes(body), "value", "value")
	if err != nil {
		return nil, fmt.Errorf("fetch work items: %w", err)
	}
	items := make([]WorkItemSummary, 0, len(records))
	for i, record := range records {
		item, err := toWorkItemSummary(record, i)
		if err != nil {
			return nil, fmt.Errorf("fetch work items: %w", err)
		}
		items = append(items, item)
	}
	return items, nil
}

func toWorkItemSummary(record gjson.Result, idx int) (WorkItemSummary, error) {
	prefix := fmt.Sprintf("value[%d]", idx)
	id, err := intAt(record, "id", prefix+".id")
	if err != nil {
		return WorkItemSummary{}, err
	}
	title, err := stringAt(record, titleField, prefix+".fields.System.Title")
	if err != nil {
		return WorkItemSummary{}, err
	}
	state, err := stringAt(record, stateField, prefix+".fields.System.State")
	if err != nil {
		return WorkItemSummary{}, err
	}
	return WorkItemSummary{ID: id, Title: title, State: state}, nil
}
