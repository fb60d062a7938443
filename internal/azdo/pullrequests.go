package azdo

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"
)

// ListRepositories returns the git repositories of the project in API order.
func (c *Client) ListRepositories(ctx context.Context) ([]Repository, error) {
	body, err := c.get(ctx, c.endpoint("_apis/git/repositories", nil))
	if err != nil {
		return nil, fmt.Errorf("list repositories: %w", err)
	}

	values, err := arrayAt(gjson.ParseBytes(body), "value", "value")
	if err != nil {
		return nil, fmt.Errorf("list repositories: %w", err)
	}
	repos := make([]Repository, 0, len(values))
	for i, v := range values {
		id, err := stringAt(v, "id", fmt.Sprintf("value[%d].id", i))
		if err != nil {
			return nil, fmt.Errorf("list repositories: %w", err)
		}
		if id == "" {
			return nil, fmt.Errorf("list repositories: %w", &MalformedResponseError{Path: fmt.Sprintf("value[%d].id", i), Reason: "empty repository id"})
		}
		repos = append(repos, Repository{ID: id, Name: v.Get("name").String()})
	}
	return repos, nil
}

// ListPullRequests returns the pull requests of one repository in API order.
func (c *Client) ListPullRequests(ctx context.Context, repositoryID string) ([]PullRequestSummary, error) {
	path := fmt.Sprintf("_apis/git/repositories/%s/pullrequests", url.PathEscape(repositoryID))
	body, err := c.get(ctx, c.endpoint(path, nil))
	if err != nil {
		return nil, err
	}

	values, err := arrayAt(gjson.ParseBytes(body), "value", "value")
	if err != nil {
		return nil, err
	}
	prs := make([]PullRequestSummary, 0, len(values))
	for i, v := range values {
		pr, err := toPullRequestSummary(v, i)
		if err != nil {
			return nil, err
		}
		prs = append(prs, pr)
	}
	return prs, nil
}

// ListAllPullRequests lists every repository and fetches their pull requests
// concurrently. The result keeps repository listing order regardless of
// which response arrives first. Any failing repository fails the whole call.
func (c *Client) ListAllPullRequests(ctx context.Context) ([]PullRequestSummary, error) {
	repos, err := c.ListRepositories(ctx)
	if err != nil {
		return nil, err
	}
	if len(repos) == 0 {
		c.log.Debug("project has no repositories")
		return []PullRequestSummary{}, nil
	}

	start := time.Now()
	perRepo := make([][]PullRequestSummary, len(repos))
	g, gctx := errgroup.WithContext(ctx)
	if c.fanoutLimit > 0 {
		g.SetLimit(c.fanoutLimit)
	}
	for i, repo := range repos {
		g.Go(func() error {
			prs, err := c.ListPullRequests(gctx, repo.ID)
			if err != nil {
				return fmt.Errorf("list pull requests for repository %s: %w", repo.ID, err)
			}
			perRepo[i] = prs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		c.log.Error(err, "pull request fan-out failed", "repositories", len(repos))
		return nil, err
	}

	total := 0
	for _, prs := range perRepo {
		total += len(prs)
	}
	all := make([]PullRequestSummary, 0, total)
	for _, prs := range perRepo {
		all = append(all, prs...)
	}
	c.log.Info("listed pull requests", "repositories", len(repos), "pullRequests", total, "elapsed", time.Since(start))
	return all, nil
}

func toPullRequestSummary(v gjson.Result, idx int) (PullRequestSummary, error) {
	label := func(field string) string { return fmt.Sprintf("value[%d].%s", idx, field) }

	var (
		pr  PullRequestSummary
		err error
	)
	if pr.RepositoryID, err = stringAt(v, "repository.id", label("repository.id")); err != nil {
		return PullRequestSummary{}, err
	}
	if pr.PullRequestID, err = intAt(v, "pullRequestId", label("pullRequestId")); err != nil {
		return PullRequestSummary{}, err
	}
	if pr.Title, err = stringAt(v, "title", label("title")); err != nil {
		return PullRequestSummary{}, err
	}
	if pr.Status, err = stringAt(v, "status", label("status")); err != nil {
		return PullRequestSummary{}, err
	}
	if pr.CreatedBy, err = stringAt(v, "createdBy.displayName", label("createdBy.displayName")); err != nil {
		return PullRequestSummary{}, err
	}
	if pr.CreationDate, err = stringAt(v, "creationDate", label("creationDate")); err != nil {
		return PullRequestSummary{}, err
	}
	return pr, nil
}
