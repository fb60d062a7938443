package azdo

// WorkItemSummary is the projection returned for each WIQL match.
type WorkItemSummary struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	State string `json:"state"`
}

// Repository is a git repository of the configured project.
type Repository struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// PullRequestSummary is the projection returned for each pull request.
// CreationDate is passed through exactly as Azure DevOps formats it.
type PullRequestSummary struct {
	RepositoryID  string `json:"repositoryId"`
	PullRequestID int    `json:"pullRequestId"`
	Title         string `json:"title"`
	Status        string `json:"status"`
	CreatedBy     string `json:"createdBy"`
	CreationDate  string `json:"creationDate"`
}
