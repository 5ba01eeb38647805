package jira

// Issue is the flattened view of a tracker issue that chat responses carry.
// Comments are present only on single-issue fetches.
type Issue struct {
	Key         string     `json:"key"`
	Summary     string     `json:"summary"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	Assignee    string     `json:"assignee,omitempty"`
	Reporter    string     `json:"reporter,omitempty"`
	Priority    string     `json:"priority,omitempty"`
	IssueType   string     `json:"issue_type,omitempty"`
	Labels      []string   `json:"labels,omitempty"`
	Components  []string   `json:"components,omitempty"`
	Created     string     `json:"created,omitempty"`
	Updated     string     `json:"updated,omitempty"`
	URL         string     `json:"url,omitempty"`
	Comments    []*Comment `json:"comments,omitempty"`
}

// CreateIssueInput is the request to open a new issue.
type CreateIssueInput struct {
	ProjectKey  string
	Summary     string
	Description string
	IssueType   string
	AssigneeID  string
}

// SearchIssuesInput narrows an assigned-issues search.
type SearchIssuesInput struct {
	AccountID  string
	Status     string
	MaxResults int
}
