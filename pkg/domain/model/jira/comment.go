package jira

// Comment is a comment posted to an issue.
type Comment struct {
	ID         string `json:"id"`
	IssueKey   string `json:"issue_key"`
	Body       string `json:"body"`
	Author     string `json:"author,omitempty"`
	Created    string `json:"created,omitempty"`
	Visibility string `json:"visibility,omitempty"`
}

// AddCommentInput describes a comment to post. Mentions are display names
// to resolve and prefix as mention tags; Internal restricts visibility to
// the Developers role.
type AddCommentInput struct {
	IssueKey string
	Body     string
	Mentions []string
	Internal bool
}
