package interfaces

import (
	"context"

	"github.com/standup-lab/jirabot/pkg/domain/model/jira"
)

// JiraClient is the tracker surface the use cases depend on. The real
// implementation lives in pkg/service/jira; tests substitute a mock.
type JiraClient interface {
	// SearchAssignedIssues lists issues assigned to an account, optionally
	// narrowed to a status, newest-updated first.
	SearchAssignedIssues(ctx context.Context, input *jira.SearchIssuesInput) ([]*jira.Issue, error)

	// GetIssue fetches a single issue by key.
	GetIssue(ctx context.Context, key string) (*jira.Issue, error)

	// AddComment posts a comment to an issue, resolving mentions first.
	AddComment(ctx context.Context, input *jira.AddCommentInput) (*jira.Comment, error)

	// TransitionIssue moves an issue to the named target status.
	TransitionIssue(ctx context.Context, issueKey, status string) (*jira.StatusUpdate, error)

	// CreateIssue opens a new issue.
	CreateIssue(ctx context.Context, input *jira.CreateIssueInput) (*jira.Issue, error)

	// ListStatuses returns the workflow statuses of the tracker.
	ListStatuses(ctx context.Context) ([]*jira.Status, error)

	// ListUsers returns the human accounts of the tracker.
	ListUsers(ctx context.Context) ([]*jira.User, error)

	// FindUser resolves a display name or mention to an account.
	FindUser(ctx context.Context, query string) (*jira.User, error)
}
