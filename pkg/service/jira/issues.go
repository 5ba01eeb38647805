package jira

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/standup-lab/jirabot/pkg/domain/interfaces"
	jiramodel "github.com/standup-lab/jirabot/pkg/domain/model/jira"
	"github.com/standup-lab/jirabot/pkg/domain/types"
)

var _ interfaces.JiraClient = &Service{}

// issueFields is the wire shape of an issue's fields object. The comment
// block is populated only on single-issue fetches.
type issueFields struct {
	Summary     string `json:"summary"`
	Description string `json:"description"`
	Status      struct {
		Name string `json:"name"`
	} `json:"status"`
	Assignee *struct {
		DisplayName string `json:"displayName"`
	} `json:"assignee"`
	Reporter *struct {
		DisplayName string `json:"displayName"`
	} `json:"reporter"`
	Priority *struct {
		Name string `json:"name"`
	} `json:"priority"`
	IssueType struct {
		Name string `json:"name"`
	} `json:"issuetype"`
	Labels     []string `json:"labels"`
	Components []struct {
		Name string `json:"name"`
	} `json:"components"`
	Created string `json:"created"`
	Updated string `json:"updated"`
	Comment *struct {
		Comments []commentBody `json:"comments"`
	} `json:"comment"`
}

// commentBody is the wire shape of one comment.
type commentBody struct {
	ID     string `json:"id"`
	Body   string `json:"body"`
	Author struct {
		DisplayName string `json:"displayName"`
	} `json:"author"`
	Created    string `json:"created"`
	Visibility struct {
		Value string `json:"value"`
	} `json:"visibility"`
}

type issueResponse struct {
	Key    string      `json:"key"`
	Fields issueFields `json:"fields"`
}

func (s *Service) toIssue(resp *issueResponse) *jiramodel.Issue {
	issue := &jiramodel.Issue{
		Key:         resp.Key,
		Summary:     resp.Fields.Summary,
		Description: resp.Fields.Description,
		Status:      resp.Fields.Status.Name,
		IssueType:   resp.Fields.IssueType.Name,
		Labels:      resp.Fields.Labels,
		Created:     resp.Fields.Created,
		Updated:     resp.Fields.Updated,
		URL:         s.baseURL + "/browse/" + resp.Key,
	}
	if resp.Fields.Assignee != nil {
		issue.Assignee = resp.Fields.Assignee.DisplayName
	}
	if resp.Fields.Reporter != nil {
		issue.Reporter = resp.Fields.Reporter.DisplayName
	}
	if resp.Fields.Priority != nil {
		issue.Priority = resp.Fields.Priority.Name
	}
	for _, component := range resp.Fields.Components {
		issue.Components = append(issue.Components, component.Name)
	}
	if resp.Fields.Comment != nil {
		for _, c := range resp.Fields.Comment.Comments {
			issue.Comments = append(issue.Comments, &jiramodel.Comment{
				ID:         c.ID,
				IssueKey:   resp.Key,
				Body:       c.Body,
				Author:     c.Author.DisplayName,
				Created:    c.Created,
				Visibility: c.Visibility.Value,
			})
		}
	}
	return issue
}

// SearchAssignedIssues lists issues assigned to an account, newest-updated
// first. A status filter is validated against the status catalog before any
// search request goes out.
func (s *Service) SearchAssignedIssues(ctx context.Context, input *jiramodel.SearchIssuesInput) ([]*jiramodel.Issue, error) {
	if input == nil || input.AccountID == "" {
		return nil, goerr.New("account ID is required", goerr.T(types.ErrTagValidation))
	}

	maxResults := input.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	statusName := input.Status
	if statusName != "" {
		resolved, err := s.resolveStatusName(ctx, statusName)
		if err != nil {
			return nil, err
		}
		statusName = resolved
	}

	cacheKey := input.AccountID + "|" + statusName + "|" + strconv.Itoa(maxResults)
	if issues, ok := s.issueCache.get(cacheKey); ok {
		return issues, nil
	}

	jql := fmt.Sprintf("assignee = %q", input.AccountID)
	if statusName != "" {
		jql += fmt.Sprintf(" AND status = %q", statusName)
	}
	jql += " ORDER BY updated DESC"

	var issues []*jiramodel.Issue
	startAt := 0
	for len(issues) < maxResults {
		batchSize := maxResults - len(issues)
		if batchSize > searchBatchSize {
			batchSize = searchBatchSize
		}

		query := url.Values{
			"jql":        []string{jql},
			"startAt":    []string{strconv.Itoa(startAt)},
			"maxResults": []string{strconv.Itoa(batchSize)},
		}
		var resp struct {
			Issues []issueResponse `json:"issues"`
			Total  int             `json:"total"`
		}
		if err := s.do(ctx, http.MethodGet, "/rest/api/2/search", query, nil, &resp); err != nil {
			return nil, goerr.Wrap(err, "issue search failed", goerr.V("jql", jql))
		}

		for i := range resp.Issues {
			issues = append(issues, s.toIssue(&resp.Issues[i]))
		}
		startAt += len(resp.Issues)
		if len(resp.Issues) < batchSize || startAt >= resp.Total {
			break
		}
	}

	s.issueCache.set(cacheKey, issues)
	return issues, nil
}

// resolveStatusName matches the requested status against the catalog,
// case-insensitively, and returns its canonical name.
func (s *Service) resolveStatusName(ctx context.Context, name string) (string, error) {
	statuses, err := s.ListStatuses(ctx)
	if err != nil {
		return "", err
	}

	for _, status := range statuses {
		if strings.EqualFold(status.Name, name) {
			return status.Name, nil
		}
	}

	names := make([]string, 0, len(statuses))
	for _, status := range statuses {
		names = append(names, status.Name)
	}
	return "", goerr.New("unknown status",
		goerr.V("status", name),
		goerr.V("validStatuses", names),
		goerr.T(types.ErrTagValidation))
}

// GetIssue fetches a single issue by key.
func (s *Service) GetIssue(ctx context.Context, key string) (*jiramodel.Issue, error) {
	if err := validateIssueKey(key); err != nil {
		return nil, err
	}

	var resp issueResponse
	if err := s.do(ctx, http.MethodGet, "/rest/api/2/issue/"+key, nil, nil, &resp); err != nil {
		return nil, goerr.Wrap(err, "failed to get issue", goerr.V("issueKey", key))
	}
	return s.toIssue(&resp), nil
}

// CreateIssue opens a new issue. Required fields and the assignee are
// checked before the create request goes out.
func (s *Service) CreateIssue(ctx context.Context, input *jiramodel.CreateIssueInput) (*jiramodel.Issue, error) {
	if input == nil {
		return nil, goerr.New("create issue input is required", goerr.T(types.ErrTagValidation))
	}
	if input.ProjectKey == "" {
		return nil, goerr.New("project key is required", goerr.T(types.ErrTagValidation))
	}
	if input.Summary == "" {
		return nil, goerr.New("summary is required", goerr.T(types.ErrTagValidation))
	}
	if input.IssueType == "" {
		return nil, goerr.New("issue type is required", goerr.T(types.ErrTagValidation))
	}

	if input.AssigneeID != "" {
		if _, err := s.getAccount(ctx, input.AssigneeID); err != nil {
			if goerr.HasTag(err, types.ErrTagNotFound) {
				return nil, goerr.New("assignee not found",
					goerr.V("accountID", input.AssigneeID), goerr.T(types.ErrTagValidation))
			}
			return nil, err
		}
	}

	fields := map[string]any{
		"project":   map[string]string{"key": input.ProjectKey},
		"summary":   input.Summary,
		"issuetype": map[string]string{"name": input.IssueType},
	}
	if input.Description != "" {
		fields["description"] = input.Description
	}
	if input.AssigneeID != "" {
		fields["assignee"] = map[string]string{"id": input.AssigneeID}
	}

	var created struct {
		Key string `json:"key"`
	}
	body := map[string]any{"fields": fields}
	if err := s.do(ctx, http.MethodPost, "/rest/api/2/issue", nil, body, &created); err != nil {
		return nil, goerr.Wrap(err, "failed to create issue",
			goerr.V("projectKey", input.ProjectKey))
	}

	return s.GetIssue(ctx, created.Key)
}
