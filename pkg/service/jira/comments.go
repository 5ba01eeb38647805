package jira

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	jiramodel "github.com/standup-lab/jirabot/pkg/domain/model/jira"
	"github.com/standup-lab/jirabot/pkg/domain/types"
	"github.com/standup-lab/jirabot/pkg/utils/logging"
)

// internalCommentRole is the project role an internal comment is restricted
// to.
const internalCommentRole = "Developers"

// AddComment posts a comment to an issue. Mentions are resolved to accounts
// and prefixed as mention tags; an unresolvable mention is dropped with a
// warning rather than failing the comment.
func (s *Service) AddComment(ctx context.Context, input *jiramodel.AddCommentInput) (*jiramodel.Comment, error) {
	if err := validateIssueKey(input.IssueKey); err != nil {
		return nil, err
	}
	if input.Body == "" {
		return nil, goerr.New("comment body is required",
			goerr.V("issueKey", input.IssueKey), goerr.T(types.ErrTagValidation))
	}

	body := input.Body
	if tags := s.resolveMentions(ctx, input.Mentions); tags != "" {
		body = tags + " " + body
	}

	payload := map[string]any{"body": body}
	if input.Internal {
		payload["visibility"] = map[string]string{
			"type":  "role",
			"value": internalCommentRole,
		}
	}

	var resp struct {
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
	if err := s.do(ctx, http.MethodPost, "/rest/api/2/issue/"+input.IssueKey+"/comment", nil, payload, &resp); err != nil {
		return nil, goerr.Wrap(err, "failed to add comment", goerr.V("issueKey", input.IssueKey))
	}

	return &jiramodel.Comment{
		ID:         resp.ID,
		IssueKey:   input.IssueKey,
		Body:       resp.Body,
		Author:     resp.Author.DisplayName,
		Created:    resp.Created,
		Visibility: resp.Visibility.Value,
	}, nil
}

// resolveMentions turns display names into mention tags. Lookups go through
// the account cache, so repeated mentions stay cheap.
func (s *Service) resolveMentions(ctx context.Context, mentions []string) string {
	var tags []string
	for _, mention := range mentions {
		user, err := s.FindUser(ctx, mention)
		if err != nil {
			logging.From(ctx).Warn("dropping unresolvable mention",
				"mention", mention, "error", err.Error())
			continue
		}
		tags = append(tags, fmt.Sprintf("[~accountid:%s]", user.AccountID))
	}
	return strings.Join(tags, " ")
}
