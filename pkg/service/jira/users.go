package jira

import (
	"context"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	jiramodel "github.com/standup-lab/jirabot/pkg/domain/model/jira"
	"github.com/standup-lab/jirabot/pkg/domain/types"
)

type userResponse struct {
	AccountID    string `json:"accountId"`
	AccountType  string `json:"accountType"`
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress"`
	Active       bool   `json:"active"`
}

func toUser(resp *userResponse) *jiramodel.User {
	return &jiramodel.User{
		AccountID:   resp.AccountID,
		DisplayName: resp.DisplayName,
		Email:       resp.EmailAddress,
		Active:      resp.Active,
	}
}

// ListUsers returns the human accounts of the site, sorted by display name.
// App and system accounts are filtered out.
func (s *Service) ListUsers(ctx context.Context) ([]*jiramodel.User, error) {
	const cacheKey = "all"
	if users, ok := s.userCache.get(cacheKey); ok {
		return users, nil
	}

	var users []*jiramodel.User
	startAt := 0
	for {
		query := url.Values{
			"startAt":    []string{strconv.Itoa(startAt)},
			"maxResults": []string{strconv.Itoa(searchBatchSize)},
		}
		var resp []userResponse
		if err := s.do(ctx, http.MethodGet, "/rest/api/2/users/search", query, nil, &resp); err != nil {
			return nil, goerr.Wrap(err, "failed to list users")
		}

		for i := range resp {
			if resp[i].AccountType != "atlassian" || !resp[i].Active {
				continue
			}
			users = append(users, toUser(&resp[i]))
		}

		if len(resp) < searchBatchSize {
			break
		}
		startAt += len(resp)
	}

	sort.Slice(users, func(i, j int) bool {
		return users[i].DisplayName < users[j].DisplayName
	})

	s.userCache.set(cacheKey, users)
	return users, nil
}

// FindUser resolves a display name, or a prefix of one, to an account.
func (s *Service) FindUser(ctx context.Context, query string) (*jiramodel.User, error) {
	if query == "" {
		return nil, goerr.New("user query is required", goerr.T(types.ErrTagValidation))
	}

	if user, ok := s.accountCache.get("q:" + query); ok {
		return user, nil
	}

	users, err := s.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	var match *jiramodel.User
	for _, user := range users {
		if strings.EqualFold(user.DisplayName, query) {
			match = user
			break
		}
	}
	if match == nil {
		lowered := strings.ToLower(query)
		for _, user := range users {
			if strings.Contains(strings.ToLower(user.DisplayName), lowered) {
				match = user
				break
			}
		}
	}
	if match == nil {
		return nil, goerr.New("no matching user",
			goerr.V("query", query), goerr.T(types.ErrTagNotFound))
	}

	s.accountCache.set("q:"+query, match)
	return match, nil
}

// getAccount fetches one account by ID, bypassing the display-name index.
func (s *Service) getAccount(ctx context.Context, accountID string) (*jiramodel.User, error) {
	if user, ok := s.accountCache.get("id:" + accountID); ok {
		return user, nil
	}

	query := url.Values{"accountId": []string{accountID}}
	var resp userResponse
	if err := s.do(ctx, http.MethodGet, "/rest/api/2/user", query, nil, &resp); err != nil {
		return nil, goerr.Wrap(err, "failed to get user", goerr.V("accountID", accountID))
	}

	user := toUser(&resp)
	s.accountCache.set("id:"+accountID, user)
	return user, nil
}
