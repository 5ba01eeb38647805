package jira

import (
	"context"
	"net/http"
	"sort"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	jiramodel "github.com/standup-lab/jirabot/pkg/domain/model/jira"
	"github.com/standup-lab/jirabot/pkg/domain/types"
)

// ListStatuses returns the workflow statuses of the site, sorted by
// category then name.
func (s *Service) ListStatuses(ctx context.Context) ([]*jiramodel.Status, error) {
	const cacheKey = "all"
	if statuses, ok := s.statusCache.get(cacheKey); ok {
		return statuses, nil
	}

	var resp []struct {
		ID             string `json:"id"`
		Name           string `json:"name"`
		Description    string `json:"description"`
		StatusCategory struct {
			Name      string `json:"name"`
			ColorName string `json:"colorName"`
		} `json:"statusCategory"`
	}
	if err := s.do(ctx, http.MethodGet, "/rest/api/2/status", nil, nil, &resp); err != nil {
		return nil, goerr.Wrap(err, "failed to list statuses")
	}

	statuses := make([]*jiramodel.Status, 0, len(resp))
	for _, st := range resp {
		statuses = append(statuses, &jiramodel.Status{
			ID:          st.ID,
			Name:        st.Name,
			Description: st.Description,
			Category:    st.StatusCategory.Name,
			Color:       st.StatusCategory.ColorName,
		})
	}
	sort.Slice(statuses, func(i, j int) bool {
		if statuses[i].Category != statuses[j].Category {
			return statuses[i].Category < statuses[j].Category
		}
		return statuses[i].Name < statuses[j].Name
	})

	s.statusCache.set(cacheKey, statuses)
	return statuses, nil
}

// TransitionIssue moves an issue to the named status. The target is matched
// against the available transitions, exact first, then substring; when
// nothing matches, the available transition names are reported and no
// transition request is sent.
func (s *Service) TransitionIssue(ctx context.Context, issueKey, status string) (*jiramodel.StatusUpdate, error) {
	if err := validateIssueKey(issueKey); err != nil {
		return nil, err
	}
	if status == "" {
		return nil, goerr.New("target status is required",
			goerr.V("issueKey", issueKey), goerr.T(types.ErrTagValidation))
	}

	issue, err := s.GetIssue(ctx, issueKey)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Transitions []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
			To   struct {
				Name string `json:"name"`
			} `json:"to"`
		} `json:"transitions"`
	}
	if err := s.do(ctx, http.MethodGet, "/rest/api/2/issue/"+issueKey+"/transitions", nil, nil, &resp); err != nil {
		return nil, goerr.Wrap(err, "failed to list transitions", goerr.V("issueKey", issueKey))
	}

	transitions := make([]*jiramodel.Transition, 0, len(resp.Transitions))
	for _, tr := range resp.Transitions {
		transitions = append(transitions, &jiramodel.Transition{
			ID:   tr.ID,
			Name: tr.Name,
			To:   tr.To.Name,
		})
	}

	match := matchTransition(transitions, status)
	if match == nil {
		names := make([]string, 0, len(transitions))
		for _, tr := range transitions {
			names = append(names, tr.Name)
		}
		return nil, goerr.New("no transition matches the requested status",
			goerr.V("issueKey", issueKey),
			goerr.V("status", status),
			goerr.V("availableTransitions", names),
			goerr.T(types.ErrTagValidation))
	}

	payload := map[string]any{"transition": map[string]string{"id": match.ID}}
	if err := s.do(ctx, http.MethodPost, "/rest/api/2/issue/"+issueKey+"/transitions", nil, payload, nil); err != nil {
		return nil, goerr.Wrap(err, "failed to transition issue",
			goerr.V("issueKey", issueKey), goerr.V("transition", match.Name))
	}

	toStatus := match.To
	if toStatus == "" {
		toStatus = match.Name
	}
	return &jiramodel.StatusUpdate{
		IssueKey:   issueKey,
		FromStatus: issue.Status,
		ToStatus:   toStatus,
	}, nil
}

// matchTransition prefers an exact case-insensitive name match and falls
// back to a substring match in either direction.
func matchTransition(transitions []*jiramodel.Transition, status string) *jiramodel.Transition {
	for _, tr := range transitions {
		if strings.EqualFold(tr.Name, status) || strings.EqualFold(tr.To, status) {
			return tr
		}
	}

	lowered := strings.ToLower(status)
	for _, tr := range transitions {
		name := strings.ToLower(tr.Name)
		if strings.Contains(name, lowered) || strings.Contains(lowered, name) {
			return tr
		}
	}
	return nil
}
