package usecase_test

import (
	"context"
	"errors"
	"sync"

	"github.com/standup-lab/jirabot/pkg/domain/interfaces"
	"github.com/standup-lab/jirabot/pkg/domain/model"
	"github.com/standup-lab/jirabot/pkg/domain/model/jira"
)

type mockIntentService struct {
	classify  func(ctx context.Context, history []*model.Message, message, scrumPrompt string) (*model.Intent, error)
	summarize func(ctx context.Context, envelope *model.Envelope) (string, error)
	greet     func(ctx context.Context, name string) (string, error)
}

var _ interfaces.IntentService = &mockIntentService{}

func (m *mockIntentService) Classify(ctx context.Context, history []*model.Message, message, scrumPrompt string) (*model.Intent, error) {
	if m.classify == nil {
		return nil, errors.New("classify is not mocked")
	}
	return m.classify(ctx, history, message, scrumPrompt)
}

func (m *mockIntentService) Summarize(ctx context.Context, envelope *model.Envelope) (string, error) {
	if m.summarize == nil {
		return "", errors.New("summarize is not mocked")
	}
	return m.summarize(ctx, envelope)
}

func (m *mockIntentService) Greet(ctx context.Context, name string) (string, error) {
	if m.greet == nil {
		return "", errors.New("greet is not mocked")
	}
	return m.greet(ctx, name)
}

type mockJiraClient struct {
	searchAssignedIssues func(ctx context.Context, input *jira.SearchIssuesInput) ([]*jira.Issue, error)
	getIssue             func(ctx context.Context, key string) (*jira.Issue, error)
	addComment           func(ctx context.Context, input *jira.AddCommentInput) (*jira.Comment, error)
	transitionIssue      func(ctx context.Context, issueKey, status string) (*jira.StatusUpdate, error)
	createIssue          func(ctx context.Context, input *jira.CreateIssueInput) (*jira.Issue, error)
	listStatuses         func(ctx context.Context) ([]*jira.Status, error)
	listUsers            func(ctx context.Context) ([]*jira.User, error)
	findUser             func(ctx context.Context, query string) (*jira.User, error)
}

var _ interfaces.JiraClient = &mockJiraClient{}

func (m *mockJiraClient) SearchAssignedIssues(ctx context.Context, input *jira.SearchIssuesInput) ([]*jira.Issue, error) {
	if m.searchAssignedIssues == nil {
		return nil, errors.New("searchAssignedIssues is not mocked")
	}
	return m.searchAssignedIssues(ctx, input)
}

func (m *mockJiraClient) GetIssue(ctx context.Context, key string) (*jira.Issue, error) {
	if m.getIssue == nil {
		return nil, errors.New("getIssue is not mocked")
	}
	return m.getIssue(ctx, key)
}

func (m *mockJiraClient) AddComment(ctx context.Context, input *jira.AddCommentInput) (*jira.Comment, error) {
	if m.addComment == nil {
		return nil, errors.New("addComment is not mocked")
	}
	return m.addComment(ctx, input)
}

func (m *mockJiraClient) TransitionIssue(ctx context.Context, issueKey, status string) (*jira.StatusUpdate, error) {
	if m.transitionIssue == nil {
		return nil, errors.New("transitionIssue is not mocked")
	}
	return m.transitionIssue(ctx, issueKey, status)
}

func (m *mockJiraClient) CreateIssue(ctx context.Context, input *jira.CreateIssueInput) (*jira.Issue, error) {
	if m.createIssue == nil {
		return nil, errors.New("createIssue is not mocked")
	}
	return m.createIssue(ctx, input)
}

func (m *mockJiraClient) ListStatuses(ctx context.Context) ([]*jira.Status, error) {
	if m.listStatuses == nil {
		return nil, errors.New("listStatuses is not mocked")
	}
	return m.listStatuses(ctx)
}

func (m *mockJiraClient) ListUsers(ctx context.Context) ([]*jira.User, error) {
	if m.listUsers == nil {
		return nil, errors.New("listUsers is not mocked")
	}
	return m.listUsers(ctx)
}

func (m *mockJiraClient) FindUser(ctx context.Context, query string) (*jira.User, error) {
	if m.findUser == nil {
		return nil, errors.New("findUser is not mocked")
	}
	return m.findUser(ctx, query)
}

// notifyRecorder captures deliveries; Remind fans out over goroutines, so
// access is guarded.
type notifyRecorder struct {
	mu             sync.Mutex
	syncFailures   []string
	missingUpdates []string
}

func (n *notifyRecorder) NotifySyncFailure(ctx context.Context, user *model.User, issueKeys []string, reason string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.syncFailures = append(n.syncFailures, user.Username)
	return nil
}

func (n *notifyRecorder) NotifyMissingUpdate(ctx context.Context, user *model.User) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.missingUpdates = append(n.missingUpdates, user.Username)
	return nil
}

func (n *notifyRecorder) MissingUpdates() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.missingUpdates...)
}
