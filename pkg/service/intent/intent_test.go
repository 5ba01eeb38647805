package intent_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gt"
	"github.com/standup-lab/jirabot/pkg/domain/model"
	"github.com/standup-lab/jirabot/pkg/domain/types"
	"github.com/standup-lab/jirabot/pkg/service/intent"
)

// mockLLMSession is a mock gollem Session for testing
type mockLLMSession struct {
	generateContentFn func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error)
}

func (s *mockLLMSession) Generate(ctx context.Context, input []gollem.Input, opts ...gollem.GenerateOption) (*gollem.Response, error) {
	return s.GenerateContent(ctx, input...)
}

func (s *mockLLMSession) Stream(ctx context.Context, input []gollem.Input, opts ...gollem.GenerateOption) (<-chan *gollem.Response, error) {
	return nil, nil
}

func (s *mockLLMSession) GenerateContent(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
	if s.generateContentFn != nil {
		return s.generateContentFn(ctx, input...)
	}
	return &gollem.Response{Texts: []string{"{}"}}, nil
}

func (s *mockLLMSession) GenerateStream(ctx context.Context, input ...gollem.Input) (<-chan *gollem.Response, error) {
	return nil, nil
}

func (s *mockLLMSession) History() (*gollem.History, error) {
	return nil, nil
}

func (s *mockLLMSession) AppendHistory(*gollem.History) error {
	return nil
}

func (s *mockLLMSession) CountToken(ctx context.Context, input ...gollem.Input) (int, error) {
	return 0, nil
}

// mockLLMClient is a mock gollem LLMClient for testing
type mockLLMClient struct {
	newSessionFn func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error)
}

func (c *mockLLMClient) NewSession(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
	if c.newSessionFn != nil {
		return c.newSessionFn(ctx, options...)
	}
	return &mockLLMSession{}, nil
}

func (c *mockLLMClient) GenerateEmbedding(ctx context.Context, dimension int, input []string) ([][]float64, error) {
	return nil, nil
}

func respondWith(t *testing.T, v any) *mockLLMClient {
	t.Helper()
	data, err := json.Marshal(v)
	gt.NoError(t, err).Required()

	return &mockLLMClient{
		newSessionFn: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
			return &mockLLMSession{
				generateContentFn: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
					return &gollem.Response{Texts: []string{string(data)}}, nil
				},
			}, nil
		},
	}
}

func TestClassifyCall(t *testing.T) {
	svc, err := intent.New(respondWith(t, map[string]string{
		"kind":          "call",
		"function_name": "add_comment_to_issue",
		"arguments":     `{"issue_key":"PROJ-12","comment":"on it"}`,
	}))
	gt.NoError(t, err).Required()

	result, err := svc.Classify(context.Background(), nil, "comment 'on it' on PROJ-12", "")
	gt.NoError(t, err).Required()
	gt.Bool(t, result.IsCall()).True()
	gt.Value(t, result.Operation).Equal(types.OperationAddComment)
	gt.Value(t, result.Arg("issue_key")).Equal("PROJ-12")
	gt.Value(t, result.Arg("comment")).Equal("on it")
}

func TestClassifyReply(t *testing.T) {
	svc, err := intent.New(respondWith(t, map[string]string{
		"kind":  "reply",
		"reply": "I can help with your Jira issues.",
	}))
	gt.NoError(t, err).Required()

	result, err := svc.Classify(context.Background(), nil, "what can you do?", "")
	gt.NoError(t, err).Required()
	gt.Bool(t, result.IsCall()).False()
	gt.Value(t, result.Reply).Equal("I can help with your Jira issues.")
}

func TestClassifyUnknownOperationFallsBack(t *testing.T) {
	svc, err := intent.New(respondWith(t, map[string]string{
		"kind":          "call",
		"function_name": "delete_everything",
	}))
	gt.NoError(t, err).Required()

	result, err := svc.Classify(context.Background(), nil, "delete everything", "")
	gt.NoError(t, err).Required()
	gt.Bool(t, result.IsCall()).False()
	gt.String(t, result.Reply).Contains("couldn't work out")
}

func TestClassifyUnparseableResponseFallsBack(t *testing.T) {
	client := &mockLLMClient{
		newSessionFn: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
			return &mockLLMSession{
				generateContentFn: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
					return &gollem.Response{Texts: []string{"not json at all"}}, nil
				},
			}, nil
		},
	}
	svc, err := intent.New(client)
	gt.NoError(t, err).Required()

	result, err := svc.Classify(context.Background(), nil, "hello", "")
	gt.NoError(t, err).Required()
	gt.Bool(t, result.IsCall()).False()
	gt.String(t, result.Reply).Contains("couldn't work out")
}

func TestClassifyBadArgumentsFallsBack(t *testing.T) {
	svc, err := intent.New(respondWith(t, map[string]string{
		"kind":          "call",
		"function_name": "get_user_issues",
		"arguments":     "not-a-json-object",
	}))
	gt.NoError(t, err).Required()

	result, err := svc.Classify(context.Background(), nil, "my issues", "")
	gt.NoError(t, err).Required()
	gt.Bool(t, result.IsCall()).False()
}

func TestClassifyWithHistory(t *testing.T) {
	svc, err := intent.New(respondWith(t, map[string]string{
		"kind":          "call",
		"function_name": "update_issue_status",
		"arguments":     `{"issue_key":"PROJ-12","status":"Done"}`,
	}))
	gt.NoError(t, err).Required()

	userID := types.NewUserID()
	history := []*model.Message{
		model.NewMessage(userID, types.RoleAssistant, "you have 1 issue: PROJ-12"),
		model.NewMessage(userID, types.RoleUser, "show my issues"),
	}
	result, err := svc.Classify(context.Background(), history, "move that one to done", "")
	gt.NoError(t, err).Required()
	gt.Bool(t, result.IsCall()).True()
	gt.Value(t, result.Operation).Equal(types.OperationUpdateStatus)
	gt.Value(t, result.Arg("issue_key")).Equal("PROJ-12")
}

func TestClassifyScrumPrompt(t *testing.T) {
	var systemPrompt string
	client := &mockLLMClient{
		newSessionFn: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
			cfg := gollem.NewSessionConfig(options...)
			systemPrompt = cfg.SystemPrompt()
			return &mockLLMSession{
				generateContentFn: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
					return &gollem.Response{Texts: []string{`{"kind":"reply","reply":"Got it."}`}}, nil
				},
			}, nil
		},
	}
	svc, err := intent.New(client)
	gt.NoError(t, err).Required()

	_, err = svc.Classify(context.Background(), nil, "fixed the login bug", "collect the standup update")
	gt.NoError(t, err).Required()
	gt.String(t, systemPrompt).Contains("collect the standup update")

	_, err = svc.Classify(context.Background(), nil, "hello", "")
	gt.NoError(t, err).Required()
	gt.String(t, systemPrompt).NotContains("Standup collection")
}

func TestSummarize(t *testing.T) {
	client := &mockLLMClient{
		newSessionFn: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
			return &mockLLMSession{
				generateContentFn: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
					return &gollem.Response{Texts: []string{"You have 1 open issue: PROJ-42."}}, nil
				},
			}, nil
		},
	}
	svc, err := intent.New(client)
	gt.NoError(t, err).Required()

	summary, err := svc.Summarize(context.Background(), model.NewTextEnvelope("hi"))
	gt.NoError(t, err).Required()
	gt.Value(t, summary).Equal("You have 1 open issue: PROJ-42.")
}

func TestNewRequiresClient(t *testing.T) {
	_, err := intent.New(nil)
	gt.Error(t, err)
}
