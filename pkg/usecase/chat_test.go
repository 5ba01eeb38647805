package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/standup-lab/jirabot/pkg/domain/model"
	"github.com/standup-lab/jirabot/pkg/domain/model/jira"
	"github.com/standup-lab/jirabot/pkg/domain/types"
	"github.com/standup-lab/jirabot/pkg/repository/memory"
	"github.com/standup-lab/jirabot/pkg/usecase"
)

func setup(t *testing.T, opts ...usecase.Option) (*usecase.UseCases, *memory.Memory, *model.User) {
	t.Helper()
	ctx := context.Background()

	repo := memory.New()
	opts = append([]usecase.Option{usecase.WithJWTSecret([]byte("test-secret"))}, opts...)
	uc := usecase.New(repo, opts...)

	user, err := uc.Auth.Register(ctx, "alice", "hunter2hunter2", "alice@example.com", "Alice")
	gt.NoError(t, err).Required()
	gt.NoError(t, uc.Auth.LinkJiraAccount(ctx, user.ID, "acct-alice")).Required()

	return uc, repo, user
}

// submitToday marks the user's standup as done so chat tests do not hit the
// collector.
func submitToday(t *testing.T, repo *memory.Memory, userID types.UserID) {
	t.Helper()
	update := model.NewScrumUpdate(userID, types.Today(time.UTC), "reviewed code", "writing tests", "none")
	gt.NoError(t, repo.ScrumUpdates().CreateScrumUpdate(context.Background(), update)).Required()
}

func replyIntent(text string) *mockIntentService {
	return &mockIntentService{
		classify: func(ctx context.Context, history []*model.Message, message, scrumPrompt string) (*model.Intent, error) {
			return model.NewReplyIntent(text), nil
		},
	}
}

func TestHandleMessageReply(t *testing.T) {
	intent := replyIntent("I can list your issues, add comments, and more.")
	uc, repo, user := setup(t, usecase.WithIntentService(intent))
	submitToday(t, repo, user.ID)
	ctx := context.Background()

	envelope, err := uc.Chat.HandleMessage(ctx, user.ID, "what can you do?")
	gt.NoError(t, err).Required()
	gt.Value(t, envelope.Type).Equal(types.EnvelopeText)
	gt.Value(t, envelope.Content).Equal("I can list your issues, add comments, and more.")

	msgs, err := repo.Conversations().ListRecentMessages(ctx, user.ID, 10)
	gt.NoError(t, err).Required()
	gt.Array(t, msgs).Length(2)
	gt.Value(t, msgs[0].Role).Equal(types.RoleAssistant)
	gt.Value(t, msgs[0].Text).Equal(envelope.Content)
	gt.Value(t, msgs[1].Role).Equal(types.RoleUser)
}

func TestHandleMessageIssueList(t *testing.T) {
	var gotAccountID string
	jiraMock := &mockJiraClient{
		searchAssignedIssues: func(ctx context.Context, input *jira.SearchIssuesInput) ([]*jira.Issue, error) {
			gotAccountID = input.AccountID
			return []*jira.Issue{
				{Key: "PROJ-1", Summary: "Fix login"},
				{Key: "PROJ-2", Summary: "Update docs"},
			}, nil
		},
	}
	intent := &mockIntentService{
		classify: func(ctx context.Context, history []*model.Message, message, scrumPrompt string) (*model.Intent, error) {
			return model.NewCallIntent(types.OperationGetUserIssues, nil), nil
		},
		summarize: func(ctx context.Context, envelope *model.Envelope) (string, error) {
			return "You have 2 open issues.", nil
		},
	}
	uc, repo, user := setup(t, usecase.WithIntentService(intent), usecase.WithJiraClient(jiraMock))
	submitToday(t, repo, user.ID)
	ctx := context.Background()

	envelope, err := uc.Chat.HandleMessage(ctx, user.ID, "show my issues")
	gt.NoError(t, err).Required()
	gt.Value(t, envelope.Type).Equal(types.EnvelopeIssueList)
	gt.Array(t, envelope.Issues).Length(2)
	gt.Value(t, envelope.Summary).Equal("You have 2 open issues.")
	gt.Value(t, gotAccountID).Equal("acct-alice")

	msgs, err := repo.Conversations().ListRecentMessages(ctx, user.ID, 10)
	gt.NoError(t, err).Required()
	gt.Array(t, msgs).Length(2)
	gt.Value(t, msgs[0].Text).Equal("You have 2 open issues.")
}

func TestHandleMessageOperationFailure(t *testing.T) {
	jiraMock := &mockJiraClient{
		addComment: func(ctx context.Context, input *jira.AddCommentInput) (*jira.Comment, error) {
			return nil, goerr.New("issue not found", goerr.T(types.ErrTagValidation))
		},
	}
	intent := &mockIntentService{
		classify: func(ctx context.Context, history []*model.Message, message, scrumPrompt string) (*model.Intent, error) {
			return model.NewCallIntent(types.OperationAddComment, map[string]any{
				"issue_key": "PROJ-999",
				"comment":   "done",
			}), nil
		},
	}
	uc, repo, user := setup(t, usecase.WithIntentService(intent), usecase.WithJiraClient(jiraMock))
	submitToday(t, repo, user.ID)
	ctx := context.Background()

	envelope, err := uc.Chat.HandleMessage(ctx, user.ID, "comment 'done' on PROJ-999")
	gt.NoError(t, err).Required()
	gt.Value(t, envelope.Type).Equal(types.EnvelopeText)
	gt.String(t, envelope.Content).Contains("Sorry, that didn't work")
	gt.String(t, envelope.Content).Contains("issue not found")

	msgs, err := repo.Conversations().ListRecentMessages(ctx, user.ID, 10)
	gt.NoError(t, err).Required()
	gt.Array(t, msgs).Length(2)
}

func TestHandleMessageStatusUpdate(t *testing.T) {
	jiraMock := &mockJiraClient{
		transitionIssue: func(ctx context.Context, issueKey, status string) (*jira.StatusUpdate, error) {
			return &jira.StatusUpdate{IssueKey: issueKey, FromStatus: "To Do", ToStatus: status}, nil
		},
	}
	intent := &mockIntentService{
		classify: func(ctx context.Context, history []*model.Message, message, scrumPrompt string) (*model.Intent, error) {
			return model.NewCallIntent(types.OperationUpdateStatus, map[string]any{
				"issue_key": "PROJ-7",
				"status":    "In Progress",
			}), nil
		},
		summarize: func(ctx context.Context, envelope *model.Envelope) (string, error) {
			return "", goerr.New("llm is down")
		},
	}
	uc, repo, user := setup(t, usecase.WithIntentService(intent), usecase.WithJiraClient(jiraMock))
	submitToday(t, repo, user.ID)

	envelope, err := uc.Chat.HandleMessage(context.Background(), user.ID, "move PROJ-7 to in progress")
	gt.NoError(t, err).Required()
	gt.Value(t, envelope.Type).Equal(types.EnvelopeStatusUpdate)
	gt.Value(t, envelope.StatusUpdate.ToStatus).Equal("In Progress")
	// Summarizer failure is non-fatal; envelope keeps the headline.
	gt.Value(t, envelope.Summary).Equal("")
	gt.Value(t, envelope.Text()).Equal("Moved PROJ-7 from To Do to In Progress.")
}

func TestHandleMessageEmpty(t *testing.T) {
	uc, repo, user := setup(t, usecase.WithIntentService(replyIntent("hi")))
	submitToday(t, repo, user.ID)

	_, err := uc.Chat.HandleMessage(context.Background(), user.ID, "   ")
	gt.Error(t, err)
	gt.Bool(t, goerr.HasTag(err, types.ErrTagValidation)).True()
}

func TestHandleMessageUnlinkedProfile(t *testing.T) {
	uc := usecase.New(memory.New(),
		usecase.WithJWTSecret([]byte("test-secret")),
		usecase.WithIntentService(replyIntent("hi")),
	)
	ctx := context.Background()

	user, err := uc.Auth.Register(ctx, "bob", "hunter2hunter2", "bob@example.com", "Bob")
	gt.NoError(t, err).Required()

	_, err = uc.Chat.HandleMessage(ctx, user.ID, "show my issues")
	gt.Error(t, err)
	gt.Bool(t, goerr.HasTag(err, types.ErrTagConfig)).True()
}

func TestHandleMessageCreateIssueWithAssignee(t *testing.T) {
	var gotInput *jira.CreateIssueInput
	jiraMock := &mockJiraClient{
		findUser: func(ctx context.Context, query string) (*jira.User, error) {
			gt.Value(t, query).Equal("Carol")
			return &jira.User{AccountID: "acct-carol", DisplayName: "Carol"}, nil
		},
		createIssue: func(ctx context.Context, input *jira.CreateIssueInput) (*jira.Issue, error) {
			gotInput = input
			return &jira.Issue{Key: "PROJ-10", Summary: input.Summary}, nil
		},
	}
	intent := &mockIntentService{
		classify: func(ctx context.Context, history []*model.Message, message, scrumPrompt string) (*model.Intent, error) {
			return model.NewCallIntent(types.OperationCreateIssue, map[string]any{
				"project_key": "PROJ",
				"summary":     "Fix the flaky test",
				"issue_type":  "Task",
				"assignee":    "Carol",
			}), nil
		},
		summarize: func(ctx context.Context, envelope *model.Envelope) (string, error) {
			return "Created PROJ-10 for Carol.", nil
		},
	}
	uc, repo, user := setup(t, usecase.WithIntentService(intent), usecase.WithJiraClient(jiraMock))
	submitToday(t, repo, user.ID)

	envelope, err := uc.Chat.HandleMessage(context.Background(), user.ID, "create a task for Carol")
	gt.NoError(t, err).Required()
	gt.Value(t, envelope.Type).Equal(types.EnvelopeNewIssue)
	gt.Value(t, envelope.Issue.Key).Equal("PROJ-10")
	gt.Value(t, gotInput.AssigneeID).Equal("acct-carol")
}

func TestHandleMessageSearchUsers(t *testing.T) {
	jiraMock := &mockJiraClient{
		listUsers: func(ctx context.Context) ([]*jira.User, error) {
			return []*jira.User{
				{AccountID: "a1", DisplayName: "Alice Smith"},
				{AccountID: "a2", DisplayName: "Bob Jones"},
				{AccountID: "a3", DisplayName: "Alice Wong"},
			}, nil
		},
	}
	intent := &mockIntentService{
		classify: func(ctx context.Context, history []*model.Message, message, scrumPrompt string) (*model.Intent, error) {
			return model.NewCallIntent(types.OperationSearchUsers, map[string]any{
				"query":       "alice",
				"max_results": float64(1),
			}), nil
		},
		summarize: func(ctx context.Context, envelope *model.Envelope) (string, error) {
			return "", nil
		},
	}
	uc, repo, user := setup(t, usecase.WithIntentService(intent), usecase.WithJiraClient(jiraMock))
	submitToday(t, repo, user.ID)

	envelope, err := uc.Chat.HandleMessage(context.Background(), user.ID, "who is alice?")
	gt.NoError(t, err).Required()
	gt.Value(t, envelope.Type).Equal(types.EnvelopeUserList)
	gt.Array(t, envelope.Users).Length(1)
	gt.Value(t, envelope.Users[0].DisplayName).Equal("Alice Smith")
}

func TestHandleMessageCommentWithMentions(t *testing.T) {
	var gotInput *jira.AddCommentInput
	jiraMock := &mockJiraClient{
		addComment: func(ctx context.Context, input *jira.AddCommentInput) (*jira.Comment, error) {
			gotInput = input
			return &jira.Comment{ID: "1", IssueKey: input.IssueKey, Body: input.Body}, nil
		},
	}
	intent := &mockIntentService{
		classify: func(ctx context.Context, history []*model.Message, message, scrumPrompt string) (*model.Intent, error) {
			return model.NewCallIntent(types.OperationAddComment, map[string]any{
				"issue_key": "PROJ-3",
				"comment":   "please take a look",
				"mentions":  []any{"Bob Jones"},
				"internal":  true,
			}), nil
		},
		summarize: func(ctx context.Context, envelope *model.Envelope) (string, error) {
			return "", nil
		},
	}
	uc, repo, user := setup(t, usecase.WithIntentService(intent), usecase.WithJiraClient(jiraMock))
	submitToday(t, repo, user.ID)

	envelope, err := uc.Chat.HandleMessage(context.Background(), user.ID, "ask Bob to look at PROJ-3")
	gt.NoError(t, err).Required()
	gt.Value(t, envelope.Type).Equal(types.EnvelopeComment)
	gt.Value(t, gotInput.Mentions).Equal([]string{"Bob Jones"})
	gt.Bool(t, gotInput.Internal).True()
}
