package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/standup-lab/jirabot/pkg/domain/interfaces"
	"github.com/standup-lab/jirabot/pkg/domain/model"
	"github.com/standup-lab/jirabot/pkg/domain/model/config"
	"github.com/standup-lab/jirabot/pkg/domain/model/jira"
	"github.com/standup-lab/jirabot/pkg/domain/types"
	"github.com/standup-lab/jirabot/pkg/utils/logging"
)

const unknownOperationReply = "Sorry, I couldn't handle that request."

// defaultUserResults caps a people search when the caller gives no limit.
const defaultUserResults = 50

// ChatUseCase runs one chat turn: classify the message, dispatch the
// operation or answer directly, and persist both sides of the exchange.
type ChatUseCase struct {
	repo   interfaces.Repository
	jira   interfaces.JiraClient
	intent interfaces.IntentService
	scrum  *ScrumUseCase
	cfg    *config.AppConfig
}

func NewChatUseCase(repo interfaces.Repository, jiraClient interfaces.JiraClient, intentSvc interfaces.IntentService, scrum *ScrumUseCase, cfg *config.AppConfig) *ChatUseCase {
	return &ChatUseCase{
		repo:   repo,
		jira:   jiraClient,
		intent: intentSvc,
		scrum:  scrum,
		cfg:    cfg,
	}
}

// HandleMessage processes one inbound chat message and returns the response
// envelope. A failed tracker operation still yields a text envelope; only
// persistence and classifier trouble fail the turn.
func (uc *ChatUseCase) HandleMessage(ctx context.Context, userID types.UserID, text string) (*model.Envelope, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, goerr.New("message is required", goerr.T(types.ErrTagValidation))
	}
	if uc.intent == nil {
		return nil, goerr.New("intent service is not configured", goerr.T(types.ErrTagConfig))
	}

	user, err := uc.repo.Users().GetUser(ctx, userID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load user", goerr.V("userID", userID))
	}

	profile, err := uc.repo.Users().GetProfile(ctx, userID)
	if err != nil && !goerr.HasTag(err, types.ErrTagNotFound) {
		return nil, goerr.Wrap(err, "failed to load profile", goerr.V("userID", userID))
	}
	if !profile.Linked() {
		return nil, goerr.Wrap(ErrJiraNotLinked, "chat rejected", goerr.V("userID", userID))
	}

	inbound := model.NewMessage(userID, types.RoleUser, text)
	if err := uc.repo.Conversations().PutMessage(ctx, inbound); err != nil {
		return nil, goerr.Wrap(err, "failed to store inbound message", goerr.V("userID", userID))
	}

	history, err := uc.repo.Conversations().ListRecentMessages(ctx, userID, uc.cfg.History())
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load history", goerr.V("userID", userID))
	}
	reverse(history)

	pending, err := uc.scrum.Pending(ctx, userID)
	if err != nil {
		return nil, err
	}

	var scrumPrompt string
	if pending {
		scrumPrompt = uc.scrum.Instructions()
	}

	intent, err := uc.intent.Classify(ctx, history, text, scrumPrompt)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to classify message", goerr.V("userID", userID))
	}

	var envelope *model.Envelope
	switch {
	case intent.IsCall():
		envelope = uc.dispatchCall(ctx, profile, intent)
	case pending:
		reply, err := uc.scrum.Collect(ctx, user)
		if err != nil {
			return nil, err
		}
		envelope = model.NewTextEnvelope(reply)
	default:
		envelope = model.NewTextEnvelope(intent.Reply)
	}

	if envelope.Type != types.EnvelopeText {
		summary, err := uc.intent.Summarize(ctx, envelope)
		if err != nil {
			logging.From(ctx).Warn("failed to summarize result", "error", err.Error())
		} else {
			envelope.Summary = summary
		}
	}

	outbound := model.NewMessage(userID, types.RoleAssistant, envelope.Text())
	if err := uc.repo.Conversations().PutMessage(ctx, outbound); err != nil {
		return nil, goerr.Wrap(err, "failed to store outbound message", goerr.V("userID", userID))
	}

	return envelope, nil
}

// dispatchCall invokes the classified operation. Operation failures become
// text envelopes so the turn still succeeds at the transport level.
func (uc *ChatUseCase) dispatchCall(ctx context.Context, profile *model.Profile, intent *model.Intent) *model.Envelope {
	if uc.jira == nil {
		return model.NewTextEnvelope("Sorry, the tracker connection is not configured.")
	}

	switch intent.Operation {
	case types.OperationGetUserIssues:
		return uc.getUserIssues(ctx, profile, intent)
	case types.OperationAddComment:
		return uc.addComment(ctx, intent)
	case types.OperationUpdateStatus:
		return uc.updateStatus(ctx, intent)
	case types.OperationCreateIssue:
		return uc.createIssue(ctx, intent)
	case types.OperationGetAllStatuses:
		return uc.getAllStatuses(ctx)
	case types.OperationSearchUsers:
		return uc.searchUsers(ctx, intent)
	default:
		return model.NewTextEnvelope(unknownOperationReply)
	}
}

func failureEnvelope(err error) *model.Envelope {
	return model.NewTextEnvelope("Sorry, that didn't work: " + err.Error())
}

func (uc *ChatUseCase) getUserIssues(ctx context.Context, profile *model.Profile, intent *model.Intent) *model.Envelope {
	input := &jira.SearchIssuesInput{
		AccountID:  intent.Arg("account_id"),
		Status:     intent.Arg("status"),
		MaxResults: intArg(intent, "max_results"),
	}
	if input.AccountID == "" {
		input.AccountID = profile.JiraAccountID
	}

	issues, err := uc.jira.SearchAssignedIssues(ctx, input)
	if err != nil {
		return failureEnvelope(err)
	}

	content := fmt.Sprintf("You have %d issue(s) assigned.", len(issues))
	if len(issues) == 0 {
		content = "You have no issues assigned."
	}
	return &model.Envelope{
		Type:    types.EnvelopeIssueList,
		Content: content,
		Issues:  issues,
	}
}

func (uc *ChatUseCase) addComment(ctx context.Context, intent *model.Intent) *model.Envelope {
	comment, err := uc.jira.AddComment(ctx, &jira.AddCommentInput{
		IssueKey: intent.Arg("issue_key"),
		Body:     intent.Arg("comment"),
		Mentions: stringsArg(intent, "mentions"),
		Internal: boolArg(intent, "internal"),
	})
	if err != nil {
		return failureEnvelope(err)
	}

	return &model.Envelope{
		Type:    types.EnvelopeComment,
		Content: fmt.Sprintf("Added your comment to %s.", comment.IssueKey),
		Comment: comment,
	}
}

func (uc *ChatUseCase) updateStatus(ctx context.Context, intent *model.Intent) *model.Envelope {
	update, err := uc.jira.TransitionIssue(ctx, intent.Arg("issue_key"), intent.Arg("status"))
	if err != nil {
		return failureEnvelope(err)
	}

	return &model.Envelope{
		Type:         types.EnvelopeStatusUpdate,
		Content:      fmt.Sprintf("Moved %s from %s to %s.", update.IssueKey, update.FromStatus, update.ToStatus),
		StatusUpdate: update,
	}
}

func (uc *ChatUseCase) createIssue(ctx context.Context, intent *model.Intent) *model.Envelope {
	input := &jira.CreateIssueInput{
		ProjectKey:  intent.Arg("project_key"),
		Summary:     intent.Arg("summary"),
		Description: intent.Arg("description"),
		IssueType:   intent.Arg("issue_type"),
	}
	if input.ProjectKey == "" {
		input.ProjectKey = uc.cfg.ProjectKey()
	}

	if assignee := intent.Arg("assignee"); assignee != "" {
		account, err := uc.jira.FindUser(ctx, assignee)
		if err != nil {
			return failureEnvelope(err)
		}
		input.AssigneeID = account.AccountID
	}

	issue, err := uc.jira.CreateIssue(ctx, input)
	if err != nil {
		return failureEnvelope(err)
	}

	return &model.Envelope{
		Type:    types.EnvelopeNewIssue,
		Content: fmt.Sprintf("Created %s: %s", issue.Key, issue.Summary),
		Issue:   issue,
	}
}

func (uc *ChatUseCase) getAllStatuses(ctx context.Context) *model.Envelope {
	statuses, err := uc.jira.ListStatuses(ctx)
	if err != nil {
		return failureEnvelope(err)
	}

	return &model.Envelope{
		Type:     types.EnvelopeStatusList,
		Content:  fmt.Sprintf("The tracker has %d workflow status(es).", len(statuses)),
		Statuses: statuses,
	}
}

func (uc *ChatUseCase) searchUsers(ctx context.Context, intent *model.Intent) *model.Envelope {
	users, err := uc.jira.ListUsers(ctx)
	if err != nil {
		return failureEnvelope(err)
	}

	if query := intent.Arg("query"); query != "" {
		lowered := strings.ToLower(query)
		var matched []*jira.User
		for _, user := range users {
			if strings.Contains(strings.ToLower(user.DisplayName), lowered) {
				matched = append(matched, user)
			}
		}
		users = matched
	}

	max := intArg(intent, "max_results")
	if max <= 0 {
		max = defaultUserResults
	}
	if len(users) > max {
		users = users[:max]
	}

	return &model.Envelope{
		Type:    types.EnvelopeUserList,
		Content: fmt.Sprintf("Found %d people on the tracker.", len(users)),
		Users:   users,
	}
}

// intArg reads a numeric argument that may arrive as a JSON number or a
// string.
func intArg(intent *model.Intent, name string) int {
	switch v := intent.Args[name].(type) {
	case float64:
		return int(v)
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

// stringsArg reads a string-list argument, tolerating a single string.
func stringsArg(intent *model.Intent, name string) []string {
	switch v := intent.Args[name].(type) {
	case []any:
		var out []string
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	default:
		return nil
	}
}

func boolArg(intent *model.Intent, name string) bool {
	switch v := intent.Args[name].(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(v, "true")
	default:
		return false
	}
}

func reverse(msgs []*model.Message) {
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
}
