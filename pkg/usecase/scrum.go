package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/standup-lab/jirabot/pkg/domain/interfaces"
	"github.com/standup-lab/jirabot/pkg/domain/model"
	"github.com/standup-lab/jirabot/pkg/domain/model/config"
	"github.com/standup-lab/jirabot/pkg/domain/model/jira"
	"github.com/standup-lab/jirabot/pkg/domain/types"
	"github.com/standup-lab/jirabot/pkg/service/notify"
	"github.com/standup-lab/jirabot/pkg/utils/async"
	"github.com/standup-lab/jirabot/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
)

// remindConcurrency bounds how many reminder notifications are in flight.
const remindConcurrency = 4

var scrumQuestions = []string{
	"What did you do yesterday?",
	"What will you do today?",
	"Anything blocking you?",
}

const alreadySubmittedReply = "You have already submitted your scrum update for today."

// scrumInstructions steers the classifier while a standup collection is in
// progress: conversational turns stay replies so the collector can treat
// them as answers.
const scrumInstructions = "The user has not submitted today's scrum update yet. " +
	"The assistant is collecting it over three questions: what they did yesterday, " +
	"what they will do today, and whether anything is blocking them. Unless the " +
	"latest message clearly requests one of the operations, answer with kind " +
	"\"reply\" so the standup collection can continue."

// ScrumUseCase collects one standup update per user per day out of the
// chat conversation and tags mentioned issues with the result.
type ScrumUseCase struct {
	repo     interfaces.Repository
	jira     interfaces.JiraClient
	notifier notify.Service
	cfg      *config.AppConfig
	dispatch func(ctx context.Context, handler func(ctx context.Context) error)
}

func NewScrumUseCase(repo interfaces.Repository, jira interfaces.JiraClient, notifier notify.Service, cfg *config.AppConfig) *ScrumUseCase {
	if notifier == nil {
		notifier = notify.NewNop()
	}
	return &ScrumUseCase{
		repo:     repo,
		jira:     jira,
		notifier: notifier,
		cfg:      cfg,
		dispatch: async.Dispatch,
	}
}

// Instructions returns the classifier prompt for an active standup
// collection.
func (uc *ScrumUseCase) Instructions() string {
	return scrumInstructions
}

// Pending tells whether the user still owes a standup update for today.
func (uc *ScrumUseCase) Pending(ctx context.Context, userID types.UserID) (bool, error) {
	_, err := uc.repo.ScrumUpdates().GetScrumUpdate(ctx, userID, types.Today(uc.cfg.Location()))
	if err == nil {
		return false, nil
	}
	if goerr.HasTag(err, types.ErrTagNotFound) {
		return true, nil
	}
	return false, goerr.Wrap(err, "failed to check today's scrum update", goerr.V("userID", userID))
}

// Collect advances the standup conversation by one turn. The user's first
// message of the day opens the collection and is not an answer; until three
// answers exist the next question is asked, and the three answers become
// yesterday, today and blockers.
func (uc *ScrumUseCase) Collect(ctx context.Context, user *model.User) (string, error) {
	msgs, err := uc.repo.Conversations().ListToday(ctx, user.ID, types.RoleUser, uc.cfg.Location())
	if err != nil {
		return "", goerr.Wrap(err, "failed to load today's messages", goerr.V("userID", user.ID))
	}

	answers := msgs
	if len(answers) > 0 {
		answers = answers[1:]
	}
	if len(answers) < len(scrumQuestions) {
		return scrumQuestions[len(answers)], nil
	}

	update, failedKeys, err := uc.Submit(ctx, user, answers[0].Text, answers[1].Text, answers[2].Text)
	if err != nil {
		if goerr.HasTag(err, types.ErrTagConflict) {
			return alreadySubmittedReply, nil
		}
		return "", err
	}

	reply := "Thanks! Your scrum update for today is recorded."
	if keys := update.IssueKeys(); len(keys) > 0 {
		if len(failedKeys) == 0 {
			reply += fmt.Sprintf(" Tagged %s with your update.", strings.Join(keys, ", "))
		} else {
			reply += fmt.Sprintf(" I couldn't tag %s with your update.", strings.Join(failedKeys, ", "))
		}
	}
	return reply, nil
}

// Submit stores the update and tags every issue key mentioned in it. The
// returned slice holds the keys whose comment failed; tagging trouble never
// fails the submission.
func (uc *ScrumUseCase) Submit(ctx context.Context, user *model.User, yesterday, today, blockers string) (*model.ScrumUpdate, []string, error) {
	update := model.NewScrumUpdate(user.ID, types.Today(uc.cfg.Location()), yesterday, today, blockers)
	if err := update.Validate(); err != nil {
		return nil, nil, err
	}

	if err := uc.repo.ScrumUpdates().CreateScrumUpdate(ctx, update); err != nil {
		return nil, nil, goerr.Wrap(err, "failed to store scrum update",
			goerr.V("userID", user.ID), goerr.V("date", update.Date))
	}

	failedKeys := uc.tagIssues(ctx, user, update)
	return update, failedKeys, nil
}

func (uc *ScrumUseCase) tagIssues(ctx context.Context, user *model.User, update *model.ScrumUpdate) []string {
	keys := update.IssueKeys()
	if len(keys) == 0 || uc.jira == nil {
		return nil
	}

	comment := fmt.Sprintf("Daily Scrum Update from %s:\n%s", user.Name(), update.Body())

	var failedKeys []string
	var lastReason string
	for _, key := range keys {
		if _, err := uc.jira.AddComment(ctx, &jira.AddCommentInput{IssueKey: key, Body: comment}); err != nil {
			logging.From(ctx).Warn("failed to tag issue with scrum update",
				"issueKey", key, "userID", user.ID, "error", err.Error())
			failedKeys = append(failedKeys, key)
			lastReason = err.Error()
		}
	}

	if len(failedKeys) > 0 {
		reason := lastReason
		uc.dispatch(ctx, func(ctx context.Context) error {
			return uc.notifier.NotifySyncFailure(ctx, user, failedKeys, reason)
		})
	}

	return failedKeys
}

// MissingUsers returns the users who have not submitted an update today.
func (uc *ScrumUseCase) MissingUsers(ctx context.Context) ([]*model.User, error) {
	users, err := uc.repo.Users().ListUsers(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list users")
	}

	today := types.Today(uc.cfg.Location())
	updates, err := uc.repo.ScrumUpdates().ListScrumUpdatesByDay(ctx, today)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list today's scrum updates", goerr.V("date", today))
	}

	submitted := make(map[types.UserID]struct{}, len(updates))
	for _, update := range updates {
		submitted[update.UserID] = struct{}{}
	}

	var missing []*model.User
	for _, user := range users {
		if _, ok := submitted[user.ID]; !ok {
			missing = append(missing, user)
		}
	}
	return missing, nil
}

// Remind notifies every user who still owes an update today. Individual
// delivery failures are logged and swallowed.
func (uc *ScrumUseCase) Remind(ctx context.Context) error {
	missing, err := uc.MissingUsers(ctx)
	if err != nil {
		return err
	}

	var g errgroup.Group
	g.SetLimit(remindConcurrency)
	for _, user := range missing {
		g.Go(func() error {
			if err := uc.notifier.NotifyMissingUpdate(ctx, user); err != nil {
				logging.From(ctx).Warn("failed to send standup reminder",
					"userID", user.ID, "error", err.Error())
			}
			return nil
		})
	}
	_ = g.Wait()

	logging.From(ctx).Info("standup reminders sent", "count", len(missing))
	return nil
}
