package notify

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
	"github.com/standup-lab/jirabot/pkg/domain/model"
	"github.com/standup-lab/jirabot/pkg/domain/types"
)

// slackAPI is the subset of the Slack client the notifier uses.
type slackAPI interface {
	GetUserByEmailContext(ctx context.Context, email string) (*slack.User, error)
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

// SlackDM delivers notifications as direct messages, resolving recipients
// by their email address.
type SlackDM struct {
	api slackAPI
}

var _ Service = &SlackDM{}

func NewSlackDM(token string) (*SlackDM, error) {
	if token == "" {
		return nil, goerr.New("slack bot token is required", goerr.T(types.ErrTagConfig))
	}
	return &SlackDM{api: slack.New(token)}, nil
}

func (s *SlackDM) send(ctx context.Context, user *model.User, text string) error {
	if user.Email == "" {
		return goerr.New("user has no email for slack lookup",
			goerr.V("userID", user.ID), goerr.T(types.ErrTagIntegration))
	}

	slackUser, err := s.api.GetUserByEmailContext(ctx, user.Email)
	if err != nil {
		return goerr.Wrap(err, "failed to resolve slack user",
			goerr.V("email", user.Email), goerr.T(types.ErrTagIntegration))
	}

	if _, _, err := s.api.PostMessageContext(ctx, slackUser.ID, slack.MsgOptionText(text, false)); err != nil {
		return goerr.Wrap(err, "failed to post slack DM",
			goerr.V("slackUserID", slackUser.ID), goerr.T(types.ErrTagIntegration))
	}
	return nil
}

func (s *SlackDM) NotifySyncFailure(ctx context.Context, user *model.User, issueKeys []string, reason string) error {
	return s.send(ctx, user, syncFailureBody(user, issueKeys, reason))
}

func (s *SlackDM) NotifyMissingUpdate(ctx context.Context, user *model.User) error {
	return s.send(ctx, user, missingUpdateBody(user))
}
