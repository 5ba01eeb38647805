package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/standup-lab/jirabot/pkg/domain/model"
)

// Service delivers out-of-band notifications. Implementations are
// best-effort: callers log failures and move on.
type Service interface {
	// NotifySyncFailure tells a user that tagging their standup issues with
	// comments did not fully succeed.
	NotifySyncFailure(ctx context.Context, user *model.User, issueKeys []string, reason string) error

	// NotifyMissingUpdate reminds a user who has not submitted a standup
	// update today.
	NotifyMissingUpdate(ctx context.Context, user *model.User) error
}

func syncFailureBody(user *model.User, issueKeys []string, reason string) string {
	return fmt.Sprintf("Hi %s,\n\nYour standup update was saved, but commenting on %s failed: %s\n\nYou may want to update those issues manually.",
		user.Name(), strings.Join(issueKeys, ", "), reason)
}

func missingUpdateBody(user *model.User) string {
	return fmt.Sprintf("Hi %s,\n\nYou have not submitted a standup update today. Take a minute to share what you did yesterday, what you're doing today, and any blockers.",
		user.Name())
}

// Nop discards notifications. It is the default when no channel is
// configured.
type Nop struct{}

var _ Service = &Nop{}

func NewNop() *Nop {
	return &Nop{}
}

func (n *Nop) NotifySyncFailure(ctx context.Context, user *model.User, issueKeys []string, reason string) error {
	return nil
}

func (n *Nop) NotifyMissingUpdate(ctx context.Context, user *model.User) error {
	return nil
}
