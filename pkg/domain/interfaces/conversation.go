package interfaces

import (
	"context"
	"time"

	"github.com/standup-lab/jirabot/pkg/domain/model"
	"github.com/standup-lab/jirabot/pkg/domain/types"
)

// ConversationRepository is the append-only store of chat messages.
type ConversationRepository interface {
	// PutMessage appends a message to the user's history.
	PutMessage(ctx context.Context, msg *model.Message) error

	// ListRecentMessages returns up to limit of the user's newest messages,
	// ordered newest first.
	ListRecentMessages(ctx context.Context, userID types.UserID, limit int) ([]*model.Message, error)

	// ListToday returns the user's messages with the given role created
	// today in the given location, oldest first.
	ListToday(ctx context.Context, userID types.UserID, role types.Role, loc *time.Location) ([]*model.Message, error)
}
