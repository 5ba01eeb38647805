package interfaces

import (
	"context"

	"github.com/standup-lab/jirabot/pkg/domain/model"
	"github.com/standup-lab/jirabot/pkg/domain/types"
)

// ScrumUpdateRepository persists daily standup submissions.
type ScrumUpdateRepository interface {
	// CreateScrumUpdate stores a new update. A second update for the same
	// (user, date) yields a conflict error.
	CreateScrumUpdate(ctx context.Context, update *model.ScrumUpdate) error

	// GetScrumUpdate fetches the update of a user for a day. Missing updates
	// yield a not-found error.
	GetScrumUpdate(ctx context.Context, userID types.UserID, date types.Day) (*model.ScrumUpdate, error)

	// ListScrumUpdatesByDay returns all updates submitted for a day.
	ListScrumUpdatesByDay(ctx context.Context, date types.Day) ([]*model.ScrumUpdate, error)

	// ListScrumUpdatesByUser returns a user's updates, newest first, up to
	// limit entries.
	ListScrumUpdatesByUser(ctx context.Context, userID types.UserID, limit int) ([]*model.ScrumUpdate, error)
}
