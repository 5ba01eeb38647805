package interfaces

import (
	"context"

	"github.com/standup-lab/jirabot/pkg/domain/model"
	"github.com/standup-lab/jirabot/pkg/domain/types"
)

// UserRepository persists accounts and their one-to-one profiles.
type UserRepository interface {
	// PutUser inserts or replaces a user.
	PutUser(ctx context.Context, user *model.User) error

	// GetUser fetches a user by ID. Missing users yield a not-found error.
	GetUser(ctx context.Context, id types.UserID) (*model.User, error)

	// GetUserByUsername fetches a user by their unique username.
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)

	// ListUsers returns all users.
	ListUsers(ctx context.Context) ([]*model.User, error)

	// PutProfile inserts or replaces the profile of a user.
	PutProfile(ctx context.Context, profile *model.Profile) error

	// GetProfile fetches the profile of a user. Missing profiles yield a
	// not-found error.
	GetProfile(ctx context.Context, userID types.UserID) (*model.Profile, error)
}
