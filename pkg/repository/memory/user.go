package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/standup-lab/jirabot/pkg/domain/interfaces"
	"github.com/standup-lab/jirabot/pkg/domain/model"
	"github.com/standup-lab/jirabot/pkg/domain/types"
)

type userRepository struct {
	mu       sync.RWMutex
	users    map[types.UserID]*model.User
	profiles map[types.UserID]*model.Profile
}

var _ interfaces.UserRepository = &userRepository{}

func newUserRepository() *userRepository {
	return &userRepository{
		users:    make(map[types.UserID]*model.User),
		profiles: make(map[types.UserID]*model.Profile),
	}
}

func copyUser(user *model.User) *model.User {
	userCopy := *user
	userCopy.PasswordHash = append([]byte(nil), user.PasswordHash...)
	return &userCopy
}

func (r *userRepository) PutUser(ctx context.Context, user *model.User) error {
	if err := user.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Usernames are unique across accounts
	for _, existing := range r.users {
		if existing.Username == user.Username && existing.ID != user.ID {
			return goerr.Wrap(ErrConflict, "username already taken",
				goerr.V("username", user.Username))
		}
	}

	r.users[user.ID] = copyUser(user)
	return nil
}

func (r *userRepository) GetUser(ctx context.Context, id types.UserID) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, goerr.Wrap(ErrNotFound, "user not found", goerr.V("id", id))
	}
	return copyUser(user), nil
}

func (r *userRepository) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Username == username {
			return copyUser(user), nil
		}
	}
	return nil, goerr.Wrap(ErrNotFound, "user not found", goerr.V("username", username))
}

func (r *userRepository) ListUsers(ctx context.Context) ([]*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*model.User, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, copyUser(user))
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].Username < users[j].Username
	})
	return users, nil
}

func (r *userRepository) PutProfile(ctx context.Context, profile *model.Profile) error {
	if err := profile.UserID.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	profileCopy := *profile
	r.profiles[profile.UserID] = &profileCopy
	return nil
}

func (r *userRepository) GetProfile(ctx context.Context, userID types.UserID) (*model.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profile, ok := r.profiles[userID]
	if !ok {
		return nil, goerr.Wrap(ErrNotFound, "profile not found", goerr.V("userID", userID))
	}
	profileCopy := *profile
	return &profileCopy, nil
}
