package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/standup-lab/jirabot/pkg/domain/types"
)

// User is an account of this service. Authentication state (password hash)
// lives here; the Jira linkage lives on the Profile.
type User struct {
	ID           types.UserID
	Username     string
	PasswordHash []byte
	Email        string
	DisplayName  string
	CreatedAt    time.Time
}

// NewUser builds a user with a fresh ID. The password hash is set by the
// auth use case.
func NewUser(username, email, displayName string) *User {
	return &User{
		ID:          types.NewUserID(),
		Username:    username,
		Email:       email,
		DisplayName: displayName,
		CreatedAt:   time.Now().UTC(),
	}
}

func (u *User) Validate() error {
	if err := u.ID.Validate(); err != nil {
		return err
	}
	if u.Username == "" {
		return goerr.New("username is required", goerr.T(types.ErrTagValidation))
	}
	return nil
}

// Name returns the display name, falling back to the username.
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}

// Profile holds per-user settings, one-to-one with User. JiraAccountID may
// be empty: the user exists but is not linked to the tracker yet, and
// tracker-scoped chat actions must fail with a configuration error.
type Profile struct {
	UserID        types.UserID
	JiraAccountID string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewProfile builds an unlinked profile for the given user.
func NewProfile(userID types.UserID) *Profile {
	now := time.Now().UTC()
	return &Profile{
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Linked tells whether the profile carries a Jira account ID.
func (p *Profile) Linked() bool {
	return p != nil && p.JiraAccountID != ""
}
