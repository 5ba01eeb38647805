package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/standup-lab/jirabot/pkg/domain/types"
	"github.com/standup-lab/jirabot/pkg/repository/memory"
	"github.com/standup-lab/jirabot/pkg/usecase"
)

func newAuth(t *testing.T) (*usecase.UseCases, *memory.Memory) {
	t.Helper()
	repo := memory.New()
	return usecase.New(repo, usecase.WithJWTSecret([]byte("test-secret"))), repo
}

func TestAuthTokenRoundTrip(t *testing.T) {
	uc, _ := newAuth(t)
	ctx := context.Background()

	user, err := uc.Auth.Register(ctx, "alice", "hunter2hunter2", "alice@example.com", "Alice")
	gt.NoError(t, err).Required()

	pair, loggedIn, err := uc.Auth.IssueTokens(ctx, "alice", "hunter2hunter2")
	gt.NoError(t, err).Required()
	gt.Value(t, loggedIn.ID).Equal(user.ID)
	gt.Bool(t, pair.Access != "").True()
	gt.Bool(t, pair.Refresh != "").True()

	userID, err := uc.Auth.VerifyAccess(ctx, pair.Access)
	gt.NoError(t, err).Required()
	gt.Value(t, userID).Equal(user.ID)

	// Second verification hits the cache and agrees.
	userID, err = uc.Auth.VerifyAccess(ctx, pair.Access)
	gt.NoError(t, err).Required()
	gt.Value(t, userID).Equal(user.ID)
}

func TestAuthBadCredentials(t *testing.T) {
	uc, _ := newAuth(t)
	ctx := context.Background()

	_, err := uc.Auth.Register(ctx, "alice", "hunter2hunter2", "alice@example.com", "Alice")
	gt.NoError(t, err).Required()

	_, _, err = uc.Auth.IssueTokens(ctx, "alice", "wrong-password")
	gt.Error(t, err)
	gt.Bool(t, goerr.HasTag(err, types.ErrTagAuth)).True()

	_, _, err = uc.Auth.IssueTokens(ctx, "nobody", "hunter2hunter2")
	gt.Error(t, err)
	gt.Bool(t, goerr.HasTag(err, types.ErrTagAuth)).True()
}

func TestAuthRefresh(t *testing.T) {
	uc, _ := newAuth(t)
	ctx := context.Background()

	user, err := uc.Auth.Register(ctx, "alice", "hunter2hunter2", "alice@example.com", "Alice")
	gt.NoError(t, err).Required()
	pair, _, err := uc.Auth.IssueTokens(ctx, "alice", "hunter2hunter2")
	gt.NoError(t, err).Required()

	access, err := uc.Auth.Refresh(ctx, pair.Refresh)
	gt.NoError(t, err).Required()

	userID, err := uc.Auth.VerifyAccess(ctx, access)
	gt.NoError(t, err).Required()
	gt.Value(t, userID).Equal(user.ID)
}

func TestAuthTokenTypeEnforced(t *testing.T) {
	uc, _ := newAuth(t)
	ctx := context.Background()

	_, err := uc.Auth.Register(ctx, "alice", "hunter2hunter2", "alice@example.com", "Alice")
	gt.NoError(t, err).Required()
	pair, _, err := uc.Auth.IssueTokens(ctx, "alice", "hunter2hunter2")
	gt.NoError(t, err).Required()

	// An access token cannot be used for refresh and vice versa.
	_, err = uc.Auth.Refresh(ctx, pair.Access)
	gt.Error(t, err)
	gt.Bool(t, goerr.HasTag(err, types.ErrTagValidation)).True()

	_, err = uc.Auth.VerifyAccess(ctx, pair.Refresh)
	gt.Error(t, err)
	gt.Bool(t, goerr.HasTag(err, types.ErrTagAuth)).True()
}

func TestAuthExpiredAccessToken(t *testing.T) {
	uc, _ := newAuth(t)
	ctx := context.Background()

	_, err := uc.Auth.Register(ctx, "alice", "hunter2hunter2", "alice@example.com", "Alice")
	gt.NoError(t, err).Required()

	uc.Auth.SetNowForTest(func() time.Time {
		return time.Now().Add(-time.Hour)
	})
	pair, _, err := uc.Auth.IssueTokens(ctx, "alice", "hunter2hunter2")
	gt.NoError(t, err).Required()

	_, err = uc.Auth.VerifyAccess(ctx, pair.Access)
	gt.Error(t, err)
	gt.Bool(t, goerr.HasTag(err, types.ErrTagAuth)).True()
}

func TestAuthGarbageToken(t *testing.T) {
	uc, _ := newAuth(t)

	_, err := uc.Auth.VerifyAccess(context.Background(), "not.a.jwt")
	gt.Error(t, err)
	gt.Bool(t, goerr.HasTag(err, types.ErrTagAuth)).True()
}

func TestAuthRegisterDuplicate(t *testing.T) {
	uc, _ := newAuth(t)
	ctx := context.Background()

	_, err := uc.Auth.Register(ctx, "alice", "hunter2hunter2", "alice@example.com", "Alice")
	gt.NoError(t, err).Required()

	_, err = uc.Auth.Register(ctx, "alice", "another-password", "alice2@example.com", "Alice Again")
	gt.Error(t, err)
	gt.Bool(t, goerr.HasTag(err, types.ErrTagConflict)).True()
}

func TestAuthRegisterCreatesEmptyProfile(t *testing.T) {
	uc, repo := newAuth(t)
	ctx := context.Background()

	user, err := uc.Auth.Register(ctx, "alice", "hunter2hunter2", "alice@example.com", "Alice")
	gt.NoError(t, err).Required()

	profile, err := repo.Users().GetProfile(ctx, user.ID)
	gt.NoError(t, err).Required()
	gt.Bool(t, profile.Linked()).False()
}

func TestAuthLinkJiraAccount(t *testing.T) {
	uc, repo := newAuth(t)
	ctx := context.Background()

	user, err := uc.Auth.Register(ctx, "alice", "hunter2hunter2", "alice@example.com", "Alice")
	gt.NoError(t, err).Required()

	gt.NoError(t, uc.Auth.LinkJiraAccount(ctx, user.ID, "acct-123")).Required()

	profile, err := repo.Users().GetProfile(ctx, user.ID)
	gt.NoError(t, err).Required()
	gt.Bool(t, profile.Linked()).True()
	gt.Value(t, profile.JiraAccountID).Equal("acct-123")
}
