package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/standup-lab/jirabot/pkg/domain/interfaces"
	"github.com/standup-lab/jirabot/pkg/domain/model"
	"github.com/standup-lab/jirabot/pkg/domain/types"
)

func runConversationRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("empty history yields no messages", func(t *testing.T) {
		repo := newRepo(t)

		msgs, err := repo.Conversations().ListRecentMessages(context.Background(), types.NewUserID(), 10)
		gt.NoError(t, err).Required()
		gt.Array(t, msgs).Length(0)
	})

	t.Run("messages come back newest first", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		userID := types.NewUserID()

		base := time.Now().UTC().Add(-time.Hour)
		for i := 0; i < 5; i++ {
			msg := model.NewMessage(userID, types.RoleUser, fmt.Sprintf("message %d", i))
			msg.CreatedAt = base.Add(time.Duration(i) * time.Minute)
			gt.NoError(t, repo.Conversations().PutMessage(ctx, msg)).Required()
		}

		msgs, err := repo.Conversations().ListRecentMessages(ctx, userID, 10)
		gt.NoError(t, err).Required()
		gt.Array(t, msgs).Length(5)
		gt.Value(t, msgs[0].Text).Equal("message 4")
		gt.Value(t, msgs[4].Text).Equal("message 0")
	})

	t.Run("limit truncates to newest", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		userID := types.NewUserID()

		base := time.Now().UTC().Add(-time.Hour)
		for i := 0; i < 15; i++ {
			msg := model.NewMessage(userID, types.RoleUser, fmt.Sprintf("message %d", i))
			msg.CreatedAt = base.Add(time.Duration(i) * time.Minute)
			gt.NoError(t, repo.Conversations().PutMessage(ctx, msg)).Required()
		}

		msgs, err := repo.Conversations().ListRecentMessages(ctx, userID, 10)
		gt.NoError(t, err).Required()
		gt.Array(t, msgs).Length(10)
		gt.Value(t, msgs[0].Text).Equal("message 14")
		gt.Value(t, msgs[9].Text).Equal("message 5")
	})

	t.Run("histories are isolated per user", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		alice := types.NewUserID()
		bob := types.NewUserID()

		gt.NoError(t, repo.Conversations().PutMessage(ctx, model.NewMessage(alice, types.RoleUser, "from alice"))).Required()
		gt.NoError(t, repo.Conversations().PutMessage(ctx, model.NewMessage(bob, types.RoleAssistant, "to bob"))).Required()

		msgs, err := repo.Conversations().ListRecentMessages(ctx, alice, 10)
		gt.NoError(t, err).Required()
		gt.Array(t, msgs).Length(1)
		gt.Value(t, msgs[0].Text).Equal("from alice")
		gt.Value(t, msgs[0].Role).Equal(types.RoleUser)
	})

	t.Run("ListToday filters by role and day", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		userID := types.NewUserID()

		old := model.NewMessage(userID, types.RoleUser, "yesterday's message")
		old.CreatedAt = time.Now().UTC().Add(-48 * time.Hour)
		gt.NoError(t, repo.Conversations().PutMessage(ctx, old)).Required()

		first := model.NewMessage(userID, types.RoleUser, "first today")
		first.CreatedAt = time.Now().UTC().Add(-2 * time.Minute)
		gt.NoError(t, repo.Conversations().PutMessage(ctx, first)).Required()
		gt.NoError(t, repo.Conversations().PutMessage(ctx, model.NewMessage(userID, types.RoleAssistant, "assistant today"))).Required()
		gt.NoError(t, repo.Conversations().PutMessage(ctx, model.NewMessage(userID, types.RoleUser, "second today"))).Required()

		msgs, err := repo.Conversations().ListToday(ctx, userID, types.RoleUser, time.UTC)
		gt.NoError(t, err).Required()
		gt.Array(t, msgs).Length(2)
		gt.Value(t, msgs[0].Text).Equal("first today")
		gt.Value(t, msgs[1].Text).Equal("second today")
	})

	t.Run("both roles are preserved", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		userID := types.NewUserID()

		inbound := model.NewMessage(userID, types.RoleUser, "show my issues")
		inbound.CreatedAt = time.Now().UTC().Add(-time.Minute)
		gt.NoError(t, repo.Conversations().PutMessage(ctx, inbound)).Required()
		gt.NoError(t, repo.Conversations().PutMessage(ctx, model.NewMessage(userID, types.RoleAssistant, "here they are"))).Required()

		msgs, err := repo.Conversations().ListRecentMessages(ctx, userID, 10)
		gt.NoError(t, err).Required()
		gt.Array(t, msgs).Length(2)
		gt.Value(t, msgs[0].Role).Equal(types.RoleAssistant)
		gt.Value(t, msgs[1].Role).Equal(types.RoleUser)
	})
}

func TestMemoryConversationRepository(t *testing.T) {
	runConversationRepositoryTest(t, newMemoryRepository)
}

func TestFirestoreConversationRepository(t *testing.T) {
	runConversationRepositoryTest(t, newFirestoreRepository)
}
