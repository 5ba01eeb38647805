package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/standup-lab/jirabot/pkg/domain/interfaces"
	"github.com/standup-lab/jirabot/pkg/domain/model"
	"github.com/standup-lab/jirabot/pkg/domain/types"
)

type conversationRepository struct {
	mu       sync.RWMutex
	messages map[types.UserID][]*model.Message
}

var _ interfaces.ConversationRepository = &conversationRepository{}

func newConversationRepository() *conversationRepository {
	return &conversationRepository{
		messages: make(map[types.UserID][]*model.Message),
	}
}

func (r *conversationRepository) PutMessage(ctx context.Context, msg *model.Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.messages[msg.UserID] = append(r.messages[msg.UserID], msg.Clone())
	return nil
}

func (r *conversationRepository) ListRecentMessages(ctx context.Context, userID types.UserID, limit int) ([]*model.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.messages[userID]
	msgs := make([]*model.Message, 0, len(stored))
	for _, msg := range stored {
		msgs = append(msgs, msg.Clone())
	}

	// Newest first. Message IDs are time-ordered, so they break ties of
	// messages created within the same timestamp.
	sort.Slice(msgs, func(i, j int) bool {
		if !msgs[i].CreatedAt.Equal(msgs[j].CreatedAt) {
			return msgs[i].CreatedAt.After(msgs[j].CreatedAt)
		}
		return msgs[i].ID > msgs[j].ID
	})

	if limit > 0 && len(msgs) > limit {
		msgs = msgs[:limit]
	}
	return msgs, nil
}

func (r *conversationRepository) ListToday(ctx context.Context, userID types.UserID, role types.Role, loc *time.Location) ([]*model.Message, error) {
	if loc == nil {
		loc = time.Local
	}
	today := types.Today(loc)

	r.mu.RLock()
	defer r.mu.RUnlock()

	var msgs []*model.Message
	for _, msg := range r.messages[userID] {
		if msg.Role != role {
			continue
		}
		if types.DayOf(msg.CreatedAt.In(loc)) != today {
			continue
		}
		msgs = append(msgs, msg.Clone())
	}
	sort.Slice(msgs, func(i, j int) bool {
		if !msgs[i].CreatedAt.Equal(msgs[j].CreatedAt) {
			return msgs[i].CreatedAt.Before(msgs[j].CreatedAt)
		}
		return msgs[i].ID < msgs[j].ID
	})
	return msgs, nil
}
