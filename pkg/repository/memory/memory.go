package memory

import (
	"github.com/standup-lab/jirabot/pkg/domain/interfaces"
)

// Memory is the in-memory repository used for development and tests.
type Memory struct {
	users         *userRepository
	conversations *conversationRepository
	scrumUpdates  *scrumUpdateRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		users:         newUserRepository(),
		conversations: newConversationRepository(),
		scrumUpdates:  newScrumUpdateRepository(),
	}
}

func (m *Memory) Users() interfaces.UserRepository {
	return m.users
}

func (m *Memory) Conversations() interfaces.ConversationRepository {
	return m.conversations
}

func (m *Memory) ScrumUpdates() interfaces.ScrumUpdateRepository {
	return m.scrumUpdates
}

func (m *Memory) Close() error {
	return nil
}
