package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/standup-lab/jirabot/pkg/domain/types"
)

// Message is one turn of a conversation. Messages are append-only; nothing
// in the system updates or deletes one after it is stored.
type Message struct {
	ID        types.MessageID
	UserID    types.UserID
	Role      types.Role
	Text      string
	CreatedAt time.Time
}

// NewMessage builds a message with a fresh time-ordered ID.
func NewMessage(userID types.UserID, role types.Role, text string) *Message {
	return &Message{
		ID:        types.NewMessageID(),
		UserID:    userID,
		Role:      role,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
}

func (m *Message) Validate() error {
	if m.ID == "" {
		return goerr.New("message ID is required", goerr.T(types.ErrTagValidation))
	}
	if err := m.UserID.Validate(); err != nil {
		return err
	}
	if !m.Role.IsValid() {
		return goerr.New("invalid message role",
			goerr.V("role", m.Role), goerr.T(types.ErrTagValidation))
	}
	return nil
}

// Clone returns a deep copy of the message.
func (m *Message) Clone() *Message {
	if m == nil {
		return nil
	}
	c := *m
	return &c
}
