package types

import (
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// UserID identifies an account in this system (not the Jira account ID).
type UserID string

// NewUserID generates a new time-ordered user ID.
func NewUserID() UserID {
	return UserID(uuid.Must(uuid.NewV7()).String())
}

func (id UserID) String() string {
	return string(id)
}

func (id UserID) Validate() error {
	if id == "" {
		return goerr.New("user ID is empty", goerr.T(ErrTagValidation))
	}
	return nil
}

// MessageID identifies a conversation message.
type MessageID string

// NewMessageID generates a new time-ordered message ID. UUIDv7 keeps
// insertion order consistent with creation time for equal timestamps.
func NewMessageID() MessageID {
	return MessageID(uuid.Must(uuid.NewV7()).String())
}

func (id MessageID) String() string {
	return string(id)
}
