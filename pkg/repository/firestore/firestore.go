package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/standup-lab/jirabot/pkg/domain/interfaces"
)

type Firestore struct {
	client        *firestore.Client
	users         *userRepository
	conversations *conversationRepository
	scrumUpdates  *scrumUpdateRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

// WithCollectionPrefix namespaces all collections, used to isolate test runs.
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.users.collectionPrefix = prefix
		f.conversations.collectionPrefix = prefix
		f.scrumUpdates.collectionPrefix = prefix
	}
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID), goerr.V("databaseID", databaseID))
	}

	f := &Firestore{
		client:        client,
		users:         newUserRepository(client),
		conversations: newConversationRepository(client),
		scrumUpdates:  newScrumUpdateRepository(client),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) Users() interfaces.UserRepository {
	return f.users
}

func (f *Firestore) Conversations() interfaces.ConversationRepository {
	return f.conversations
}

func (f *Firestore) ScrumUpdates() interfaces.ScrumUpdateRepository {
	return f.scrumUpdates
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
