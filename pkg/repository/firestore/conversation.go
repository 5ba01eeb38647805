package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/standup-lab/jirabot/pkg/domain/interfaces"
	"github.com/standup-lab/jirabot/pkg/domain/model"
	"github.com/standup-lab/jirabot/pkg/domain/types"
	"google.golang.org/api/iterator"
)

const conversationsCollection = "conversations"

type conversationRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

var _ interfaces.ConversationRepository = &conversationRepository{}

func newConversationRepository(client *firestore.Client) *conversationRepository {
	return &conversationRepository{client: client}
}

// messageDoc is the Firestore persistence model
type messageDoc struct {
	ID        string    `firestore:"id"`
	UserID    string    `firestore:"user_id"`
	Role      string    `firestore:"role"`
	Text      string    `firestore:"text"`
	CreatedAt time.Time `firestore:"created_at"`
}

func (r *conversationRepository) collection() *firestore.CollectionRef {
	if r.collectionPrefix != "" {
		return r.client.Collection(r.collectionPrefix + "_" + conversationsCollection)
	}
	return r.client.Collection(conversationsCollection)
}

func (r *conversationRepository) PutMessage(ctx context.Context, msg *model.Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	doc := &messageDoc{
		ID:        string(msg.ID),
		UserID:    string(msg.UserID),
		Role:      string(msg.Role),
		Text:      msg.Text,
		CreatedAt: msg.CreatedAt,
	}
	if _, err := r.collection().Doc(string(msg.ID)).Create(ctx, doc); err != nil {
		return goerr.Wrap(err, "failed to save message", goerr.V("id", msg.ID))
	}
	return nil
}

func (r *conversationRepository) ListRecentMessages(ctx context.Context, userID types.UserID, limit int) ([]*model.Message, error) {
	// Requires the composite index (user_id asc, created_at desc), see the
	// migrate command.
	query := r.collection().
		Where("user_id", "==", string(userID)).
		OrderBy("created_at", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var msgs []*model.Message
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate messages", goerr.V("userID", userID))
		}

		var md messageDoc
		if err := doc.DataTo(&md); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal message", goerr.V("docID", doc.Ref.ID))
		}
		msgs = append(msgs, &model.Message{
			ID:        types.MessageID(md.ID),
			UserID:    types.UserID(md.UserID),
			Role:      types.Role(md.Role),
			Text:      md.Text,
			CreatedAt: md.CreatedAt,
		})
	}
	return msgs, nil
}

func (r *conversationRepository) ListToday(ctx context.Context, userID types.UserID, role types.Role, loc *time.Location) ([]*model.Message, error) {
	if loc == nil {
		loc = time.Local
	}
	dayStart, err := types.Today(loc).Time(loc)
	if err != nil {
		return nil, err
	}

	// Requires the composite index (user_id asc, role asc, created_at asc),
	// see the migrate command.
	query := r.collection().
		Where("user_id", "==", string(userID)).
		Where("role", "==", string(role)).
		Where("created_at", ">=", dayStart).
		OrderBy("created_at", firestore.Asc)

	iter := query.Documents(ctx)
	defer iter.Stop()

	var msgs []*model.Message
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate today's messages", goerr.V("userID", userID))
		}

		var md messageDoc
		if err := doc.DataTo(&md); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal message", goerr.V("docID", doc.Ref.ID))
		}
		msgs = append(msgs, &model.Message{
			ID:        types.MessageID(md.ID),
			UserID:    types.UserID(md.UserID),
			Role:      types.Role(md.Role),
			Text:      md.Text,
			CreatedAt: md.CreatedAt,
		})
	}
	return msgs, nil
}
