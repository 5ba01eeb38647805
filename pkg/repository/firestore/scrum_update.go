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
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const scrumUpdatesCollection = "scrum_updates"

type scrumUpdateRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

var _ interfaces.ScrumUpdateRepository = &scrumUpdateRepository{}

func newScrumUpdateRepository(client *firestore.Client) *scrumUpdateRepository {
	return &scrumUpdateRepository{client: client}
}

// scrumUpdateDoc is the Firestore persistence model
type scrumUpdateDoc struct {
	ID        string    `firestore:"id"`
	UserID    string    `firestore:"user_id"`
	Date      string    `firestore:"date"`
	Yesterday string    `firestore:"yesterday"`
	Today     string    `firestore:"today"`
	Blockers  string    `firestore:"blockers"`
	CreatedAt time.Time `firestore:"created_at"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

func (r *scrumUpdateRepository) collection() *firestore.CollectionRef {
	if r.collectionPrefix != "" {
		return r.client.Collection(r.collectionPrefix + "_" + scrumUpdatesCollection)
	}
	return r.client.Collection(scrumUpdatesCollection)
}

// docID enforces one update per (user, date) at the document level.
func docID(userID types.UserID, date types.Day) string {
	return string(userID) + "_" + string(date)
}

func (r *scrumUpdateRepository) toDoc(update *model.ScrumUpdate) *scrumUpdateDoc {
	return &scrumUpdateDoc{
		ID:        update.ID,
		UserID:    string(update.UserID),
		Date:      string(update.Date),
		Yesterday: update.Yesterday,
		Today:     update.Today,
		Blockers:  update.Blockers,
		CreatedAt: update.CreatedAt,
		UpdatedAt: update.UpdatedAt,
	}
}

func (r *scrumUpdateRepository) fromDoc(doc *scrumUpdateDoc) *model.ScrumUpdate {
	return &model.ScrumUpdate{
		ID:        doc.ID,
		UserID:    types.UserID(doc.UserID),
		Date:      types.Day(doc.Date),
		Yesterday: doc.Yesterday,
		Today:     doc.Today,
		Blockers:  doc.Blockers,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
}

func (r *scrumUpdateRepository) CreateScrumUpdate(ctx context.Context, update *model.ScrumUpdate) error {
	if err := update.Validate(); err != nil {
		return err
	}

	ref := r.collection().Doc(docID(update.UserID, update.Date))
	if _, err := ref.Create(ctx, r.toDoc(update)); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return goerr.Wrap(ErrConflict, "scrum update already submitted",
				goerr.V("userID", update.UserID), goerr.V("date", update.Date))
		}
		return goerr.Wrap(err, "failed to create scrum update",
			goerr.V("userID", update.UserID), goerr.V("date", update.Date))
	}
	return nil
}

func (r *scrumUpdateRepository) GetScrumUpdate(ctx context.Context, userID types.UserID, date types.Day) (*model.ScrumUpdate, error) {
	doc, err := r.collection().Doc(docID(userID, date)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "scrum update not found",
				goerr.V("userID", userID), goerr.V("date", date))
		}
		return nil, goerr.Wrap(err, "failed to get scrum update",
			goerr.V("userID", userID), goerr.V("date", date))
	}

	var sd scrumUpdateDoc
	if err := doc.DataTo(&sd); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal scrum update", goerr.V("docID", doc.Ref.ID))
	}
	return r.fromDoc(&sd), nil
}

func (r *scrumUpdateRepository) ListScrumUpdatesByDay(ctx context.Context, date types.Day) ([]*model.ScrumUpdate, error) {
	iter := r.collection().Where("date", "==", string(date)).Documents(ctx)
	defer iter.Stop()

	var updates []*model.ScrumUpdate
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate scrum updates", goerr.V("date", date))
		}

		var sd scrumUpdateDoc
		if err := doc.DataTo(&sd); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal scrum update", goerr.V("docID", doc.Ref.ID))
		}
		updates = append(updates, r.fromDoc(&sd))
	}
	return updates, nil
}

func (r *scrumUpdateRepository) ListScrumUpdatesByUser(ctx context.Context, userID types.UserID, limit int) ([]*model.ScrumUpdate, error) {
	// Requires the composite index (user_id asc, date desc), see the
	// migrate command.
	query := r.collection().
		Where("user_id", "==", string(userID)).
		OrderBy("date", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var updates []*model.ScrumUpdate
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate scrum updates", goerr.V("userID", userID))
		}

		var sd scrumUpdateDoc
		if err := doc.DataTo(&sd); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal scrum update", goerr.V("docID", doc.Ref.ID))
		}
		updates = append(updates, r.fromDoc(&sd))
	}
	return updates, nil
}
