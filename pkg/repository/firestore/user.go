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

const (
	usersCollection    = "users"
	profilesCollection = "profiles"
)

type userRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

var _ interfaces.UserRepository = &userRepository{}

func newUserRepository(client *firestore.Client) *userRepository {
	return &userRepository{client: client}
}

// userDoc is the Firestore persistence model
type userDoc struct {
	ID           string    `firestore:"id"`
	Username     string    `firestore:"username"`
	PasswordHash []byte    `firestore:"password_hash"`
	Email        string    `firestore:"email"`
	DisplayName  string    `firestore:"display_name"`
	CreatedAt    time.Time `firestore:"created_at"`
}

// profileDoc is the Firestore persistence model
type profileDoc struct {
	UserID        string    `firestore:"user_id"`
	JiraAccountID string    `firestore:"jira_account_id"`
	CreatedAt     time.Time `firestore:"created_at"`
	UpdatedAt     time.Time `firestore:"updated_at"`
}

func (r *userRepository) collection() *firestore.CollectionRef {
	if r.collectionPrefix != "" {
		return r.client.Collection(r.collectionPrefix + "_" + usersCollection)
	}
	return r.client.Collection(usersCollection)
}

func (r *userRepository) profileCollection() *firestore.CollectionRef {
	if r.collectionPrefix != "" {
		return r.client.Collection(r.collectionPrefix + "_" + profilesCollection)
	}
	return r.client.Collection(profilesCollection)
}

func (r *userRepository) toDoc(user *model.User) *userDoc {
	return &userDoc{
		ID:           string(user.ID),
		Username:     user.Username,
		PasswordHash: user.PasswordHash,
		Email:        user.Email,
		DisplayName:  user.DisplayName,
		CreatedAt:    user.CreatedAt,
	}
}

func (r *userRepository) fromDoc(doc *userDoc) *model.User {
	return &model.User{
		ID:           types.UserID(doc.ID),
		Username:     doc.Username,
		PasswordHash: doc.PasswordHash,
		Email:        doc.Email,
		DisplayName:  doc.DisplayName,
		CreatedAt:    doc.CreatedAt,
	}
}

func (r *userRepository) PutUser(ctx context.Context, user *model.User) error {
	if err := user.Validate(); err != nil {
		return err
	}

	// Usernames are unique across accounts
	iter := r.collection().Where("username", "==", user.Username).Limit(1).Documents(ctx)
	defer iter.Stop()
	doc, err := iter.Next()
	if err != nil && err != iterator.Done {
		return goerr.Wrap(err, "failed to check username uniqueness",
			goerr.V("username", user.Username))
	}
	if err == nil && doc.Ref.ID != string(user.ID) {
		return goerr.Wrap(ErrConflict, "username already taken",
			goerr.V("username", user.Username))
	}

	if _, err := r.collection().Doc(string(user.ID)).Set(ctx, r.toDoc(user)); err != nil {
		return goerr.Wrap(err, "failed to save user", goerr.V("id", user.ID))
	}
	return nil
}

func (r *userRepository) GetUser(ctx context.Context, id types.UserID) (*model.User, error) {
	doc, err := r.collection().Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "user not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get user", goerr.V("id", id))
	}

	var userDoc userDoc
	if err := doc.DataTo(&userDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal user", goerr.V("id", id))
	}
	return r.fromDoc(&userDoc), nil
}

func (r *userRepository) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	iter := r.collection().Where("username", "==", username).Limit(1).Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, goerr.Wrap(ErrNotFound, "user not found", goerr.V("username", username))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query user", goerr.V("username", username))
	}

	var userDoc userDoc
	if err := doc.DataTo(&userDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal user", goerr.V("username", username))
	}
	return r.fromDoc(&userDoc), nil
}

func (r *userRepository) ListUsers(ctx context.Context) ([]*model.User, error) {
	iter := r.collection().OrderBy("username", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var users []*model.User
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate users")
		}

		var userDoc userDoc
		if err := doc.DataTo(&userDoc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal user", goerr.V("docID", doc.Ref.ID))
		}
		users = append(users, r.fromDoc(&userDoc))
	}
	return users, nil
}

func (r *userRepository) PutProfile(ctx context.Context, profile *model.Profile) error {
	if err := profile.UserID.Validate(); err != nil {
		return err
	}

	doc := &profileDoc{
		UserID:        string(profile.UserID),
		JiraAccountID: profile.JiraAccountID,
		CreatedAt:     profile.CreatedAt,
		UpdatedAt:     profile.UpdatedAt,
	}
	if _, err := r.profileCollection().Doc(string(profile.UserID)).Set(ctx, doc); err != nil {
		return goerr.Wrap(err, "failed to save profile", goerr.V("userID", profile.UserID))
	}
	return nil
}

func (r *userRepository) GetProfile(ctx context.Context, userID types.UserID) (*model.Profile, error) {
	doc, err := r.profileCollection().Doc(string(userID)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "profile not found", goerr.V("userID", userID))
		}
		return nil, goerr.Wrap(err, "failed to get profile", goerr.V("userID", userID))
	}

	var pd profileDoc
	if err := doc.DataTo(&pd); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal profile", goerr.V("userID", userID))
	}
	return &model.Profile{
		UserID:        types.UserID(pd.UserID),
		JiraAccountID: pd.JiraAccountID,
		CreatedAt:     pd.CreatedAt,
		UpdatedAt:     pd.UpdatedAt,
	}, nil
}
