package interfaces

// Repository bundles the persistence surfaces. Both the Firestore and the
// in-memory implementations satisfy it.
type Repository interface {
	Users() UserRepository
	Conversations() ConversationRepository
	ScrumUpdates() ScrumUpdateRepository
	Close() error
}
