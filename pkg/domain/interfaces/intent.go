package interfaces

import (
	"context"

	"github.com/standup-lab/jirabot/pkg/domain/model"
)

// IntentService is the language-model surface of the chat pipeline.
type IntentService interface {
	// Classify decides whether the latest message calls an operation or
	// deserves a direct reply, given recent history for context. A
	// non-empty scrumPrompt tells the model a standup collection is in
	// progress.
	Classify(ctx context.Context, history []*model.Message, message, scrumPrompt string) (*model.Intent, error)

	// Summarize renders an operation result as a short human sentence.
	// It is best effort; callers fall back to a canned summary on error.
	Summarize(ctx context.Context, envelope *model.Envelope) (string, error)

	// Greet personalizes the greeting line for a user. It is best effort;
	// callers fall back to the canned greeting on error.
	Greet(ctx context.Context, name string) (string, error)
}
