package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/standup-lab/jirabot/pkg/domain/interfaces"
	"github.com/standup-lab/jirabot/pkg/domain/model/config"
	"github.com/standup-lab/jirabot/pkg/domain/types"
	"github.com/standup-lab/jirabot/pkg/utils/logging"
)

// Greeting is what the client shows when a user opens the chat.
type Greeting struct {
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions"`
}

type GreetingUseCase struct {
	repo   interfaces.Repository
	intent interfaces.IntentService
	cfg    *config.AppConfig
}

func NewGreetingUseCase(repo interfaces.Repository, intentSvc interfaces.IntentService, cfg *config.AppConfig) *GreetingUseCase {
	return &GreetingUseCase{
		repo:   repo,
		intent: intentSvc,
		cfg:    cfg,
	}
}

// Greet builds the greeting for the user. When an LLM client is available
// the first line is personalized; any LLM trouble falls back to the canned
// message.
func (uc *GreetingUseCase) Greet(ctx context.Context, userID types.UserID) (*Greeting, error) {
	user, err := uc.repo.Users().GetUser(ctx, userID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load user", goerr.V("userID", userID))
	}

	message := uc.cfg.Greeting(user.Name())
	if uc.intent != nil {
		personalized, err := uc.intent.Greet(ctx, user.Name())
		if err != nil {
			logging.From(ctx).Warn("failed to personalize greeting", "error", err.Error())
		} else if personalized != "" {
			message = personalized
		}
	}

	return &Greeting{
		Message:     message,
		Suggestions: uc.cfg.SuggestionList(),
	}, nil
}
