package usecase

import (
	"github.com/standup-lab/jirabot/pkg/domain/interfaces"
	"github.com/standup-lab/jirabot/pkg/domain/model/config"
	"github.com/standup-lab/jirabot/pkg/service/notify"
)

// UseCases bundles the application logic behind the HTTP controller and the
// CLI commands.
type UseCases struct {
	repo      interfaces.Repository
	jira      interfaces.JiraClient
	intent    interfaces.IntentService
	notifier  notify.Service
	appConfig *config.AppConfig
	jwtSecret []byte

	Auth     *AuthUseCase
	Chat     *ChatUseCase
	Scrum    *ScrumUseCase
	Greeting *GreetingUseCase
}

type Option func(*UseCases)

func WithJiraClient(client interfaces.JiraClient) Option {
	return func(uc *UseCases) {
		uc.jira = client
	}
}

func WithIntentService(svc interfaces.IntentService) Option {
	return func(uc *UseCases) {
		uc.intent = svc
	}
}

func WithNotifyService(svc notify.Service) Option {
	return func(uc *UseCases) {
		uc.notifier = svc
	}
}

func WithAppConfig(cfg *config.AppConfig) Option {
	return func(uc *UseCases) {
		uc.appConfig = cfg
	}
}

func WithJWTSecret(secret []byte) Option {
	return func(uc *UseCases) {
		uc.jwtSecret = secret
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:      repo,
		notifier:  notify.NewNop(),
		appConfig: config.Default(),
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Auth = NewAuthUseCase(repo, uc.jwtSecret)
	uc.Scrum = NewScrumUseCase(repo, uc.jira, uc.notifier, uc.appConfig)
	uc.Chat = NewChatUseCase(repo, uc.jira, uc.intent, uc.Scrum, uc.appConfig)
	uc.Greeting = NewGreetingUseCase(repo, uc.intent, uc.appConfig)

	return uc
}
