package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/standup-lab/jirabot/pkg/cli/config"
	"github.com/standup-lab/jirabot/pkg/usecase"
	"github.com/standup-lab/jirabot/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdRemind() *cli.Command {
	var appCfg config.App
	var repoCfg config.Repository
	var notifyCfg config.Notify

	var flags []cli.Flag
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, notifyCfg.Flags()...)

	return &cli.Command{
		Name:    "remind",
		Aliases: []string{"r"},
		Usage:   "Notify users who have not submitted today's standup update",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			appConfig, err := appCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load app configuration")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			notifier, err := notifyCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure notifications")
			}

			uc := usecase.New(repo,
				usecase.WithAppConfig(appConfig),
				usecase.WithNotifyService(notifier),
			)

			return uc.Scrum.Remind(ctx)
		},
	}
}
