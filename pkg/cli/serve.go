package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/standup-lab/jirabot/pkg/cli/config"
	httpctrl "github.com/standup-lab/jirabot/pkg/controller/http"
	"github.com/standup-lab/jirabot/pkg/service/intent"
	"github.com/standup-lab/jirabot/pkg/usecase"
	"github.com/standup-lab/jirabot/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var addr string
	var appCfg config.App
	var repoCfg config.Repository
	var jiraCfg config.Jira
	var openaiCfg config.OpenAI
	var authCfg config.Auth
	var notifyCfg config.Notify

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("JIRABOT_ADDR"),
			Destination: &addr,
		},
	}
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, jiraCfg.Flags()...)
	flags = append(flags, openaiCfg.Flags()...)
	flags = append(flags, authCfg.Flags()...)
	flags = append(flags, notifyCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			appConfig, err := appCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load app configuration")
			}

			secret, err := authCfg.Secret()
			if err != nil {
				return err
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logger.Error("failed to close repository", "error", err.Error())
				}
			}()

			notifier, err := notifyCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure notifications")
			}

			ucOpts := []usecase.Option{
				usecase.WithJWTSecret(secret),
				usecase.WithAppConfig(appConfig),
				usecase.WithNotifyService(notifier),
			}

			jiraClient, err := jiraCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure Jira client")
			}
			if jiraClient != nil {
				ucOpts = append(ucOpts, usecase.WithJiraClient(jiraClient))
				logger.Info("Jira client enabled")
			} else {
				logger.Warn("Jira flags not configured, tracker operations will be disabled")
			}

			llmClient, err := openaiCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure LLM client")
			}
			if llmClient != nil {
				intentSvc, err := intent.New(llmClient)
				if err != nil {
					return goerr.Wrap(err, "failed to initialize intent service")
				}
				ucOpts = append(ucOpts, usecase.WithIntentService(intentSvc))
				logger.Info("Intent classification enabled")
			} else {
				logger.Warn("OpenAI API key not configured, chat will be disabled")
			}

			uc := usecase.New(repo, ucOpts...)

			httpServer := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				errCh <- httpServer.ListenAndServe()
			}()
			logger.Info("Starting HTTP server", "addr", addr)

			select {
			case <-ctx.Done():
				logger.Info("Shutting down HTTP server")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := httpServer.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shut down HTTP server")
				}
				return nil

			case err := <-errCh:
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					return goerr.Wrap(err, "HTTP server failed")
				}
				return nil
			}
		},
	}
}
