package cli

import (
	"context"

	"github.com/fatih/color"
	"github.com/standup-lab/jirabot/pkg/cli/config"
	"github.com/urfave/cli/v3"
)

func cmdValidate() *cli.Command {
	var appCfg config.App
	var jiraCfg config.Jira

	var flags []cli.Flag
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, jiraCfg.Flags()...)

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate the application configuration and Jira credentials",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := appCfg.Configure()
			if err != nil {
				color.Red("✗ app configuration: %s", err)
				return err
			}
			color.Green("✓ app configuration OK")
			color.White("  greeting: %q", cfg.Greeting("<name>"))
			color.White("  suggestions: %d", len(cfg.SuggestionList()))
			color.White("  timezone: %s", cfg.Location())
			color.White("  history limit: %d", cfg.History())

			// Constructing the client performs a credential check against
			// the site.
			jiraClient, err := jiraCfg.Configure(ctx)
			if err != nil {
				color.Red("✗ jira credentials: %s", err)
				return err
			}
			if jiraClient == nil {
				color.Yellow("- jira flags not set, skipping credential check")
				return nil
			}
			color.Green("✓ jira credentials OK")

			return nil
		},
	}
}
