package config

import (
	"context"
	"log/slog"

	"github.com/standup-lab/jirabot/pkg/domain/interfaces"
	"github.com/standup-lab/jirabot/pkg/service/jira"
	"github.com/urfave/cli/v3"
)

// Jira holds CLI flags for the tracker connection
type Jira struct {
	baseURL  string
	email    string
	apiToken string
}

// Flags returns CLI flags for Jira configuration
func (j *Jira) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "jira-base-url",
			Usage:       "Jira site base URL (e.g. https://your-site.atlassian.net)",
			Sources:     cli.EnvVars("JIRABOT_JIRA_BASE_URL"),
			Destination: &j.baseURL,
		},
		&cli.StringFlag{
			Name:        "jira-email",
			Usage:       "Email of the Jira API user",
			Sources:     cli.EnvVars("JIRABOT_JIRA_EMAIL"),
			Destination: &j.email,
		},
		&cli.StringFlag{
			Name:        "jira-api-token",
			Usage:       "Jira API token",
			Sources:     cli.EnvVars("JIRABOT_JIRA_API_TOKEN"),
			Destination: &j.apiToken,
		},
	}
}

// LogAttrs returns log attributes for the Jira configuration. The token is
// never logged.
func (j *Jira) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("base_url", j.baseURL),
		slog.String("email", j.email),
	}
}

// Configure builds the Jira client, verifying the credentials against the
// site. Returns nil when no base URL is configured (tracker operations will
// be disabled).
func (j *Jira) Configure(ctx context.Context) (interfaces.JiraClient, error) {
	if j.baseURL == "" {
		return nil, nil
	}

	return jira.New(ctx, &jira.Config{
		BaseURL:  j.baseURL,
		Email:    j.email,
		APIToken: j.apiToken,
	})
}
