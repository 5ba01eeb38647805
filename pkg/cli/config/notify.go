package config

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/standup-lab/jirabot/pkg/service/notify"
	"github.com/standup-lab/jirabot/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Notify holds CLI flags for the reminder notification channel
type Notify struct {
	channel string

	smtpHost     string
	smtpPort     int
	smtpUsername string
	smtpPassword string
	mailFrom     string

	slackBotToken string
}

// Flags returns CLI flags for notification configuration
func (n *Notify) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "notify-channel",
			Usage:       "Notification channel (none, mail or slack)",
			Value:       "none",
			Sources:     cli.EnvVars("JIRABOT_NOTIFY_CHANNEL"),
			Destination: &n.channel,
		},
		&cli.StringFlag{
			Name:        "smtp-host",
			Usage:       "SMTP host for mail notifications",
			Sources:     cli.EnvVars("JIRABOT_SMTP_HOST"),
			Destination: &n.smtpHost,
		},
		&cli.IntFlag{
			Name:        "smtp-port",
			Usage:       "SMTP port",
			Value:       587,
			Sources:     cli.EnvVars("JIRABOT_SMTP_PORT"),
			Destination: &n.smtpPort,
		},
		&cli.StringFlag{
			Name:        "smtp-username",
			Usage:       "SMTP username",
			Sources:     cli.EnvVars("JIRABOT_SMTP_USERNAME"),
			Destination: &n.smtpUsername,
		},
		&cli.StringFlag{
			Name:        "smtp-password",
			Usage:       "SMTP password",
			Sources:     cli.EnvVars("JIRABOT_SMTP_PASSWORD"),
			Destination: &n.smtpPassword,
		},
		&cli.StringFlag{
			Name:        "mail-from",
			Usage:       "From address for mail notifications",
			Sources:     cli.EnvVars("JIRABOT_MAIL_FROM"),
			Destination: &n.mailFrom,
		},
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack bot token for DM notifications",
			Sources:     cli.EnvVars("JIRABOT_SLACK_BOT_TOKEN"),
			Destination: &n.slackBotToken,
		},
	}
}

// Configure builds the notification backend for the selected channel.
func (n *Notify) Configure() (notify.Service, error) {
	switch n.channel {
	case "", "none":
		return notify.NewNop(), nil

	case "mail":
		svc, err := notify.NewMail(&notify.MailConfig{
			Host:     n.smtpHost,
			Port:     n.smtpPort,
			Username: n.smtpUsername,
			Password: n.smtpPassword,
			From:     n.mailFrom,
		})
		if err != nil {
			return nil, goerr.Wrap(err, "failed to configure mail notifications")
		}
		logging.Default().Info("Mail notifications enabled", "host", n.smtpHost, "from", n.mailFrom)
		return svc, nil

	case "slack":
		svc, err := notify.NewSlackDM(n.slackBotToken)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to configure slack notifications")
		}
		logging.Default().Info("Slack DM notifications enabled")
		return svc, nil

	default:
		return nil, goerr.New("invalid notification channel", goerr.V("channel", n.channel))
	}
}
