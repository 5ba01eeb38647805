package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/standup-lab/jirabot/pkg/domain/model"
	"github.com/standup-lab/jirabot/pkg/domain/types"
)

// Mail sends notifications to the user's own address over SMTP.
type Mail struct {
	addr     string
	from     string
	auth     smtp.Auth
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

var _ Service = &Mail{}

type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func NewMail(cfg *MailConfig) (*Mail, error) {
	if cfg.Host == "" || cfg.From == "" {
		return nil, goerr.New("mail host and from address are required", goerr.T(types.ErrTagConfig))
	}
	port := cfg.Port
	if port == 0 {
		port = 587
	}

	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	return &Mail{
		addr:     fmt.Sprintf("%s:%d", cfg.Host, port),
		from:     cfg.From,
		auth:     auth,
		sendMail: smtp.SendMail,
	}, nil
}

func (m *Mail) send(ctx context.Context, user *model.User, subject, body string) error {
	if user.Email == "" {
		return goerr.New("user has no email address",
			goerr.V("userID", user.ID), goerr.T(types.ErrTagIntegration))
	}

	msg := strings.Join([]string{
		"From: " + m.from,
		"To: " + user.Email,
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")

	if err := m.sendMail(m.addr, m.auth, m.from, []string{user.Email}, []byte(msg)); err != nil {
		return goerr.Wrap(err, "failed to send mail",
			goerr.V("to", user.Email), goerr.T(types.ErrTagIntegration))
	}
	return nil
}

func (m *Mail) NotifySyncFailure(ctx context.Context, user *model.User, issueKeys []string, reason string) error {
	return m.send(ctx, user, "Standup issue sync failed", syncFailureBody(user, issueKeys, reason))
}

func (m *Mail) NotifyMissingUpdate(ctx context.Context, user *model.User) error {
	return m.send(ctx, user, "Standup reminder", missingUpdateBody(user))
}
