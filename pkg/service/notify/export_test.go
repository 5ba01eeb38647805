package notify

import "net/smtp"

// NewMailForTest builds a Mail with an injected send function.
func NewMailForTest(addr, from string, send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error) *Mail {
	return &Mail{
		addr:     addr,
		from:     from,
		sendMail: send,
	}
}

// NewSlackDMForTest builds a SlackDM on a fake API.
func NewSlackDMForTest(api slackAPI) *SlackDM {
	return &SlackDM{api: api}
}
