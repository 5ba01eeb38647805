package config

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/standup-lab/jirabot/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

// Auth holds CLI flags for token signing
type Auth struct {
	jwtSecret string
}

// Flags returns CLI flags for auth configuration
func (a *Auth) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "jwt-secret",
			Usage:       "HMAC secret for signing access and refresh tokens",
			Sources:     cli.EnvVars("JIRABOT_JWT_SECRET"),
			Destination: &a.jwtSecret,
		},
	}
}

// Secret returns the signing secret. Serving without one is refused.
func (a *Auth) Secret() ([]byte, error) {
	if a.jwtSecret == "" {
		return nil, goerr.New("jwt-secret is required", goerr.T(types.ErrTagConfig))
	}
	if len(a.jwtSecret) < 16 {
		return nil, goerr.New("jwt-secret must be at least 16 bytes", goerr.T(types.ErrTagConfig))
	}
	return []byte(a.jwtSecret), nil
}
