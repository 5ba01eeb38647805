package usecase

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/standup-lab/jirabot/pkg/domain/types"
)

// Sentinel errors of the use case layer. Tags drive the HTTP status
// mapping in errutil.StatusOf.
var (
	ErrInvalidCredentials = goerr.New("invalid credentials", goerr.T(types.ErrTagAuth))
	ErrInvalidToken       = goerr.New("invalid token", goerr.T(types.ErrTagAuth))
	ErrJiraNotLinked      = goerr.New("jira account is not linked to this user", goerr.T(types.ErrTagConfig))
	ErrUsernameTaken      = goerr.New("username is already taken", goerr.T(types.ErrTagConflict))
)
