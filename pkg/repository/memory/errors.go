package memory

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/standup-lab/jirabot/pkg/domain/types"
)

var (
	ErrNotFound = goerr.New("not found", goerr.T(types.ErrTagNotFound))
	ErrConflict = goerr.New("already exists", goerr.T(types.ErrTagConflict))
)
