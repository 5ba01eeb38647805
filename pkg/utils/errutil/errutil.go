package errutil

import (
	"context"
	"errors"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/standup-lab/jirabot/pkg/domain/types"
	"github.com/standup-lab/jirabot/pkg/utils/logging"
)

// Handle logs the error with its structured context and reports it to
// Sentry when a hub is configured. It returns the error unchanged so
// callers can keep propagating it.
func Handle(ctx context.Context, err error, msg string) error {
	if err == nil {
		return nil
	}

	logger := logging.From(ctx)

	var ge *goerr.Error
	if errors.As(err, &ge) {
		logger.Error(msg,
			"error", err.Error(),
			"values", ge.Values(),
			"stack", ge.Stacks(),
		)
	} else {
		logger.Error(msg, "error", err.Error())
	}

	// Client-class failures are expected traffic; only internal trouble
	// goes to Sentry.
	if StatusOf(err) < http.StatusInternalServerError {
		return err
	}

	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	if hub.Client() != nil {
		hub.WithScope(func(scope *sentry.Scope) {
			if ge != nil {
				values := sentry.Context{}
				for k, v := range ge.Values() {
					values[k] = v
				}
				scope.SetContext("error values", values)
			}
			hub.CaptureException(err)
		})
	}

	return err
}

// StatusOf maps an error to the HTTP status its category deserves.
// Unclassified errors are treated as internal.
func StatusOf(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case goerr.HasTag(err, types.ErrTagValidation):
		return http.StatusBadRequest
	case goerr.HasTag(err, types.ErrTagConfig):
		return http.StatusBadRequest
	case goerr.HasTag(err, types.ErrTagAuth):
		return http.StatusUnauthorized
	case goerr.HasTag(err, types.ErrTagForbidden):
		return http.StatusForbidden
	case goerr.HasTag(err, types.ErrTagNotFound):
		return http.StatusNotFound
	case goerr.HasTag(err, types.ErrTagConflict):
		return http.StatusConflict
	case goerr.HasTag(err, types.ErrTagTransient):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// HandleHTTP logs the error and writes the response status derived from
// its tags. Internal details are not leaked for 5xx responses.
func HandleHTTP(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		return
	}

	status := StatusOf(err)
	_ = Handle(ctx, err, "HTTP error")

	message := err.Error()
	if status >= http.StatusInternalServerError {
		message = http.StatusText(status)
	}
	http.Error(w, message, status)
}
