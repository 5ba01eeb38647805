package http

import (
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/standup-lab/jirabot/pkg/domain/model/auth"
	"github.com/standup-lab/jirabot/pkg/domain/types"
	"github.com/standup-lab/jirabot/pkg/usecase"
	"github.com/standup-lab/jirabot/pkg/utils/errutil"
)

// chatHandler runs one chat turn for the authenticated user.
func chatHandler(chatUC *usecase.ChatUseCase) http.HandlerFunc {
	type request struct {
		Message string `json:"message"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.UserIDFrom(r.Context())
		if !ok {
			http.Error(w, "Authentication required", http.StatusUnauthorized)
			return
		}

		var req request
		if err := decodeJSON(r, &req); err != nil {
			errutil.HandleHTTP(r.Context(), w, err)
			return
		}
		if req.Message == "" {
			errutil.HandleHTTP(r.Context(), w,
				goerr.New("message is required", goerr.T(types.ErrTagValidation)))
			return
		}

		envelope, err := chatUC.HandleMessage(r.Context(), userID, req.Message)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err)
			return
		}

		respondJSON(r.Context(), w, http.StatusOK, envelope)
	}
}

// greetingHandler serves the conversation opener.
func greetingHandler(greetingUC *usecase.GreetingUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.UserIDFrom(r.Context())
		if !ok {
			http.Error(w, "Authentication required", http.StatusUnauthorized)
			return
		}

		greeting, err := greetingUC.Greet(r.Context(), userID)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err)
			return
		}

		respondJSON(r.Context(), w, http.StatusOK, greeting)
	}
}
