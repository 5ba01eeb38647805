package http

import (
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/standup-lab/jirabot/pkg/domain/types"
	"github.com/standup-lab/jirabot/pkg/usecase"
	"github.com/standup-lab/jirabot/pkg/utils/errutil"
)

type userResponse struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
}

type tokenResponse struct {
	Access  string       `json:"access"`
	Refresh string       `json:"refresh"`
	User    userResponse `json:"user"`
}

// tokenHandler exchanges a username and password for a JWT pair.
func tokenHandler(authUC *usecase.AuthUseCase) http.HandlerFunc {
	type request struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := decodeJSON(r, &req); err != nil {
			errutil.HandleHTTP(r.Context(), w, err)
			return
		}
		if req.Username == "" || req.Password == "" {
			errutil.HandleHTTP(r.Context(), w,
				goerr.New("username and password are required", goerr.T(types.ErrTagValidation)))
			return
		}

		pair, user, err := authUC.IssueTokens(r.Context(), req.Username, req.Password)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err)
			return
		}

		respondJSON(r.Context(), w, http.StatusOK, tokenResponse{
			Access:  pair.Access,
			Refresh: pair.Refresh,
			User: userResponse{
				ID:          user.ID.String(),
				Username:    user.Username,
				Email:       user.Email,
				DisplayName: user.DisplayName,
			},
		})
	}
}

// refreshHandler trades a refresh token for a new access token.
func refreshHandler(authUC *usecase.AuthUseCase) http.HandlerFunc {
	type request struct {
		Refresh string `json:"refresh"`
	}
	type response struct {
		Access string `json:"access"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := decodeJSON(r, &req); err != nil {
			errutil.HandleHTTP(r.Context(), w, err)
			return
		}
		if req.Refresh == "" {
			errutil.HandleHTTP(r.Context(), w,
				goerr.New("refresh token is required", goerr.T(types.ErrTagValidation)))
			return
		}

		access, err := authUC.Refresh(r.Context(), req.Refresh)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err)
			return
		}

		respondJSON(r.Context(), w, http.StatusOK, response{Access: access})
	}
}
