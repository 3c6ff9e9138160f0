package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/projectpilot/pkg/domain/model"
	"github.com/secmon-lab/projectpilot/pkg/usecase"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	// HashedPassword is accepted as an alias of Password for older clients
	HashedPassword string `json:"hashed_password"`
}

func (c credentialsRequest) password() string {
	if c.Password != "" {
		return c.Password
	}
	return c.HashedPassword
}

type tokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

func toTokenResponse(t *usecase.Token) tokenResponse {
	return tokenResponse{AccessToken: t.AccessToken, TokenType: t.TokenType, ExpiresAt: t.ExpiresAt}
}

func (s *Server) registerHandler(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(r.Context(), w, err)
		return
	}

	_, token, err := s.uc.Auth.Register(r.Context(), req.Username, req.password())
	if err != nil {
		handleError(r.Context(), w, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusCreated, toTokenResponse(token))
}

// tokenHandler accepts OAuth2 password-grant form fields or a JSON body
func (s *Server) tokenHandler(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := decodeJSON(w, r, &req); err != nil {
			handleError(r.Context(), w, err)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			handleError(r.Context(), w, goerr.Wrap(model.ErrValidation, "invalid form body", goerr.V("error", err.Error())))
			return
		}
		req.Username = r.PostFormValue("username")
		req.Password = r.PostFormValue("password")
	}

	_, token, err := s.uc.Auth.Login(r.Context(), req.Username, req.password())
	if err != nil {
		handleError(r.Context(), w, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, toTokenResponse(token))
}

func (s *Server) meHandler(w http.ResponseWriter, r *http.Request) {
	user, err := s.uc.Auth.Me(r.Context(), callerID(r))
	if err != nil {
		handleError(r.Context(), w, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, userResponse{
		ID:        user.ID.String(),
		Username:  user.Name,
		CreatedAt: user.CreatedAt,
	})
}
