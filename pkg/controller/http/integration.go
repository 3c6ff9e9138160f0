package http

import (
	"net/http"

	"github.com/secmon-lab/projectpilot/pkg/domain/model"
	"github.com/secmon-lab/projectpilot/pkg/usecase"
)

type clickUpTokenRequest struct {
	APIToken string `json:"api_token"`
}

type clickUpListRequest struct {
	ListID string `json:"list_id"`
}

type slackConfigRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	RedirectURI  string `json:"redirect_uri"`
}

// integrationResponse reports what is configured without echoing secrets
type integrationResponse struct {
	ProjectID  int64  `json:"project_id"`
	Vendor     string `json:"vendor"`
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	ListID     string `json:"list_id,omitempty"`
	TeamID     string `json:"team_id,omitempty"`
}

func toIntegrationResponse(c *model.Credential) integrationResponse {
	resp := integrationResponse{ProjectID: c.ProjectID, Vendor: c.Vendor.String()}
	switch {
	case c.ClickUp != nil:
		resp.Configured = c.ClickUp.ListID != ""
		resp.Connected = c.ClickUp.APIToken != ""
		resp.ListID = c.ClickUp.ListID
	case c.Slack != nil:
		resp.Configured = c.Slack.ClientID != ""
		resp.Connected = c.Slack.AccessToken != ""
		resp.TeamID = c.Slack.TeamID
	}
	return resp
}

func (s *Server) clickUpTokenHandler(w http.ResponseWriter, r *http.Request) {
	id, err := projectIDParam(r)
	if err != nil {
		handleError(r.Context(), w, err)
		return
	}
	var req clickUpTokenRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(r.Context(), w, err)
		return
	}

	cred, err := s.uc.Integration.SetClickUpToken(r.Context(), callerID(r), id, req.APIToken)
	if err != nil {
		handleError(r.Context(), w, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, toIntegrationResponse(cred))
}

func (s *Server) clickUpListHandler(w http.ResponseWriter, r *http.Request) {
	id, err := projectIDParam(r)
	if err != nil {
		handleError(r.Context(), w, err)
		return
	}
	var req clickUpListRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(r.Context(), w, err)
		return
	}

	cred, err := s.uc.Integration.SetClickUpList(r.Context(), callerID(r), id, req.ListID)
	if err != nil {
		handleError(r.Context(), w, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, toIntegrationResponse(cred))
}

func (s *Server) slackConfigHandler(w http.ResponseWriter, r *http.Request) {
	id, err := projectIDParam(r)
	if err != nil {
		handleError(r.Context(), w, err)
		return
	}
	var req slackConfigRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(r.Context(), w, err)
		return
	}

	cred, err := s.uc.Integration.ConfigureSlack(r.Context(), callerID(r), id, usecase.SlackApp{
		ClientID:     req.ClientID,
		ClientSecret: req.ClientSecret,
		RedirectURI:  req.RedirectURI,
	})
	if err != nil {
		handleError(r.Context(), w, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, toIntegrationResponse(cred))
}

func (s *Server) slackOAuthURLHandler(w http.ResponseWriter, r *http.Request) {
	id, err := projectIDParam(r)
	if err != nil {
		handleError(r.Context(), w, err)
		return
	}

	url, err := s.uc.Integration.SlackAuthorizeURL(r.Context(), callerID(r), id)
	if err != nil {
		handleError(r.Context(), w, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{"url": url})
}

// slackCallbackHandler is reached by the browser after Slack authorization; the signed state identifies the project
func (s *Server) slackCallbackHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if e := q.Get("error"); e != "" {
		writeJSON(r.Context(), w, http.StatusBadRequest, map[string]string{"detail": "Slack authorization was not granted: " + e})
		return
	}

	cred, err := s.uc.Integration.CompleteSlackOAuth(r.Context(), q.Get("code"), q.Get("state"))
	if err != nil {
		handleError(r.Context(), w, err)
		return
	}

	if s.slackInstalledURL != "" {
		http.Redirect(w, r, s.slackInstalledURL, http.StatusFound)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, toIntegrationResponse(cred))
}
