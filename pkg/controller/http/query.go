package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/projectpilot/pkg/domain/model"
)

type queryRequest struct {
	Query     string `json:"query"`
	ProjectID *int64 `json:"project_id"`
}

type queryResponse struct {
	Response string `json:"response"`
}

type saveChatRequest struct {
	Query     string `json:"query"`
	Response  string `json:"response"`
	ProjectID *int64 `json:"project_id"`
}

type chatResponse struct {
	ID        string    `json:"id"`
	Query     string    `json:"query"`
	Response  string    `json:"response"`
	ProjectID *int64    `json:"project_id"`
	CreatedAt time.Time `json:"created_at"`
}

type chatListResponse struct {
	Chats []chatResponse `json:"chats"`
}

func toChatResponse(c *model.ChatRecord) chatResponse {
	return chatResponse{
		ID:        c.ID.String(),
		Query:     c.Query,
		Response:  c.Response,
		ProjectID: c.ProjectID,
		CreatedAt: c.CreatedAt,
	}
}

// queryHandler answers a natural language query; vendor failures arrive as response text
func (s *Server) queryHandler(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(r.Context(), w, err)
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		handleError(r.Context(), w, goerr.Wrap(model.ErrValidation, "query is required"))
		return
	}

	resp, err := s.uc.Query.Route(r.Context(), callerID(r), req.Query, req.ProjectID)
	if err != nil {
		handleError(r.Context(), w, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, queryResponse{Response: resp})
}

func (s *Server) saveChatHandler(w http.ResponseWriter, r *http.Request) {
	var req saveChatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(r.Context(), w, err)
		return
	}

	record, err := s.uc.History.Record(r.Context(), callerID(r), req.Query, req.Response, req.ProjectID)
	if err != nil {
		handleError(r.Context(), w, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, toChatResponse(record))
}

func (s *Server) getChatsHandler(w http.ResponseWriter, r *http.Request) {
	records, err := s.uc.History.List(r.Context(), callerID(r))
	if err != nil {
		handleError(r.Context(), w, err)
		return
	}

	resp := chatListResponse{Chats: make([]chatResponse, len(records))}
	for i, c := range records {
		resp.Chats[i] = toChatResponse(c)
	}
	writeJSON(r.Context(), w, http.StatusOK, resp)
}
