package http

import (
	"net/http"
	"time"

	"github.com/secmon-lab/projectpilot/pkg/domain/model"
)

type projectRequest struct {
	Name        string `json:"name"`
	Department  string `json:"department"`
	Client      string `json:"client"`
	Deadline    string `json:"deadline"`
	Description string `json:"description"`
}

func (p projectRequest) toModel() *model.Project {
	return &model.Project{
		Name:        p.Name,
		Department:  p.Department,
		Client:      p.Client,
		Deadline:    p.Deadline,
		Description: p.Description,
	}
}

type projectResponse struct {
	ID              int64     `json:"id"`
	OwnerID         string    `json:"owner_id"`
	Name            string    `json:"name"`
	Department      string    `json:"department"`
	Client          string    `json:"client"`
	Deadline        string    `json:"deadline"`
	Description     string    `json:"description"`
	DateCreated     time.Time `json:"date_created"`
	DateLastUpdated time.Time `json:"date_last_updated"`
}

func toProjectResponse(p *model.Project) projectResponse {
	return projectResponse{
		ID:              p.ID,
		OwnerID:         p.OwnerID.String(),
		Name:            p.Name,
		Department:      p.Department,
		Client:          p.Client,
		Deadline:        p.Deadline,
		Description:     p.Description,
		DateCreated:     p.CreatedAt,
		DateLastUpdated: p.UpdatedAt,
	}
}

func (s *Server) createProjectHandler(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(r.Context(), w, err)
		return
	}

	project, err := s.uc.Project.Create(r.Context(), callerID(r), req.toModel())
	if err != nil {
		handleError(r.Context(), w, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, toProjectResponse(project))
}

func (s *Server) listProjectsHandler(w http.ResponseWriter, r *http.Request) {
	projects, err := s.uc.Project.List(r.Context(), callerID(r))
	if err != nil {
		handleError(r.Context(), w, err)
		return
	}

	resp := make([]projectResponse, len(projects))
	for i, p := range projects {
		resp[i] = toProjectResponse(p)
	}
	writeJSON(r.Context(), w, http.StatusOK, resp)
}

func (s *Server) getProjectHandler(w http.ResponseWriter, r *http.Request) {
	id, err := projectIDParam(r)
	if err != nil {
		handleError(r.Context(), w, err)
		return
	}

	project, err := s.uc.Project.Get(r.Context(), callerID(r), id)
	if err != nil {
		handleError(r.Context(), w, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, toProjectResponse(project))
}

func (s *Server) updateProjectHandler(w http.ResponseWriter, r *http.Request) {
	id, err := projectIDParam(r)
	if err != nil {
		handleError(r.Context(), w, err)
		return
	}
	var req projectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(r.Context(), w, err)
		return
	}

	project, err := s.uc.Project.Update(r.Context(), callerID(r), id, req.toModel())
	if err != nil {
		handleError(r.Context(), w, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, toProjectResponse(project))
}

func (s *Server) deleteProjectHandler(w http.ResponseWriter, r *http.Request) {
	id, err := projectIDParam(r)
	if err != nil {
		handleError(r.Context(), w, err)
		return
	}

	if err := s.uc.Project.Delete(r.Context(), callerID(r), id); err != nil {
		handleError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
