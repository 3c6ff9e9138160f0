package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/projectpilot/pkg/domain/model"
	"github.com/secmon-lab/projectpilot/pkg/utils/errutil"
	"github.com/secmon-lab/projectpilot/pkg/utils/logging"
)

// maxBodySize bounds JSON request bodies
const maxBodySize = 1 << 20

type messageResponse struct {
	Message string `json:"message"`
}

// statusOf maps the error taxonomy to an HTTP status
func statusOf(err error) int {
	switch {
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, model.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, model.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, model.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrConfigurationMissing):
		return http.StatusPreconditionFailed
	case errors.Is(err, model.ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func handleError(ctx context.Context, w http.ResponseWriter, err error) {
	errutil.HandleHTTP(ctx, w, err, statusOf(err))
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.From(ctx).Error("failed to write response", "error", err)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err := dec.Decode(dst); err != nil {
		return goerr.Wrap(model.ErrValidation, "invalid JSON body", goerr.V("error", err.Error()))
	}
	return nil
}

func projectIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "projectID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, goerr.Wrap(model.ErrValidation, "invalid project id", goerr.V(model.ProjectIDKey, raw))
	}
	return id, nil
}
