package errutil

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/projectpilot/pkg/utils/logging"
)

// Handle logs err with msg, including goerr values and stacks when present.
func Handle(ctx context.Context, err error, msg string) {
	if err == nil {
		return
	}
	logging.From(ctx).Error(msg, attrs(err)...)
}

// HandleHTTP logs err and writes a JSON error body with statusCode.
// Client errors are logged at warn level; server errors at error level.
func HandleHTTP(ctx context.Context, w http.ResponseWriter, err error, statusCode int) {
	if err == nil {
		return
	}

	logger := logging.From(ctx)
	args := append([]any{"status", statusCode}, attrs(err)...)
	if statusCode >= http.StatusInternalServerError {
		logger.Error("HTTP error", args...)
	} else {
		logger.Warn("HTTP error", args...)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(map[string]string{"detail": err.Error()}); err != nil {
		logger.Error("failed to write error response", slog.Any("error", err))
	}
}

func attrs(err error) []any {
	var ge *goerr.Error
	if errors.As(err, &ge) {
		return []any{
			"error", err.Error(),
			"values", ge.Values(),
			"stack", ge.Stacks(),
		}
	}
	return []any{"error", err.Error()}
}
