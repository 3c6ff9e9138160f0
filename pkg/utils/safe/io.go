package safe

import (
	"context"
	"io"
	"log/slog"

	"github.com/secmon-lab/projectpilot/pkg/utils/logging"
)

// Close closes closer and logs a failure instead of returning it. nil is a no-op.
func Close(ctx context.Context, closer io.Closer) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.From(ctx).Warn("failed to close", slog.Any("error", err))
	}
}

// Drain discards the rest of r so that the underlying connection can be reused, then closes it.
func Drain(ctx context.Context, r io.ReadCloser) {
	if r == nil {
		return
	}
	if _, err := io.Copy(io.Discard, r); err != nil {
		logging.From(ctx).Warn("failed to drain", slog.Any("error", err))
	}
	Close(ctx, r)
}
