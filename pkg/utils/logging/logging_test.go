package logging_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/projectpilot/pkg/utils/logging"
)

func TestFrom(t *testing.T) {
	t.Run("falls back to default logger", func(t *testing.T) {
		gt.Value(t, logging.From(context.Background())).Equal(logging.Default())
	})

	t.Run("returns logger stored in context", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, nil))
		ctx := logging.With(context.Background(), logger)

		logging.From(ctx).Info("hello", "k", "v")
		gt.String(t, buf.String()).Contains(`"msg":"hello"`)
	})
}

func TestSetDefault(t *testing.T) {
	orig := logging.Default()
	t.Cleanup(func() { logging.SetDefault(orig) })

	logging.SetDefault(nil)
	gt.Value(t, logging.Default()).Equal(orig)

	var buf bytes.Buffer
	logging.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	logging.Default().Info("replaced")
	gt.String(t, buf.String()).Contains("replaced")
}
