package slack_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/projectpilot/pkg/domain/model"
	"github.com/secmon-lab/projectpilot/pkg/service/slack"
)

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		name string
		ts   string
		want string
	}{
		{name: "epoch", ts: "0.000000", want: "1970-01-01 00:00:00"},
		{name: "fraction is dropped", ts: "1740787199.999999", want: "2025-02-28 23:59:59"},
		{name: "midnight", ts: "1740787200.000100", want: "2025-03-01 00:00:00"},
		{name: "no fraction", ts: "1740830645", want: "2025-03-01 12:04:05"},
		{name: "far future", ts: "253402300799.000000", want: "9999-12-31 23:59:59"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := slack.FormatTimestamp(tt.ts)
			gt.NoError(t, err).Required()
			gt.Value(t, got).Equal(tt.want)
		})
	}

	t.Run("invalid timestamp", func(t *testing.T) {
		_, err := slack.FormatTimestamp("yesterday")
		gt.Error(t, err).Is(model.ErrValidation)
	})
}
