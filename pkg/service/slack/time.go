package slack

import (
	"strconv"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/projectpilot/pkg/domain/model"
)

// TimestampLayout is the rendering of message timestamps
const TimestampLayout = "2006-01-02 15:04:05"

// FormatTimestamp renders a message ts ("1709290800.000200") as YYYY-MM-DD HH:MM:SS in UTC.
// The fractional part is dropped.
func FormatTimestamp(ts string) (string, error) {
	sec, _, _ := strings.Cut(ts, ".")
	n, err := strconv.ParseInt(sec, 10, 64)
	if err != nil {
		return "", goerr.Wrap(model.ErrValidation, "invalid slack timestamp", goerr.V("ts", ts))
	}
	return time.Unix(n, 0).UTC().Format(TimestampLayout), nil
}
