package clickup

import (
	"encoding/json"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/projectpilot/pkg/domain/model"
)

// DateToEpochMillis converts YYYY-MM-DD to milliseconds since epoch at UTC midnight
func DateToEpochMillis(date string) (int64, error) {
	t, err := time.ParseInLocation(time.DateOnly, date, time.UTC)
	if err != nil {
		return 0, goerr.Wrap(model.ErrValidation, "due date must be YYYY-MM-DD", goerr.V("due_date", date))
	}
	return t.UnixMilli(), nil
}

// EpochMillisToDate converts milliseconds since epoch to YYYY-MM-DD in UTC
func EpochMillisToDate(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(time.DateOnly)
}

// DueDateString renders the task's due date as YYYY-MM-DD, or "" if the task has none
func (t *Task) DueDateString() string {
	if t.DueDate == "" {
		return ""
	}
	ms, err := json.Number(t.DueDate).Int64()
	if err != nil {
		return ""
	}
	return EpochMillisToDate(ms)
}
