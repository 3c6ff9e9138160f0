package types

import "strings"

// Intent is the routing category of a natural language query
type Intent string

const (
	IntentTask    Intent = "task"
	IntentChat    Intent = "chat"
	IntentGeneral Intent = "general"
)

// ClassifyIntent picks an Intent by keyword. "clickup" wins over "slack" when both appear.
func ClassifyIntent(query string) Intent {
	q := strings.ToLower(query)
	switch {
	case strings.Contains(q, string(VendorClickUp)):
		return IntentTask
	case strings.Contains(q, string(VendorSlack)):
		return IntentChat
	default:
		return IntentGeneral
	}
}

// Vendor returns the vendor that serves the intent. General has none.
func (i Intent) Vendor() (Vendor, bool) {
	switch i {
	case IntentTask:
		return VendorClickUp, true
	case IntentChat:
		return VendorSlack, true
	default:
		return "", false
	}
}

func (i Intent) String() string {
	return string(i)
}
