package types

// Vendor identifies an external SaaS integration bound to a project
type Vendor string

const (
	VendorClickUp Vendor = "clickup"
	VendorSlack   Vendor = "slack"
)

// IsValid checks if the vendor is supported
func (v Vendor) IsValid() bool {
	switch v {
	case VendorClickUp, VendorSlack:
		return true
	default:
		return false
	}
}

// DisplayName returns the vendor name as shown to users
func (v Vendor) DisplayName() string {
	switch v {
	case VendorClickUp:
		return "ClickUp"
	case VendorSlack:
		return "Slack"
	default:
		return string(v)
	}
}

func (v Vendor) String() string {
	return string(v)
}
