package enums

import "fmt"

// TopupStatus tracks the settlement state of a top-up request.
// The only legal transition is requested -> paid, exactly once.
type TopupStatus string

const (
	TopupStatusRequested TopupStatus = "requested"
	TopupStatusPaid      TopupStatus = "paid"
)

var validTopupStatuses = []TopupStatus{
	TopupStatusRequested,
	TopupStatusPaid,
}

// String implements fmt.Stringer.
func (t TopupStatus) String() string {
	return string(t)
}

// IsValid reports whether the value is a known TopupStatus.
func (t TopupStatus) IsValid() bool {
	for _, candidate := range validTopupStatuses {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTopupStatus converts raw input into a TopupStatus.
func ParseTopupStatus(value string) (TopupStatus, error) {
	for _, candidate := range validTopupStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid topup status %q", value)
}
