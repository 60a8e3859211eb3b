package enums

// HeadOfficeStatus tracks whether a head office tenant is live.
type HeadOfficeStatus string

const (
	HeadOfficeStatusActive   HeadOfficeStatus = "active"
	HeadOfficeStatusInactive HeadOfficeStatus = "inactive"
)

var validHeadOfficeStatuses = []HeadOfficeStatus{
	HeadOfficeStatusActive,
	HeadOfficeStatusInactive,
}

// String implements fmt.Stringer.
func (h HeadOfficeStatus) String() string {
	return string(h)
}

// IsValid reports whether the value is a known HeadOfficeStatus.
func (h HeadOfficeStatus) IsValid() bool {
	for _, candidate := range validHeadOfficeStatuses {
		if candidate == h {
			return true
		}
	}
	return false
}
