package enums

// LedgerRefType names the record a ledger entry points back to.
type LedgerRefType string

const (
	LedgerRefTypeTopup LedgerRefType = "topup"
	LedgerRefTypeBank  LedgerRefType = "bank"
	LedgerRefTypeOrder LedgerRefType = "order"
)

var validLedgerRefTypes = []LedgerRefType{
	LedgerRefTypeTopup,
	LedgerRefTypeBank,
	LedgerRefTypeOrder,
}

// String implements fmt.Stringer.
func (l LedgerRefType) String() string {
	return string(l)
}

// IsValid reports whether the value is a known LedgerRefType.
func (l LedgerRefType) IsValid() bool {
	for _, candidate := range validLedgerRefTypes {
		if candidate == l {
			return true
		}
	}
	return false
}
