package enums

import "fmt"

// LedgerEntryType classifies a balance-affecting ledger entry.
type LedgerEntryType string

const (
	// LedgerEntryTypeCharge is a wallet credit funded by a top-up.
	LedgerEntryTypeCharge LedgerEntryType = "charge"
	// LedgerEntryTypeOrderDebit is a wallet debit settling an order.
	LedgerEntryTypeOrderDebit LedgerEntryType = "order_debit"
)

var validLedgerEntryTypes = []LedgerEntryType{
	LedgerEntryTypeCharge,
	LedgerEntryTypeOrderDebit,
}

// String implements fmt.Stringer.
func (l LedgerEntryType) String() string {
	return string(l)
}

// IsValid reports whether the value is a known LedgerEntryType.
func (l LedgerEntryType) IsValid() bool {
	for _, candidate := range validLedgerEntryTypes {
		if candidate == l {
			return true
		}
	}
	return false
}

// ParseLedgerEntryType converts raw input into a LedgerEntryType.
func ParseLedgerEntryType(value string) (LedgerEntryType, error) {
	for _, candidate := range validLedgerEntryTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid ledger entry type %q", value)
}
