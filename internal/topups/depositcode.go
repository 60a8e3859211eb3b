package topups

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// DepositCode is the three-sequence token a depositor embeds in the bank
// transfer memo: "{headOfficeSeq}-{storeSeq}-{topupSeq}". Uniqueness rides
// on the topup sequence alone.
type DepositCode struct {
	HeadOfficeSeq int64
	StoreSeq      int64
	TopupSeq      int64
}

var depositCodePattern = regexp.MustCompile(`[0-9]+-[0-9]+-[0-9]+`)

// FormatDepositCode renders the canonical dash-joined form.
func FormatDepositCode(headOfficeSeq, storeSeq, topupSeq int64) string {
	return fmt.Sprintf("%d-%d-%d", headOfficeSeq, storeSeq, topupSeq)
}

func (c DepositCode) String() string {
	return FormatDepositCode(c.HeadOfficeSeq, c.StoreSeq, c.TopupSeq)
}

// ParseDepositCode scans free-form memo text for the first three-integer
// dash-delimited token. Depositors pad memos with names and bank noise, so
// anything around the token is ignored.
func ParseDepositCode(memo string) (DepositCode, bool) {
	match := depositCodePattern.FindString(memo)
	if match == "" {
		return DepositCode{}, false
	}
	parts := strings.SplitN(match, "-", 3)
	var seqs [3]int64
	for i, part := range parts {
		seq, err := strconv.ParseInt(part, 10, 64)
		if err != nil || seq <= 0 {
			return DepositCode{}, false
		}
		seqs[i] = seq
	}
	return DepositCode{HeadOfficeSeq: seqs[0], StoreSeq: seqs[1], TopupSeq: seqs[2]}, true
}
