package topups

import "testing"

func TestFormatDepositCode(t *testing.T) {
	if got := FormatDepositCode(12, 34, 56); got != "12-34-56" {
		t.Fatalf("unexpected code %q", got)
	}
	code := DepositCode{HeadOfficeSeq: 1, StoreSeq: 2, TopupSeq: 3}
	if code.String() != "1-2-3" {
		t.Fatalf("unexpected code %q", code.String())
	}
}

func TestParseDepositCode(t *testing.T) {
	cases := []struct {
		name string
		memo string
		want DepositCode
		ok   bool
	}{
		{name: "bare code", memo: "12-34-56", want: DepositCode{12, 34, 56}, ok: true},
		{name: "surrounded by name", memo: "HONG GILDONG 12-34-56 transfer", want: DepositCode{12, 34, 56}, ok: true},
		{name: "first token wins", memo: "1-2-3 then 4-5-6", want: DepositCode{1, 2, 3}, ok: true},
		{name: "no dashes", memo: "wallet funding", ok: false},
		{name: "two parts only", memo: "12-34 something", ok: false},
		{name: "zero sequence", memo: "0-1-2", ok: false},
		{name: "empty memo", memo: "", ok: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseDepositCode(tc.memo)
			if ok != tc.ok {
				t.Fatalf("ok = %v, want %v", ok, tc.ok)
			}
			if ok && got != tc.want {
				t.Fatalf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}
