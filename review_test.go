package networth

import (
	"strings"
	"testing"
)

func TestCanMarkReviewed(t *testing.T) {
	testCases := []struct {
		name       string
		lines      []BookingLine
		want       bool
		wantReason string // substring of the reason when rejected
	}{
		{
			name: "balanced pair",
			lines: []BookingLine{
				{LedgerID: "1000", Debit: dec("50.00"), Currency: "EUR"},
				{LedgerID: "4000", Credit: dec("50.00"), Currency: "EUR"},
			},
			want: true,
		},
		{
			name: "imbalance rejected with reason",
			lines: []BookingLine{
				{LedgerID: "1000", Debit: dec("50.00"), Currency: "EUR"},
				{LedgerID: "4000", Credit: dec("49.00"), Currency: "EUR"},
			},
			want:       false,
			wantReason: "EUR",
		},
		{
			name: "difference within epsilon passes",
			lines: []BookingLine{
				{LedgerID: "1000", Debit: dec("10.0005"), Currency: "EUR"},
				{LedgerID: "4000", Credit: dec("10.00"), Currency: "EUR"},
			},
			want: true,
		},
		{
			name: "difference just above epsilon fails",
			lines: []BookingLine{
				{LedgerID: "1000", Debit: dec("10.002"), Currency: "EUR"},
				{LedgerID: "4000", Credit: dec("10.00"), Currency: "EUR"},
			},
			want:       false,
			wantReason: "out of balance",
		},
		{
			name: "currencies balance independently",
			lines: []BookingLine{
				{LedgerID: "1000", Debit: dec("50.00"), Currency: "EUR"},
				{LedgerID: "4000", Credit: dec("50.00"), Currency: "EUR"},
				{LedgerID: "1100", Debit: dec("20.00"), Currency: "USD"},
				{LedgerID: "4100", Credit: dec("20.00"), Currency: "USD"},
			},
			want: true,
		},
		{
			name: "one imbalanced currency fails the whole booking",
			lines: []BookingLine{
				{LedgerID: "1000", Debit: dec("50.00"), Currency: "EUR"},
				{LedgerID: "4000", Credit: dec("50.00"), Currency: "EUR"},
				{LedgerID: "1100", Debit: dec("20.00"), Currency: "USD"},
			},
			want:       false,
			wantReason: "USD",
		},
		{
			name: "missing currency counts as EUR",
			lines: []BookingLine{
				{LedgerID: "1000", Debit: dec("50.00")},
				{LedgerID: "4000", Credit: dec("50.00"), Currency: "EUR"},
			},
			want: true,
		},
		{
			name: "zero lines do not disturb the balance",
			lines: []BookingLine{
				{LedgerID: "1000", Debit: dec("100.00"), Currency: "EUR"},
				{LedgerID: "4000", Credit: dec("100.00"), Currency: "EUR"},
				{LedgerID: "4100", Currency: "EUR"},
			},
			want: true,
		},
		{
			name:  "no lines",
			lines: nil,
			want:  true,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, reason := CanMarkReviewed(tc.lines)
			if got != tc.want {
				t.Errorf("CanMarkReviewed() = %v (%q), want %v", got, reason, tc.want)
			}
			if !tc.want && !strings.Contains(reason, tc.wantReason) {
				t.Errorf("reason %q does not mention %q", reason, tc.wantReason)
			}
			if tc.want && reason != "" {
				t.Errorf("approval should carry no reason, got %q", reason)
			}
		})
	}
}
