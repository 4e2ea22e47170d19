package networth

import (
	"fmt"
	"maps"
	"slices"

	"github.com/shopspring/decimal"
)

// balanceEpsilon is the tolerance when comparing debit and credit totals.
var balanceEpsilon = decimal.New(1, -3) // 0.001

// CanMarkReviewed decides whether a booking may be marked reviewed: for
// every currency present in its lines, total debit and total credit must
// agree within 0.001. Lines without a currency count as DefaultCurrency.
//
// Being out of balance is an expected state during data entry, so a
// rejection is a decision with a human-readable reason, not an error. The
// gate has no side effects; persisting the reviewed timestamp on approval
// is the caller's concern.
func CanMarkReviewed(lines []BookingLine) (bool, string) {
	type total struct{ debit, credit decimal.Decimal }
	totals := make(map[string]*total)
	for _, l := range lines {
		cur := l.Currency
		if cur == "" {
			cur = DefaultCurrency
		}
		t := totals[cur]
		if t == nil {
			t = &total{}
			totals[cur] = t
		}
		t.debit = t.debit.Add(l.Debit)
		t.credit = t.credit.Add(l.Credit)
	}

	for _, cur := range slices.Sorted(maps.Keys(totals)) {
		t := totals[cur]
		if t.debit.Sub(t.credit).Abs().GreaterThan(balanceEpsilon) {
			return false, fmt.Sprintf("booking is out of balance for %s: debit %s != credit %s", cur, t.debit, t.credit)
		}
	}
	return true, ""
}
