package networth

import (
	"time"

	"github.com/shopspring/decimal"
)

// Booking is a double-entry journal entry: a dated group of lines that
// should sum to zero per currency. A booking created from a transaction
// line keeps a link to it; at most one booking exists per source line.
// Bookings are never deleted automatically, but their rule-generated lines
// mutate when rules change.
type Booking struct {
	ID             string     `json:"id"`
	Date           Date       `json:"date"`
	Reference      string     `json:"reference"`
	LineID         string     `json:"lineId,omitempty"` // originating transaction line, empty for manual bookings
	CreatedAt      time.Time  `json:"createdAt"`
	RequiresReview bool       `json:"requiresReview"`
	ReviewedAt     *time.Time `json:"reviewedAt,omitempty"` // presence means reviewed
	Lines          []BookingLine
}

// BookingLine is one leg of a booking. Conventionally exactly one of Debit
// and Credit is nonzero, but zero/zero lines exist as placeholders for
// manual completion. RuleID identifies the rule that last generated the
// line; lines without one were entered manually and are never touched by
// synchronization.
type BookingLine struct {
	ID             string          `json:"id"`
	BookingID      string          `json:"bookingId"`
	Number         int             `json:"number"` // zero-based, contiguous, display order only
	LedgerID       string          `json:"ledgerId"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	Currency       string          `json:"currency"`
	Description    string          `json:"description"`
	RuleID         string          `json:"ruleId,omitempty"`
	RequiresReview bool            `json:"requiresReview"`
	ReviewedAt     *time.Time      `json:"reviewedAt,omitempty"`
}

// UsesLedger reports whether any line of the booking already targets the
// given ledger account. No two lines of a booking may target the same one.
func (b *Booking) UsesLedger(ledgerID string) bool {
	for _, l := range b.Lines {
		if l.LedgerID == ledgerID {
			return true
		}
	}
	return false
}

// Renumber reassigns contiguous zero-based line numbers in slice order.
func (b *Booking) Renumber() {
	for i := range b.Lines {
		b.Lines[i].Number = i
	}
}

// Reviewed reports whether the booking has been marked reviewed.
func (b *Booking) Reviewed() bool { return b.ReviewedAt != nil }
