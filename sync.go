package networth

import (
	"fmt"
	"slices"
	"strings"
)

// Resync re-applies the current rule set to an existing booking. For every
// matching contra rule it removes the booking lines that rule previously
// generated and expands its line items again, deduplicating against the
// lines that remain (the own-account line, manual lines, and lines kept
// from other rules). Manual lines and the own-account line are never
// touched. When no rule matches, the booking is left as it is.
//
// Resync is idempotent: a second call with an unchanged rule set changes
// nothing. It reports whether any line was added or removed; when it
// changed a previously reviewed booking, the reviewed mark is cleared so
// the booking passes review again.
func (e *Engine) Resync(b *Booking, line TransactionLine) (bool, error) {
	matched, err := e.MatchContraRules(line)
	if err != nil {
		return false, err
	}
	if len(matched) == 0 {
		return false, nil
	}

	own, ok := ownLine(b)
	if !ok {
		return false, fmt.Errorf("booking %s has no own-account line", b.ID)
	}

	// Work on a copy: a reference failure must not leave the booking half
	// synchronized.
	work := *b
	work.Lines = slices.Clone(b.Lines)

	// Drop every matched rule's previous lines before expanding any of
	// them: a rule edit can move one rule onto a ledger another matched
	// rule booked to, and deduplication must only see surviving lines.
	matchedIDs := make(map[string]bool, len(matched))
	for _, r := range matched {
		matchedIDs[r.ID] = true
	}
	work.Lines = slices.DeleteFunc(work.Lines, func(l BookingLine) bool {
		return l.RuleID != "" && matchedIDs[l.RuleID]
	})

	for _, r := range matched {
		for _, item := range r.Items {
			if work.UsesLedger(item.LedgerID) {
				continue
			}
			contra, err := e.expandItem(&work, line, r, item, own)
			if err != nil {
				return false, err
			}
			work.Lines = append(work.Lines, contra)
		}
	}
	work.Renumber()

	if lineSignature(work.Lines) == lineSignature(b.Lines) {
		return false, nil
	}
	b.Lines = work.Lines
	b.ReviewedAt = nil
	return true, nil
}

// ownLine returns the booking's own-account line, which is always line 0 of
// a booking created from a transaction line.
func ownLine(b *Booking) (BookingLine, bool) {
	for _, l := range b.Lines {
		if l.Number == 0 {
			return l, true
		}
	}
	return BookingLine{}, false
}

// lineSignature reduces a line set to an order-independent fingerprint, so
// Resync can tell a real change from a mere reshuffle.
func lineSignature(lines []BookingLine) string {
	sigs := make([]string, 0, len(lines))
	for _, l := range lines {
		sigs = append(sigs, strings.Join([]string{
			l.LedgerID, l.Debit.String(), l.Credit.String(), l.Currency, l.RuleID,
		}, "|"))
	}
	slices.Sort(sigs)
	return strings.Join(sigs, "\n")
}

// ResyncItem pairs an existing booking with its originating transaction
// line for bulk reprocessing.
type ResyncItem struct {
	Booking *Booking
	Line    TransactionLine
}

// LineError records a failure for one transaction line of a bulk operation.
type LineError struct {
	LineID string
	Err    error
}

func (e LineError) Error() string { return fmt.Sprintf("line %s: %v", e.LineID, e.Err) }

// ResyncAll re-applies the rules to many bookings. Failures are isolated
// per line: one unresolvable line does not abort the batch. It returns the
// bookings that changed and the per-line errors.
func (e *Engine) ResyncAll(items []ResyncItem) (changed []*Booking, errs []LineError) {
	for _, it := range items {
		ok, err := e.Resync(it.Booking, it.Line)
		if err != nil {
			errs = append(errs, LineError{LineID: it.Line.ID, Err: err})
			continue
		}
		if ok {
			changed = append(changed, it.Booking)
		}
	}
	return changed, errs
}
