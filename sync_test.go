package networth

import (
	"testing"
	"time"
)

// buildSyncFixture creates a booking from the groceries line with one contra
// rule, plus a manually added line.
func buildSyncFixture(t *testing.T) (*Engine, *fakeStore, *Booking) {
	t.Helper()
	rule := NewSimpleRule("r1", "groceries", FieldContraAccountName, OpContains, "heijn",
		LineItem{LedgerID: "4000", Amount: OppositeOfFirstLine})
	e, s := setupEngine(t, rule)

	b, _, err := e.BuildBooking(groceries(), BuildOptions{})
	if err != nil {
		t.Fatalf("BuildBooking() error: %v", err)
	}

	manual := BookingLine{
		ID:        "manual-1",
		BookingID: b.ID,
		LedgerID:  "4200",
		Debit:     dec("1.00"),
		Currency:  "EUR",
	}
	b.Lines = append(b.Lines, manual)
	b.Renumber()
	return e, s, b
}

func TestResyncIsIdempotent(t *testing.T) {
	e, _, b := buildSyncFixture(t)

	changed, err := e.Resync(b, groceries())
	if err != nil {
		t.Fatalf("Resync() error: %v", err)
	}
	if changed {
		t.Error("first resync with unchanged rules reported a change")
	}

	changed, err = e.Resync(b, groceries())
	if err != nil {
		t.Fatalf("second Resync() error: %v", err)
	}
	if changed {
		t.Error("second resync reported a change")
	}
}

func TestResyncAppliesRuleEdit(t *testing.T) {
	e, s, b := buildSyncFixture(t)

	// The user redirects the rule to another ledger account.
	s.rules[0].Items = []LineItem{{LedgerID: "4100", Amount: OppositeOfFirstLine}}

	changed, err := e.Resync(b, groceries())
	if err != nil {
		t.Fatalf("Resync() error: %v", err)
	}
	if !changed {
		t.Fatal("resync after a rule edit must report a change")
	}

	var ledgers []string
	for _, l := range b.Lines {
		ledgers = append(ledgers, l.LedgerID)
		if l.Number != len(ledgers)-1 {
			t.Errorf("line numbers not contiguous: %v", b.Lines)
		}
	}
	// Own line and the manual line survive; only the rule line moved.
	want := map[string]bool{"1000": true, "4100": true, "4200": true}
	if len(ledgers) != 3 {
		t.Fatalf("got lines %v, want 3 lines", ledgers)
	}
	for _, id := range ledgers {
		if !want[id] {
			t.Errorf("unexpected ledger %s in %v", id, ledgers)
		}
	}
}

func TestResyncRuleEditSwapsLedgerTargets(t *testing.T) {
	// Two rules match the line; an edit moves rule a onto the ledger rule b
	// booked to. Rule a's fresh line must not be deduplicated against rule
	// b's stale one.
	a := NewSimpleRule("a", "first", FieldContraAccountName, OpContains, "heijn",
		LineItem{LedgerID: "4200", Amount: OppositeOfFirstLine})
	b2 := NewSimpleRule("b", "second", FieldContraAccountName, OpContains, "albert",
		LineItem{LedgerID: "4000", Amount: OppositeOfFirstLine})
	e, s := setupEngine(t, a, b2)

	b, _, err := e.BuildBooking(groceries(), BuildOptions{})
	if err != nil {
		t.Fatalf("BuildBooking() error: %v", err)
	}

	s.rules[0].Items = []LineItem{{LedgerID: "4000", Amount: OppositeOfFirstLine}}
	s.rules[1].Items = []LineItem{{LedgerID: "4100", Amount: OppositeOfFirstLine}}

	changed, err := e.Resync(b, groceries())
	if err != nil {
		t.Fatalf("Resync() error: %v", err)
	}
	if !changed {
		t.Fatal("resync after a rule edit must report a change")
	}

	byRule := map[string]string{}
	for _, l := range b.Lines {
		byRule[l.RuleID] = l.LedgerID
	}
	if byRule["a"] != "4000" || byRule["b"] != "4100" {
		t.Fatalf("lines by rule = %v, want a on 4000 and b on 4100", byRule)
	}

	changed, err = e.Resync(b, groceries())
	if err != nil {
		t.Fatalf("second Resync() error: %v", err)
	}
	if changed {
		t.Error("second resync with unchanged rules reported a change")
	}
}

func TestResyncPreservesManualLines(t *testing.T) {
	e, s, b := buildSyncFixture(t)
	s.rules[0].Items = []LineItem{{LedgerID: "4100", Amount: ZeroAmount}}

	if _, err := e.Resync(b, groceries()); err != nil {
		t.Fatalf("Resync() error: %v", err)
	}
	found := false
	for _, l := range b.Lines {
		if l.ID == "manual-1" {
			found = true
			if !l.Debit.Equal(dec("1.00")) {
				t.Errorf("manual line amount altered: %s", l.Debit)
			}
		}
	}
	if !found {
		t.Error("manual line was removed by resync")
	}
}

func TestResyncNoMatchLeavesBookingAlone(t *testing.T) {
	e, s, b := buildSyncFixture(t)
	s.rules = nil

	before := len(b.Lines)
	changed, err := e.Resync(b, groceries())
	if err != nil {
		t.Fatalf("Resync() error: %v", err)
	}
	if changed || len(b.Lines) != before {
		t.Error("resync without matching rules must not touch the booking")
	}
}

func TestResyncClearsReviewMarkOnChange(t *testing.T) {
	e, s, b := buildSyncFixture(t)
	now := time.Date(2025, time.March, 2, 9, 0, 0, 0, time.UTC)
	b.ReviewedAt = &now

	// No rule change: reviewed mark stays.
	if _, err := e.Resync(b, groceries()); err != nil {
		t.Fatal(err)
	}
	if b.ReviewedAt == nil {
		t.Error("unchanged resync must not clear the reviewed mark")
	}

	s.rules[0].Items = []LineItem{{LedgerID: "4100", Amount: OppositeOfFirstLine}}
	if _, err := e.Resync(b, groceries()); err != nil {
		t.Fatal(err)
	}
	if b.ReviewedAt != nil {
		t.Error("a changed booking must lose its reviewed mark")
	}
}

func TestResyncReferenceFailureLeavesBookingUntouched(t *testing.T) {
	e, s, b := buildSyncFixture(t)
	s.rules[0].Items = []LineItem{{LedgerID: "9999", Amount: OppositeOfFirstLine}}

	before := lineSignature(b.Lines)
	_, err := e.Resync(b, groceries())
	if err == nil {
		t.Fatal("expected a reference error")
	}
	if lineSignature(b.Lines) != before {
		t.Error("failed resync must not partially mutate the booking")
	}
}

func TestResyncAllIsolatesFailures(t *testing.T) {
	shop := NewSimpleRule("r1", "groceries", FieldContraAccountName, OpContains, "heijn",
		LineItem{LedgerID: "4000", Amount: OppositeOfFirstLine})
	salary := NewSimpleRule("r2", "salary", FieldDescription, OpContains, "salary",
		LineItem{LedgerID: "4200", Amount: OppositeOfFirstLine})
	e, s := setupEngine(t, shop, salary)

	shopLine := groceries()
	b1, _, err := e.BuildBooking(shopLine, BuildOptions{})
	if err != nil {
		t.Fatal(err)
	}

	salaryLine := groceries()
	salaryLine.ID = "t2"
	salaryLine.ContraName = "Employer BV"
	salaryLine.Description = "salary february"
	salaryLine.Amount = dec("2500.00")
	b2, _, err := e.BuildBooking(salaryLine, BuildOptions{})
	if err != nil {
		t.Fatal(err)
	}

	// Break the shop rule, redirect the salary rule to a valid ledger.
	s.rules[0].Items = []LineItem{{LedgerID: "9999", Amount: OppositeOfFirstLine}}
	s.rules[1].Items = []LineItem{{LedgerID: "4100", Amount: OppositeOfFirstLine}}

	changed, errs := e.ResyncAll([]ResyncItem{
		{Booking: b1, Line: shopLine},
		{Booking: b2, Line: salaryLine},
	})
	if len(errs) != 1 || errs[0].LineID != "t1" {
		t.Fatalf("errs = %v, want one error for line t1", errs)
	}
	if len(changed) != 1 || changed[0].ID != b2.ID {
		t.Errorf("changed = %d bookings, want only the salary booking", len(changed))
	}
}
