package renderer

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/evdbrink/networth"
)

func sampleBooking() *networth.Booking {
	return &networth.Booking{
		ID:        "b1",
		Date:      networth.NewDate(2025, time.February, 14),
		Reference: "groceries week 7",
		Lines: []networth.BookingLine{
			{Number: 0, LedgerID: "1000", Credit: decimal.RequireFromString("42.50"), Currency: "EUR", Description: "groceries week 7"},
			{Number: 1, LedgerID: "4000", Debit: decimal.RequireFromString("42.50"), Currency: "EUR", Description: "groceries week 7", RuleID: "r1"},
		},
	}
}

func TestRenderBooking(t *testing.T) {
	var buf bytes.Buffer
	RenderBooking(&buf, sampleBooking(), LedgerNames{"1000": "Checking", "4000": "Groceries"})
	out := buf.String()

	for _, want := range []string{"Booking b1", "2025-02-14", "1000 Checking", "4000 Groceries"} {
		if !strings.Contains(out, want) {
			t.Errorf("output misses %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "out of balance") {
		t.Errorf("balanced booking should not warn:\n%s", out)
	}

	// Headings must parse as markdown headings.
	if n := countHeadings(t, buf.Bytes()); n != 1 {
		t.Errorf("got %d headings, want 1", n)
	}
}

func TestRenderBookingWarnsWhenOutOfBalance(t *testing.T) {
	b := sampleBooking()
	b.Lines[1].Debit = decimal.RequireFromString("41.00")

	var buf bytes.Buffer
	RenderBooking(&buf, b, nil)
	if !strings.Contains(buf.String(), "out of balance") {
		t.Errorf("imbalance warning missing:\n%s", buf.String())
	}
}

func TestRenderBookingMarksManualLines(t *testing.T) {
	b := sampleBooking()
	b.Lines = append(b.Lines, networth.BookingLine{
		Number: 2, LedgerID: "4200", Currency: "EUR", Description: "correction",
	})

	var buf bytes.Buffer
	RenderBooking(&buf, b, nil)
	if !strings.Contains(buf.String(), "(manual)") {
		t.Errorf("manual marker missing:\n%s", buf.String())
	}
}

func TestRenderBookingsShowsSignedAmounts(t *testing.T) {
	spent := sampleBooking()
	earned := &networth.Booking{
		ID:        "b2",
		Date:      networth.NewDate(2025, time.February, 25),
		Reference: "salary february",
		Lines: []networth.BookingLine{
			{Number: 0, LedgerID: "1000", Debit: decimal.RequireFromString("2750.00"), Currency: "EUR"},
			{Number: 1, LedgerID: "4100", Credit: decimal.RequireFromString("2750.00"), Currency: "EUR", RuleID: "r2"},
		},
	}

	var buf bytes.Buffer
	RenderBookings(&buf, []*networth.Booking{spent, earned})
	out := buf.String()

	// The summary shows the own line's movement with its sign.
	outgoing := networth.FormatSignedMoney(decimal.RequireFromString("-42.50"), "EUR")
	incoming := networth.FormatSignedMoney(decimal.RequireFromString("2750.00"), "EUR")
	for _, want := range []string{outgoing, incoming} {
		if !strings.Contains(out, want) {
			t.Errorf("output misses %q:\n%s", want, out)
		}
	}
	if !strings.HasPrefix(incoming, "+") {
		t.Errorf("incoming amount %q should carry an explicit sign", incoming)
	}
}

func TestRenderRulesAndConflicts(t *testing.T) {
	rules := []networth.BusinessRule{
		networth.NewSimpleRule("a", "groceries", networth.FieldContraAccountName, networth.OpContains, "heijn",
			networth.LineItem{LedgerID: "4000", Amount: networth.OppositeOfFirstLine}),
		networth.NewSimpleRule("b", "shops", networth.FieldContraAccountName, networth.OpContains, "heijn",
			networth.LineItem{LedgerID: "4100", Amount: networth.ZeroAmount}),
	}
	conflicts := networth.DetectConflicts(rules)

	var buf bytes.Buffer
	RenderRules(&buf, rules, conflicts)
	out := buf.String()
	if !strings.Contains(out, "conflicts: 1") {
		t.Errorf("rule listing misses conflict flag:\n%s", out)
	}
	if !strings.Contains(out, `contra-account-name contains "heijn"`) {
		t.Errorf("criteria not rendered:\n%s", out)
	}

	buf.Reset()
	RenderConflicts(&buf, rules, conflicts)
	out = buf.String()
	if !strings.Contains(out, "shares a criterion with shops") {
		t.Errorf("conflict report misses pairing:\n%s", out)
	}
	if n := countHeadings(t, buf.Bytes()); n < 3 {
		t.Errorf("got %d headings, want the report plus one per rule", n)
	}
}

func TestRenderConflictsEmpty(t *testing.T) {
	var buf bytes.Buffer
	RenderConflicts(&buf, nil, nil)
	if !strings.Contains(buf.String(), "No conflicting rules") {
		t.Errorf("empty report:\n%s", buf.String())
	}
}

// countHeadings parses the markdown and counts heading nodes, so the tests
// notice when the output stops being well-formed markdown.
func countHeadings(t *testing.T, source []byte) int {
	t.Helper()
	root := goldmark.DefaultParser().Parse(text.NewReader(source))
	count := 0
	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if _, ok := n.(*ast.Heading); ok {
				count++
			}
		}
		return ast.WalkContinue, nil
	})
	return count
}
