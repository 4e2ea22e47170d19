// Package renderer turns bookings, rules and conflict reports into
// markdown, ready for a terminal renderer or a plain pager.
package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/evdbrink/networth"
)

// LedgerNames resolves ledger account ids to display names. Missing ids
// render as the bare id.
type LedgerNames map[string]string

func (n LedgerNames) name(id string) string {
	if name, ok := n[id]; ok && name != "" {
		return fmt.Sprintf("%s %s", id, name)
	}
	return id
}

// RenderBooking writes one booking with its lines as a markdown section.
func RenderBooking(w io.Writer, b *networth.Booking, names LedgerNames) {
	fmt.Fprintf(w, "# Booking %s on %s\n\n", b.ID, b.Date)
	if b.Reference != "" {
		fmt.Fprintf(w, "*%s*\n\n", b.Reference)
	}
	status := "ok"
	if b.RequiresReview {
		status = "needs review"
	}
	if b.Reviewed() {
		status = fmt.Sprintf("reviewed %s", b.ReviewedAt.Format("2006-01-02"))
	}
	fmt.Fprintf(w, "Status: %s\n\n", status)

	fmt.Fprintln(w, "| # | Ledger account | Debit | Credit | Description |")
	fmt.Fprintln(w, "|--:|:---|---:|---:|:---|")
	for _, l := range b.Lines {
		marker := ""
		if l.RuleID == "" && l.Number > 0 {
			marker = " (manual)"
		}
		fmt.Fprintf(w, "| %d | %s | %s | %s | %s%s |\n",
			l.Number,
			names.name(l.LedgerID),
			networth.FormatMoney(l.Debit, l.Currency),
			networth.FormatMoney(l.Credit, l.Currency),
			l.Description, marker)
	}
	fmt.Fprintln(w)

	if ok, reason := networth.CanMarkReviewed(b.Lines); !ok {
		fmt.Fprintf(w, "> %s\n\n", reason)
	}
}

// RenderBookings writes a compact table of many bookings. The amount shown
// is the signed movement of the own-account line.
func RenderBookings(w io.Writer, bookings []*networth.Booking) {
	fmt.Fprintf(w, "# Bookings (%d)\n\n", len(bookings))
	fmt.Fprintln(w, "| Date | Reference | Amount | Lines | Status |")
	fmt.Fprintln(w, "|:---|:---|---:|---:|:---|")
	for _, b := range bookings {
		status := "ok"
		switch {
		case b.Reviewed():
			status = "reviewed"
		case b.RequiresReview:
			status = "needs review"
		}
		amount := "-"
		for _, l := range b.Lines {
			if l.Number == 0 {
				amount = networth.FormatSignedMoney(l.Debit.Sub(l.Credit), l.Currency)
			}
		}
		fmt.Fprintf(w, "| %s | %s | %s | %d | %s |\n", b.Date, b.Reference, amount, len(b.Lines), status)
	}
	fmt.Fprintln(w)
}

// RenderRules writes the rule listing, flagging conflicting rules.
func RenderRules(w io.Writer, rules []networth.BusinessRule, conflicts map[string][]string) {
	fmt.Fprintf(w, "# Rules (%d)\n\n", len(rules))
	fmt.Fprintln(w, "| Name | Criteria | Posts to | Priority | Flags |")
	fmt.Fprintln(w, "|:---|:---|:---|---:|:---|")
	for _, r := range networth.RankRules(rules) {
		var criteria []string
		for _, c := range r.Criteria {
			criteria = append(criteria, fmt.Sprintf("%s %s %q", c.Field, c.Op, c.Value))
		}
		var targets []string
		for _, item := range r.Items {
			targets = append(targets, fmt.Sprintf("%s (%s)", item.LedgerID, item.Amount))
		}
		fmt.Fprintf(w, "| %s | %s | %s | %d | %s |\n",
			r.Name,
			strings.Join(criteria, " AND "),
			strings.Join(targets, ", "),
			r.Priority,
			ruleFlags(r, conflicts))
	}
	fmt.Fprintln(w)
}

func ruleFlags(r networth.BusinessRule, conflicts map[string][]string) string {
	var flags []string
	if r.System {
		flags = append(flags, "system")
	}
	if !r.Active {
		flags = append(flags, "inactive")
	}
	if r.RequiresReview {
		flags = append(flags, "review")
	}
	if len(conflicts[r.ID]) > 0 {
		flags = append(flags, fmt.Sprintf("conflicts: %d", len(conflicts[r.ID])))
	}
	return strings.Join(flags, ", ")
}

// RenderConflicts writes the full conflict report: one section per rule
// that shares at least one criterion with another rule.
func RenderConflicts(w io.Writer, rules []networth.BusinessRule, conflicts map[string][]string) {
	byID := make(map[string]networth.BusinessRule, len(rules))
	for _, r := range rules {
		byID[r.ID] = r
	}

	var total int
	for _, others := range conflicts {
		total += len(others)
	}
	fmt.Fprintln(w, "# Rule conflicts")
	fmt.Fprintln(w)
	if total == 0 {
		fmt.Fprintln(w, "No conflicting rules.")
		fmt.Fprintln(w)
		return
	}
	fmt.Fprintln(w, "Conflicting rules are not an error: when several match the same")
	fmt.Fprintln(w, "line, the more specific rule applies first.")
	fmt.Fprintln(w)
	for _, r := range networth.RankRules(rules) {
		others := conflicts[r.ID]
		if len(others) == 0 {
			continue
		}
		fmt.Fprintf(w, "## %s\n\n", r.Name)
		for _, id := range others {
			fmt.Fprintf(w, "- shares a criterion with %s\n", byID[id].Name)
		}
		fmt.Fprintln(w)
	}
}
