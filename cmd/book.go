package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/evdbrink/networth"
	"github.com/evdbrink/networth/renderer"
	"github.com/google/subcommands"
)

// bookCmd holds the flags for the 'book' subcommand.
type bookCmd struct {
	all    bool
	own    string
	contra string
}

func (*bookCmd) Name() string     { return "book" }
func (*bookCmd) Synopsis() string { return "build bookings for imported transaction lines" }
func (*bookCmd) Usage() string {
	return `nwt book [-own <ledger>] [-contra <ledger>] <line-id>
nwt book -all

  Builds a booking for one transaction line, or for every line that has
  no booking yet (-all). The business rules classify the counterparty
  side; -own and -contra override the rule outcome for a single line.
  Lines no rule can classify are booked against nothing and flagged for
  review.

Usage Examples:
# Book every unbooked line.
$ nwt book -all

# Book one line against a specific expense ledger.
$ nwt book -contra 4100 3f2a...

`
}

func (c *bookCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.all, "all", false, "Book every transaction line without a booking")
	f.StringVar(&c.own, "own", "", "Ledger account for the own side, overrides rule resolution")
	f.StringVar(&c.contra, "contra", "", "Ledger account for the counterparty side, skips the rules")
}

func (c *bookCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.all == (f.NArg() == 1) {
		fmt.Fprintln(os.Stderr, "Error: give either a line id or -all")
		return subcommands.ExitUsageError
	}
	if c.all && (c.own != "" || c.contra != "") {
		fmt.Fprintln(os.Stderr, "Error: -own and -contra apply to a single line, not -all")
		return subcommands.ExitUsageError
	}

	st, _, err := OpenStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer st.Close()

	var lines []networth.TransactionLine
	if c.all {
		if lines, err = st.UnbookedLines(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		if len(lines) == 0 {
			fmt.Println("Nothing to book.")
			return subcommands.ExitSuccess
		}
	} else {
		line, err := st.Line(f.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		lines = append(lines, line)
	}

	engine := NewEngine(st)
	opts := networth.BuildOptions{OwnLedger: c.own, ContraLedger: c.contra}
	names := ledgerNames(st)

	booked, failed := 0, 0
	var md strings.Builder
	for _, line := range lines {
		if _, ok, err := st.BookingForLine(line.ID); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		} else if ok {
			fmt.Fprintf(os.Stderr, "Line %s is already booked, skipping.\n", line.ID)
			continue
		}

		b, _, err := engine.BuildBooking(line, opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error booking line %s: %v\n", line.ID, err)
			failed++
			continue
		}
		if err := st.SaveBooking(b); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving booking for line %s: %v\n", line.ID, err)
			failed++
			continue
		}
		renderer.RenderBooking(&md, b, names)
		booked++
	}
	printMarkdown(md.String())

	fmt.Printf("Booked %d lines", booked)
	if failed > 0 {
		fmt.Printf(", %d failed", failed)
	}
	fmt.Println()
	if failed > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
