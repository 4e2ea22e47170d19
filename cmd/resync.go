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

// resyncCmd holds the flags for the 'resync' subcommand.
type resyncCmd struct {
	quiet bool
}

func (*resyncCmd) Name() string     { return "resync" }
func (*resyncCmd) Synopsis() string { return "re-apply the business rules to existing bookings" }
func (*resyncCmd) Usage() string {
	return `nwt resync [-q] [<booking-id>]

  Re-applies the business rules to one booking, or to all of them.
  Lines added by rules are regenerated; manually added lines and the own
  account line are kept as they are. A booking that comes out unchanged
  is left alone, so running resync twice in a row is harmless.

`
}

func (c *resyncCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.quiet, "q", false, "Only print the summary, not the changed bookings")
}

func (c *resyncCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	st, _, err := OpenStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer st.Close()

	var bookings []*networth.Booking
	if f.NArg() > 0 {
		b, err := st.Booking(f.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		bookings = append(bookings, b)
	} else if bookings, err = st.Bookings(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	var items []networth.ResyncItem
	for _, b := range bookings {
		if b.LineID == "" {
			continue
		}
		line, err := st.Line(b.LineID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		items = append(items, networth.ResyncItem{Booking: b, Line: line})
	}

	engine := NewEngine(st)
	changed, errs := engine.ResyncAll(items)

	for _, b := range changed {
		if err := st.SaveBooking(b); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving booking %s: %v\n", b.ID, err)
			return subcommands.ExitFailure
		}
	}

	if !c.quiet && len(changed) > 0 {
		names := ledgerNames(st)
		var md strings.Builder
		for _, b := range changed {
			renderer.RenderBooking(&md, b, names)
		}
		printMarkdown(md.String())
	}

	fmt.Printf("Resynced %d bookings, %d changed.\n", len(items), len(changed))
	for _, e := range errs {
		fmt.Fprintf(os.Stderr, "Error: %v\n", e)
	}
	if len(errs) > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
