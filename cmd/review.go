package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/evdbrink/networth"
	"github.com/evdbrink/networth/renderer"
	"github.com/evdbrink/networth/store"
	"github.com/google/subcommands"
)

// reviewCmd holds the flags for the 'review' subcommand.
type reviewCmd struct {
	mark bool
}

func (*reviewCmd) Name() string     { return "review" }
func (*reviewCmd) Synopsis() string { return "list bookings awaiting review, or mark one reviewed" }
func (*reviewCmd) Usage() string {
	return `nwt review
nwt review -mark <booking-id>

  Without arguments, lists the bookings that still need a review.
  With -mark, marks one booking as reviewed. A booking only passes the
  gate when its debits and credits balance per currency.

`
}

func (c *reviewCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.mark, "mark", false, "Mark the given booking as reviewed")
}

func (c *reviewCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	st, _, err := OpenStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer st.Close()

	if !c.mark {
		return c.list(st)
	}

	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: -mark takes exactly one booking id")
		return subcommands.ExitUsageError
	}
	b, err := st.Booking(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if ok, reason := networth.CanMarkReviewed(b.Lines); !ok {
		fmt.Fprintf(os.Stderr, "Error: %s\n", reason)
		return subcommands.ExitFailure
	}
	if err := st.MarkReviewed(b.ID, time.Now().UTC()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Marked booking %s as reviewed.\n", b.ID)
	return subcommands.ExitSuccess
}

func (c *reviewCmd) list(st *store.Store) subcommands.ExitStatus {
	bookings, err := st.Bookings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	var pending []*networth.Booking
	for _, b := range bookings {
		if b.RequiresReview && !b.Reviewed() {
			pending = append(pending, b)
		}
	}
	if len(pending) == 0 {
		fmt.Println("Nothing to review.")
		return subcommands.ExitSuccess
	}
	var md strings.Builder
	renderer.RenderBookings(&md, pending)
	printMarkdown(md.String())
	return subcommands.ExitSuccess
}
