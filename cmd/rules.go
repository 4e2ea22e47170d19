package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/evdbrink/networth"
	"github.com/evdbrink/networth/renderer"
	"github.com/evdbrink/networth/store"
	"github.com/google/subcommands"
	"github.com/google/uuid"
)

// rulesCmd holds the flags for the 'rules' subcommand.
type rulesCmd struct {
	add    bool
	delete string

	name     string
	field    string
	op       string
	value    string
	ledger   string
	split    string
	priority int
	review   bool
}

func (*rulesCmd) Name() string     { return "rules" }
func (*rulesCmd) Synopsis() string { return "list, add or delete business rules" }
func (*rulesCmd) Usage() string {
	return `nwt rules
nwt rules -add -name <name> -value <text> -ledger <ledger> [-field f] [-op o] [-split <ledger>] [-priority n] [-review]
nwt rules -delete <rule-id>

  Without flags, lists the business rules in the order the booking
  engine tries them, most specific first. -add creates a rule with one
  criterion; -split adds a second, zero amount line to the booking, for
  splits to be filled in by hand. System rules, maintained from the
  account list, cannot be added or deleted here.

Usage Examples:
# Classify Albert Heijn lines as groceries.
$ nwt rules -add -name "Albert Heijn" -value "albert heijn" -ledger 4000

`
}

func (c *rulesCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.add, "add", false, "Add a new rule")
	f.StringVar(&c.delete, "delete", "", "Delete the rule with this id")
	f.StringVar(&c.name, "name", "", "Name of the new rule")
	f.StringVar(&c.field, "field", "contra-account-name", "Field the criterion matches on")
	f.StringVar(&c.op, "op", "contains", "Match operator (contains, equals, starts-with)")
	f.StringVar(&c.value, "value", "", "Value the criterion matches against")
	f.StringVar(&c.ledger, "ledger", "", "Ledger account the rule books against")
	f.StringVar(&c.split, "split", "", "Second ledger account, added with a zero amount")
	f.IntVar(&c.priority, "priority", 0, "Priority among equally specific rules, lower wins")
	f.BoolVar(&c.review, "review", false, "Bookings from this rule always need a review")
}

func (c *rulesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	st, _, err := OpenStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer st.Close()

	switch {
	case c.add:
		return c.addRule(st)
	case c.delete != "":
		if err := st.DeleteRule(c.delete); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Printf("Deleted rule %s.\n", c.delete)
		return subcommands.ExitSuccess
	default:
		return c.list(st)
	}
}

func (c *rulesCmd) addRule(st *store.Store) subcommands.ExitStatus {
	if c.name == "" || c.value == "" || c.ledger == "" {
		fmt.Fprintln(os.Stderr, "Error: -add requires -name, -value and -ledger")
		return subcommands.ExitUsageError
	}
	rule := networth.NewSimpleRule(uuid.NewString(), c.name,
		networth.ParseCriterionField(c.field),
		networth.ParseCriterionOperator(c.op),
		c.value,
		networth.LineItem{LedgerID: c.ledger, Amount: networth.OppositeOfFirstLine})
	rule.Priority = c.priority
	rule.RequiresReview = c.review
	if c.split != "" {
		rule.Items = append(rule.Items, networth.LineItem{LedgerID: c.split, Amount: networth.ZeroAmount})
	}
	if err := st.SaveRule(&rule); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Added rule %s (%s).\n", rule.Name, rule.ID)
	return subcommands.ExitSuccess
}

func (c *rulesCmd) list(st *store.Store) subcommands.ExitStatus {
	rules, err := st.Rules()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	var md strings.Builder
	renderer.RenderRules(&md, rules, networth.DetectConflicts(rules))
	printMarkdown(md.String())
	return subcommands.ExitSuccess
}

// conflictsCmd implements the 'conflicts' subcommand.
type conflictsCmd struct{}

func (*conflictsCmd) Name() string     { return "conflicts" }
func (*conflictsCmd) Synopsis() string { return "show rules that share a criterion" }
func (*conflictsCmd) Usage() string {
	return `nwt conflicts

  Shows business rules whose criteria overlap. Conflicting rules still
  work, ranking decides which one wins, but they are usually a sign one
  of them should be tightened or removed.

`
}
func (*conflictsCmd) SetFlags(_ *flag.FlagSet) {}

func (c *conflictsCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	st, _, err := OpenStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer st.Close()

	rules, err := st.Rules()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	var md strings.Builder
	renderer.RenderConflicts(&md, rules, networth.DetectConflicts(rules))
	printMarkdown(md.String())
	return subcommands.ExitSuccess
}
