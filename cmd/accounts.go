package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/evdbrink/networth"
	"github.com/evdbrink/networth/store"
	"github.com/google/subcommands"
)

// accountsCmd holds the flags for the 'accounts' subcommand.
type accountsCmd struct {
	add    bool
	name   string
	number string
	kind   string
	ledger string
}

func (*accountsCmd) Name() string     { return "accounts" }
func (*accountsCmd) Synopsis() string { return "list or add real-world accounts" }
func (*accountsCmd) Usage() string {
	return `nwt accounts
nwt accounts -add -name <name> [-number <iban>] [-kind <kind>] [-ledger <ledger>]

  Lists the accounts, or adds one. An account linked to a ledger account
  gets a system rule that books its own side automatically; the rule is
  kept up to date whenever accounts change.

Usage Examples:
$ nwt accounts -add -name Checking -number NL00BANK0123456789 -ledger 1000

`
}

func (c *accountsCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.add, "add", false, "Add a new account")
	f.StringVar(&c.name, "name", "", "Name of the account")
	f.StringVar(&c.number, "number", "", "External identifier, e.g. an IBAN")
	f.StringVar(&c.kind, "kind", string(networth.KindBank), "Kind of account (bank, savings, property, mortgage)")
	f.StringVar(&c.ledger, "ledger", "", "Ledger account this account is linked to")
}

func (c *accountsCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	st, _, err := OpenStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer st.Close()

	if c.add {
		if c.name == "" {
			fmt.Fprintln(os.Stderr, "Error: -add requires -name")
			return subcommands.ExitUsageError
		}
		kind, err := networth.ParseAccountKind(c.kind)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		a := networth.Account{
			Name:     c.name,
			Number:   c.number,
			Kind:     kind,
			LedgerID: c.ledger,
		}
		if err := st.SaveAccount(&a); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		if err := st.SyncOwnAccountRules(); err != nil {
			fmt.Fprintf(os.Stderr, "Error syncing account rules: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Printf("Added account %s (%s).\n", a.Name, a.ID)
		return subcommands.ExitSuccess
	}

	accounts, err := st.Accounts()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	var md strings.Builder
	md.WriteString("# Accounts\n\n")
	if len(accounts) == 0 {
		md.WriteString("No accounts yet.\n")
	} else {
		md.WriteString("| Name | Number | Kind | Ledger |\n|---|---|---|---|\n")
		for _, a := range accounts {
			ledger := a.LedgerID
			if ledger == "" {
				ledger = "unlinked"
			}
			fmt.Fprintf(&md, "| %s | %s | %s | %s |\n", a.Name, a.Number, a.Kind, ledger)
		}
	}
	printMarkdown(md.String())
	return subcommands.ExitSuccess
}

// ledgerCmd holds the flags for the 'ledger' subcommand.
type ledgerCmd struct {
	add    bool
	id     string
	name   string
	parent string
}

func (*ledgerCmd) Name() string     { return "ledger" }
func (*ledgerCmd) Synopsis() string { return "list or add ledger accounts" }
func (*ledgerCmd) Usage() string {
	return `nwt ledger
nwt ledger -add -id <code> -name <name> [-parent <code>]

  Lists the chart of accounts, or adds a node to it. Codes order the
  chart: 1000 and its children come before 4000.

Usage Examples:
$ nwt ledger -add -id 4000 -name Groceries -parent 4

`
}

func (c *ledgerCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.add, "add", false, "Add a ledger account")
	f.StringVar(&c.id, "id", "", "Code of the ledger account, e.g. 4000")
	f.StringVar(&c.name, "name", "", "Name of the ledger account")
	f.StringVar(&c.parent, "parent", "", "Code of the parent ledger account")
}

func (c *ledgerCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	st, _, err := OpenStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer st.Close()

	if c.add {
		if c.id == "" || c.name == "" {
			fmt.Fprintln(os.Stderr, "Error: -add requires -id and -name")
			return subcommands.ExitUsageError
		}
		l := networth.LedgerAccount{ID: c.id, Name: c.name, ParentID: c.parent}
		if err := st.SaveLedgerAccount(l); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Printf("Added ledger account %s %s.\n", l.ID, l.Name)
		return subcommands.ExitSuccess
	}

	return listLedger(st)
}

func listLedger(st *store.Store) subcommands.ExitStatus {
	ledgers, err := st.LedgerAccounts()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	var md strings.Builder
	md.WriteString("# Chart of accounts\n\n")
	if len(ledgers) == 0 {
		md.WriteString("No ledger accounts yet.\n")
	}
	for _, l := range ledgers {
		if l.ParentID == "" {
			fmt.Fprintf(&md, "- **%s** %s\n", l.ID, l.Name)
		} else {
			fmt.Fprintf(&md, "  - **%s** %s\n", l.ID, l.Name)
		}
	}
	printMarkdown(md.String())
	return subcommands.ExitSuccess
}
