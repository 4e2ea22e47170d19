// Package cmd implements the CLI application to manage the books.
package cmd

import (
	"flag"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/evdbrink/networth"
	"github.com/evdbrink/networth/renderer"
	"github.com/evdbrink/networth/store"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&ledgerCmd{}, "setup")
	c.Register(&accountsCmd{}, "setup")
	c.Register(&exportSeedCmd{}, "setup")
	c.Register(&importSeedCmd{}, "setup")

	c.Register(&rulesCmd{}, "rules")
	c.Register(&conflictsCmd{}, "rules")
	c.Register(&assistCmd{}, "rules")

	c.Register(&importCmd{}, "bookings")
	c.Register(&bookCmd{}, "bookings")
	c.Register(&resyncCmd{}, "bookings")
	c.Register(&reviewCmd{}, "bookings")

	c.Register(&serveCmd{}, "server")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "networth.toml", "Path to the configuration file (TOML format)")
var dbFile = flag.String("db", "", "Path to the bookkeeping database, overrides the configuration")

// AppConfig loads the configuration file, applying the -db override.
func AppConfig() (Config, error) {
	cfg, err := LoadConfig(*configFile)
	if err != nil {
		return cfg, err
	}
	if *dbFile != "" {
		cfg.Database = *dbFile
	}
	return cfg, nil
}

// OpenStore is the central function to open the bookkeeping database.
func OpenStore() (*store.Store, Config, error) {
	cfg, err := AppConfig()
	if err != nil {
		return nil, cfg, err
	}
	st, err := store.Open(cfg.Database)
	if err != nil {
		return nil, cfg, fmt.Errorf("opening database %q: %w", cfg.Database, err)
	}
	return st, cfg, nil
}

// NewEngine wires a booking engine on top of the store.
func NewEngine(st *store.Store) *networth.Engine {
	return networth.NewEngine(st, st, st)
}

// printMarkdown renders markdown to the terminal.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		// fall back to the raw markdown
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

// ledgerNames loads the chart of accounts for display purposes.
func ledgerNames(st *store.Store) renderer.LedgerNames {
	names := renderer.LedgerNames{}
	ledgers, err := st.LedgerAccounts()
	if err != nil {
		return names
	}
	for _, l := range ledgers {
		names[l.ID] = l.Name
	}
	return names
}
