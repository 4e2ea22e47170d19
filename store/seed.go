package store

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/evdbrink/networth"
)

// Seed is the portable JSON form of the configuration data: the chart of
// accounts, the account records and the user rules. Transaction lines and
// bookings are not part of a seed, and neither are system rules, which are
// regenerated on import.
type Seed struct {
	LedgerAccounts []networth.LedgerAccount `json:"ledgerAccounts"`
	Accounts       []networth.Account       `json:"accounts"`
	Rules          []networth.BusinessRule  `json:"rules"`
}

// ExportSeed writes the seed as indented JSON.
func (s *Store) ExportSeed(w io.Writer) error {
	seed := Seed{}
	var err error
	if seed.LedgerAccounts, err = s.LedgerAccounts(); err != nil {
		return err
	}
	if seed.Accounts, err = s.Accounts(); err != nil {
		return err
	}
	rules, err := s.Rules()
	if err != nil {
		return err
	}
	for _, r := range rules {
		if !r.System {
			seed.Rules = append(seed.Rules, r)
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(seed)
}

// ImportSeed reads a seed and upserts its contents. Ledger accounts load
// first so accounts and rules can reference them; own-account system rules
// are synchronized afterwards.
func (s *Store) ImportSeed(r io.Reader) error {
	var seed Seed
	if err := json.NewDecoder(r).Decode(&seed); err != nil {
		return fmt.Errorf("decoding seed: %w", err)
	}
	for _, l := range seed.LedgerAccounts {
		if err := s.SaveLedgerAccount(l); err != nil {
			return fmt.Errorf("ledger account %q: %w", l.ID, err)
		}
	}
	for _, a := range seed.Accounts {
		if err := s.SaveAccount(&a); err != nil {
			return fmt.Errorf("account %q: %w", a.Name, err)
		}
	}
	for _, rule := range seed.Rules {
		if err := s.SaveRule(&rule); err != nil {
			return fmt.Errorf("rule %q: %w", rule.Name, err)
		}
	}
	return s.SyncOwnAccountRules()
}
