package networth

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// fakeStore implements the engine collaborators in memory for tests.
type fakeStore struct {
	rules    []BusinessRule
	ledgers  map[string]bool
	accounts map[string]string // lowercased name or number -> ledger id
}

func (s *fakeStore) ActiveRules(field CriterionField) ([]BusinessRule, error) {
	var out []BusinessRule
	for _, r := range s.rules {
		if r.Active && (field == "" || r.Field() == field) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *fakeStore) HasLedgerAccount(id string) (bool, error) { return s.ledgers[id], nil }

func (s *fakeStore) LedgerFor(ident string) (string, bool, error) {
	id, ok := s.accounts[strings.ToLower(ident)]
	return id, ok, nil
}

// newTestEngine returns an engine with deterministic ids and clock.
func newTestEngine(s *fakeStore) *Engine {
	e := NewEngine(s, s, s)
	var n int
	e.newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	e.now = func() time.Time { return time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC) }
	return e
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// groceries is a typical imported line used across tests.
func groceries() TransactionLine {
	return TransactionLine{
		ID:            "t1",
		Date:          NewDate(2025, time.February, 14),
		OwnAccount:    "NL00BANK0123456789",
		ContraAccount: "NL11SHOP0000000001",
		ContraName:    "Albert Heijn",
		Description:   "groceries week 7",
		Amount:        dec("-42.50"),
		Currency:      "EUR",
	}
}
