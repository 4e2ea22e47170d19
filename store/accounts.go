package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/evdbrink/networth"
)

// SaveAccount inserts or updates an account. A missing id is generated.
// When the account is linked to a ledger, that ledger account must exist.
func (s *Store) SaveAccount(a *networth.Account) error {
	if a.Name == "" {
		return errors.New("account name is missing")
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Kind == "" {
		a.Kind = networth.KindBank
	}
	if a.LedgerID != "" {
		ok, err := s.HasLedgerAccount(a.LedgerID)
		if err != nil {
			return err
		}
		if !ok {
			return &networth.ReferenceError{LedgerID: a.LedgerID}
		}
	}
	_, err := s.db.Exec(`
		INSERT INTO accounts (id, name, number, kind, ledger_id)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name      = excluded.name,
			number    = excluded.number,
			kind      = excluded.kind,
			ledger_id = excluded.ledger_id
	`, a.ID, a.Name, a.Number, string(a.Kind), a.LedgerID)
	return err
}

// Accounts lists all accounts, ordered by name.
func (s *Store) Accounts() ([]networth.Account, error) {
	rows, err := s.db.Query(`SELECT id, name, number, kind, ledger_id FROM accounts ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []networth.Account
	for rows.Next() {
		var a networth.Account
		var kind string
		if err := rows.Scan(&a.ID, &a.Name, &a.Number, &kind, &a.LedgerID); err != nil {
			return nil, err
		}
		a.Kind = networth.AccountKind(kind)
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// Account returns the account with the given id.
func (s *Store) Account(id string) (networth.Account, error) {
	var a networth.Account
	var kind string
	err := s.db.QueryRow(`SELECT id, name, number, kind, ledger_id FROM accounts WHERE id = ?`, id).
		Scan(&a.ID, &a.Name, &a.Number, &kind, &a.LedgerID)
	if errors.Is(err, sql.ErrNoRows) {
		return a, fmt.Errorf("account %q not found", id)
	}
	a.Kind = networth.AccountKind(kind)
	return a, err
}

// LedgerFor implements networth.AccountDirectory: it returns the ledger
// account linked to the account whose name or number equals ident,
// case-insensitively. Used as the own-account fallback when no own-account
// rule matches a line.
func (s *Store) LedgerFor(ident string) (string, bool, error) {
	var ledgerID string
	err := s.db.QueryRow(`
		SELECT ledger_id FROM accounts
		WHERE ledger_id != '' AND (LOWER(name) = LOWER(?) OR LOWER(number) = LOWER(?))
		ORDER BY id LIMIT 1
	`, ident, ident).Scan(&ledgerID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return ledgerID, true, nil
}

// SaveLedgerAccount inserts or updates a node of the chart of accounts.
// The parent, when given, must exist.
func (s *Store) SaveLedgerAccount(l networth.LedgerAccount) error {
	if l.ID == "" {
		return errors.New("ledger account id is missing")
	}
	if l.ParentID != "" {
		ok, err := s.HasLedgerAccount(l.ParentID)
		if err != nil {
			return err
		}
		if !ok {
			return &networth.ReferenceError{LedgerID: l.ParentID}
		}
	}
	_, err := s.db.Exec(`
		INSERT INTO ledger_accounts (id, name, parent_id)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, parent_id = excluded.parent_id
	`, l.ID, l.Name, l.ParentID)
	return err
}

// LedgerAccounts lists the chart of accounts ordered by id, so codes like
// 1000, 1100, 4000 read as a tree.
func (s *Store) LedgerAccounts() ([]networth.LedgerAccount, error) {
	rows, err := s.db.Query(`SELECT id, name, parent_id FROM ledger_accounts ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ledgers []networth.LedgerAccount
	for rows.Next() {
		var l networth.LedgerAccount
		if err := rows.Scan(&l.ID, &l.Name, &l.ParentID); err != nil {
			return nil, err
		}
		ledgers = append(ledgers, l)
	}
	return ledgers, rows.Err()
}

// HasLedgerAccount implements networth.LedgerDirectory.
func (s *Store) HasLedgerAccount(id string) (bool, error) {
	var one int
	err := s.db.QueryRow(`SELECT 1 FROM ledger_accounts WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}
