package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/evdbrink/networth"
)

// SaveRule inserts or updates a user rule, with its criteria and line items.
// System rules are maintained by SyncOwnAccountRules and cannot be saved
// through this path.
func (s *Store) SaveRule(r *networth.BusinessRule) error {
	if r.System {
		return fmt.Errorf("rule %q is system-generated and cannot be edited", r.Name)
	}
	if len(r.Criteria) == 0 {
		return errors.New("a rule needs at least one criterion")
	}
	if len(r.Items) == 0 || len(r.Items) > 2 {
		return fmt.Errorf("a rule needs one or two line items, got %d", len(r.Items))
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if system, err := s.isSystemRule(r.ID); err != nil {
		return err
	} else if system {
		return fmt.Errorf("rule %q is system-generated and cannot be edited", r.ID)
	}
	for _, item := range r.Items {
		ok, err := s.HasLedgerAccount(item.LedgerID)
		if err != nil {
			return err
		}
		if !ok {
			return &networth.ReferenceError{LedgerID: item.LedgerID, Rule: r.Name}
		}
	}
	return s.writeRule(r)
}

// DeleteRule removes a user rule. System rules cannot be deleted; they
// disappear when their account loses its ledger link.
func (s *Store) DeleteRule(id string) error {
	if system, err := s.isSystemRule(id); err != nil {
		return err
	} else if system {
		return fmt.Errorf("rule %q is system-generated and cannot be deleted", id)
	}
	_, err := s.db.Exec(`DELETE FROM rules WHERE id = ?`, id)
	return err
}

func (s *Store) isSystemRule(id string) (bool, error) {
	var system int
	err := s.db.QueryRow(`SELECT system FROM rules WHERE id = ?`, id).Scan(&system)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return system == 1, err
}

// writeRule replaces the rule row and its criteria and items in one
// transaction.
func (s *Store) writeRule(r *networth.BusinessRule) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO rules (id, name, priority, active, requires_review, system)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name            = excluded.name,
			priority        = excluded.priority,
			active          = excluded.active,
			requires_review = excluded.requires_review,
			system          = excluded.system
	`, r.ID, r.Name, r.Priority, boolInt(r.Active), boolInt(r.RequiresReview), boolInt(r.System))
	if err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM rule_criteria WHERE rule_id = ?`, r.ID); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM rule_items WHERE rule_id = ?`, r.ID); err != nil {
		return err
	}
	for i, c := range r.Criteria {
		_, err := tx.Exec(`INSERT INTO rule_criteria (rule_id, position, field, op, value) VALUES (?, ?, ?, ?, ?)`,
			r.ID, i, string(c.Field), string(c.Op), c.Value)
		if err != nil {
			return err
		}
	}
	for i, item := range r.Items {
		_, err := tx.Exec(`INSERT INTO rule_items (rule_id, position, ledger_id, amount_type) VALUES (?, ?, ?, ?)`,
			r.ID, i, item.LedgerID, item.Amount.String())
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Rule returns one rule by id.
func (s *Store) Rule(id string) (networth.BusinessRule, error) {
	rules, err := s.loadRules(`WHERE r.id = ?`, id)
	if err != nil {
		return networth.BusinessRule{}, err
	}
	if len(rules) == 0 {
		return networth.BusinessRule{}, fmt.Errorf("rule %q not found", id)
	}
	return rules[0], nil
}

// Rules lists every rule, system ones included.
func (s *Store) Rules() ([]networth.BusinessRule, error) {
	return s.loadRules("")
}

// ActiveRules implements networth.RuleSource. The field argument restricts
// the listing to rules whose primary field matches; empty lists all active
// rules.
func (s *Store) ActiveRules(field networth.CriterionField) ([]networth.BusinessRule, error) {
	rules, err := s.loadRules(`WHERE r.active = 1`)
	if err != nil {
		return nil, err
	}
	if field == "" {
		return rules, nil
	}
	filtered := rules[:0]
	for _, r := range rules {
		if r.Field() == field {
			filtered = append(filtered, r)
		}
	}
	return filtered, nil
}

func (s *Store) loadRules(where string, args ...any) ([]networth.BusinessRule, error) {
	rows, err := s.db.Query(`
		SELECT r.id, r.name, r.priority, r.active, r.requires_review, r.system
		FROM rules r `+where+` ORDER BY r.id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []networth.BusinessRule
	index := make(map[string]int)
	for rows.Next() {
		var r networth.BusinessRule
		var active, review, system int
		if err := rows.Scan(&r.ID, &r.Name, &r.Priority, &active, &review, &system); err != nil {
			return nil, err
		}
		r.Active = active == 1
		r.RequiresReview = review == 1
		r.System = system == 1
		index[r.ID] = len(rules)
		rules = append(rules, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	criteria, err := s.db.Query(`SELECT rule_id, field, op, value FROM rule_criteria ORDER BY rule_id, position`)
	if err != nil {
		return nil, err
	}
	defer criteria.Close()
	for criteria.Next() {
		var ruleID, field, op, value string
		if err := criteria.Scan(&ruleID, &field, &op, &value); err != nil {
			return nil, err
		}
		i, ok := index[ruleID]
		if !ok {
			continue
		}
		rules[i].Criteria = append(rules[i].Criteria, networth.Criterion{
			Field: networth.ParseCriterionField(field),
			Op:    networth.ParseCriterionOperator(op),
			Value: value,
		})
	}
	if err := criteria.Err(); err != nil {
		return nil, err
	}

	items, err := s.db.Query(`SELECT rule_id, ledger_id, amount_type FROM rule_items ORDER BY rule_id, position`)
	if err != nil {
		return nil, err
	}
	defer items.Close()
	for items.Next() {
		var ruleID, ledgerID, amountType string
		if err := items.Scan(&ruleID, &ledgerID, &amountType); err != nil {
			return nil, err
		}
		i, ok := index[ruleID]
		if !ok {
			continue
		}
		rules[i].Items = append(rules[i].Items, networth.LineItem{
			LedgerID: ledgerID,
			Amount:   networth.ParseAmountType(amountType),
		})
	}
	return rules, items.Err()
}

// SyncOwnAccountRules maintains one system rule per ledger-linked account,
// mapping the account number to its ledger, and removes system rules whose
// account lost its link. Call it after account changes.
func (s *Store) SyncOwnAccountRules() error {
	accounts, err := s.Accounts()
	if err != nil {
		return err
	}

	current := make(map[string]bool)
	for _, a := range accounts {
		if a.LedgerID == "" || a.Number == "" {
			continue
		}
		r := networth.NewSimpleRule("own-"+a.ID, a.Name,
			networth.FieldOwnAccount, networth.OpEquals, a.Number,
			networth.LineItem{LedgerID: a.LedgerID, Amount: networth.OppositeOfFirstLine})
		r.System = true
		current[r.ID] = true
		if err := s.writeRule(&r); err != nil {
			return fmt.Errorf("syncing own-account rule for %q: %w", a.Name, err)
		}
	}

	rows, err := s.db.Query(`SELECT id FROM rules WHERE system = 1`)
	if err != nil {
		return err
	}
	defer rows.Close()
	var stale []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return err
		}
		if !current[id] {
			stale = append(stale, id)
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for _, id := range stale {
		if _, err := s.db.Exec(`DELETE FROM rules WHERE id = ?`, id); err != nil {
			return err
		}
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
