package networth

import "fmt"

// ResolutionError reports that no own-account ledger could be determined for
// a transaction line. The booking is not created; the user must link the
// account to a ledger or define an own-account rule first.
type ResolutionError struct {
	OwnAccount string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("no ledger account found for own account %q: link the account to a ledger account or define an own-account rule", e.OwnAccount)
}

// ReferenceError reports that a rule or an override points at a ledger
// account that does not exist. The whole booking construction aborts rather
// than silently dropping a line.
type ReferenceError struct {
	LedgerID string
	Rule     string // name of the rule that referenced it, empty for overrides
}

func (e *ReferenceError) Error() string {
	if e.Rule == "" {
		return fmt.Sprintf("ledger account %q does not exist", e.LedgerID)
	}
	return fmt.Sprintf("rule %q references ledger account %q which does not exist", e.Rule, e.LedgerID)
}
