package networth

import "fmt"

// AccountKind classifies an account record.
type AccountKind string

const (
	KindBank     AccountKind = "bank"
	KindSavings  AccountKind = "savings"
	KindProperty AccountKind = "property"
	KindMortgage AccountKind = "mortgage"
)

// AccountKinds lists the valid kinds, in display order.
func AccountKinds() []AccountKind {
	return []AccountKind{KindBank, KindSavings, KindProperty, KindMortgage}
}

// ParseAccountKind validates a kind name. The empty string defaults to
// KindBank.
func ParseAccountKind(s string) (AccountKind, error) {
	if s == "" {
		return KindBank, nil
	}
	for _, k := range AccountKinds() {
		if AccountKind(s) == k {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown account kind %q", s)
}

// Account is a real-world account or asset: a bank account, a property, a
// mortgage. When linked to a ledger account it can receive imported
// transaction lines, and the own-account synchronizer maintains a system
// rule mapping its number to that ledger.
type Account struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Number   string      `json:"number"` // external identifier, e.g. an IBAN
	Kind     AccountKind `json:"kind"`
	LedgerID string      `json:"ledgerId,omitempty"` // linked ledger account, empty when unlinked
}

// LedgerAccount is a node in the chart of accounts. The ID doubles as the
// ledger code users see (e.g. "1000").
type LedgerAccount struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ParentID string `json:"parentId,omitempty"`
}
