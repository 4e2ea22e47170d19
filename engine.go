package networth

import (
	"time"

	"github.com/google/uuid"
)

// RuleSource lists the active business rules. The field argument restricts
// the listing to rules whose primary field matches; the empty field lists
// all active rules.
type RuleSource interface {
	ActiveRules(field CriterionField) ([]BusinessRule, error)
}

// LedgerDirectory answers ledger-account existence checks.
type LedgerDirectory interface {
	HasLedgerAccount(id string) (bool, error)
}

// AccountDirectory is the own-account fallback lookup: it finds the ledger
// account linked to the account whose display name or number equals the
// given identifier, case-insensitively.
type AccountDirectory interface {
	LedgerFor(ident string) (ledgerID string, ok bool, err error)
}

// Engine is the booking engine. It evaluates the current rule set against
// transaction lines to build and synchronize bookings. The engine holds no
// mutable state of its own: every call reads the rule set through its
// collaborators, computes a result and returns it.
type Engine struct {
	Rules    RuleSource
	Ledgers  LedgerDirectory
	Accounts AccountDirectory

	now   func() time.Time
	newID func() string
}

// NewEngine creates a booking engine on top of the given collaborators.
func NewEngine(rules RuleSource, ledgers LedgerDirectory, accounts AccountDirectory) *Engine {
	return &Engine{
		Rules:    rules,
		Ledgers:  ledgers,
		Accounts: accounts,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// BuildOptions carries the optional overrides for BuildBooking.
type BuildOptions struct {
	// OwnLedger bypasses own-account resolution.
	OwnLedger string
	// ContraLedger bypasses rule matching entirely and books a single
	// opposite line to the given ledger account. The line it produces
	// carries no rule link, so synchronization treats it as manual.
	ContraLedger string
}

// ResolveOwnAccountLedger determines the ledger account for the line's own
// account: the first matching active own-account rule decides; failing
// that, an account record whose name or number equals the line's own
// account and that is linked to a ledger. Returns a *ResolutionError when
// neither applies.
func (e *Engine) ResolveOwnAccountLedger(line TransactionLine) (string, error) {
	rules, err := e.Rules.ActiveRules(FieldOwnAccount)
	if err != nil {
		return "", err
	}
	if r, ok := FirstMatch(rules, line); ok && len(r.Items) > 0 {
		return r.Items[0].LedgerID, nil
	}
	ledgerID, ok, err := e.Accounts.LedgerFor(line.OwnAccount)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", &ResolutionError{OwnAccount: line.OwnAccount}
	}
	return ledgerID, nil
}

// MatchContraRules returns every active non-system rule that fully matches
// the line, in ranked order. An empty result is a normal outcome: it means
// no contra rule applies yet.
//
// A user-defined rule on the own-account field participates here too; only
// system rules are excluded.
func (e *Engine) MatchContraRules(line TransactionLine) ([]BusinessRule, error) {
	rules, err := e.Rules.ActiveRules("")
	if err != nil {
		return nil, err
	}
	contra := rules[:0:0]
	for _, r := range rules {
		if !r.System {
			contra = append(contra, r)
		}
	}
	return AllMatches(contra, line), nil
}

// BuildBooking assembles a booking for a transaction line. Line 0 posts the
// line's amount to the own-account ledger; every matching contra rule
// contributes its line items in ranked order, skipping ledger accounts
// already used by an earlier line. The returned bool reports whether any
// contra line was generated.
//
// The booking is not persisted: the caller stores it. On error no partial
// booking is returned.
func (e *Engine) BuildBooking(line TransactionLine, opts BuildOptions) (*Booking, bool, error) {
	ownLedger := opts.OwnLedger
	if ownLedger == "" {
		var err error
		ownLedger, err = e.ResolveOwnAccountLedger(line)
		if err != nil {
			return nil, false, err
		}
	}
	if ok, err := e.Ledgers.HasLedgerAccount(ownLedger); err != nil {
		return nil, false, err
	} else if !ok {
		return nil, false, &ReferenceError{LedgerID: ownLedger}
	}

	var matched []BusinessRule
	if opts.ContraLedger != "" {
		// A contra override acts as a pseudo-rule with a single opposite
		// line item. Its empty ID marks the generated line as manual.
		matched = []BusinessRule{{
			Items: []LineItem{{LedgerID: opts.ContraLedger, Amount: OppositeOfFirstLine}},
		}}
	} else {
		var err error
		matched, err = e.MatchContraRules(line)
		if err != nil {
			return nil, false, err
		}
	}

	reference := line.Description
	if reference == "" {
		reference = line.ContraName
	}
	b := &Booking{
		ID:        e.newID(),
		Date:      line.Date,
		Reference: reference,
		LineID:    line.ID,
		CreatedAt: e.now(),
	}

	cur := line.CurrencyOrDefault()
	own := BookingLine{
		ID:          e.newID(),
		BookingID:   b.ID,
		LedgerID:    ownLedger,
		Currency:    cur,
		Description: line.Description,
	}
	if line.Amount.IsNegative() {
		own.Credit = line.Amount.Abs()
	} else {
		own.Debit = line.Amount
	}
	b.Lines = append(b.Lines, own)

	requiresReview := false
	for _, r := range matched {
		requiresReview = requiresReview || r.RequiresReview
		for _, item := range r.Items {
			if b.UsesLedger(item.LedgerID) {
				continue // an earlier line already targets this account
			}
			contra, err := e.expandItem(b, line, r, item, own)
			if err != nil {
				return nil, false, err
			}
			b.Lines = append(b.Lines, contra)
		}
	}
	if len(matched) == 0 {
		// An unclassified booking always needs review.
		requiresReview = true
	}
	b.RequiresReview = requiresReview
	b.Renumber()
	return b, len(matched) > 0, nil
}

// expandItem builds one contra line from a rule line item.
func (e *Engine) expandItem(b *Booking, line TransactionLine, r BusinessRule, item LineItem, own BookingLine) (BookingLine, error) {
	if ok, err := e.Ledgers.HasLedgerAccount(item.LedgerID); err != nil {
		return BookingLine{}, err
	} else if !ok {
		return BookingLine{}, &ReferenceError{LedgerID: item.LedgerID, Rule: r.Name}
	}
	contra := BookingLine{
		ID:             e.newID(),
		BookingID:      b.ID,
		LedgerID:       item.LedgerID,
		Currency:       line.CurrencyOrDefault(),
		Description:    line.Description,
		RuleID:         r.ID,
		RequiresReview: r.RequiresReview,
	}
	if item.Amount == OppositeOfFirstLine {
		// Opposite side of the own line, same magnitude.
		contra.Debit, contra.Credit = own.Credit, own.Debit
	}
	return contra, nil
}
