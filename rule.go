package networth

import "strings"

// CriterionField selects which part of a transaction line a criterion
// inspects.
type CriterionField string

const (
	FieldOwnAccount        CriterionField = "own-account"
	FieldContraAccount     CriterionField = "contra-account"
	FieldContraAccountName CriterionField = "contra-account-name"
	FieldDescription       CriterionField = "description"
)

// ParseCriterionField parses a string into a CriterionField. Unrecognized
// values fall back to FieldContraAccountName, matching the behavior of rules
// saved by older versions.
func ParseCriterionField(s string) CriterionField {
	switch CriterionField(strings.TrimSpace(strings.ToLower(s))) {
	case FieldOwnAccount:
		return FieldOwnAccount
	case FieldContraAccount:
		return FieldContraAccount
	case FieldDescription:
		return FieldDescription
	default:
		return FieldContraAccountName
	}
}

// CriterionOperator is the comparison a criterion applies to the field value.
type CriterionOperator string

const (
	OpContains   CriterionOperator = "contains"
	OpEquals     CriterionOperator = "equals"
	OpStartsWith CriterionOperator = "starts-with"
)

// ParseCriterionOperator parses a string into a CriterionOperator.
// Unrecognized values fall back to OpContains.
func ParseCriterionOperator(s string) CriterionOperator {
	switch CriterionOperator(strings.TrimSpace(strings.ToLower(s))) {
	case OpEquals:
		return OpEquals
	case OpStartsWith:
		return OpStartsWith
	default:
		return OpContains
	}
}

// Criterion is one (field, operator, value) condition of a business rule.
// All string comparisons are case-insensitive.
type Criterion struct {
	Field CriterionField    `json:"field"`
	Op    CriterionOperator `json:"op"`
	Value string            `json:"value"`
}

// Matches evaluates the criterion against a transaction line.
func (c Criterion) Matches(line TransactionLine) bool {
	target := strings.ToLower(line.fieldValue(c.Field))
	value := strings.ToLower(c.Value)
	switch c.Op {
	case OpEquals:
		return strings.TrimSpace(target) == strings.TrimSpace(value)
	case OpStartsWith:
		return strings.HasPrefix(target, value)
	default:
		// Contains, and the fallback for operators saved by older versions.
		return strings.Contains(target, value)
	}
}

// Key returns the normalized identity of the criterion, used by conflict
// detection to find rules that share a condition.
func (c Criterion) Key() string {
	return strings.ToLower(strings.TrimSpace(string(c.Field))) + "|" +
		strings.ToLower(strings.TrimSpace(string(c.Op))) + "|" +
		strings.ToLower(strings.TrimSpace(c.Value))
}

// AmountType is the amount convention of a rule line item.
type AmountType int

const (
	// OppositeOfFirstLine books the opposite side of the own-account line,
	// for the same magnitude.
	OppositeOfFirstLine AmountType = iota
	// ZeroAmount books a 0/0 line, left for manual completion (e.g. an
	// interest versus principal split on a mortgage payment).
	ZeroAmount
)

func (a AmountType) String() string {
	switch a {
	case ZeroAmount:
		return "zero"
	default:
		return "opposite"
	}
}

// ParseAmountType parses a string into an AmountType. Unrecognized values
// fall back to OppositeOfFirstLine.
func ParseAmountType(s string) AmountType {
	if strings.TrimSpace(strings.ToLower(s)) == "zero" {
		return ZeroAmount
	}
	return OppositeOfFirstLine
}

// LineItem is a rule's template for one output booking line: a target ledger
// account and an amount convention, not yet bound to an amount.
type LineItem struct {
	LedgerID string     `json:"ledgerId"`
	Amount   AmountType `json:"amountType"`
}

// BusinessRule matches imported transaction lines and describes the booking
// lines to generate for them. A rule holds an ordered, non-empty list of
// criteria that must all match, and one or two line items.
//
// System rules are maintained automatically, one per ledger-linked account,
// and map an own-account number to its ledger. They are excluded from user
// editing, from conflict detection and from contra resolution.
type BusinessRule struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Criteria       []Criterion `json:"criteria"`
	Items          []LineItem  `json:"items"`
	Priority       int         `json:"priority"`
	Active         bool        `json:"active"`
	RequiresReview bool        `json:"requiresReview"`
	System         bool        `json:"system,omitempty"`
}

// NewSimpleRule builds a rule from the single-criterion flat form, the common
// case in practice.
func NewSimpleRule(id, name string, field CriterionField, op CriterionOperator, value string, items ...LineItem) BusinessRule {
	return BusinessRule{
		ID:       id,
		Name:     name,
		Criteria: []Criterion{{Field: field, Op: op, Value: value}},
		Items:    items,
		Active:   true,
	}
}

// Field returns the rule's primary field: the field of its first criterion.
// Own-account resolution only considers rules whose primary field is
// FieldOwnAccount.
func (r BusinessRule) Field() CriterionField {
	if len(r.Criteria) == 0 {
		return FieldContraAccountName
	}
	return r.Criteria[0].Field
}

// Matches reports whether every criterion of the rule matches the line.
// A rule without criteria never matches.
func (r BusinessRule) Matches(line TransactionLine) bool {
	if len(r.Criteria) == 0 {
		return false
	}
	for _, c := range r.Criteria {
		if !c.Matches(line) {
			return false
		}
	}
	return true
}
