package networth

import (
	"github.com/shopspring/decimal"
)

// DefaultCurrency is assumed whenever an imported line or a booking line
// carries no currency of its own.
const DefaultCurrency = "EUR"

// TransactionLine is a single imported bank transaction. It is immutable
// once imported: the engine reads it to build or synchronize a booking but
// never modifies it.
type TransactionLine struct {
	ID            string          `json:"id"`
	Date          Date            `json:"date"`
	OwnAccount    string          `json:"ownAccount"`    // account number of the importing account
	ContraAccount string          `json:"contraAccount"` // counterparty account number, may be empty
	ContraName    string          `json:"contraName"`    // counterparty display name
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"` // signed: positive is money in, negative is money out
	Currency      string          `json:"currency"`
}

// CurrencyOrDefault returns the line currency, or DefaultCurrency when unset.
func (l TransactionLine) CurrencyOrDefault() string {
	if l.Currency == "" {
		return DefaultCurrency
	}
	return l.Currency
}

// fieldValue resolves a criterion field to the corresponding string value of
// the line. Unset values resolve to the empty string.
func (l TransactionLine) fieldValue(f CriterionField) string {
	switch f {
	case FieldOwnAccount:
		return l.OwnAccount
	case FieldContraAccount:
		return l.ContraAccount
	case FieldDescription:
		return l.Description
	default:
		return l.ContraName
	}
}
