package networth

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// FormatMoney renders an amount with the symbol and fraction rules of its
// currency, e.g. "€1,234.56" for EUR.
func FormatMoney(v decimal.Decimal, currency string) string {
	if currency == "" {
		currency = DefaultCurrency
	}
	// the money constructor is the only way to get a never-nil currency
	cur := *money.New(0, currency).Currency()
	minor := v.Shift(int32(cur.Fraction))
	return cur.Formatter().Format(minor.IntPart())
}

// FormatSignedMoney is FormatMoney with an explicit sign, and "-" for zero.
func FormatSignedMoney(v decimal.Decimal, currency string) string {
	if v.IsZero() {
		return "-"
	}
	if v.IsPositive() {
		return "+" + FormatMoney(v, currency)
	}
	return FormatMoney(v, currency)
}
