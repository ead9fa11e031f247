package report

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var brl = message.NewPrinter(language.BrazilianPortuguese)

// FormatBRL renders a currency amount in Brazilian convention, e.g.
// "R$ 1.234,56".
func FormatBRL(amount float64) string {
	return brl.Sprintf("R$ %v", number.Decimal(amount,
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2),
	))
}
