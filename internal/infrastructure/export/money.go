package export

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var ptBR = message.NewPrinter(language.BrazilianPortuguese)

// FormatBRL formatea un valor monetario en pt-BR: "R$ 1.234,50".
func FormatBRL(d decimal.Decimal) string {
	f := d.Round(2).InexactFloat64()
	return ptBR.Sprintf("R$ %v", number.Decimal(f, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// FormatInt entero con separador de miles pt-BR: 1234 → "1.234".
func FormatInt(n int64) string {
	return ptBR.Sprintf("%v", number.Decimal(n))
}
