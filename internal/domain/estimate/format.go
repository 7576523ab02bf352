package estimate

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var inWordsLocale = language.MustParse("en-IN")

// FormatInWords renders amount the en-IN way with the rupee glyph and no
// fractional digits, e.g. ₹1,23,456. It ignores the document's selected
// currency glyph. The sign is kept for negatives that round to zero.
func FormatInWords(amount decimal.Decimal) string {
	whole := amount.Abs().Round(0).IntPart()
	p := message.NewPrinter(inWordsLocale)

	var b strings.Builder
	if amount.IsNegative() {
		b.WriteByte('-')
	}
	b.WriteString(string(CurrencyINR))
	b.WriteString(p.Sprint(number.Decimal(whole, number.MaxFractionDigits(0))))
	return b.String()
}

// Money renders amount with two decimals prefixed by the currency glyph.
func Money(c Currency, amount decimal.Decimal) string {
	return string(c) + amount.StringFixed(2)
}
