package estimate

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

type TaxLine struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

type Totals struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TaxableBase    decimal.Decimal `json:"taxable_base"`
	Taxes          []TaxLine       `json:"taxes"`
	GrandTotal     decimal.Decimal `json:"grand_total"`
	InWords        string          `json:"in_words"`
}

// Derive computes the totals from the current state. Every tax is applied to
// the same taxable base; a discount larger than the subtotal yields a negative
// base and is not clamped.
func (d *Document) Derive() Totals {
	subtotal := decimal.Zero
	for _, it := range d.Items {
		subtotal = subtotal.Add(it.LineTotal())
	}

	discount := d.Discount.Amount(subtotal)
	base := subtotal.Sub(discount)

	taxes := make([]TaxLine, 0, len(d.Taxes))
	total := base
	for _, t := range d.Taxes {
		amt := t.Amount(base)
		taxes = append(taxes, TaxLine{Label: t.Label, Amount: amt})
		total = total.Add(amt)
	}

	return Totals{
		Subtotal:       subtotal,
		DiscountAmount: discount,
		TaxableBase:    base,
		Taxes:          taxes,
		GrandTotal:     total,
		InWords:        FormatInWords(total),
	}
}
