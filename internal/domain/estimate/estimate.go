package estimate

import (
	"time"

	"github.com/shopspring/decimal"
)

const DateLayout = "2006-01-02"

type Currency string

const (
	CurrencyINR Currency = "₹"
	CurrencyUSD Currency = "$"
	CurrencyEUR Currency = "€"
)

// Currencies lists the selectable glyphs in selector order.
var Currencies = []Currency{CurrencyINR, CurrencyUSD, CurrencyEUR}

func ParseCurrency(s string) (Currency, error) {
	for _, c := range Currencies {
		if string(c) == s {
			return c, nil
		}
	}
	return "", ErrInvalidCurrency
}

type Kind string

const (
	KindPercent Kind = "percent"
	KindFlat    Kind = "flat"
)

func ParseKind(s string) (Kind, error) {
	switch s {
	case "percent", "%":
		return KindPercent, nil
	case "flat":
		return KindFlat, nil
	}
	return "", ErrInvalidKind
}

// UnmarshalText accepts "%" as an alias of percent.
func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

type LineItem struct {
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// LineTotal is always computed from the current quantity and price.
func (it LineItem) LineTotal() decimal.Decimal {
	return it.Quantity.Mul(it.UnitPrice)
}

// Adjustment is a percent-or-flat modifier. Label is only meaningful for taxes.
type Adjustment struct {
	Label string          `json:"label,omitempty"`
	Kind  Kind            `json:"kind" validate:"oneof=percent flat"`
	Value decimal.Decimal `json:"value"`
}

// Amount applies the adjustment to base.
func (a Adjustment) Amount(base decimal.Decimal) decimal.Decimal {
	if a.Kind == KindFlat {
		return a.Value
	}
	return base.Mul(a.Value).Div(hundred)
}

type Document struct {
	SharedBy     string       `json:"shared_by"`
	CustomerName string       `json:"customer_name"`
	Date         string       `json:"date"`
	ProjectName  string       `json:"project_name"`
	Subject      string       `json:"subject"`
	TermsURL     string       `json:"terms_url"`
	Currency     Currency     `json:"currency" validate:"oneof=₹ $ €"`
	Items        []LineItem   `json:"items" validate:"dive"`
	Discount     Adjustment   `json:"discount"`
	Taxes        []Adjustment `json:"taxes" validate:"dive"`
}

// New returns the empty document a fresh form starts with.
func New(now time.Time) *Document {
	return &Document{
		Date:     now.Format(DateLayout),
		Currency: CurrencyINR,
		Items:    []LineItem{},
		Discount: Adjustment{Kind: KindPercent, Value: decimal.Zero},
		Taxes:    []Adjustment{},
	}
}

// Snapshot returns a copy that shares no slices with d.
func (d *Document) Snapshot() Document {
	s := *d
	s.Items = append([]LineItem(nil), d.Items...)
	s.Taxes = append([]Adjustment(nil), d.Taxes...)
	return s
}

// Normalize fills the defaults a client may omit from a posted document.
func (d *Document) Normalize() {
	if d.Currency == "" {
		d.Currency = CurrencyINR
	}
	if d.Discount.Kind == "" {
		d.Discount.Kind = KindPercent
	}
	for i := range d.Taxes {
		if d.Taxes[i].Kind == "" {
			d.Taxes[i].Kind = KindPercent
		}
	}
}
