package estimate

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Item fields accepted by SetItemField.
const (
	FieldCategory    = "category"
	FieldDescription = "description"
	FieldQuantity    = "quantity"
	FieldUnitPrice   = "unit_price"
)

// Tax fields accepted by SetTaxField.
const (
	FieldLabel = "label"
	FieldKind  = "kind"
	FieldValue = "value"
)

// AddItem appends a blank row and returns its index.
func (d *Document) AddItem() int {
	d.Items = append(d.Items, LineItem{Quantity: decimal.NewFromInt(1), UnitPrice: decimal.Zero})
	return len(d.Items) - 1
}

// SetItemCategory overwrites description, price and quantity of row i from the
// catalog. Prior manual edits to the row are discarded.
func (d *Document) SetItemCategory(c *Catalog, i int, category string) error {
	if i < 0 || i >= len(d.Items) {
		return fmt.Errorf("item %d: %w", i, ErrItemIndex)
	}
	it := LineItem{Category: category, Quantity: decimal.NewFromInt(1), UnitPrice: decimal.Zero}
	if t, ok := c.Lookup(category); ok {
		it.Description = t.Description
		it.UnitPrice = t.UnitPrice
	}
	d.Items[i] = it
	return nil
}

// SetItemField writes one field of row i. Numeric fields that fail to parse
// leave the row untouched.
func (d *Document) SetItemField(c *Catalog, i int, field, value string) error {
	if i < 0 || i >= len(d.Items) {
		return fmt.Errorf("item %d: %w", i, ErrItemIndex)
	}
	switch field {
	case FieldCategory:
		return d.SetItemCategory(c, i, value)
	case FieldDescription:
		d.Items[i].Description = value
	case FieldQuantity:
		n, err := parseNumber(field, value)
		if err != nil {
			return err
		}
		d.Items[i].Quantity = n
	case FieldUnitPrice:
		n, err := parseNumber(field, value)
		if err != nil {
			return err
		}
		d.Items[i].UnitPrice = n
	default:
		return fmt.Errorf("item field %q: %w", field, ErrUnknownField)
	}
	return nil
}

func (d *Document) SetDiscount(kind Kind, value decimal.Decimal) error {
	k, err := ParseKind(string(kind))
	if err != nil {
		return err
	}
	d.Discount = Adjustment{Kind: k, Value: value}
	return nil
}

// AddTax appends a tax row and returns its index.
func (d *Document) AddTax(label string, kind Kind, value decimal.Decimal) (int, error) {
	k, err := ParseKind(string(kind))
	if err != nil {
		return 0, err
	}
	d.Taxes = append(d.Taxes, Adjustment{Label: label, Kind: k, Value: value})
	return len(d.Taxes) - 1, nil
}

func (d *Document) SetTaxField(i int, field, value string) error {
	if i < 0 || i >= len(d.Taxes) {
		return fmt.Errorf("tax %d: %w", i, ErrTaxIndex)
	}
	switch field {
	case FieldLabel:
		d.Taxes[i].Label = value
	case FieldKind:
		k, err := ParseKind(value)
		if err != nil {
			return err
		}
		d.Taxes[i].Kind = k
	case FieldValue:
		n, err := parseNumber(field, value)
		if err != nil {
			return err
		}
		d.Taxes[i].Value = n
	default:
		return fmt.Errorf("tax field %q: %w", field, ErrUnknownField)
	}
	return nil
}

// Header carries the free-text fields of the form. Nil fields are left as is.
type Header struct {
	SharedBy     *string `json:"shared_by"`
	CustomerName *string `json:"customer_name"`
	Date         *string `json:"date"`
	ProjectName  *string `json:"project_name"`
	Subject      *string `json:"subject"`
	TermsURL     *string `json:"terms_url"`
	Currency     *string `json:"currency"`
}

func (d *Document) ApplyHeader(h Header) error {
	if h.Currency != nil {
		c, err := ParseCurrency(*h.Currency)
		if err != nil {
			return err
		}
		d.Currency = c
	}
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&d.SharedBy, h.SharedBy)
	set(&d.CustomerName, h.CustomerName)
	set(&d.Date, h.Date)
	set(&d.ProjectName, h.ProjectName)
	set(&d.Subject, h.Subject)
	set(&d.TermsURL, h.TermsURL)
	return nil
}

func parseNumber(field, value string) (decimal.Decimal, error) {
	n, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s %q: %w", field, value, ErrInvalidNumber)
	}
	return n, nil
}
