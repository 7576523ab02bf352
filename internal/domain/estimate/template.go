package estimate

import "github.com/shopspring/decimal"

// CustomItem is offered in the category selector but carries no defaults.
const CustomItem = "Custom Item"

// CustomItemHint is the placeholder shown for a custom description.
const CustomItemHint = "Add Details here"

type Template struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// Catalog is the fixed category lookup table. The zero value is empty.
type Catalog struct {
	order  []string
	byName map[string]Template
}

func NewCatalog(templates []Template) *Catalog {
	c := &Catalog{byName: make(map[string]Template, len(templates))}
	for _, t := range templates {
		if t.Name == "" || t.Name == CustomItem {
			continue
		}
		if _, dup := c.byName[t.Name]; !dup {
			c.order = append(c.order, t.Name)
		}
		c.byName[t.Name] = t
	}
	return c
}

// DefaultCatalog returns the built-in design templates.
func DefaultCatalog() *Catalog {
	return NewCatalog([]Template{
		{Name: "Tech Pack", Description: "Detailed production tech pack", UnitPrice: decimal.NewFromInt(2000)},
		{Name: "Premium Design CAT A", Description: "Premium fashion design A", UnitPrice: decimal.NewFromInt(4500)},
		{Name: "Premium Design CAT B", Description: "Premium fashion design B", UnitPrice: decimal.NewFromInt(4000)},
		{Name: "Standard Design CAT A", Description: "Standard fashion design A", UnitPrice: decimal.NewFromInt(3500)},
		{Name: "Standard Design CAT B", Description: "Standard fashion design B", UnitPrice: decimal.NewFromInt(3000)},
	})
}

func (c *Catalog) Lookup(name string) (Template, bool) {
	if c == nil {
		return Template{}, false
	}
	t, ok := c.byName[name]
	return t, ok
}

// Names returns the selectable categories, Custom Item last.
func (c *Catalog) Names() []string {
	var out []string
	if c != nil {
		out = append(out, c.order...)
	}
	return append(out, CustomItem)
}

// Templates returns the table rows in display order.
func (c *Catalog) Templates() []Template {
	if c == nil {
		return nil
	}
	out := make([]Template, 0, len(c.order))
	for _, n := range c.order {
		out = append(out, c.byName[n])
	}
	return out
}
