package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"iq-home/estimate/internal/domain/estimate"
)

const templatesQuery = `
SELECT name, description, unit_price::text
FROM estimate_templates
ORDER BY position, name`

type templateRow struct {
	Name        string
	Description string
	UnitPrice   string
}

// LoadTemplates reads the category table. It is meant to run once at start.
func (db *DB) LoadTemplates(ctx context.Context) ([]estimate.Template, error) {
	rows, err := db.Pool.Query(ctx, templatesQuery)
	if err != nil {
		return nil, fmt.Errorf("query templates: %w", err)
	}
	list, err := pgx.CollectRows(rows, pgx.RowToStructByPos[templateRow])
	if err != nil {
		return nil, fmt.Errorf("scan templates: %w", err)
	}
	return toTemplates(list)
}

func toTemplates(rows []templateRow) ([]estimate.Template, error) {
	out := make([]estimate.Template, 0, len(rows))
	for _, r := range rows {
		price, err := decimal.NewFromString(r.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("template %q price %q: %w", r.Name, r.UnitPrice, err)
		}
		out = append(out, estimate.Template{Name: r.Name, Description: r.Description, UnitPrice: price})
	}
	return out, nil
}
