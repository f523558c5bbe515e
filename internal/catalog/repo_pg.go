package catalog

import (
	"context"
	"database/sql"
	"fmt"

	json "github.com/goccy/go-json"
)

// Rows come back in insertion order so equal-price ties resolve like the file catalog.
const selectRacketsSQL = `SELECT id, level, style, stiffness, price, attrs FROM rackets ORDER BY created_at, id`

// LoadFromDB reads every row of the rackets table. attrs holds the pass-through fields; a jsonb
// null is treated as no extra fields.
func LoadFromDB(ctx context.Context, db *sql.DB) (*Catalog, error) {
	rows, err := db.QueryContext(ctx, selectRacketsSQL)
	if err != nil {
		return nil, fmt.Errorf("query rackets: %w", err)
	}
	defer rows.Close()

	var items []Racket
	for rows.Next() {
		var (
			id    string
			r     Racket
			attrs []byte
		)
		if err := rows.Scan(&id, &r.Level, &r.Style, &r.Stiffness, &r.Price, &attrs); err != nil {
			return nil, fmt.Errorf("scan racket: %w", err)
		}
		if r.Price < 0 {
			return nil, fmt.Errorf("%w: racket %s has negative price", ErrMalformed, id)
		}
		r.attrs = map[string]json.RawMessage{}
		if len(attrs) > 0 {
			if err := json.Unmarshal(attrs, &r.attrs); err != nil {
				return nil, fmt.Errorf("%w: racket %s attrs: %v", ErrMalformed, id, err)
			}
			if r.attrs == nil {
				r.attrs = map[string]json.RawMessage{}
			}
		}
		for _, key := range matchKeys {
			delete(r.attrs, key)
		}
		idJSON, err := json.Marshal(id)
		if err != nil {
			return nil, err
		}
		r.attrs["id"] = idJSON
		items = append(items, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rackets: %w", err)
	}
	return &Catalog{items: items}, nil
}
