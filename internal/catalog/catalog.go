// Package catalog holds the immutable racket catalog loaded once at startup.
package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	json "github.com/goccy/go-json"

	"racket-backend/internal/shared/storage/object"
)

// ErrMalformed is returned when the catalog resource cannot be decoded into records.
var ErrMalformed = errors.New("malformed catalog")

// Catalog is a read-only set of rackets. Safe for concurrent use.
type Catalog struct {
	items []Racket
}

// New builds a catalog from already-decoded records. The slice is copied.
func New(items []Racket) *Catalog {
	return &Catalog{items: append([]Racket(nil), items...)}
}

// Items returns a copy of the records so callers cannot reorder or replace catalog entries.
func (c *Catalog) Items() []Racket {
	if c == nil {
		return nil
	}
	return append([]Racket(nil), c.items...)
}

// Len reports the number of records.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

// Parse decodes a JSON array of racket records.
func Parse(data []byte) (*Catalog, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	items := make([]Racket, 0, len(raw))
	for i, rec := range raw {
		if bytes.Equal(bytes.TrimSpace(rec), []byte("null")) {
			return nil, fmt.Errorf("%w: record %d is null", ErrMalformed, i)
		}
		var r Racket
		if err := json.Unmarshal(rec, &r); err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrMalformed, i, err)
		}
		items = append(items, r)
	}
	return &Catalog{items: items}, nil
}

// Load reads and parses the catalog resource stored under key.
func Load(ctx context.Context, store object.Store, key string) (*Catalog, error) {
	rc, err := store.Open(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", key, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", key, err)
	}
	return Parse(data)
}
