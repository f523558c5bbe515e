package catalog

import (
	"bytes"
	"fmt"

	json "github.com/goccy/go-json"
)

// Racket is one catalog entry. The four matching attributes are typed; every other field of the
// source record is kept verbatim in attrs and re-emitted on encode.
type Racket struct {
	Level     string
	Style     string
	Stiffness string
	Price     int

	attrs map[string]json.RawMessage
}

var matchKeys = [...]string{"level", "style", "stiffness", "price"}

// Attr returns the raw JSON of a pass-through field such as "brand" or "model".
func (r Racket) Attr(key string) (json.RawMessage, bool) {
	raw, ok := r.attrs[key]
	return raw, ok
}

// ID returns the "id" field rendered as text, or "" when absent.
func (r Racket) ID() string {
	raw, ok := r.attrs["id"]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(bytes.TrimSpace(raw))
}

// MarshalJSON emits the typed attributes merged with the pass-through fields. Keys are sorted.
func (r Racket) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.attrs)+len(matchKeys))
	for k, v := range r.attrs {
		out[k] = v
	}
	out["level"] = r.Level
	out["style"] = r.Style
	out["stiffness"] = r.Stiffness
	out["price"] = r.Price
	return json.Marshal(out)
}

// UnmarshalJSON decodes a catalog record, requiring the four matching attributes.
func (r *Racket) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if fields == nil {
		return fmt.Errorf("record is null")
	}

	var out Racket
	for _, key := range matchKeys {
		raw, ok := fields[key]
		if !ok {
			return fmt.Errorf("missing field %q", key)
		}
		if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return fmt.Errorf("field %q is null", key)
		}
		var err error
		switch key {
		case "level":
			err = json.Unmarshal(raw, &out.Level)
		case "style":
			err = json.Unmarshal(raw, &out.Style)
		case "stiffness":
			err = json.Unmarshal(raw, &out.Stiffness)
		case "price":
			err = json.Unmarshal(raw, &out.Price)
		}
		if err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
		delete(fields, key)
	}
	if out.Price < 0 {
		return fmt.Errorf("field %q: must be non-negative, got %d", "price", out.Price)
	}
	if len(fields) > 0 {
		out.attrs = fields
	}
	*r = out
	return nil
}
