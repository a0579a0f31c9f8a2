package catalog

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"autoparts/internal/model"

	"github.com/shopspring/decimal"
)

// rawProduct is the product shape as the API sends it. Price, specs and id
// arrive with inconsistent types, so they are normalized after decoding.
type rawProduct struct {
	ID    json.RawMessage `json:"id"`
	Name  string          `json:"name"`
	Brand string          `json:"brand"`
	Image string          `json:"image"`
	Price json.RawMessage `json:"price"`
	Specs json.RawMessage `json:"specs"`
}

func (p rawProduct) normalize() model.Product {
	return model.Product{
		ID:    normalizeID(p.ID),
		Name:  p.Name,
		Brand: p.Brand,
		Image: p.Image,
		Price: normalizePrice(p.Price),
		Specs: normalizeSpecs(p.Specs),
	}
}

// normalizePrice accepts a JSON number, a numeric string or a boolean.
// Anything else is 0.
func normalizePrice(raw json.RawMessage) decimal.Decimal {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return decimal.Zero
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return decimal.Zero
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return decimal.Zero
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero
		}
		return d
	case 't':
		return decimal.NewFromInt(1)
	case 'f', 'n', '[', '{':
		return decimal.Zero
	}

	d, err := decimal.NewFromString(string(raw))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// normalizeSpecs keeps string entries, stringifies other scalars and drops
// nulls. A missing or non-array value gives an empty list.
func normalizeSpecs(raw json.RawMessage) []string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return []string{}
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return []string{}
	}

	specs := make([]string, 0, len(items))
	for _, item := range items {
		item = bytes.TrimSpace(item)
		if bytes.Equal(item, []byte("null")) {
			continue
		}
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			specs = append(specs, s)
			continue
		}
		specs = append(specs, string(item))
	}
	return specs
}

func normalizeID(raw json.RawMessage) int64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0
	}
	text := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return 0
		}
	}
	id, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
