package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// PricingEntry is one category line of the legacy pricing map.
type PricingEntry struct {
	Category string
	Amount   float64
	Notes    string
}

// LegacyPricing is the old per-category pricing payload. On the wire it is a
// JSON object keyed by category; a plain Go map would lose the key order the
// normalizer has to preserve, so it is kept as an ordered slice and
// (un)marshaled by hand.
type LegacyPricing []PricingEntry

type legacyPricingValue struct {
	Amount float64 `json:"amount"`
	Notes  string  `json:"notes,omitempty"`
}

func (p *LegacyPricing) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*p = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("legacy pricing: expected object, got %v", tok)
	}

	out := LegacyPricing{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("legacy pricing: non-string key %v", keyTok)
		}

		var val legacyPricingValue
		if err := dec.Decode(&val); err != nil {
			return fmt.Errorf("legacy pricing: entry %q: %w", key, err)
		}

		out = append(out, PricingEntry{
			Category: key,
			Amount:   val.Amount,
			Notes:    val.Notes,
		})
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	*p = out
	return nil
}

func (p LegacyPricing) MarshalJSON() ([]byte, error) {
	if p == nil {
		return []byte("null"), nil
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range p {
		if i > 0 {
			buf.WriteByte(',')
		}

		k, err := json.Marshal(e.Category)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')

		v, err := json.Marshal(legacyPricingValue{Amount: e.Amount, Notes: e.Notes})
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}
