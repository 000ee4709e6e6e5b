package godaddy

import (
	"encoding/json"
	"fmt"
	"strings"
)

// The API nominally wraps results in {"domains": [...]}, but some
// deployments answer with a bare array. Field encodings are equally loose:
// booleans arrive as bools or strings, and the price hides in one of
// several nested shapes.
type rawEntry struct {
	Domain     string          `json:"domain"`
	Available  json.RawMessage `json:"available"`
	Definitive json.RawMessage `json:"definitive"`
	Price      json.RawMessage `json:"price"`
	PriceInfo  *nestedPrice    `json:"priceInfo"`
	Period     *nestedPrice    `json:"period"`
	Pricing    *nestedPrice    `json:"pricing"`
}

type nestedPrice struct {
	Price json.RawMessage `json:"price"`
}

func decodeResults(body []byte) ([]Result, error) {
	var entries []rawEntry

	var wrapped struct {
		Domains []rawEntry `json:"domains"`
	}
	trimmed := strings.TrimSpace(string(body))
	switch {
	case strings.HasPrefix(trimmed, "{"):
		if err := json.Unmarshal(body, &wrapped); err != nil {
			return nil, fmt.Errorf("decode response object: %w", err)
		}
		entries = wrapped.Domains
	case strings.HasPrefix(trimmed, "["):
		if err := json.Unmarshal(body, &entries); err != nil {
			return nil, fmt.Errorf("decode response array: %w", err)
		}
	default:
		return nil, fmt.Errorf("unexpected response body: %.60q", trimmed)
	}

	out := make([]Result, 0, len(entries))
	for _, e := range entries {
		if strings.TrimSpace(e.Domain) == "" {
			continue
		}
		out = append(out, Result{
			Domain:     strings.ToLower(strings.TrimSpace(e.Domain)),
			Available:  coerceBool(e.Available, "available", false),
			Definitive: coerceBool(e.Definitive, "definitive", true),
			Price:      normalizePrice(e),
		})
	}
	return out, nil
}

// coerceBool accepts JSON true/false as well as the string spellings the
// API has been seen to use ("true", and the field's own name).
func coerceBool(raw json.RawMessage, truthyWord string, absent bool) bool {
	if len(raw) == 0 {
		return absent
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "true", truthyWord:
			return true
		default:
			return false
		}
	}
	return absent
}

// normalizePrice picks the first numeric price out of the known shapes and
// converts micro-priced values (anything over 1000) to dollars.
func normalizePrice(e rawEntry) *float64 {
	candidates := []json.RawMessage{e.Price}
	if e.PriceInfo != nil {
		candidates = append(candidates, e.PriceInfo.Price)
	}
	if e.Period != nil {
		candidates = append(candidates, e.Period.Price)
	}
	if e.Pricing != nil {
		candidates = append(candidates, e.Pricing.Price)
	}

	for _, raw := range candidates {
		if len(raw) == 0 {
			continue
		}
		var f float64
		if err := json.Unmarshal(raw, &f); err != nil {
			continue
		}
		if f > 1000 {
			f /= 100
		}
		return &f
	}
	return nil
}
