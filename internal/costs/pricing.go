package costs

import "strings"

// Pricing is the per-1K-token price pair for a model family, in USD.
type Pricing struct {
	InputPer1K  float64
	OutputPer1K float64
}

type pricingEntry struct {
	prefix  string
	pricing Pricing
}

// pricingTable maps model-name prefixes to prices. Order matters: the
// first matching prefix wins, so more specific prefixes come before the
// families they extend (gpt-4-turbo before gpt-4).
var pricingTable = []pricingEntry{
	{"gpt-4-turbo", Pricing{InputPer1K: 0.01, OutputPer1K: 0.03}},
	{"gpt-4", Pricing{InputPer1K: 0.03, OutputPer1K: 0.06}},
	{"gpt-3.5-turbo", Pricing{InputPer1K: 0.0015, OutputPer1K: 0.002}},
	{"gemini-2.5-flash", Pricing{InputPer1K: 0.000075, OutputPer1K: 0.00015}},
	{"gemini-1.5-pro", Pricing{InputPer1K: 0.00125, OutputPer1K: 0.005}},
	{"gemini-1.5-flash", Pricing{InputPer1K: 0.000075, OutputPer1K: 0.0003}},
	{"gemini-pro", Pricing{InputPer1K: 0.00025, OutputPer1K: 0.0005}},
}

// defaultPricing is the fallback for unknown models (gemini-pro rates).
var defaultPricing = Pricing{InputPer1K: 0.00025, OutputPer1K: 0.0005}

// PricingFor returns the price pair for a model, falling back to
// defaultPricing when no prefix matches.
func PricingFor(model string) Pricing {
	for _, entry := range pricingTable {
		if strings.HasPrefix(model, entry.prefix) {
			return entry.pricing
		}
	}
	return defaultPricing
}
