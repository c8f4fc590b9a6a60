// Package costs estimates token counts and converts LLM usage into USD.
package costs

import (
	"strings"

	"github.com/pkoukk/tiktoken-go"

	"interviewcore/internal/llm"
)

// fallbackEncoding is the reference tokenizer used when a gpt model has
// no registered encoding of its own.
const fallbackEncoding = "cl100k_base"

// TokenCounts holds both sides of one exchange.
type TokenCounts struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// EstimateTokens counts tokens in text for the given model. The gpt
// family gets a precise tiktoken count (model-specific encoding,
// cl100k_base on lookup failure); everything else is approximated at
// four characters per token. Empty text is 0 without touching a tokenizer.
func EstimateTokens(text, model string) int {
	if text == "" {
		return 0
	}

	if strings.HasPrefix(model, "gpt") {
		enc, err := tiktoken.EncodingForModel(model)
		if err != nil {
			enc, err = tiktoken.GetEncoding(fallbackEncoding)
		}
		if err == nil {
			return len(enc.Encode(text, nil, nil))
		}
		// tokenizer unavailable, fall through to the approximation
	}

	return len(text) / 4
}

// CalculateCost converts token counts into USD using the pricing table.
func CalculateCost(promptTokens, completionTokens int, model string) float64 {
	p := PricingFor(model)

	inputCost := float64(promptTokens) / 1000 * p.InputPer1K
	outputCost := float64(completionTokens) / 1000 * p.OutputPer1K

	return inputCost + outputCost
}

// Counts returns token counts for an exchange. Provider-reported counts
// take precedence over estimation when present.
func Counts(prompt, response, model string, actual *llm.Usage) TokenCounts {
	if actual != nil {
		return TokenCounts{
			PromptTokens:     actual.PromptTokens,
			CompletionTokens: actual.CompletionTokens,
			TotalTokens:      actual.TotalTokens,
		}
	}

	promptTokens := EstimateTokens(prompt, model)
	completionTokens := EstimateTokens(response, model)

	return TokenCounts{
		PromptTokens:     promptTokens,
		CompletionTokens: completionTokens,
		TotalTokens:      promptTokens + completionTokens,
	}
}
