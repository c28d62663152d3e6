// Package cost tracks token usage across LLM calls and prices it against a
// per-model table.
package cost

import (
	"fmt"

	"github.com/tmc/langchaingo/llms"
)

// Usage accumulates token counts across one or more model calls.
type Usage struct {
	PromptTokens       int `json:"prompt_tokens"`
	CompletionTokens   int `json:"completion_tokens"`
	CachedPromptTokens int `json:"cached_prompt_tokens"`
}

// Add merges another usage sample into u.
func (u *Usage) Add(other Usage) {
	u.PromptTokens += other.PromptTokens
	u.CompletionTokens += other.CompletionTokens
	u.CachedPromptTokens += other.CachedPromptTokens
}

// TotalTokens returns the combined prompt and completion token count.
func (u Usage) TotalTokens() int {
	return u.PromptTokens + u.CompletionTokens
}

// Pricing holds USD prices per one million tokens.
type Pricing struct {
	InputPerMillion       float64 `json:"input_per_million"`
	OutputPerMillion      float64 `json:"output_per_million"`
	CachedInputPerMillion float64 `json:"cached_input_per_million"`
}

// DefaultPricing is the pricing table used when the config supplies none.
var DefaultPricing = map[string]Pricing{
	"gpt-5.1": {
		InputPerMillion:       1.25,
		OutputPerMillion:      10.00,
		CachedInputPerMillion: 0.125,
	},
}

// Calculate returns the approximate USD cost of the given usage.
func Calculate(u Usage, p Pricing) float64 {
	inputCost := float64(u.PromptTokens) / 1_000_000 * p.InputPerMillion
	outputCost := float64(u.CompletionTokens) / 1_000_000 * p.OutputPerMillion
	cachedCost := float64(u.CachedPromptTokens) / 1_000_000 * p.CachedInputPerMillion
	return inputCost + outputCost + cachedCost
}

// Format renders a cost the way the CLI reports it.
func Format(total float64) string {
	return fmt.Sprintf("Cost: $%.7f", total)
}

// FromResponse extracts token usage from a langchaingo content response.
// The openai backend reports counts in the first choice's GenerationInfo.
func FromResponse(resp *llms.ContentResponse) Usage {
	var u Usage
	if resp == nil || len(resp.Choices) == 0 {
		return u
	}
	info := resp.Choices[0].GenerationInfo
	u.PromptTokens = intFromInfo(info, "PromptTokens")
	u.CompletionTokens = intFromInfo(info, "CompletionTokens")
	u.CachedPromptTokens = intFromInfo(info, "CachedPromptTokens")
	return u
}

func intFromInfo(info map[string]any, key string) int {
	if info == nil {
		return 0
	}
	switch v := info[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}
