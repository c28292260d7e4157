package eval

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// TokenCounter counts LLM tokens with a real tokenizer. Its Count method
// satisfies deeptoon.CostFunc, so it plugs straight into SmartEncode.
type TokenCounter struct {
	enc *tiktoken.Tiktoken
}

// NewTokenCounter builds a counter for the given model's encoding.
func NewTokenCounter(model string) (*TokenCounter, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return nil, fmt.Errorf("eval: tokenizer for %s: %w", model, err)
	}
	return &TokenCounter{enc: enc}, nil
}

// Count returns the token count of text.
func (c *TokenCounter) Count(text string) int {
	return len(c.enc.Encode(text, nil, nil))
}

// EstimateTokens is a tokenizer-free fallback: roughly four characters per
// token for English-like text. Used when the tokenizer data is unavailable
// (for example offline CI).
func EstimateTokens(text string) int {
	return (len(text) + 3) / 4
}
