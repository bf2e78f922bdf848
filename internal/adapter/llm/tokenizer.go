// Package llm provides shared pieces for the LLM provider adapters.
package llm

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// encoder memoizes the tiktoken encoding, which is expensive to construct.
var encoder = sync.OnceValues(func() (*tiktoken.Tiktoken, error) {
	return tiktoken.GetEncoding("cl100k_base")
})

// EstimateTokens counts tokens in text with the cl100k_base encoding. GPT-4
// uses that encoding natively, and it tracks closely enough for Claude that
// one counter serves every provider's chunk budgeting. If the encoding
// cannot be loaded, a four-characters-per-token estimate stands in.
func EstimateTokens(text string) int {
	enc, err := encoder()
	if err != nil {
		return len(text) / 4
	}
	return len(enc.Encode(text, nil, nil))
}
