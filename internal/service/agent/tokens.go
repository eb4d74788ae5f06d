package agent

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
	"github.com/sandevgo/ridevoice/internal/core"
)

const defaultEncoding = "cl100k_base"

// TokenCounter estimates prompt size. A nil counter counts nothing.
type TokenCounter struct {
	enc *tiktoken.Tiktoken
}

func NewTokenCounter() (*TokenCounter, error) {
	enc, err := tiktoken.GetEncoding(defaultEncoding)
	if err != nil {
		return nil, fmt.Errorf("load %s encoding: %w", defaultEncoding, err)
	}
	return &TokenCounter{enc: enc}, nil
}

func (c *TokenCounter) Count(messages []core.Turn) int {
	if c == nil || c.enc == nil {
		return 0
	}
	total := 0
	for _, m := range messages {
		total += len(c.enc.Encode(m.Content, nil, nil))
	}
	return total
}
