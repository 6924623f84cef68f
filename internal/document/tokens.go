package document

import (
	"github.com/pkoukk/tiktoken-go"
)

// fallbackEncoding is tried when the model has no registered encoding.
const fallbackEncoding = "cl100k_base"

// Counter estimates how many model tokens a text consumes.
type Counter interface {
	Count(text string) int
}

type heuristicCounter struct{}

// Count assumes roughly four bytes per token.
func (heuristicCounter) Count(text string) int {
	return (len(text) + 3) / 4
}

type tiktokenCounter struct {
	enc *tiktoken.Tiktoken
}

func (c tiktokenCounter) Count(text string) int {
	return len(c.enc.Encode(text, nil, nil))
}

// NewCounter returns a tokenizer-backed Counter for model. When no encoding
// can be loaded it falls back to a byte-length estimate; the second return
// value reports whether the estimate is exact.
func NewCounter(model string) (Counter, bool) {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding(fallbackEncoding)
	}
	if err != nil {
		return heuristicCounter{}, false
	}
	return tiktokenCounter{enc: enc}, true
}
