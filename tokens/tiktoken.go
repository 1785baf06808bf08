package tokens

import (
	"errors"
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding is the BPE encoding used when none is specified.
// cl100k_base is used by GPT-4 and is a good approximation for most
// providers.
const DefaultEncoding = "cl100k_base"

// ErrInconsistentOffsets indicates the underlying encoder produced token
// pieces that do not reassemble into the input text. It signals a broken
// adapter, not bad input, and is never retried here.
var ErrInconsistentOffsets = errors.New("tokenizer produced inconsistent offsets")

// Tiktoken counts tokens with a real BPE encoding via tiktoken-go.
type Tiktoken struct {
	enc *tiktoken.Tiktoken
}

// NewTiktoken creates a tokenizer for the named encoding ("cl100k_base",
// "o200k_base", ...). An empty name selects DefaultEncoding.
func NewTiktoken(encoding string) (*Tiktoken, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("tokens: get encoding %q: %w", encoding, err)
	}
	return &Tiktoken{enc: enc}, nil
}

// NewTiktokenForModel creates a tokenizer for the named model, falling back
// to DefaultEncoding when the model is unknown.
func NewTiktokenForModel(model string) (*Tiktoken, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return NewTiktoken(DefaultEncoding)
	}
	return &Tiktoken{enc: enc}, nil
}

// Count returns the exact token count of the text under this encoding.
func (t *Tiktoken) Count(text string) int {
	return len(t.enc.Encode(text, nil, nil))
}

// FitsInLimit returns true if the text fits within the token limit.
func (t *Tiktoken) FitsInLimit(text string, limit int) bool {
	return t.Count(text) <= limit
}

// Offsets returns the byte span each token covers. BPE tokens partition the
// UTF-8 bytes of the input, so spans are recovered by decoding each token id
// and accumulating piece widths. The reassembled pieces are checked against
// the input length; a mismatch is reported as ErrInconsistentOffsets.
func (t *Tiktoken) Offsets(text string) ([]Span, error) {
	ids := t.enc.Encode(text, nil, nil)
	if len(ids) == 0 {
		return nil, nil
	}

	spans := make([]Span, len(ids))
	pos := 0
	for i, id := range ids {
		piece := t.enc.Decode([]int{id})
		end := pos + len(piece)
		spans[i] = Span{Start: pos, End: end}
		pos = end
	}

	if pos != len(text) {
		return nil, fmt.Errorf("tokens: %d piece bytes for %d input bytes: %w",
			pos, len(text), ErrInconsistentOffsets)
	}
	return spans, nil
}
