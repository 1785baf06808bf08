package tokens

import (
	"unicode/utf8"
)

// DefaultCharsPerToken is the default character-to-token ratio.
// Approximately 4 characters equals 1 token for English text.
const DefaultCharsPerToken = 4.0

// Span is the half-open byte range [Start, End) that a single token covers
// in the text it was measured from.
type Span struct {
	Start int
	End   int
}

// Counter estimates token counts for text.
type Counter interface {
	// Count returns the number of tokens in the given text.
	Count(text string) int

	// FitsInLimit returns true if the text fits within the token limit.
	FitsInLimit(text string, limit int) bool
}

// Tokenizer extends Counter with per-token character spans, which truncation
// needs to map token indices back to positions in the original text.
//
// Implementations must be deterministic for a fixed input. No other property
// is guaranteed: token counts are NOT additive under concatenation and NOT
// monotonic under substring removal, which is why callers re-measure after
// every edit.
type Tokenizer interface {
	Counter

	// Offsets returns one span per token, in order, covering the text.
	Offsets(text string) ([]Span, error)
}

// EstimatingCounter uses a character-to-token ratio for estimation.
// Default ratio is ~4 chars per token (Claude's approximate tokenization).
//
// It implements Tokenizer by synthesizing evenly sized spans, so it can stand
// in for a real tokenizer in tests and dependency-free callers. Spans always
// cover the whole text and their count always equals Count(text).
type EstimatingCounter struct {
	// CharsPerToken is the average characters per token.
	// Default is 4, which works well for English text.
	CharsPerToken float64
}

// NewEstimatingCounter creates a token counter with default settings.
func NewEstimatingCounter() *EstimatingCounter {
	return &EstimatingCounter{
		CharsPerToken: DefaultCharsPerToken,
	}
}

// NewEstimatingCounterWithRatio creates a token counter with a custom ratio.
// If charsPerToken is <= 0, the default ratio (4.0) is used.
func NewEstimatingCounterWithRatio(charsPerToken float64) *EstimatingCounter {
	if charsPerToken <= 0 {
		charsPerToken = DefaultCharsPerToken
	}
	return &EstimatingCounter{
		CharsPerToken: charsPerToken,
	}
}

// Count estimates the number of tokens in the given text.
// This uses a simple heuristic of ~4 characters per token.
// Actual token counts may vary based on the specific tokenizer used.
func (c *EstimatingCounter) Count(text string) int {
	// Count runes (Unicode code points) rather than bytes for better accuracy
	runeCount := utf8.RuneCountInString(text)
	tokens := float64(runeCount) / c.CharsPerToken

	// Round to nearest integer
	return int(tokens + 0.5)
}

// FitsInLimit returns true if the text fits within the token limit.
func (c *EstimatingCounter) FitsInLimit(text string, limit int) bool {
	return c.Count(text) <= limit
}

// Offsets partitions the text into Count(text) contiguous spans of nearly
// equal rune width. Span boundaries always fall on rune boundaries.
func (c *EstimatingCounter) Offsets(text string) ([]Span, error) {
	n := c.Count(text)
	if n <= 0 {
		return nil, nil
	}

	runeCount := utf8.RuneCountInString(text)
	spans := make([]Span, 0, n)

	pos := 0       // byte position after the current rune
	spanStart := 0 // byte start of the current span
	spanRunes := 0 // runes accumulated in the current span
	doneRunes := 0 // runes consumed by completed spans

	for _, r := range text {
		pos += utf8.RuneLen(r)
		spanRunes++

		// Target width for the current span, spreading the remainder
		// across the leading spans.
		remainingSpans := n - len(spans)
		remainingRunes := runeCount - doneRunes
		width := (remainingRunes + remainingSpans - 1) / remainingSpans

		if spanRunes >= width && len(spans) < n-1 {
			spans = append(spans, Span{Start: spanStart, End: pos})
			doneRunes += spanRunes
			spanStart = pos
			spanRunes = 0
		}
	}

	spans = append(spans, Span{Start: spanStart, End: len(text)})
	return spans, nil
}

// EstimateTokens is a convenience function using the default estimator.
func EstimateTokens(text string) int {
	return NewEstimatingCounter().Count(text)
}
