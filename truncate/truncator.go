package truncate

import (
	"github.com/randalmurphal/webfit/tokens"
)

// Strategy defines where removed content is taken from.
type Strategy int

const (
	// Center removes content from the middle, keeping start and end.
	// A text's opening (often a tag or label) and its closing (often the
	// actionable value) are typically the informative parts, so this is
	// the default.
	Center Strategy = iota

	// End removes content from the end.
	End

	// Start removes content from the start.
	Start
)

// DefaultMarker is the placeholder spliced where content was removed.
const DefaultMarker = "..."

// Truncator truncates text to fit within exact token limits, using the
// tokenizer's own spans rather than character arithmetic.
type Truncator struct {
	tok       tokens.Tokenizer
	strategy  Strategy
	marker    string
	iterative bool
}

// New creates a center-truncating Truncator with the default marker.
func New(tok tokens.Tokenizer) *Truncator {
	return &Truncator{
		tok:      tok,
		strategy: Center,
		marker:   DefaultMarker,
	}
}

// WithStrategy sets where content is removed from.
func (t *Truncator) WithStrategy(s Strategy) *Truncator {
	t.strategy = s
	return t
}

// WithMarker sets the placeholder spliced where content was removed.
func (t *Truncator) WithMarker(marker string) *Truncator {
	t.marker = marker
	return t
}

// WithIterativeReduction enables widening the removal window one token at a
// time whenever the spliced text re-tokenizes over budget. Useful when the
// tokenizer output does not necessarily shrink when characters are removed,
// e.g. when the removal splits a sub-word merge.
func (t *Truncator) WithIterativeReduction(on bool) *Truncator {
	t.iterative = on
	return t
}

// Tokenizer returns the tokenizer the truncator measures with.
func (t *Truncator) Tokenizer() tokens.Tokenizer { return t.tok }

// Strategy returns the truncator's strategy.
func (t *Truncator) Strategy() Strategy { return t.strategy }

// Marker returns the truncator's placeholder marker.
func (t *Truncator) Marker() string { return t.marker }

// TruncateToFit reduces the text to at most maxTokens tokens in a single
// pass and returns the new text with its re-measured token count. The count
// is always re-measured rather than assumed, because splicing the marker can
// change tokenization at the seam.
//
// A maxTokens too small to hold even the marker yields an empty string. The
// single pass is best-effort: the re-measured count can still exceed
// maxTokens for adversarial inputs; use Fit for the converging loop.
func (t *Truncator) TruncateToFit(text string, maxTokens int) (string, int, error) {
	if maxTokens < 0 {
		return "", 0, ErrNegativeBudget
	}

	count := t.tok.Count(text)
	if count <= maxTokens {
		return text, count, nil
	}

	spans, err := t.tok.Offsets(text)
	if err != nil {
		return "", 0, err
	}

	switch t.strategy {
	case End:
		out := t.truncateEnd(text, spans, maxTokens)
		return out, t.tok.Count(out), nil
	case Start:
		out := t.truncateStart(text, spans, maxTokens)
		return out, t.tok.Count(out), nil
	default:
		return t.truncateCenter(text, spans, maxTokens)
	}
}

// truncateEnd keeps the leading tokens and appends the marker.
func (t *Truncator) truncateEnd(text string, spans []tokens.Span, maxTokens int) string {
	keep := maxTokens - t.tok.Count(t.marker)
	if keep <= 0 {
		if maxTokens == 0 {
			return ""
		}
		return t.marker
	}
	if keep >= len(spans) {
		return text
	}
	return text[:spans[keep-1].End] + t.marker
}

// truncateStart keeps the trailing tokens and prepends the marker.
func (t *Truncator) truncateStart(text string, spans []tokens.Span, maxTokens int) string {
	keep := maxTokens - t.tok.Count(t.marker)
	if keep <= 0 {
		if maxTokens == 0 {
			return ""
		}
		return t.marker
	}
	if keep >= len(spans) {
		return text
	}
	return t.marker + text[spans[len(spans)-keep].Start:]
}
