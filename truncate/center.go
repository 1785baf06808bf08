package truncate

import (
	"github.com/randalmurphal/webfit/tokens"
)

// centerWindow returns the byte range to excise so that removing the tokens
// inside it removes exactly `remove` tokens, keeping the surviving tokens
// split as evenly as possible between the two edges. When the kept count is
// odd the front edge keeps the extra token. Requires 0 < remove < len(spans).
func centerWindow(spans []tokens.Span, remove int) (start, end int) {
	keep := len(spans) - remove
	left := (keep + 1) / 2
	right := left + remove
	return spans[left].Start, spans[right-1].End
}

// truncateCenter excises the most central tokens and splices the marker in
// their place. spans must be the offsets of text and len(spans) > maxTokens.
func (t *Truncator) truncateCenter(text string, spans []tokens.Span, maxTokens int) (string, int, error) {
	length := len(spans)
	markerLen := t.tok.Count(t.marker)

	// Not enough budget to hold the marker: the segment is removed entirely.
	if maxTokens < markerLen {
		return "", 0, nil
	}
	if maxTokens == markerLen {
		return t.marker, markerLen, nil
	}

	remove := length - (maxTokens - markerLen)
	if remove <= 0 {
		// The measured count exceeded the budget but the span count does
		// not; nothing to excise arithmetically.
		return text, t.tok.Count(text), nil
	}
	if remove >= length {
		return t.marker, markerLen, nil
	}
	start, end := centerWindow(spans, remove)
	out := text[:start] + t.marker + text[end:]

	if t.iterative {
		// Removing characters can re-tokenize to the same or a greater
		// count; widen the window one token at a time until it fits,
		// nothing but the marker is left, or the measured count stops
		// improving for two consecutive steps (oscillation guard).
		prev := t.tok.Count(out)
		stale := 0
		for prev > maxTokens {
			remove++
			if remove >= length {
				out = t.marker
				break
			}
			start, end = centerWindow(spans, remove)
			out = text[:start] + t.marker + text[end:]

			n := t.tok.Count(out)
			if n >= prev {
				stale++
				if stale >= 2 {
					break
				}
			} else {
				stale = 0
			}
			prev = n
		}
	}

	// When the marker itself pushes the result over budget, retry the same
	// splice without it.
	if !t.tok.FitsInLimit(out, maxTokens) {
		bare := text[:start] + text[end:]
		if t.tok.FitsInLimit(bare, maxTokens) {
			out = bare
		}
	}

	return out, t.tok.Count(out), nil
}
