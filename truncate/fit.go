package truncate

import (
	"log/slog"
)

// DefaultMaxAttempts bounds the convergence loop when callers pass <= 0.
const DefaultMaxAttempts = 5

// FitResult reports the outcome of a convergence loop.
type FitResult struct {
	// Text is the best text seen: the converged result, or the shortest
	// attempt when the loop gave up.
	Text string

	// Tokens is the re-measured token count of Text.
	Tokens int

	// Attempts is the number of truncation passes performed.
	Attempts int

	// Converged reports whether Tokens <= the requested budget. A false
	// value is a reported condition, not an error: callers decide whether
	// to accept the best-effort result.
	Converged bool
}

// Fit repeatedly truncates text until its re-measured length is at or under
// maxTokens or maxAttempts passes have run. Each pass recomputes the removal
// from the current overage, so the loop compensates for tokenizers whose
// counts do not shrink arithmetically with the characters removed.
//
// On exhaustion it returns the best (shortest) attempt seen across all
// passes, which is not necessarily the last one, with Converged == false.
func (t *Truncator) Fit(text string, maxTokens, maxAttempts int) (FitResult, error) {
	if maxTokens < 0 {
		return FitResult{}, ErrNegativeBudget
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	cur := text
	curTokens := t.tok.Count(text)
	if curTokens <= maxTokens {
		return FitResult{Text: cur, Tokens: curTokens, Converged: true}, nil
	}

	best := FitResult{Text: cur, Tokens: curTokens}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		out, n, err := t.TruncateToFit(cur, maxTokens)
		if err != nil {
			return FitResult{}, err
		}

		if n < best.Tokens {
			best = FitResult{Text: out, Tokens: n}
		}
		if n <= maxTokens {
			return FitResult{Text: out, Tokens: n, Attempts: attempt, Converged: true}, nil
		}

		cur = out
	}

	best.Attempts = maxAttempts
	slog.Warn("truncation did not converge within attempt ceiling",
		slog.Int("max_tokens", maxTokens),
		slog.Int("best_tokens", best.Tokens),
		slog.Int("attempts", maxAttempts))
	return best, nil
}
