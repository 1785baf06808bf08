package prompt

import (
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/randalmurphal/webfit/tokens"
	"github.com/randalmurphal/webfit/truncate"
)

// Options configure dialogue-history truncation.
type Options struct {
	// Marker is spliced where content was removed. Defaults to
	// truncate.DefaultMarker.
	Marker string

	// TurnSep joins formatted previous turns. Defaults to DefaultTurnSep.
	TurnSep string

	// NumPrevTurns bounds the previous-turn window. Defaults to
	// DefaultNumPrevTurns.
	NumPrevTurns int

	// NumUtterances bounds the utterance selection. Defaults to
	// DefaultNumUtterances.
	NumUtterances int

	// MaxAttempts bounds the FitPrevTurns convergence loop. Defaults to
	// truncate.DefaultMaxAttempts.
	MaxAttempts int

	// IterativeReduction widens removal windows one token at a time when
	// re-tokenization refuses to shrink. See truncate.Truncator.
	IterativeReduction bool
}

func (o Options) marker() string {
	if o.Marker == "" {
		return truncate.DefaultMarker
	}
	return o.Marker
}

func (o Options) turnSep() string {
	if o.TurnSep == "" {
		return DefaultTurnSep
	}
	return o.TurnSep
}

func (o Options) maxAttempts() int {
	if o.MaxAttempts <= 0 {
		return truncate.DefaultMaxAttempts
	}
	return o.MaxAttempts
}

func (o Options) truncator(tok tokens.Tokenizer) *truncate.Truncator {
	return truncate.New(tok).
		WithMarker(o.marker()).
		WithIterativeReduction(o.IterativeReduction)
}

// FormatUtterancesTruncated renders the utterance selection like
// FormatUtterances, then removes whatever tokens the joined form measures
// over maxTokens, allocated across the individual utterance lines. Only the
// lines themselves are planned; the join separators stay, so the result can
// land slightly over budget with pathological tokenizers.
func FormatUtterancesTruncated(turns []Turn, tok tokens.Tokenizer, maxTokens int, opts Options) (string, error) {
	if maxTokens < 0 {
		return "", truncate.ErrNegativeBudget
	}

	lines := utteranceLines(turns, opts.NumUtterances)
	if lines == nil {
		return NoUtterance, nil
	}

	joined := strings.Join(lines, " ")
	removeTokens := tok.Count(joined) - maxTokens
	if removeTokens <= 0 {
		return joined, nil
	}

	type lineRef struct {
		index  int
		length int
	}
	refs := make([]lineRef, len(lines))
	lengths := make([]int, len(lines))
	total := 0
	for i, line := range lines {
		refs[i] = lineRef{index: i, length: tok.Count(line)}
		total += refs[i].length
	}
	sort.SliceStable(refs, func(i, j int) bool {
		return refs[i].length < refs[j].length
	})
	for i, ref := range refs {
		lengths[i] = ref.length
	}

	reduced, err := truncate.ReduceLengths(lengths, total-removeTokens)
	if err != nil {
		return "", err
	}

	tr := opts.truncator(tok)
	for i, ref := range refs {
		target := reduced[i]
		if target >= ref.length {
			continue
		}
		out, _, err := tr.TruncateToFit(lines[ref.index], target)
		if err != nil {
			return "", err
		}
		lines[ref.index] = out
	}

	return strings.Join(lines, " "), nil
}

// argRef points one removal-plan entry back at its turn and argument.
type argRef struct {
	turn   int
	arg    int
	value  string
	length int
}

// FormatPrevTurnsTruncated formats the previous-turn window like
// FormatPrevTurns after removing removeTokens tokens from the turns'
// argument values. Intent names are never planned, and numeric arguments
// that no longer parse after truncation are re-rendered as quoted strings.
func FormatPrevTurnsTruncated(turns []Turn, tok tokens.Tokenizer, removeTokens int, opts Options) (string, error) {
	window := prevWindow(turns, opts.NumPrevTurns)

	intents := make([]string, len(window))
	args := make([][]Arg, len(window))
	for i, t := range window {
		intents[i], args[i] = turnCall(t)
	}

	if removeTokens > 0 {
		var refs []argRef
		total := 0
		for i := range args {
			for j, a := range args[i] {
				n := tok.Count(a.Value)
				refs = append(refs, argRef{turn: i, arg: j, value: a.Value, length: n})
				total += n
			}
		}

		sort.SliceStable(refs, func(i, j int) bool {
			return refs[i].length < refs[j].length
		})
		lengths := make([]int, len(refs))
		for i, ref := range refs {
			lengths[i] = ref.length
		}

		reduced, err := truncate.ReduceLengths(lengths, total-removeTokens)
		if err != nil {
			return "", err
		}

		tr := opts.truncator(tok)
		for i, ref := range refs {
			target := reduced[i]
			if target >= ref.length {
				continue
			}
			out, _, err := tr.TruncateToFit(ref.value, target)
			if err != nil {
				return "", err
			}

			a := &args[ref.turn][ref.arg]
			a.Value = out
			if a.Numeric {
				if _, err := strconv.ParseFloat(out, 64); err != nil {
					a.Numeric = false
				}
			}
		}
	}

	formatted := make([]string, len(window))
	for i := range window {
		formatted[i] = renderCall(intents[i], args[i])
	}
	return strings.Join(formatted, opts.turnSep()), nil
}

// FitPrevTurns truncates the previous-turn window until its formatted form
// measures at or under maxTokens. Each attempt re-derives the window from
// the original turns with a removal computed from the last measurement;
// intent names and separators are not removable that way, so after the
// attempt ceiling the formatted string is center-truncated directly.
func FitPrevTurns(turns []Turn, tok tokens.Tokenizer, maxTokens int, opts Options) (truncate.FitResult, error) {
	if maxTokens < 0 {
		return truncate.FitResult{}, truncate.ErrNegativeBudget
	}

	formatted := FormatPrevTurns(turns, opts.NumPrevTurns, opts.turnSep())
	n := tok.Count(formatted)
	if n <= maxTokens {
		return truncate.FitResult{Text: formatted, Tokens: n, Converged: true}, nil
	}

	maxAttempts := opts.maxAttempts()
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		out, err := FormatPrevTurnsTruncated(turns, tok, n-maxTokens, opts)
		if err != nil {
			return truncate.FitResult{}, err
		}

		formatted = out
		n = tok.Count(formatted)
		if n <= maxTokens {
			return truncate.FitResult{Text: formatted, Tokens: n, Attempts: attempt, Converged: true}, nil
		}
	}

	slog.Warn("turn truncation reached attempt ceiling; truncating the formatted history directly",
		slog.Int("max_tokens", maxTokens),
		slog.Int("attempts", maxAttempts))

	return opts.truncator(tok).Fit(formatted, maxTokens, maxAttempts)
}
