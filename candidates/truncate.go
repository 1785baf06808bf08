package candidates

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/randalmurphal/webfit/tokens"
	"github.com/randalmurphal/webfit/truncate"
)

// Options configure candidate-list truncation.
type Options struct {
	// Marker is spliced where content was removed. Defaults to
	// truncate.DefaultMarker.
	Marker string

	// MaxAttempts bounds the Fit convergence loop. Defaults to
	// truncate.DefaultMaxAttempts.
	MaxAttempts int

	// KeepEmpty renders fields whose value was fully truncated away instead
	// of dropping them from the document.
	KeepEmpty bool

	// UseUIDRank renders ranks as "uid = <uid>" when measuring and
	// formatting the list.
	UseUIDRank bool

	// InPlace mutates the given records instead of working copies.
	InPlace bool

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

func (o Options) maxAttempts() int {
	if o.MaxAttempts <= 0 {
		return truncate.DefaultMaxAttempts
	}
	return o.MaxAttempts
}

// fieldRef points one removal-plan entry back at its record and field.
type fieldRef struct {
	record *Record
	key    string
	value  string
	length int
}

// Truncate removes removeTokens tokens from the records' unprotected field
// values in one pass. Each unprotected field is one unit of the length
// vector; removal is allocated by leveling the longest down first, then each
// planned field is center-truncated and every document re-rendered.
//
// Only field values are measured. The rendered documents carry extra tokens
// for keys and separators, so the list's measured total does not fall by
// exactly removeTokens; Fit wraps this pass in a convergence loop.
func Truncate(records []*Record, tok tokens.Tokenizer, removeTokens int, opts Options) ([]*Record, error) {
	if !opts.InPlace {
		copied := make([]*Record, len(records))
		for i, r := range records {
			copied[i] = r.clone()
		}
		records = copied
	}
	if removeTokens <= 0 {
		return records, nil
	}

	var refs []fieldRef
	total := 0
	for _, r := range records {
		for _, f := range r.fields {
			if r.protected[f.Key] {
				continue
			}
			n := tok.Count(f.Value)
			refs = append(refs, fieldRef{record: r, key: f.Key, value: f.Value, length: n})
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
		return nil, err
	}

	tr := truncate.New(tok).
		WithMarker(opts.marker()).
		WithIterativeReduction(opts.IterativeReduction)

	for i, ref := range refs {
		target := reduced[i]
		if target >= ref.length {
			continue
		}

		newValue := ""
		if target > 0 {
			out, _, err := tr.TruncateToFit(ref.value, target)
			if err != nil {
				return nil, err
			}
			newValue = out
		}
		ref.record.set(ref.key, newValue)
	}

	for _, r := range records {
		r.refreshDoc(!opts.KeepEmpty)
	}
	return records, nil
}

// FitReport is the outcome of fitting a candidate list to a budget.
type FitReport struct {
	// Records are the truncated records (working copies unless InPlace).
	Records []*Record

	// Text is the formatted list whose token count was measured.
	Text string

	// Tokens is the measured token count of Text.
	Tokens int

	// Attempts is the number of list-truncation passes performed.
	Attempts int

	// Converged reports whether Tokens <= the requested budget.
	Converged bool
}

// Fit truncates the candidate list until its formatted form measures at or
// under maxTokens. Each pass re-formats, re-measures, and removes the fresh
// overage from the field values. Keys, ranks, and separators are not
// removable through field truncation, so after the attempt ceiling the
// remaining budget is split across the records and each document is
// center-truncated directly, accounting for the per-record formatting
// overhead. The best-effort result is returned with Converged reporting the
// outcome.
func Fit(records []*Record, tok tokens.Tokenizer, maxTokens int, opts Options) (FitReport, error) {
	if maxTokens < 0 {
		return FitReport{}, truncate.ErrNegativeBudget
	}
	if !opts.InPlace {
		copied := make([]*Record, len(records))
		for i, r := range records {
			copied[i] = r.clone()
		}
		records = copied
		opts.InPlace = true // subsequent passes refine the working copies
	}

	maxAttempts := opts.maxAttempts()
	text := ""
	n := 0
	for attempt := 0; attempt < maxAttempts; attempt++ {
		text = FormatList(records, 0, opts.UseUIDRank)
		n = tok.Count(text)
		if n <= maxTokens {
			return FitReport{Records: records, Text: text, Tokens: n, Attempts: attempt, Converged: true}, nil
		}

		if _, err := Truncate(records, tok, n-maxTokens, opts); err != nil {
			return FitReport{}, err
		}
	}

	text = FormatList(records, 0, opts.UseUIDRank)
	n = tok.Count(text)
	if n <= maxTokens {
		return FitReport{Records: records, Text: text, Tokens: n, Attempts: maxAttempts, Converged: true}, nil
	}

	slog.Warn("candidate truncation reached attempt ceiling; truncating documents directly",
		slog.Int("max_tokens", maxTokens),
		slog.Int("attempts", maxAttempts))

	// Estimate the per-record formatting overhead: the difference between
	// the formatted list and the bare documents, spread across the records.
	docs := make([]string, len(records))
	for i, r := range records {
		docs[i] = r.Doc()
	}
	bare := tok.Count(strings.Join(docs, " "))
	sepLen := 0
	if len(records) > 0 {
		sepLen = (n - bare + len(records) - 1) / len(records)
		if sepLen < 0 {
			sepLen = 0
		}
	}

	tr := truncate.New(tok).
		WithMarker(opts.marker()).
		WithIterativeReduction(opts.IterativeReduction)

	remaining := maxTokens
	for i, r := range records {
		left := len(records) - i
		target := (remaining + left - 1) / left
		if target < 0 {
			target = 0
		}
		out, used, err := tr.TruncateToFit(r.Doc(), target)
		if err != nil {
			return FitReport{}, err
		}
		r.doc = out
		remaining -= used + sepLen
	}

	text = FormatList(records, 0, opts.UseUIDRank)
	n = tok.Count(text)
	return FitReport{
		Records:   records,
		Text:      text,
		Tokens:    n,
		Attempts:  maxAttempts,
		Converged: n <= maxTokens,
	}, nil
}
