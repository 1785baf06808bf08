package dom

import (
	"log/slog"
	"sort"

	"golang.org/x/net/html"

	"github.com/randalmurphal/webfit/tokens"
	"github.com/randalmurphal/webfit/truncate"
)

// Options configure tree truncation.
type Options struct {
	// Marker is spliced where content was removed. Defaults to
	// truncate.DefaultMarker.
	Marker string

	// MaxAttempts bounds the FitTree convergence loop. Defaults to
	// truncate.DefaultMaxAttempts.
	MaxAttempts int

	// KeepEmpty leaves the marker in nodes whose planned removal equals
	// their full length instead of clearing them entirely.
	KeepEmpty bool

	// DropEmptyAttrs removes attributes whose value was fully truncated
	// away, instead of keeping them with an empty value. FitTree turns this
	// on automatically after its second attempt.
	DropEmptyAttrs bool

	// InPlace mutates the given tree instead of a working copy.
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

// attrDrop defers attribute removal until record processing is done, so
// attribute indices stay stable while records are applied.
type attrDrop struct {
	node *html.Node
	key  string
}

// TruncateTree removes removeTokens tokens from the tree's text-bearing
// units in one pass. The removal is allocated across all units by leveling
// the longest down first, then each unit is center-truncated to its planned
// length. Units planned for full removal are cleared entirely (text nodes
// emptied, attribute values emptied or dropped per Options) unless KeepEmpty
// is set.
//
// The resulting tree is NOT guaranteed to land exactly removeTokens shorter:
// markup glue is not part of the length vector and tokenization shifts at
// splice seams. FitTree wraps this pass in a convergence loop.
func TruncateTree(root *html.Node, tok tokens.Tokenizer, removeTokens int, opts Options) (*html.Node, error) {
	if !opts.InPlace {
		root = Clone(root)
	}
	if removeTokens <= 0 {
		return root, nil
	}

	records := TextRecords(root, tok)
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Length < records[j].Length
	})

	lengths := make([]int, len(records))
	total := 0
	for i, r := range records {
		lengths[i] = r.Length
		total += r.Length
	}

	reduced, err := truncate.ReduceLengths(lengths, total-removeTokens)
	if err != nil {
		return nil, err
	}

	tr := truncate.New(tok).
		WithMarker(opts.marker()).
		WithIterativeReduction(opts.IterativeReduction)

	var drops []attrDrop
	for i, rec := range records {
		target := reduced[i]
		if target >= rec.Length {
			continue
		}
		if opts.KeepEmpty && target < tok.Count(opts.marker()) {
			target = tok.Count(opts.marker())
		}

		newText := ""
		if target > 0 {
			out, _, err := tr.TruncateToFit(rec.Text, target)
			if err != nil {
				return nil, err
			}
			newText = out
		}

		switch rec.Kind {
		case KindText:
			rec.Node.Data = newText
		case KindAttr:
			if newText == "" && opts.DropEmptyAttrs {
				drops = append(drops, attrDrop{node: rec.Node, key: rec.Key})
			} else {
				setAttr(rec.Node, rec.Key, newText)
			}
		}
	}

	for _, d := range drops {
		removeAttr(d.node, d.key)
	}
	return root, nil
}

// FitReport is the outcome of fitting a tree to a budget.
type FitReport struct {
	// Tree is the truncated tree (the working copy unless InPlace was set).
	Tree *html.Node

	// Repr is the rendered representation whose token count was measured.
	Repr string

	// Tokens is the measured token count of Repr.
	Tokens int

	// Attempts is the number of tree-truncation passes performed.
	Attempts int

	// Converged reports whether Tokens <= the requested budget.
	Converged bool
}

// FitTree truncates the tree until its rendered representation measures at
// or under maxTokens. Each pass re-renders, re-measures, and removes the
// fresh overage; the structural glue of the representation (tag names,
// brackets) is not removable, so a budget below the glue's own cost cannot
// converge through node truncation alone. After the attempt ceiling the
// representation itself is center-truncated directly as a last resort, and
// the best-effort result is returned with Converged reporting the outcome.
func FitTree(root *html.Node, tok tokens.Tokenizer, maxTokens int, opts Options) (FitReport, error) {
	if maxTokens < 0 {
		return FitReport{}, truncate.ErrNegativeBudget
	}
	if !opts.InPlace {
		root = Clone(root)
		opts.InPlace = true // subsequent passes refine the working copy
	}

	maxAttempts := opts.maxAttempts()
	for attempt := 0; attempt < maxAttempts; attempt++ {
		repr, err := Repr(root, false)
		if err != nil {
			return FitReport{}, err
		}
		n := tok.Count(repr)
		if n <= maxTokens {
			return FitReport{Tree: root, Repr: repr, Tokens: n, Attempts: attempt, Converged: true}, nil
		}

		passOpts := opts
		passOpts.DropEmptyAttrs = opts.DropEmptyAttrs || attempt > 1
		if _, err := TruncateTree(root, tok, n-maxTokens, passOpts); err != nil {
			return FitReport{}, err
		}
	}

	slog.Warn("tree truncation reached attempt ceiling; truncating the representation directly",
		slog.Int("max_tokens", maxTokens),
		slog.Int("attempts", maxAttempts))

	repr, err := Repr(root, false)
	if err != nil {
		return FitReport{}, err
	}
	res, err := truncate.New(tok).
		WithMarker(opts.marker()).
		WithIterativeReduction(opts.IterativeReduction).
		Fit(repr, maxTokens, maxAttempts)
	if err != nil {
		return FitReport{}, err
	}
	return FitReport{
		Tree:      root,
		Repr:      res.Text,
		Tokens:    res.Tokens,
		Attempts:  maxAttempts,
		Converged: res.Converged,
	}, nil
}
