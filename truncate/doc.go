// Package truncate reduces text to exact token budgets.
//
// Three pieces compose into the budget-fitting machinery used across this
// module:
//
//   - Plan / ReduceLengths: given the token lengths of several segments and
//     a total amount to remove, decide how much to strip from each segment.
//     Removal levels the longest segments down toward the shortest, which
//     minimizes the variance of the resulting lengths.
//
//   - Truncator.TruncateToFit: remove a computed number of tokens from one
//     text, by default excising the most central tokens and splicing a
//     placeholder marker in their place. The result is always re-measured.
//
//   - Truncator.Fit: the convergence loop. Tokenizers are not additive, so
//     one arithmetic pass is not guaranteed to land under budget; Fit
//     re-measures, recomputes the overage, and retries up to an attempt
//     ceiling, keeping the best attempt seen.
//
// # Usage
//
//	tok, _ := tokens.NewTiktoken("cl100k_base")
//	tr := truncate.New(tok)
//	res, err := tr.Fit(text, 700, 5)
//	if !res.Converged {
//	    // best-effort result; res.Tokens is the shortest length reached
//	}
//
// Allocation across segments:
//
//	plan, shortfall, err := truncate.Plan([]int{50, 30, 20}, 40)
//	// sum(plan) == 40, plan[i] <= lengths[i]
//
// # Failure semantics
//
// Breached preconditions (negative budgets, unsorted input to ReduceLengths)
// return sentinel errors immediately. A loop that exhausts its attempts is
// NOT an error: FitResult.Converged reports it and the best attempt is
// returned, since an over-budget result is still usable by callers with
// their own hard limits.
package truncate
