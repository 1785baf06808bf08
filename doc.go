// Package webfit prepares variable-length, structured context (dialogue
// history, a page's markup tree, and ranked candidate elements) so that the
// combined prompt fits an exact token budget for a downstream language model.
//
// Token counts do not compose linearly: removing characters from a text does
// not remove a predictable number of tokens, and shortening a text can
// occasionally increase its token count at sub-word boundaries. webfit treats
// budget fitting as a deterministic allocation problem plus a bounded
// convergence loop, preserving the most informative parts of every segment.
//
// Each subpackage can be used independently:
//
//   - tokens: tokenizer adapters (tiktoken and estimating) and section budgets
//   - truncate: removal-plan allocation, center truncation, convergence loop
//   - dom: token-budget truncation and pruning of HTML trees
//   - candidates: truncation of ranked candidate-element records
//   - prompt: dialogue-history formatting under a token budget
//   - config: truncation profiles (YAML/TOML, hot reload, JSON schema)
//
// # Quick Start
//
// Fit a text to a budget:
//
//	import "github.com/randalmurphal/webfit/truncate"
//	tr := truncate.New(tok)
//	res, err := tr.Fit("very long text...", 700, 5)
//	// res.Text, res.Tokens, res.Converged
//
// Fit a page tree:
//
//	import "github.com/randalmurphal/webfit/dom"
//	report, err := dom.FitTree(tree, tok, 700, dom.Options{})
//
// # Design Philosophy
//
//   - Every operation is synchronous and side-effect-free on its inputs
//     unless in-place mutation is explicitly requested
//   - Shortfalls are reported, never fatal: an over-budget result is still
//     usable by callers with their own hard limits
//   - Interfaces for extensibility, concrete types for simplicity
package webfit
