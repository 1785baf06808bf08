// Package tokens provides tokenizer adapters and budget management for
// token-aware context preparation.
//
// # Counter and Tokenizer
//
// Counter is the minimal counting interface. Tokenizer adds per-token byte
// spans (Offsets), which the truncation packages use to map token indices
// back to character positions:
//
//	tok, err := tokens.NewTiktoken("cl100k_base")
//	count := tok.Count("Hello, world!")
//	spans, err := tok.Offsets("Hello, world!")
//
// Tokenizers are deterministic for a fixed input but give no other
// guarantee. In particular, counts are not additive under concatenation and
// not monotonic under substring removal: removing a token from the middle of
// a word can re-tokenize to the same or a greater count. Truncation
// therefore always re-measures its output instead of assuming arithmetic.
//
// # Estimating counter
//
// EstimatingCounter counts with a chars-per-token ratio (default ~4) and
// synthesizes evenly sized spans. It needs no encoding data and is handy in
// tests and anywhere an approximation suffices:
//
//	counter := tokens.NewEstimatingCounter()
//	count := counter.Count("Hello, world!") // ~3 tokens
//
// # Budget
//
// Budget allocates a total across the sections of a web-agent prompt:
//
//	budget := tokens.NewBudget(4096)
//	// 10% instructions, 15% history, 40% page, 25% candidates, 10% reserved
//	budget.FitsPage(treeRepr)
//	budget.RemainingPage(usedTokens)
package tokens
