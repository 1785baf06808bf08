// Package dom fits HTML trees into token budgets.
//
// A page's markup tree is a set of independently measurable text units: text
// node contents and attribute values. Fitting the tree to a budget means
// allocating the required removal across all units (leveling the longest
// down first), center-truncating each unit to its planned length, and
// re-measuring the rendered representation, repeatedly, because token
// counts shift at splice seams and the markup glue itself costs tokens.
//
//	tree, _ := dom.ParseString(pageHTML)
//	dom.RemoveComments(tree)
//	dom.SanitizeAttributes(tree, "")
//	report, err := dom.FitTree(tree, tok, 700, dom.Options{})
//	// report.Repr is the fitted page representation
//
// FitTree works on a copy of the tree unless Options.InPlace is set; the
// caller's tree is never mutated by default. When the attempt ceiling is hit
// the rendered representation is truncated directly as a last resort and the
// report carries Converged == false only if even that fell short.
//
// Prune, SanitizeAttributes, and RemoveComments reduce a raw page before
// budget fitting: pruning keeps only the neighborhoods of candidate
// elements, which is usually a far bigger win than truncation alone.
package dom
