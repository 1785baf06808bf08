// Package candidates truncates ranked lists of candidate element records to
// a token budget.
//
// A Record is an ordered set of string fields describing one page element
// (tag, xpath, text, bounding box, attributes, children), some of which are
// protected from truncation. Records render to a "[[key]] value" document,
// and FormatList joins the documents into one ranked listing.
//
// Truncate performs a single allocation pass over every unprotected field
// value across all records, and Fit wraps it in a convergence loop: because
// keys, ranks, and separators also cost tokens, a pass rarely lands exactly
// on budget. When field truncation alone cannot reach the budget, Fit splits
// the budget across the records and truncates each document directly.
package candidates
