// Package prompt formats dialogue history, instructor utterances and
// browser actions, into prompt sections that fit a token budget.
//
// Turns render as intent calls (`click(uid="abc")`, `say(speaker="instructor",
// utterance="...")`). FormatUtterances and FormatPrevTurns produce the plain
// sections; their Truncated variants allocate a token removal across the
// individual lines or argument values, and FitPrevTurns wraps the latter in
// a convergence loop with a direct text truncation as the last resort.
package prompt
