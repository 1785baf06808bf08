package prompt

import (
	"strings"
	"testing"
	"unicode"

	"github.com/randalmurphal/webfit/tokens"
)

// wordTok treats every whitespace-separated word as one token, making token
// arithmetic exact in tests.
type wordTok struct{}

func (wordTok) Offsets(text string) ([]tokens.Span, error) {
	var spans []tokens.Span
	start := -1
	for i, r := range text {
		if unicode.IsSpace(r) {
			if start >= 0 {
				spans = append(spans, tokens.Span{Start: start, End: i})
				start = -1
			}
		} else if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		spans = append(spans, tokens.Span{Start: start, End: len(text)})
	}
	return spans, nil
}

func (w wordTok) Count(text string) int {
	spans, _ := w.Offsets(text)
	return len(spans)
}

func (w wordTok) FitsInLimit(text string, limit int) bool {
	return w.Count(text) <= limit
}

func words(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "w" + string(rune('a'+i%26))
	}
	return strings.Join(parts, " ")
}

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00"},
		{59, "00:59"},
		{60, "01:00"},
		{83.7, "01:23"},
		{3605, "60:05"},
		{-2, "00:00"},
	}
	for _, tt := range tests {
		if got := FormatTimestamp(tt.seconds); got != tt.want {
			t.Errorf("FormatTimestamp(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestFormatTurn(t *testing.T) {
	tests := []struct {
		name string
		turn Turn
		want string
	}{
		{
			name: "action with quoted and numeric args",
			turn: ActionTurn("click", 12,
				Arg{Key: "uid", Value: "a1b2"},
				Arg{Key: "x", Value: "140", Numeric: true},
			),
			want: `click(uid="a1b2", x=140)`,
		},
		{
			name: "chat renders as say",
			turn: ChatTurn("instructor", "open the cart", 3),
			want: `say(speaker="instructor", utterance="open the cart")`,
		},
		{
			name: "no args",
			turn: ActionTurn("scroll", 0),
			want: "scroll()",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatTurn(tt.turn); got != tt.want {
				t.Errorf("FormatTurn() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatUtterances(t *testing.T) {
	if got := FormatUtterances(nil, 5); got != NoUtterance {
		t.Errorf("empty turns: got %q, want %q", got, NoUtterance)
	}

	actionOnly := []Turn{ActionTurn("click", 1, Arg{Key: "uid", Value: "x"})}
	if got := FormatUtterances(actionOnly, 5); got != NoUtterance {
		t.Errorf("action-only turns: got %q, want %q", got, NoUtterance)
	}

	turns := []Turn{
		ChatTurn("instructor", "first", 0),
		ChatTurn("navigator", "second", 65),
	}
	got := FormatUtterances(turns, 5)
	want := "[00:00] first [01:05] second"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatUtterances_SelectsFirstAndTail(t *testing.T) {
	turns := []Turn{
		ChatTurn("instructor", "u0", 0),
		ChatTurn("instructor", "u1", 60),
		ChatTurn("instructor", "u2", 120),
		ChatTurn("instructor", "u3", 180),
		ChatTurn("instructor", "u4", 240),
	}

	got := FormatUtterances(turns, 3)
	if !strings.Contains(got, "u0") {
		t.Errorf("first utterance dropped: %q", got)
	}
	if strings.Contains(got, "u1") {
		t.Errorf("middle utterance should be dropped: %q", got)
	}
	for _, u := range []string{"u2", "u3", "u4"} {
		if !strings.Contains(got, u) {
			t.Errorf("tail utterance %s dropped: %q", u, got)
		}
	}
}

func TestFormatUtterancesTruncated(t *testing.T) {
	turns := []Turn{
		ChatTurn("instructor", words(30), 0),
		ChatTurn("instructor", words(20), 60),
	}

	// Each line costs one extra token for the timestamp tag.
	full := FormatUtterances(turns, 5)
	fullTokens := (wordTok{}).Count(full)
	if fullTokens != 52 {
		t.Fatalf("unexpected baseline length %d", fullTokens)
	}

	got, err := FormatUtterancesTruncated(turns, wordTok{}, 34, Options{})
	if err != nil {
		t.Fatalf("FormatUtterancesTruncated() error: %v", err)
	}
	n := (wordTok{}).Count(got)
	if n > 34 {
		t.Errorf("truncated form measures %d tokens, want <= 34", n)
	}
	if !strings.Contains(got, "...") {
		t.Errorf("marker missing: %q", got)
	}
	if !strings.Contains(got, "[00:00]") || !strings.Contains(got, "[01:00]") {
		t.Errorf("timestamps should survive truncation: %q", got)
	}
}

func TestFormatUtterancesTruncated_UnderBudget(t *testing.T) {
	turns := []Turn{ChatTurn("instructor", "short request", 10)}
	got, err := FormatUtterancesTruncated(turns, wordTok{}, 100, Options{})
	if err != nil {
		t.Fatalf("FormatUtterancesTruncated() error: %v", err)
	}
	if got != "[00:10] short request" {
		t.Errorf("under-budget input should be untouched, got %q", got)
	}
}

func TestFormatPrevTurns(t *testing.T) {
	turns := []Turn{
		ActionTurn("load", 0, Arg{Key: "url", Value: "https://example.com"}),
		ActionTurn("click", 5, Arg{Key: "uid", Value: "a1"}),
		ChatTurn("navigator", "done", 8),
	}

	got := FormatPrevTurns(turns, 2, "")
	want := `click(uid="a1") ; say(speaker="navigator", utterance="done")`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if strings.Contains(got, "load") {
		t.Errorf("turns outside the window should be dropped: %q", got)
	}
}

func TestFormatPrevTurnsTruncated_IntentProtected(t *testing.T) {
	turns := []Turn{
		ActionTurn("textinput", 3,
			Arg{Key: "uid", Value: "f1"},
			Arg{Key: "text", Value: words(40)},
		),
	}

	got, err := FormatPrevTurnsTruncated(turns, wordTok{}, 20, Options{})
	if err != nil {
		t.Fatalf("FormatPrevTurnsTruncated() error: %v", err)
	}
	if !strings.HasPrefix(got, "textinput(") {
		t.Errorf("intent name must survive: %q", got)
	}
	if !strings.Contains(got, `uid="f1"`) {
		t.Errorf("short arg should be untouched: %q", got)
	}
	if !strings.Contains(got, "...") {
		t.Errorf("long arg should carry the marker: %q", got)
	}
}

func TestFormatPrevTurnsTruncated_NumericRestore(t *testing.T) {
	turns := []Turn{
		ActionTurn("scroll", 2,
			Arg{Key: "x", Value: "0", Numeric: true},
			Arg{Key: "y", Value: "12345678", Numeric: true},
		),
	}

	// Nothing to remove: numeric args render unquoted.
	got, err := FormatPrevTurnsTruncated(turns, wordTok{}, 0, Options{})
	if err != nil {
		t.Fatalf("FormatPrevTurnsTruncated() error: %v", err)
	}
	if got != "scroll(x=0, y=12345678)" {
		t.Errorf("got %q", got)
	}
}

func TestFitPrevTurns(t *testing.T) {
	turns := []Turn{
		ActionTurn("textinput", 1, Arg{Key: "text", Value: words(30)}),
		ActionTurn("textinput", 2, Arg{Key: "text", Value: words(20)}),
	}

	res, err := FitPrevTurns(turns, wordTok{}, 30, Options{})
	if err != nil {
		t.Fatalf("FitPrevTurns() error: %v", err)
	}
	if !res.Converged {
		t.Fatalf("did not converge: %d tokens", res.Tokens)
	}
	if res.Tokens > 30 {
		t.Errorf("Tokens = %d, want <= 30", res.Tokens)
	}
	if got := (wordTok{}).Count(res.Text); got != res.Tokens {
		t.Errorf("reported tokens %d != measured %d", res.Tokens, got)
	}
	if !strings.Contains(res.Text, "textinput(") {
		t.Errorf("intent lost: %q", res.Text)
	}
}

func TestFitPrevTurns_AlreadyFits(t *testing.T) {
	turns := []Turn{ActionTurn("click", 1, Arg{Key: "uid", Value: "a1"})}

	res, err := FitPrevTurns(turns, wordTok{}, 50, Options{})
	if err != nil {
		t.Fatalf("FitPrevTurns() error: %v", err)
	}
	if !res.Converged || res.Attempts != 0 {
		t.Errorf("Converged = %v, Attempts = %d; want true, 0", res.Converged, res.Attempts)
	}
}

func TestFitPrevTurns_LastResort(t *testing.T) {
	// Intent names and separators cost tokens the per-arg planner cannot
	// remove; a budget below that floor falls through to direct truncation
	// of the formatted string.
	turns := []Turn{
		ActionTurn("click", 1, Arg{Key: "uid", Value: "a1"}),
		ActionTurn("click", 2, Arg{Key: "uid", Value: "b2"}),
		ActionTurn("click", 3, Arg{Key: "uid", Value: "c3"}),
	}

	res, err := FitPrevTurns(turns, wordTok{}, 2, Options{MaxAttempts: 3})
	if err != nil {
		t.Fatalf("FitPrevTurns() error: %v", err)
	}
	if !res.Converged {
		t.Fatalf("direct truncation should reach the budget, got %d tokens", res.Tokens)
	}
	if res.Tokens > 2 {
		t.Errorf("Tokens = %d, want <= 2", res.Tokens)
	}
}

func TestFitPrevTurns_NegativeBudget(t *testing.T) {
	if _, err := FitPrevTurns(nil, wordTok{}, -1, Options{}); err == nil {
		t.Error("negative budget should be rejected")
	}
}
