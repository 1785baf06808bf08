package prompt

import (
	"errors"
	"strings"
	"testing"
)

func TestAssembler_Render(t *testing.T) {
	sections := Sections{
		Instructions: "Pick the next action.",
		Utterances:   "[00:00] open the cart",
		History:      `click(uid="a1")`,
		Page:         "(html(body(button Submit)))",
		Candidates:   "(0) [[tag]] button\n",
	}

	out, err := NewAssembler().Render(sections)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	for _, want := range []string{
		"(html(body(button Submit)))",
		"Pick the next action.",
		"Instructor utterances: [00:00] open the cart",
		`Previous actions: click(uid="a1")`,
		"(0) [[tag]] button",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered prompt missing %q:\n%s", want, out)
		}
	}

	// Page leads the prompt.
	if !strings.HasPrefix(out, "(html") {
		t.Errorf("page section should lead: %q", out[:40])
	}
}

func TestAssembler_UtteranceFallback(t *testing.T) {
	out, err := NewAssembler().Render(Sections{})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if !strings.Contains(out, NoUtterance) {
		t.Errorf("empty utterances should fall back to %q:\n%s", NoUtterance, out)
	}
}

func TestAssembler_CustomTemplate(t *testing.T) {
	a := NewAssembler().WithTemplate(`{{upper .Instructions}} | {{toLength .Page 10}}`)

	out, err := a.Render(Sections{
		Instructions: "act",
		Page:         strings.Repeat("x", 50),
	})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	want := "ACT | " + strings.Repeat("x", 7) + "..."
	if out != want {
		t.Errorf("Render() = %q, want %q", out, want)
	}
}

func TestAssembler_AddFunc(t *testing.T) {
	a := NewAssembler().
		WithTemplate(`{{bracket .Instructions}}`).
		AddFunc("bracket", func(s string) string { return "<" + s + ">" })

	out, err := a.Render(Sections{Instructions: "go"})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if out != "<go>" {
		t.Errorf("Render() = %q, want %q", out, "<go>")
	}
}

func TestAssembler_Errors(t *testing.T) {
	_, err := NewAssembler().WithTemplate("").Render(Sections{})
	if !errors.Is(err, ErrEmptyTemplate) {
		t.Errorf("empty template: got %v, want ErrEmptyTemplate", err)
	}

	_, err = NewAssembler().WithTemplate("{{.Page").Render(Sections{})
	if !errors.Is(err, ErrParseTemplate) {
		t.Errorf("unclosed action: got %v, want ErrParseTemplate", err)
	}

	_, err = NewAssembler().WithTemplate("{{fail .Page}}").Render(Sections{})
	if err == nil {
		t.Error("unknown function should fail")
	}
}

func TestIndent(t *testing.T) {
	got := indent("a\n\nb", 2)
	if got != "  a\n\n  b" {
		t.Errorf("indent() = %q", got)
	}
	if indent("a", 0) != "a" {
		t.Error("zero indent should be a no-op")
	}
}
