package prompt

import (
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/randalmurphal/webfit/truncate"
)

// Sentinel errors for prompt assembly.
var (
	// ErrEmptyTemplate is returned when the assembly template is empty.
	ErrEmptyTemplate = errors.New("prompt template is empty")

	// ErrParseTemplate is returned when the template fails to parse.
	ErrParseTemplate = errors.New("prompt template parse error")

	// ErrExecuteTemplate is returned when template execution fails.
	ErrExecuteTemplate = errors.New("prompt template execution error")
)

// Sections are the prepared pieces of a context-fitting pass, each already
// truncated to its own budget, ready to be assembled into the final prompt.
type Sections struct {
	// Instructions is the task/system instruction text.
	Instructions string

	// Utterances is the formatted instructor-utterance context.
	Utterances string

	// History is the formatted previous-action window.
	History string

	// Page is the page tree's rendered representation.
	Page string

	// Candidates is the formatted ranked-candidate listing.
	Candidates string
}

// DefaultTemplate lays the sections out page-first, mirroring how the
// downstream model reads the context: markup, then instructions grounded in
// it, then the dialogue state and the choices.
const DefaultTemplate = `{{.Page}}

{{.Instructions}}

Instructor utterances: {{default .Utterances "No instructor utterance"}}

Previous actions: {{.History}}

Candidates:
{{.Candidates}}`

// Assembler renders the final prompt from its sections through a Go text
// template.
type Assembler struct {
	text  string
	funcs template.FuncMap
}

// NewAssembler builds an assembler around DefaultTemplate with the built-in
// helper functions.
func NewAssembler() *Assembler {
	return &Assembler{
		text:  DefaultTemplate,
		funcs: assemblyFuncs(),
	}
}

// WithTemplate replaces the assembly template.
func (a *Assembler) WithTemplate(text string) *Assembler {
	a.text = text
	return a
}

// AddFunc makes a custom helper available to the template under name.
func (a *Assembler) AddFunc(name string, fn any) *Assembler {
	a.funcs[name] = fn
	return a
}

// Render executes the template with the given sections.
func (a *Assembler) Render(s Sections) (string, error) {
	if a.text == "" {
		return "", ErrEmptyTemplate
	}

	tmpl, err := template.New("prompt").Funcs(a.funcs).Parse(a.text)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrParseTemplate, err)
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, s); err != nil {
		return "", fmt.Errorf("%w: %w", ErrExecuteTemplate, err)
	}
	return buf.String(), nil
}

// assemblyFuncs returns the helpers templates can call.
func assemblyFuncs() template.FuncMap {
	return template.FuncMap{
		"toLength": truncate.ToLength,
		"toLines":  truncate.ToLines,
		"toTokens": truncate.ToTokens,
		"trim":     strings.TrimSpace,
		"join":     strings.Join,
		"upper":    strings.ToUpper,
		"lower":    strings.ToLower,
		"indent":   indent,
		"default":  defaultValue,
	}
}

// indent prefixes every line of s with the given number of spaces.
func indent(s string, spaces int) string {
	if spaces <= 0 || s == "" {
		return s
	}
	pad := strings.Repeat(" ", spaces)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = pad + line
		}
	}
	return strings.Join(lines, "\n")
}

// defaultValue substitutes fallback when s is empty.
func defaultValue(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
