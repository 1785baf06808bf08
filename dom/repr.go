package dom

import (
	stdhtml "html"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	textTagRe  = regexp.MustCompile(`(?s)<text>(.*?)</text>`)
	closeTagRe = regexp.MustCompile(`</(.+?)>`)
	openTagRe  = regexp.MustCompile(`(?s)<(.+?)>`)
	spaceRe    = regexp.MustCompile(`\s+`)
	closeGapRe = regexp.MustCompile(`\) +\)`)
	openGapRe  = regexp.MustCompile(`\( +\(`)
)

// Repr renders the tree as a compact single-line representation for a
// text-only model. With keepBrackets false (the usual form), opening tags
// become "(tag attr=val" and closing tags become ")"; synthetic <text>
// wrapper elements are unwrapped either way, entities are unescaped, and
// runs of whitespace collapse to one space.
func Repr(root *html.Node, keepBrackets bool) (string, error) {
	var sb strings.Builder
	if err := html.Render(&sb, root); err != nil {
		return "", err
	}

	s := sb.String()
	s = textTagRe.ReplaceAllString(s, "$1")
	if !keepBrackets {
		// Self-closing tags need their slash shielded so the open-tag
		// rewrite does not swallow it.
		s = strings.ReplaceAll(s, "/>", "$/$>")
		s = closeTagRe.ReplaceAllString(s, ")")
		s = openTagRe.ReplaceAllString(s, "($1")
		s = strings.ReplaceAll(s, "$/$", ")")
	}
	s = stdhtml.UnescapeString(s)
	s = spaceRe.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	s = closeGapRe.ReplaceAllString(s, "))")
	s = openGapRe.ReplaceAllString(s, "((")
	return s, nil
}
