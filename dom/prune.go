package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// RemoveComments drops every comment node from the tree in place. Comments
// carry no signal for a downstream model and confuse the paren rendering.
func RemoveComments(root *html.Node) {
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; {
			next := c.NextSibling
			if c.Type == html.CommentNode {
				n.RemoveChild(c)
			} else {
				walk(c)
			}
			c = next
		}
	}
	if root != nil {
		walk(root)
	}
}

// SanitizeAttributes removes framework and tracking attributes that carry no
// signal for element selection: data-*, _*, ng*, x-*, xml*, js* prefixes and
// the id attribute. The uid attribute is always kept. Operates in place.
func SanitizeAttributes(root *html.Node, uidKey string) {
	if uidKey == "" {
		uidKey = DefaultUIDKey
	}
	Walk(root, func(n *html.Node) {
		if n.Type != html.ElementNode || len(n.Attr) == 0 {
			return
		}
		var kept []html.Attribute
		for _, a := range n.Attr {
			if a.Key == uidKey {
				kept = append(kept, a)
				continue
			}
			if strings.HasPrefix(a.Key, "_") ||
				strings.HasPrefix(a.Key, "ng") ||
				strings.HasPrefix(a.Key, "x-") ||
				strings.HasPrefix(a.Key, "xml") ||
				strings.HasPrefix(a.Key, "js") ||
				strings.HasPrefix(a.Key, "data-") ||
				a.Key == "id" {
				continue
			}
			kept = append(kept, a)
		}
		n.Attr = kept
	})
}

// PruneOptions configure candidate-anchored pruning.
type PruneOptions struct {
	// MaxDepth bounds how deep below each candidate descendants are kept.
	// Defaults to 5.
	MaxDepth int

	// MaxChildren caps how many descendants of one candidate are kept.
	// Defaults to 50.
	MaxChildren int

	// MaxSibling keeps this many siblings on each side of a candidate.
	// Defaults to 3.
	MaxSibling int

	// UIDKey is the attribute carrying node identifiers. Defaults to
	// DefaultUIDKey.
	UIDKey string
}

func (o PruneOptions) withDefaults() PruneOptions {
	if o.MaxDepth <= 0 {
		o.MaxDepth = 5
	}
	if o.MaxChildren <= 0 {
		o.MaxChildren = 50
	}
	if o.MaxSibling <= 0 {
		o.MaxSibling = 3
	}
	if o.UIDKey == "" {
		o.UIDKey = DefaultUIDKey
	}
	return o
}

// Prune returns a copy of the tree reduced to the neighborhoods of the given
// candidate uids: each candidate element, its ancestors, its descendants to
// MaxDepth (at most MaxChildren of them), and up to MaxSibling siblings on
// each side. Elements outside every neighborhood are removed. Surviving
// non-candidate elements lose their uid attribute, and attribute-less
// wrappers with at most one child are collapsed into their parent.
func Prune(root *html.Node, candidateUIDs []string, opts PruneOptions) *html.Node {
	opts = opts.withDefaults()
	tree := Clone(root)

	byUID := make(map[string]*html.Node)
	Walk(tree, func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		if uid, ok := UID(n, opts.UIDKey); ok {
			byUID[uid] = n
		}
	})

	candSet := make(map[*html.Node]bool, len(candidateUIDs))
	keep := make(map[*html.Node]bool)
	for _, uid := range candidateUIDs {
		cand := byUID[uid]
		if cand == nil {
			continue
		}
		candSet[cand] = true
		keep[cand] = true

		for a := cand.Parent; a != nil; a = a.Parent {
			keep[a] = true
		}

		desc := elementDescendants(cand, opts.MaxDepth)
		if len(desc) > opts.MaxChildren {
			desc = desc[:opts.MaxChildren]
		}
		for _, d := range desc {
			keep[d] = true
		}

		if cand.Parent != nil {
			sibs := elementChildren(cand.Parent)
			idx := -1
			for i, s := range sibs {
				if s == cand {
					idx = i
					break
				}
			}
			if idx >= 0 {
				lo := idx - opts.MaxSibling
				if lo < 0 {
					lo = 0
				}
				hi := idx + opts.MaxSibling + 1
				if hi > len(sibs) {
					hi = len(sibs)
				}
				for _, s := range sibs[lo:hi] {
					keep[s] = true
				}
			}
		}
	}

	// Remove bottom-up so parents see their final child lists.
	elems := elementDescendants(tree, int(^uint(0)>>1))
	for i := len(elems) - 1; i >= 0; i-- {
		node := elems[i]
		if node.Parent == nil {
			continue
		}

		if !keep[node] {
			node.Parent.RemoveChild(node)
			continue
		}

		if !candSet[node] {
			removeAttr(node, opts.UIDKey)
		}

		// Collapse empty wrappers: no attributes, no text content, and at
		// most one element child.
		if len(node.Attr) == 0 && !hasTextChild(node) && countElementChildren(node) <= 1 {
			for c := node.FirstChild; c != nil; {
				next := c.NextSibling
				node.RemoveChild(c)
				node.Parent.InsertBefore(c, node)
				c = next
			}
			node.Parent.RemoveChild(node)
		}
	}

	return tree
}

// elementDescendants collects element nodes strictly below n in document
// order, down to maxDepth levels.
func elementDescendants(n *html.Node, maxDepth int) []*html.Node {
	var out []*html.Node
	var rec func(n *html.Node, depth int)
	rec = func(n *html.Node, depth int) {
		if depth > maxDepth {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			out = append(out, c)
			rec(c, depth+1)
		}
	}
	rec(n, 1)
	return out
}

func elementChildren(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, c)
		}
	}
	return out
}

func countElementChildren(n *html.Node) int {
	count := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			count++
		}
	}
	return count
}

func hasTextChild(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode && strings.TrimSpace(c.Data) != "" {
			return true
		}
	}
	return false
}
