package dom

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/randalmurphal/webfit/tokens"
)

// DefaultUIDKey is the attribute carrying a node's unique identifier.
const DefaultUIDKey = "data-webtasks-id"

// ParseString parses an HTML document from a string.
func ParseString(s string) (*html.Node, error) {
	return html.Parse(strings.NewReader(s))
}

// Clone returns a deep copy of the node and its subtree, detached from any
// parent and siblings. Truncation operates on clones unless the caller asks
// for in-place mutation, so the caller's tree is never touched by default.
func Clone(n *html.Node) *html.Node {
	if n == nil {
		return nil
	}
	c := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
	}
	if len(n.Attr) > 0 {
		c.Attr = append([]html.Attribute(nil), n.Attr...)
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		c.AppendChild(Clone(child))
	}
	return c
}

// Walk visits n and every node below it in document order.
func Walk(n *html.Node, fn func(*html.Node)) {
	if n == nil {
		return
	}
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		Walk(c, fn)
	}
}

// RecordKind distinguishes the two sources of truncatable text in a tree.
type RecordKind int

const (
	// KindText is a text node's content.
	KindText RecordKind = iota

	// KindAttr is an element attribute's value.
	KindAttr
)

// TextRecord is one truncatable text unit in a tree, either a text node's
// content or an attribute value, together with its measured token length.
type TextRecord struct {
	Node   *html.Node
	Kind   RecordKind
	Key    string // attribute key, for KindAttr records
	Text   string
	Length int
}

// TextRecords enumerates every text-bearing unit of the tree in document
// order and measures each with the counter. The resulting lengths form the
// tree's length vector. Only attribute values and text content are counted;
// tag names and markup glue are not, so the vector's sum is always below the
// token count of the rendered representation.
func TextRecords(root *html.Node, tok tokens.Counter) []*TextRecord {
	var records []*TextRecord
	Walk(root, func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			text := strings.TrimSpace(n.Data)
			records = append(records, &TextRecord{
				Node:   n,
				Kind:   KindText,
				Text:   text,
				Length: tok.Count(text),
			})
		case html.ElementNode:
			for _, a := range n.Attr {
				records = append(records, &TextRecord{
					Node:   n,
					Kind:   KindAttr,
					Key:    a.Key,
					Text:   a.Val,
					Length: tok.Count(a.Val),
				})
			}
		}
	})
	return records
}

// UID returns the node's unique identifier attribute, if any.
func UID(n *html.Node, uidKey string) (string, bool) {
	if uidKey == "" {
		uidKey = DefaultUIDKey
	}
	for _, a := range n.Attr {
		if a.Key == uidKey {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
}

func removeAttr(n *html.Node, key string) {
	kept := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Key != key {
			kept = append(kept, a)
		}
	}
	n.Attr = kept
}
