package dom

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Node is an element, or the whole document, of a parsed page.
type Node struct {
	sel *goquery.Selection
}

// Parse builds a tree from raw HTML. Malformed markup is repaired the way a
// browser would repair it, so Parse never fails.
func Parse(body []byte) *Node {
	root, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		root = &html.Node{Type: html.DocumentNode}
	}
	return &Node{sel: goquery.NewDocumentFromNode(root).Selection}
}

// Find returns the first descendant matching q in document order.
func (n *Node) Find(q Query) (*Node, bool) {
	var found *Node
	n.descendants(q).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		found = &Node{sel: s}
		return false
	})
	return found, found != nil
}

// Require is Find for tags the caller cannot do without.
// A missing tag is reported as a *StructuralError.
func (n *Node) Require(q Query) (*Node, error) {
	found, ok := n.Find(q)
	if !ok {
		return nil, &StructuralError{Query: q, Context: n.describe()}
	}
	return found, nil
}

// FindAll returns every descendant matching q in document order.
func (n *Node) FindAll(q Query) []*Node {
	matches := n.descendants(q)
	nodes := make([]*Node, 0, matches.Length())
	matches.Each(func(_ int, s *goquery.Selection) {
		nodes = append(nodes, &Node{sel: s})
	})
	return nodes
}

// Text returns the concatenated text of every descendant.
func (n *Node) Text() string {
	return n.sel.Text()
}

// Attr returns the value of attribute key and whether it is present.
func (n *Node) Attr(key string) (string, bool) {
	return n.sel.Attr(key)
}

func (n *Node) descendants(q Query) *goquery.Selection {
	selector := q.Tag
	if selector == "" {
		selector = "*"
	}
	return n.sel.Find(selector).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return q.matches(s.Get(0))
	})
}

// describe names the node for error messages, e.g. `section#index-by-category`.
func (n *Node) describe() string {
	if n.sel.Length() == 0 {
		return "empty selection"
	}
	node := n.sel.Get(0)
	if node.Type == html.DocumentNode {
		return "document"
	}

	var b strings.Builder
	b.WriteString(node.Data)
	if id, ok := getAttr(node, "id"); ok && id != "" {
		b.WriteString("#" + id)
	}
	if class, ok := getAttr(node, "class"); ok {
		for _, c := range strings.Fields(class) {
			b.WriteString("." + c)
		}
	}
	return b.String()
}
