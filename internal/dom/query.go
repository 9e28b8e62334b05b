package dom

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Op is the comparison an attribute filter applies.
type Op int

const (
	// OpEquals matches when the attribute equals the value.
	OpEquals Op = iota
	// OpHasClass matches a class attribute. A value without whitespace
	// matches any single class token; a value with whitespace must equal the
	// whole attribute.
	OpHasClass
	// OpSuffix matches when the attribute ends with the value.
	OpSuffix
	// OpPattern matches when the attribute matches a regular expression.
	OpPattern
)

// Filter is a single attribute condition.
type Filter struct {
	Attr    string
	Op      Op
	Value   string
	Pattern *regexp.Regexp
}

// Query selects elements by tag name and attribute filters.
// An empty Tag matches any element. All filters must match.
type Query struct {
	Tag     string
	Filters []Filter
}

// Tag starts a query for elements named name.
func Tag(name string) Query {
	return Query{Tag: strings.ToLower(name)}
}

// With returns a copy of q with f appended.
func (q Query) With(f Filter) Query {
	filters := make([]Filter, 0, len(q.Filters)+1)
	filters = append(filters, q.Filters...)
	q.Filters = append(filters, f)
	return q
}

// ID restricts q to elements whose id equals id.
func (q Query) ID(id string) Query {
	return q.With(Filter{Attr: "id", Op: OpEquals, Value: id})
}

// Class restricts q to elements carrying class.
func (q Query) Class(class string) Query {
	return q.With(Filter{Attr: "class", Op: OpHasClass, Value: class})
}

// AttrEquals restricts q to elements whose attribute key equals value.
func (q Query) AttrEquals(key, value string) Query {
	return q.With(Filter{Attr: key, Op: OpEquals, Value: value})
}

// AttrSuffix restricts q to elements whose attribute key ends with suffix.
func (q Query) AttrSuffix(key, suffix string) Query {
	return q.With(Filter{Attr: key, Op: OpSuffix, Value: suffix})
}

// AttrMatch restricts q to elements whose attribute key matches re.
func (q Query) AttrMatch(key string, re *regexp.Regexp) Query {
	return q.With(Filter{Attr: key, Op: OpPattern, Pattern: re})
}

// String renders q in a CSS-like form for log and error messages.
func (q Query) String() string {
	var b strings.Builder
	if q.Tag == "" {
		b.WriteString("*")
	} else {
		b.WriteString(q.Tag)
	}
	for _, f := range q.Filters {
		switch f.Op {
		case OpEquals:
			fmt.Fprintf(&b, "[%s=%q]", f.Attr, f.Value)
		case OpHasClass:
			if strings.ContainsAny(f.Value, " \t\n") {
				fmt.Fprintf(&b, "[class=%q]", f.Value)
			} else {
				b.WriteString("." + f.Value)
			}
		case OpSuffix:
			fmt.Fprintf(&b, "[%s$=%q]", f.Attr, f.Value)
		case OpPattern:
			fmt.Fprintf(&b, "[%s~/%s/]", f.Attr, f.Pattern)
		}
	}
	return b.String()
}

func (q Query) matches(n *html.Node) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	if q.Tag != "" && n.Data != q.Tag {
		return false
	}
	for _, f := range q.Filters {
		if !f.matches(n) {
			return false
		}
	}
	return true
}

func (f Filter) matches(n *html.Node) bool {
	val, ok := getAttr(n, f.Attr)
	if !ok {
		return false
	}

	switch f.Op {
	case OpEquals:
		return val == f.Value
	case OpHasClass:
		if strings.ContainsAny(f.Value, " \t\n") {
			return val == f.Value
		}
		for _, token := range strings.Fields(val) {
			if token == f.Value {
				return true
			}
		}
		return false
	case OpSuffix:
		return strings.HasSuffix(val, f.Value)
	case OpPattern:
		return f.Pattern != nil && f.Pattern.MatchString(val)
	}
	return false
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) (string, bool) {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val, true
		}
	}
	return "", false
}
