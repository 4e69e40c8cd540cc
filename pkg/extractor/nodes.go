package extractor

import (
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"
)

// Children returns every direct child of n, named or not.
func Children(n *ts.Node) []*ts.Node {
	if n == nil {
		return nil
	}
	count := n.ChildCount()
	out := make([]*ts.Node, 0, count)
	for i := uint(0); i < count; i++ {
		if c := n.Child(i); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// NamedChildren returns the named direct children of n.
func NamedChildren(n *ts.Node) []*ts.Node {
	if n == nil {
		return nil
	}
	count := n.NamedChildCount()
	out := make([]*ts.Node, 0, count)
	for i := uint(0); i < count; i++ {
		if c := n.NamedChild(i); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// Field is a nil-safe ChildByFieldName.
func Field(n *ts.Node, name string) *ts.Node {
	if n == nil {
		return nil
	}
	return n.ChildByFieldName(name)
}

// ChildOfKind returns the first direct child whose kind is one of kinds.
func ChildOfKind(n *ts.Node, kinds ...string) *ts.Node {
	for _, c := range Children(n) {
		for _, k := range kinds {
			if c.Kind() == k {
				return c
			}
		}
	}
	return nil
}

// HasToken reports whether n has a direct anonymous child spelled token,
// such as the "?" of an optional property or the "type" of an import.
func HasToken(n *ts.Node, token string) bool {
	for _, c := range Children(n) {
		if !c.IsNamed() && c.Kind() == token {
			return true
		}
	}
	return false
}

// Text returns the source text of n, or "" for nil.
func Text(n *ts.Node, source []byte) string {
	if n == nil {
		return ""
	}
	return n.Utf8Text(source)
}

// Walk visits n and its descendants in document order. Returning false from
// fn skips the node's children.
func Walk(n *ts.Node, fn func(*ts.Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range Children(n) {
		Walk(c, fn)
	}
}

// Unquote strips matching single, double or backtick quotes.
func Unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first == last && strings.ContainsRune("'\"`", rune(first)) {
			return s[1 : len(s)-1]
		}
	}
	return s
}

func nodeLocation(n *ts.Node) Location {
	start, end := n.StartPosition(), n.EndPosition()
	return Location{
		StartLine:   uint32(start.Row + 1),
		StartColumn: uint32(start.Column + 1),
		EndLine:     uint32(end.Row + 1),
		EndColumn:   uint32(end.Column + 1),
		StartByte:   uint32(n.StartByte()),
		EndByte:     uint32(n.EndByte()),
	}
}
