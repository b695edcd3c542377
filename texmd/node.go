package texmd

import (
	"fmt"
	"strings"
)

// Node is an element of the document tree.
//
// Every node embeds a TreeNode, which holds the links with the rest of the tree and the
// source text not yet claimed by any recognizer. Rendering a node must not modify it.
type Node interface {
	tree() *TreeNode
	Render(br *ByteRenderer)
}

// TreeNode implements the tree structure shared by all nodes.
// Links are set only by the methods of TreeNode, to keep the tree consistent.
type TreeNode struct {
	Parent      Node
	FirstChild  Node
	LastChild   Node
	PrevSibling Node
	NextSibling Node

	// pending is the text of the node still waiting to be expanded
	pending string

	// self is the node embedding this TreeNode
	self Node
}

func (t *TreeNode) tree() *TreeNode {
	return t
}

// init links the TreeNode to the node embedding it. The parent link is set before the
// node is attached so the node can query its context during construction.
func (t *TreeNode) init(self, parent Node, pending string) {
	t.self = self
	t.Parent = parent
	t.pending = pending
}

// Pending returns the text of the node not yet expanded
func (t *TreeNode) Pending() string {
	return t.pending
}

// Expanded reports whether the node already has children
func (t *TreeNode) Expanded() bool {
	return t.FirstChild != nil
}

// Children returns the children of the node in document order
func (t *TreeNode) Children() []Node {
	var list []Node
	for c := t.FirstChild; c != nil; c = c.tree().NextSibling {
		list = append(list, c)
	}
	return list
}

// AppendChild adds a node c as a child of n.
//
// It will panic if c already has siblings or belongs to a different parent.
// A child created with n as its parent and not yet attached is accepted.
func (t *TreeNode) AppendChild(c Node) {
	ct := c.tree()
	if ct.PrevSibling != nil || ct.NextSibling != nil || t.FirstChild == c {
		panic("texmd: AppendChild called for an attached child Node")
	}
	if ct.Parent != nil && ct.Parent != t.self {
		panic("texmd: AppendChild called for a child Node of another parent")
	}

	last := t.LastChild
	if last != nil {
		last.tree().NextSibling = c
	} else {
		t.FirstChild = c
	}
	t.LastChild = c
	ct.Parent = t.self
	ct.PrevSibling = last
}

// attached reports whether the node is linked in the children list of its parent
func attached(n Node) bool {
	t := n.tree()
	if t.Parent == nil {
		return false
	}
	return t.PrevSibling != nil || t.Parent.tree().FirstChild == n
}

// Root returns the top of the tree containing n
func Root(n Node) Node {
	for n.tree().Parent != nil {
		n = n.tree().Parent
	}
	return n
}

// Walk visits n and its descendants in pre-order. Children of a node are not visited
// when fn returns false for it.
func Walk(n Node, fn func(Node) bool) {
	if !fn(n) {
		return
	}
	for c := n.tree().FirstChild; c != nil; c = c.tree().NextSibling {
		Walk(c, fn)
	}
}

// Ancestor returns the nearest node satisfying match, starting with n itself and going
// up through the parent links.
func Ancestor(n Node, match func(Node) bool) Node {
	for ; n != nil; n = n.tree().Parent {
		if match(n) {
			return n
		}
	}
	return nil
}

// Preceding returns the last node satisfying match that comes before n in pre-order.
//
// A node not yet attached to its parent is considered to be placed after everything
// already under its parent, which is where the expansion engine will attach it.
func Preceding(n Node, match func(Node) bool) Node {
	stop, stopAfter := n, false
	if !attached(n) && n.tree().Parent != nil {
		stop, stopAfter = n.tree().Parent, true
		for !attached(stop) && stop.tree().Parent != nil {
			stop = stop.tree().Parent
		}
	}

	var found Node
	done := false
	var visit func(x Node)
	visit = func(x Node) {
		if done {
			return
		}
		if x == stop && !stopAfter {
			done = true
			return
		}
		if x != n && match(x) {
			found = x
		}
		for c := x.tree().FirstChild; c != nil && !done; c = c.tree().NextSibling {
			visit(c)
		}
		if x == stop {
			done = true
		}
	}
	visit(Root(n))
	return found
}

// Lookup returns the nearest ancestor satisfying match, or the nearest preceding node
// in document order when no ancestor does.
func Lookup(n Node, match func(Node) bool) Node {
	if a := Ancestor(n, match); a != nil {
		return a
	}
	return Preceding(n, match)
}

// Finalize converts the text still pending in n and its descendants to plain text leaves.
// Calling it more than once has no further effect.
func Finalize(n Node) {
	t := n.tree()
	if t.pending != "" {
		text := t.pending
		t.pending = ""
		t.AppendChild(NewText(n, text))
	}
	for c := t.FirstChild; c != nil; c = c.tree().NextSibling {
		Finalize(c)
	}
}

// Text is a leaf holding output that no recognizer may expand
type Text struct {
	TreeNode
	Value string
}

func NewText(parent Node, value string) *Text {
	n := &Text{Value: value}
	n.init(n, parent, "")
	return n
}

func (n *Text) Render(br *ByteRenderer) {
	br.Render(n.Value)
}

// Wrapper holds a span of source text that later recognizers will expand.
// It has no decoration of its own.
type Wrapper struct {
	TreeNode
}

func NewWrapper(parent Node, text string) *Wrapper {
	n := &Wrapper{}
	n.init(n, parent, text)
	return n
}

func (n *Wrapper) Render(br *ByteRenderer) {
	renderChildren(n, br)
}

// Dump returns an indented description of the tree under n, one node per line
func Dump(n Node) string {
	var b strings.Builder
	var dump func(x Node, depth int)
	dump = func(x Node, depth int) {
		b.WriteString(indent(depth))
		b.WriteString(describe(x))
		b.WriteString("\n")
		for c := x.tree().FirstChild; c != nil; c = c.tree().NextSibling {
			dump(c, depth+1)
		}
	}
	dump(n, 0)
	return b.String()
}

func describe(n Node) string {
	name := strings.TrimPrefix(fmt.Sprintf("%T", n), "*texmd.")
	switch v := n.(type) {
	case *Text:
		return fmt.Sprintf("%s %q", name, shorten(v.Value))
	case *Section:
		return fmt.Sprintf("%s %s %q", name, v.Number(), v.Title())
	}
	if p := n.tree().pending; p != "" {
		return fmt.Sprintf("%s pending=%q", name, shorten(p))
	}
	return name
}

func shorten(s string) string {
	const max = 40
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

func indent(n int) string {
	return strings.Repeat("  ", n)
}
