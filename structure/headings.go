package structure

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Heading is a heading of a Markdown document with the headings nested under it
type Heading struct {
	Level    int        `json:"level"`
	Text     string     `json:"text"`
	Children []*Heading `json:"children,omitempty"`
}

// Headings parses a Markdown document and returns the tree of its headings.
// A heading is nested under the nearest previous heading of a lower level.
func Headings(md []byte) []*Heading {
	doc := goldmark.New().Parser().Parse(text.NewReader(md))

	root := &Heading{}
	stack := []*Heading{root}

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		h, ok := n.(*ast.Heading)
		if !ok {
			continue
		}

		heading := &Heading{Level: h.Level, Text: inlineText(h, md)}
		for len(stack) > 1 && stack[len(stack)-1].Level >= h.Level {
			stack = stack[:len(stack)-1]
		}
		parent := stack[len(stack)-1]
		parent.Children = append(parent.Children, heading)
		stack = append(stack, heading)
	}
	return root.Children
}

// inlineText returns the text of the inline children of a node, without markup
func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch v := c.(type) {
		case *ast.Text:
			buf.Write(v.Segment.Value(src))
			if v.SoftLineBreak() || v.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(v.Value)
		default:
			buf.WriteString(inlineText(c, src))
		}
	}
	return strings.TrimSpace(buf.String())
}

// FormatOutline writes the heading tree as an indented list, one heading per line
func FormatOutline(headings []*Heading) string {
	var b strings.Builder
	var format func(hs []*Heading, depth int)
	format = func(hs []*Heading, depth int) {
		for _, h := range hs {
			b.WriteString(strings.Repeat("  ", depth))
			b.WriteString("- ")
			b.WriteString(h.Text)
			b.WriteString("\n")
			format(h.Children, depth+1)
		}
	}
	format(headings, 0)
	return b.String()
}
