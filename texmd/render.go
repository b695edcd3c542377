package texmd

import (
	"bytes"
	"fmt"
	"strings"
)

// ByteRenderer accumulates the serialized output of a tree of nodes.
// Render methods of the nodes append to it, and never read it back.
type ByteRenderer struct {
	buf []byte
}

// Render appends its arguments to the buffer. Strings and byte slices are written
// verbatim, anything else is formatted with the default format of the fmt package.
func (br *ByteRenderer) Render(args ...any) {
	for _, arg := range args {
		switch v := arg.(type) {
		case string:
			br.buf = append(br.buf, v...)
		case []byte:
			br.buf = append(br.buf, v...)
		case byte:
			br.buf = append(br.buf, v)
		default:
			br.buf = fmt.Append(br.buf, v)
		}
	}
}

// Renderln is like Render but appends a newline at the end
func (br *ByteRenderer) Renderln(args ...any) {
	br.Render(args...)
	br.buf = append(br.buf, '\n')
}

func (br *ByteRenderer) Len() int {
	return len(br.buf)
}

func (br *ByteRenderer) Bytes() []byte {
	return br.buf
}

// CloneBytes returns a copy of the buffer, safe to retain after the renderer is reused
func (br *ByteRenderer) CloneBytes() []byte {
	return bytes.Clone(br.buf)
}

func (br *ByteRenderer) String() string {
	return string(br.buf)
}

func (br *ByteRenderer) Reset() {
	br.buf = br.buf[:0]
}

// RenderString serializes a node and its descendants.
func RenderString(n Node) string {
	br := &ByteRenderer{}
	n.Render(br)
	return br.String()
}

// renderBody serializes the children of n, and the unprocessed text if any is left,
// without the decoration of n itself.
func renderBody(n Node) string {
	br := &ByteRenderer{}
	renderChildren(n, br)
	return br.String()
}

func renderChildren(n Node, br *ByteRenderer) {
	t := n.tree()
	for c := t.FirstChild; c != nil; c = c.tree().NextSibling {
		c.Render(br)
	}
	// Before the final pass a node may still hold text that no recognizer claimed.
	// Rendering it in place keeps Render free of side effects.
	br.Render(t.pending)
}

// collapseSpaces joins all the whitespace-separated fields of s with a single space
func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// indentContinuation renders a block of text where the first line follows a marker
// and the rest of the lines are indented to stay inside the block.
func indentContinuation(br *ByteRenderer, body string, indent string) {
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		if i == 0 {
			br.Render(strings.TrimSpace(line))
			continue
		}
		br.Render("\n")
		line = strings.TrimRight(line, " \t")
		if line != "" {
			br.Render(indent, line)
		}
	}
}
