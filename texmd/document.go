package texmd

import "strings"

// Document is the root of the tree: the body of the LaTeX document
type Document struct {
	TreeNode
	Counters

	// Title comes from the \title command of the preamble, if any
	Title string

	session *Session
	anchors []string
}

// NewDocument creates the root of a conversion holding the text of the body
func NewDocument(s *Session, body string) *Document {
	d := &Document{session: s}
	d.init(d, nil, body)
	return d
}

func (d *Document) ScopeName() string {
	return "document"
}

func (d *Document) Number() string {
	return ""
}

// takeLeadingLabels defines the labels at the very start of the body as labels of the
// whole document. Any other label outside a section is a plain target.
func (d *Document) takeLeadingLabels() {
	for {
		rest := strings.TrimLeft(d.pending, " \t\n")
		if !strings.HasPrefix(rest, `\label`) || letterAt(rest, len(`\label`)) {
			return
		}
		key, after := ExtractBraced(rest[len(`\label`):], '{', '}', BraceError)
		if key == BraceError {
			return
		}
		d.anchors = append(d.anchors, d.session.Labels.Define(key, DocumentLabel, ""))
		d.pending = after
	}
}

// Session returns the context of the conversion that produced the document
func (d *Document) Session() *Session {
	return d.session
}

func (d *Document) renderHeading(br *ByteRenderer) {
	for _, a := range d.anchors {
		br.Renderln("(", a, ")=")
	}
}

func (d *Document) Render(br *ByteRenderer) {
	d.renderHeading(br)
	renderChildren(d, br)
}

// Markdown returns the whole document as a single Markdown text
func (d *Document) Markdown() string {
	return finish(RenderString(d))
}

// finish restores the escaped characters hidden during preprocessing and
// removes runs of blank lines outside code blocks
func finish(text string) string {
	text = Restore(text)
	if len(strings.TrimSpace(text)) == 0 {
		return ""
	}

	var b strings.Builder
	inCode, blank := false, false
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		if strings.HasPrefix(line, "```") {
			inCode = !inCode
		}
		if !inCode && strings.TrimSpace(line) == "" {
			if blank {
				continue
			}
			blank = true
			b.WriteString("\n")
			continue
		}
		blank = false
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

// DocumentBody returns the text between \begin{document} and \end{document},
// or the whole text when there is no document environment.
func DocumentBody(text string) string {
	if Locate(text, `\begin{document}`, false) == NotFound {
		return text
	}
	_, body, _, _ := ExtractBalanced(text, `\begin{document}`, `\end{document}`)
	return body
}

// DocumentTitle returns the argument of the first \title command, if any
func DocumentTitle(text string) string {
	_, rest, found := SplitAt(text, `\title`, true)
	if !found {
		return ""
	}
	title, _ := ExtractBraced(rest, '{', '}', "")
	return collapseSpaces(title)
}
