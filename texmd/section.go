package texmd

import "strings"

// Section is a sectioning command and all the content up to the next sectioning
// command of the same or a higher level.
// Its first child holds the title, and the rest of the children the content.
type Section struct {
	TreeNode
	Counters

	// Command is the name of the LaTeX command, like "chapter" or "subsection"
	Command string

	// Star is true for the unnumbered variants
	Star bool

	number  string
	anchors []string
}

func (n *Section) ScopeName() string {
	if n.Star {
		return n.Command + "*"
	}
	return n.Command
}

// Number returns the hierarchical number of the section, like "2.1"
func (n *Section) Number() string {
	return n.number
}

// Anchors returns the identifiers of the labels attached to the section
func (n *Section) Anchors() []string {
	return n.anchors
}

func (n *Section) AttachLabel(s *Session, key string) string {
	id := s.Labels.Define(key, SectionLabel, n.number)
	n.anchors = append(n.anchors, id)
	return id
}

// Level is the heading level of the section: one plus the number of enclosing sections
func (n *Section) Level() int {
	level := 1
	for p := n.Parent; p != nil; p = p.tree().Parent {
		if _, ok := p.(*Section); ok {
			level++
		}
	}
	return level
}

// Title returns the rendered title, in a single line
func (n *Section) Title() string {
	if n.FirstChild == nil {
		return ""
	}
	return collapseSpaces(RenderString(n.FirstChild))
}

// body returns the children of the section after the title
func (n *Section) body() []Node {
	children := n.Children()
	if len(children) == 0 {
		return nil
	}
	return children[1:]
}

// renderHeading writes the anchors of the section and its heading line
func (n *Section) renderHeading(br *ByteRenderer) {
	br.Renderln()
	for _, a := range n.anchors {
		br.Renderln("(", a, ")=")
	}
	br.Renderln(strings.Repeat("#", n.Level()), " ", n.Title())
}

func (n *Section) Render(br *ByteRenderer) {
	n.renderHeading(br)

	body := &ByteRenderer{}
	for _, c := range n.body() {
		c.Render(body)
	}
	body.Render(n.pending)

	content := strings.TrimLeft(body.String(), " \t\n")
	if len(content) > 0 {
		br.Render("\n", content)
	}
}

// sectionRecognizer recognizes a sectioning command.
// The content of the section extends until the next command in ends.
type sectionRecognizer struct {
	marker
	command string
	star    bool
	within  []string
	ends    []string
}

// newSectionRecognizer creates the recognizer for a sectioning command.
// The content ends at any of the commands in ends, which must include the command itself.
func newSectionRecognizer(command string, star bool, within []string, ends []string) *sectionRecognizer {
	r := &sectionRecognizer{
		command: command,
		star:    star,
		within:  within,
		ends:    ends,
	}
	if star {
		r.marker = marker{text: `\` + command + "*"}
	} else {
		r.marker = marker{text: `\` + command, safe: true}
	}
	return r
}

func (r *sectionRecognizer) Name() string {
	return r.text
}

// IsHighPriority makes the unnumbered variant win over the numbered one at the same offset
func (r *sectionRecognizer) IsHighPriority() bool {
	return r.star
}

func (r *sectionRecognizer) Consume(s *Session, text string, parent Node) (string, Node, string) {
	before, rest := r.split(text)

	// The short title for the table of contents is not used
	if _, after, ok := ExtractOptional(rest); ok {
		rest = after
	}

	placeholder := BraceError
	if r.command == "chapter" {
		placeholder = ChapterError
	}
	title, rest := ExtractBraced(rest, '{', '}', placeholder)
	if title == placeholder {
		s.log.Warnw("section without title", "command", r.command)
	}

	content, after := rest, ""
	if i := r.contentEnd(rest); i != NotFound {
		content, after = rest[:i], rest[i:]
	}

	n := &Section{Command: r.command, Star: r.star}
	n.init(n, parent, content)
	n.AppendChild(NewWrapper(n, title))
	if !r.star {
		n.number = s.sectionNumber(n, r.command, r.within)
	}
	return before, n, after
}

func (r *sectionRecognizer) contentEnd(text string) int {
	end := NotFound
	for _, e := range r.ends {
		i := Locate(text, `\`+e, true)
		if i != NotFound && (end == NotFound || i < end) {
			end = i
		}
	}
	return end
}

// sectionLevels are the sectioning commands from the top level down, with the classes
// that number them
var sectionLevels = []struct {
	command string
	within  []string
}{
	{"chapter", []string{"document"}},
	{"section", []string{"chapter", "document"}},
	{"subsection", []string{"section"}},
	{"subsubsection", []string{"subsection"}},
}

// sectionRecognizers returns the recognizers for all the sectioning commands,
// numbered and unnumbered
func sectionRecognizers() []Recognizer {
	var list []Recognizer
	for i, level := range sectionLevels {
		var ends []string
		for _, upper := range sectionLevels[:i+1] {
			ends = append(ends, upper.command)
		}
		list = append(list,
			newSectionRecognizer(level.command, true, nil, ends),
			newSectionRecognizer(level.command, false, level.within, ends),
		)
	}
	return list
}
