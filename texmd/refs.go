package texmd

import (
	"strings"
	"unicode"
)

// LabelNode is the node of a \label command. When a node around it takes the label, it
// renders nothing. Otherwise it renders as a target for references.
type LabelNode struct {
	TreeNode
	Key    string
	ID     string
	Target bool
}

func (n *LabelNode) Render(br *ByteRenderer) {
	if n.Target {
		br.Render("\n(", n.ID, ")=\n")
	}
}

// labelRecognizer recognizes \label commands. In leading mode it only accepts labels
// preceded by whitespace, to take the labels at the start of an environment.
type labelRecognizer struct {
	leading bool
}

func (r *labelRecognizer) Name() string {
	return `\label`
}

func (r *labelRecognizer) IsHighPriority() bool {
	return false
}

func (r *labelRecognizer) Position(text string) int {
	i := Locate(text, `\label`, true)
	if i == NotFound || !r.leading {
		return i
	}
	if strings.TrimSpace(text[:i]) != "" {
		return NotFound
	}
	return i
}

func (r *labelRecognizer) Consume(s *Session, text string, parent Node) (string, Node, string) {
	before, rest, _ := SplitAt(text, `\label`, true)
	key, after := ExtractBraced(rest, '{', '}', BraceError)
	key = strings.TrimSpace(key)

	n := &LabelNode{Key: key}
	n.init(n, parent, "")

	if holder := Ancestor(parent, isLabelHolder); holder != nil {
		n.ID = holder.(LabelHolder).AttachLabel(s, key)
	} else {
		n.ID = s.Labels.Define(key, GenericLabel, "")
		n.Target = true
	}
	return before, n, after
}

// Reference is a cross reference to one or more labels.
// The targets are resolved when the node is created, so only labels defined earlier in
// the conversion are found.
type Reference struct {
	TreeNode
	Command string
	Keys    []string
	Targets []string
}

func (n *Reference) Render(br *ByteRenderer) {
	br.Render(strings.Join(n.Targets, ", "))
}

// refRecognizer recognizes a reference command like \ref or \eqref
type refRecognizer struct {
	marker
}

func newRefRecognizer(command string) *refRecognizer {
	return &refRecognizer{marker: marker{text: `\` + command, safe: true}}
}

func (r *refRecognizer) Name() string {
	return r.text
}

func (r *refRecognizer) Consume(s *Session, text string, parent Node) (string, Node, string) {
	before, rest := r.split(text)
	keys, after := ExtractBraced(rest, '{', '}', BraceError)

	n := &Reference{Command: strings.TrimPrefix(r.text, `\`)}
	n.init(n, parent, "")
	if keys == BraceError {
		n.Targets = []string{BraceError}
		return before, n, after
	}

	for _, key := range strings.Split(keys, ",") {
		key = strings.TrimSpace(key)
		if len(key) == 0 {
			continue
		}
		n.Keys = append(n.Keys, key)
		n.Targets = append(n.Targets, s.Resolve(key))
	}
	return before, n, after
}

// Citation is a citation of bibliography entries, rendered with the syntax of
// sphinxcontrib-bibtex for MyST
type Citation struct {
	TreeNode
	Keys []string
	Note string
}

func (n *Citation) Render(br *ByteRenderer) {
	br.Render("[")
	for i, k := range n.Keys {
		if i > 0 {
			br.Render("; ")
		}
		br.Render("@", k)
	}
	if len(n.Note) > 0 {
		br.Render(", ", n.Note)
	}
	br.Render("]")
}

// citeRecognizer recognizes a citation command. With two optional arguments, as in
// biblatex, the second is the note.
type citeRecognizer struct {
	marker
}

func newCiteRecognizer(command string) *citeRecognizer {
	return &citeRecognizer{marker: marker{text: `\` + command, safe: true}}
}

func (r *citeRecognizer) Name() string {
	return r.text
}

func (r *citeRecognizer) Consume(s *Session, text string, parent Node) (string, Node, string) {
	before, rest := r.split(text)

	n := &Citation{}
	for {
		note, after, ok := ExtractOptional(rest)
		if !ok {
			break
		}
		n.Note = strings.TrimSpace(note)
		rest = after
	}

	keys, after := ExtractBraced(rest, '{', '}', BraceError)
	for _, key := range strings.Split(keys, ",") {
		key = strings.Map(func(r rune) rune {
			if unicode.IsSpace(r) {
				return -1
			}
			return r
		}, key)
		if len(key) > 0 {
			n.Keys = append(n.Keys, key)
		}
	}
	n.init(n, parent, "")
	return before, n, after
}

var (
	refCommands  = []string{"ref", "eqref", "autoref", "cref", "Cref", "pageref", "nameref"}
	citeCommands = []string{"cite", "citep", "citet", "parencite", "textcite", "autocite"}
)

func referenceRecognizers() []Recognizer {
	var list []Recognizer
	for _, c := range refCommands {
		list = append(list, newRefRecognizer(c))
	}
	for _, c := range citeCommands {
		list = append(list, newCiteRecognizer(c))
	}
	return list
}
