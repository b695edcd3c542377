package texmd

import (
	"strings"
)

// mathEnvironments are the display math environments recognized, numbered unless starred
var mathEnvironments = []string{
	"equation", "align", "gather", "multline", "flalign", "alignat",
	"eqnarray", "split", "breqn", "displaymath", "math",
}

// unnumberedMath are the environments that never take an equation number
var unnumberedMath = map[string]bool{
	"split":       true,
	"displaymath": true,
	"math":        true,
}

// alignedForms maps multi-line environments to the form that can be used inside
// a math directive, which is already a display equation
var alignedForms = map[string]string{
	"align":    "aligned",
	"flalign":  "aligned",
	"eqnarray": "aligned",
	"alignat":  "alignedat",
	"gather":   "gathered",
}

// mathGuards protect the characters of math content from the recognizers that run
// after the math pool
var mathGuards = Pool{
	&Guard{marker: marker{text: `\`}},
	&Guard{marker: marker{text: `$`}},
	&Guard{marker: marker{text: `{`}},
	&Guard{marker: marker{text: `}`}},
}

// protectMath runs the label and guard passes on a math node and freezes whatever is
// left, so no later pool changes math content
func protectMath(s *Session, n Node, labels bool) {
	if labels {
		s.expand(n, Pool{&labelRecognizer{}})
	}
	s.expand(n, mathGuards)
	Finalize(n)
}

// InlineMath is math inside a paragraph
type InlineMath struct {
	TreeNode
}

func (n *InlineMath) Render(br *ByteRenderer) {
	br.Render("$")
	renderChildren(n, br)
	br.Render("$")
}

type inlineMathRecognizer struct{}

func (r *inlineMathRecognizer) Name() string {
	return "$"
}

func (r *inlineMathRecognizer) IsHighPriority() bool {
	return false
}

// Position ignores a dollar starting a display math delimiter
func (r *inlineMathRecognizer) Position(text string) int {
	i := Locate(text, "$", false)
	if i != NotFound && i == Locate(text, "$$", false) {
		return NotFound
	}
	return i
}

// Consume takes the text up to the closing dollar. Dollars inside \text groups do
// not close the math.
func (r *inlineMathRecognizer) Consume(s *Session, text string, parent Node) (string, Node, string) {
	before, rest, _ := SplitAt(text, "$", false)

	var content strings.Builder
	after := ""
	for {
		end := Locate(rest, "$", false)
		if end == NotFound {
			s.log.Warnw("inline math not closed")
			content.WriteString(rest)
			break
		}
		t := Locate(rest[:end], `\text`, true)
		if t == NotFound {
			content.WriteString(rest[:end])
			after = rest[end+1:]
			break
		}
		group, tail := ExtractBraced(rest[t+len(`\text`):], '{', '}', "")
		content.WriteString(rest[:t])
		content.WriteString(`\text{` + group + `}`)
		if len(tail) == len(rest[t+len(`\text`):]) {
			// No group after \text, so it can not hide a dollar
			content.WriteString(rest[t+len(`\text`) : end])
			after = rest[end+1:]
			break
		}
		rest = tail
	}

	n := &InlineMath{}
	n.init(n, parent, content.String())
	protectMath(s, n, false)
	return before, n, after
}

// DisplayMath is math delimited by double dollars.
// It is numbered only when it has a label.
type DisplayMath struct {
	TreeNode
	number  string
	anchors []string
}

func (n *DisplayMath) AttachLabel(s *Session, key string) string {
	if len(n.number) == 0 {
		n.number = s.equationNumber(n)
	}
	id := s.Labels.Define(key, EquationLabel, n.number)
	n.anchors = append(n.anchors, id)
	return id
}

// Render writes the first label after the closing dollars. Any other label becomes a
// target just before the block.
func (n *DisplayMath) Render(br *ByteRenderer) {
	br.Renderln()
	for i := 1; i < len(n.anchors); i++ {
		br.Renderln("(", n.anchors[i], ")=")
	}
	br.Renderln("$$")
	br.Renderln(strings.TrimSpace(renderBody(n)))
	br.Render("$$")
	if len(n.anchors) > 0 {
		br.Render(" (", n.anchors[0], ")")
	}
	br.Renderln()
}

type displayMathRecognizer struct {
	marker
}

func (r *displayMathRecognizer) Name() string {
	return "$$"
}

// IsHighPriority makes double dollars win over the inline math at the same offset
func (r *displayMathRecognizer) IsHighPriority() bool {
	return true
}

func (r *displayMathRecognizer) Consume(s *Session, text string, parent Node) (string, Node, string) {
	before, rest := r.split(text)
	content, after, found := SplitAt(rest, "$$", false)
	if !found {
		s.log.Warnw("display math not closed")
	}

	n := &DisplayMath{}
	n.init(n, parent, content)
	protectMath(s, n, true)
	return before, n, after
}

// MathEnv is a display math environment
type MathEnv struct {
	TreeNode
	Env      string
	Star     bool
	Numbered bool
	number   string
	anchors  []string
}

func (n *MathEnv) Number() string {
	return n.number
}

func (n *MathEnv) AttachLabel(s *Session, key string) string {
	id := s.Labels.Define(key, EquationLabel, n.number)
	n.anchors = append(n.anchors, id)
	return id
}

func (n *MathEnv) envName() string {
	if n.Star {
		return n.Env + "*"
	}
	return n.Env
}

// Render writes a labeled equation as a math directive, so it can be referenced.
// Without label the environment is written as is.
func (n *MathEnv) Render(br *ByteRenderer) {
	body := strings.TrimSpace(renderBody(n))

	if n.Env == "math" {
		br.Render("$", body, "$")
		return
	}

	if len(n.anchors) == 0 {
		br.Renderln()
		br.Renderln(`\begin{`, n.envName(), "}")
		br.Renderln(body)
		br.Renderln(`\end{`, n.envName(), "}")
		return
	}

	if form, ok := alignedForms[n.Env]; ok {
		body = `\begin{` + form + "}" + body + `\end{` + form + "}"
	}

	br.Renderln()
	for _, a := range n.anchors[1:] {
		br.Renderln("(", a, ")=")
	}
	br.Renderln("```{math}")
	br.Renderln(":label: ", n.anchors[0])
	br.Renderln(body)
	br.Renderln("```")
}

// mathEnvRecognizer recognizes a math environment, or the \[ \] delimiters
type mathEnvRecognizer struct {
	marker
	end  string
	env  string
	star bool
}

func newMathEnvRecognizer(env string, star bool) *mathEnvRecognizer {
	name := env
	if star {
		name += "*"
	}
	return &mathEnvRecognizer{
		marker: marker{text: `\begin{` + name + `}`},
		end:    `\end{` + name + `}`,
		env:    env,
		star:   star,
	}
}

func (r *mathEnvRecognizer) Name() string {
	return r.text
}

func (r *mathEnvRecognizer) Consume(s *Session, text string, parent Node) (string, Node, string) {
	before, content, after, ok := ExtractBalanced(text, r.text, r.end)
	if !ok {
		return unclosed(s, text, r.text, parent)
	}

	n := &MathEnv{Env: r.env, Star: r.star}
	n.Numbered = !r.star && !unnumberedMath[r.env]
	n.init(n, parent, content)
	if n.Numbered {
		n.number = s.equationNumber(n)
	}

	protectMath(s, n, true)
	return before, n, after
}

// bracketMathRecognizer recognizes the \[ \] delimiters, an unnumbered equation.
// A \[ after a backslash is the spacing of a line break, as in \\[2pt].
type bracketMathRecognizer struct{}

func (r *bracketMathRecognizer) Name() string {
	return `\[`
}

func (r *bracketMathRecognizer) IsHighPriority() bool {
	return false
}

func (r *bracketMathRecognizer) Position(text string) int {
	return locateUnescaped(text, `\[`)
}

func (r *bracketMathRecognizer) Consume(s *Session, text string, parent Node) (string, Node, string) {
	start := locateUnescaped(text, `\[`)
	before, rest := text[:start], text[start+len(`\[`):]

	end := locateUnescaped(rest, `\]`)
	if end == NotFound {
		s.log.Warnw("environment not closed", "begin", `\[`)
		return before, NewText(parent, EnvironmentError+`(\[)`), rest
	}

	n := &MathEnv{Env: "equation", Star: true}
	n.init(n, parent, rest[:end])
	protectMath(s, n, true)
	return before, n, rest[end+len(`\]`):]
}

// locateUnescaped is like Locate, skipping the occurrences of marker whose leading
// backslash is escaped by another one
func locateUnescaped(text, marker string) int {
	from := 0
	for {
		i := Locate(text[from:], marker, false)
		if i == NotFound {
			return NotFound
		}
		i += from
		if !escaped(text, i) {
			return i
		}
		from = i + 1
	}
}

// mathRecognizers returns the recognizers of the math pool
func mathRecognizers() []Recognizer {
	list := []Recognizer{
		&displayMathRecognizer{marker: marker{text: "$$"}},
		&bracketMathRecognizer{},
		&inlineMathRecognizer{},
	}
	for _, env := range mathEnvironments {
		list = append(list, newMathEnvRecognizer(env, false), newMathEnvRecognizer(env, true))
	}
	return list
}
