package texmd

import (
	"strings"
)

// prfTypes maps the names of theorem-like environments to the directives of sphinx-proof
var prfTypes = map[string]string{
	"algorithm":   "prf:algorithm",
	"axiom":       "prf:axiom",
	"conjecture":  "prf:conjecture",
	"corollary":   "prf:corollary",
	"criteria":    "prf:criteria",
	"definition":  "prf:definition",
	"example":     "prf:example",
	"lemma":       "prf:lemma",
	"observation": "prf:observation",
	"property":    "prf:property",
	"proposition": "prf:proposition",
	"proof":       "prf:proof",
	"remark":      "prf:remark",
	"theorem":     "prf:theorem",
}

func init() {
	plurals := make(map[string]string, len(prfTypes))
	for name, directive := range prfTypes {
		plurals[name+"s"] = directive
	}
	for name, directive := range plurals {
		prfTypes[name] = directive
	}
}

// theoremDirective finds the directive for an environment, trying first with the
// name displayed in the document and then with the name of the environment
func theoremDirective(env string, display string) string {
	if d, ok := prfTypes[strings.ToLower(strings.TrimSpace(display))]; ok {
		return d
	}
	if d, ok := prfTypes[strings.ToLower(env)]; ok {
		return d
	}
	return "prf:theorem"
}

// TheoremEnv is an environment declared with \newtheorem
type TheoremEnv struct {
	// Env is the name of the environment, as used in \begin
	Env string

	// Display is the name printed in the document, like "Theorem"
	Display string

	// Within is the class of section that numbers the environment
	Within string

	// Counter is the environment whose counter is shared, or Env itself
	Counter string

	Numbered bool
}

// Theorem is a theorem-like environment.
// It is rendered as a colon fence directive, with the labels as options.
type Theorem struct {
	TreeNode
	Env       TheoremEnv
	Directive string
	Title     string
	number    string
	labels    []string
	labelKind LabelKind
}

func (n *Theorem) Number() string {
	return n.number
}

func (n *Theorem) AttachLabel(s *Session, key string) string {
	id := s.Labels.Define(key, n.labelKind, n.number)
	n.labels = append(n.labels, id)
	return id
}

func (n *Theorem) Render(br *ByteRenderer) {
	title := n.Title
	if n.Directive == "admonition" {
		title = strings.TrimSpace(n.Env.Display + " " + title)
	}

	br.Renderln()
	br.Renderln(strings.TrimSpace(":::{" + n.Directive + "} " + title))
	for _, l := range n.labels {
		br.Renderln(":label: ", l)
	}
	body := strings.TrimSpace(renderBody(n))
	if len(body) > 0 {
		br.Renderln(body)
	}
	br.Renderln(":::")
}

// theoremRecognizer recognizes one environment declared with \newtheorem, or the
// proof environment
type theoremRecognizer struct {
	marker
	env TheoremEnv
	end string
}

func newTheoremRecognizer(env TheoremEnv) *theoremRecognizer {
	return &theoremRecognizer{
		marker: marker{text: `\begin{` + env.Env + `}`},
		env:    env,
		end:    `\end{` + env.Env + `}`,
	}
}

func (r *theoremRecognizer) Name() string {
	return r.env.Env
}

func (r *theoremRecognizer) Consume(s *Session, text string, parent Node) (string, Node, string) {
	before, content, after, ok := ExtractBalanced(text, r.text, r.end)
	if !ok {
		return unclosed(s, text, r.text, parent)
	}

	n := &Theorem{Env: r.env, labelKind: NumberedLabel}
	if r.env.Env == "proof" {
		n.labelKind = ProofLabel
	}
	n.Directive = s.Config.TheoremDirective(r.env.Env, r.env.Display)

	if title, rest, ok := ExtractOptional(content); ok {
		n.Title = collapseSpaces(title)
		content = rest
	}
	n.init(n, parent, strings.TrimSpace(content))

	if r.env.Numbered {
		n.number = s.theoremNumber(n, r.env)
	}

	// Labels at the start of the body belong to the environment
	s.expand(n, Pool{&labelRecognizer{leading: true}})

	return before, n, after
}

// theoremNumber numbers a theorem in the scope of its class, sharing the counter with
// the environment it was declared with
func (s *Session) theoremNumber(n Node, env TheoremEnv) string {
	within := env.Within
	if len(within) == 0 {
		within = "document"
	}
	return s.numberIn(n, within, "theorem:"+env.Counter)
}

// unclosed handles an environment without its closing marker. The opening marker is
// replaced by an error placeholder and the rest of the text is left for the next
// recognizers.
func unclosed(s *Session, text string, begin string, parent Node) (string, Node, string) {
	before, after, _ := SplitAt(text, begin, false)
	s.log.Warnw("environment not closed", "begin", begin)
	return before, NewText(parent, EnvironmentError+"("+envName(begin)+")"), after
}

// envName extracts the name of the environment from a \begin{name} marker
func envName(begin string) string {
	name := strings.TrimPrefix(begin, `\begin{`)
	return strings.TrimSuffix(name, "}")
}

// proofEnv is the environment of proofs, which is not declared with \newtheorem
var proofEnv = TheoremEnv{Env: "proof", Display: "Proof", Counter: "proof"}
