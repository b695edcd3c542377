package texmd

import "strings"

// Guard turns a marker into literal output, so no later recognizer can match it
type Guard struct {
	marker
}

func (r *Guard) Name() string {
	return "guard " + r.text
}

func (r *Guard) Consume(s *Session, text string, parent Node) (string, Node, string) {
	before, after := r.split(text)
	return before, NewText(parent, r.text), after
}

// Junk removes a marker from the text
type Junk struct {
	marker
}

func NewJunk(text string, safe bool) *Junk {
	return &Junk{marker: marker{text: text, safe: safe}}
}

func (r *Junk) Name() string {
	return "junk " + r.text
}

func (r *Junk) Consume(s *Session, text string, parent Node) (string, Node, string) {
	before, after := r.split(text)
	return before, NewWrapper(parent, ""), after
}

// Replace substitutes a marker with some text, which is expanded by the following
// recognizers like any other source text
type Replace struct {
	marker
	With string
}

func NewReplace(text string, with string, safe bool) *Replace {
	return &Replace{marker: marker{text: text, safe: safe}, With: with}
}

func (r *Replace) Name() string {
	return "replace " + r.text
}

func (r *Replace) Consume(s *Session, text string, parent Node) (string, Node, string) {
	before, after := r.split(text)
	return before, NewWrapper(parent, r.With), after
}

// DropCommand removes a command together with its optional and braced arguments
type DropCommand struct {
	marker
	args int
}

func NewDropCommand(command string, args int) *DropCommand {
	return &DropCommand{marker: marker{text: `\` + command, safe: true}, args: args}
}

func (r *DropCommand) Name() string {
	return "drop " + r.text
}

func (r *DropCommand) Consume(s *Session, text string, parent Node) (string, Node, string) {
	before, rest := r.split(text)
	if _, after, ok := ExtractOptional(rest); ok {
		rest = after
	}
	for i := 0; i < r.args; i++ {
		_, rest = ExtractBraced(rest, '{', '}', "")
	}
	return before, NewWrapper(parent, ""), rest
}

// lineBreakRecognizer turns \\ into a new line, dropping its star and its optional
// spacing argument
type lineBreakRecognizer struct {
	marker
}

func (r *lineBreakRecognizer) Name() string {
	return "line break"
}

func (r *lineBreakRecognizer) Consume(s *Session, text string, parent Node) (string, Node, string) {
	before, rest := r.split(text)
	rest = strings.TrimPrefix(rest, "*")
	if _, after, ok := ExtractOptional(rest); ok {
		rest = after
	}
	return before, NewWrapper(parent, "\n"), rest
}

// Styled is inline content between two fixed strings, like bold or italic text
type Styled struct {
	TreeNode
	Open  string
	Close string
}

func NewStyled(parent Node, open, close, content string) *Styled {
	n := &Styled{Open: open, Close: close}
	n.init(n, parent, content)
	return n
}

func (n *Styled) Render(br *ByteRenderer) {
	body := renderBody(n)
	if len(strings.TrimSpace(body)) == 0 {
		return
	}
	br.Render(n.Open, body, n.Close)
}

// styleRecognizer recognizes a command with one argument that gets wrapped in the
// markers of a style
type styleRecognizer struct {
	marker
	open  string
	close string
}

func newStyleRecognizer(command, open, close string) *styleRecognizer {
	return &styleRecognizer{
		marker: marker{text: `\` + command, safe: true},
		open:   open,
		close:  close,
	}
}

func (r *styleRecognizer) Name() string {
	return r.text
}

func (r *styleRecognizer) Consume(s *Session, text string, parent Node) (string, Node, string) {
	before, rest := r.split(text)
	content, after := ExtractBraced(rest, '{', '}', BraceError)
	return before, NewStyled(parent, r.open, r.close, content), after
}

// hrefRecognizer converts \href{url}{text} to a Markdown link
type hrefRecognizer struct {
	marker
}

func (r *hrefRecognizer) Name() string {
	return r.text
}

func (r *hrefRecognizer) Consume(s *Session, text string, parent Node) (string, Node, string) {
	before, rest := r.split(text)
	url, rest := ExtractBraced(rest, '{', '}', BraceError)
	content, after := ExtractBraced(rest, '{', '}', url)
	return before, NewStyled(parent, "[", "]("+strings.TrimSpace(url)+")", content), after
}

// verbatimArgRecognizer converts a command whose argument must be written literally,
// like \url, placing it between two fixed strings
type verbatimArgRecognizer struct {
	marker
	open  string
	close string
}

func (r *verbatimArgRecognizer) Name() string {
	return r.text
}

func (r *verbatimArgRecognizer) Consume(s *Session, text string, parent Node) (string, Node, string) {
	before, rest := r.split(text)
	if _, after, ok := ExtractOptional(rest); ok {
		rest = after
	}
	arg, after := ExtractBraced(rest, '{', '}', BraceError)
	return before, NewText(parent, r.open+strings.TrimSpace(arg)+r.close), after
}

// bibliographyRecognizer replaces \bibliography{file} with the bibliography directive
type bibliographyRecognizer struct {
	marker
}

func (r *bibliographyRecognizer) Name() string {
	return r.text
}

func (r *bibliographyRecognizer) Consume(s *Session, text string, parent Node) (string, Node, string) {
	before, rest := r.split(text)
	_, after := ExtractBraced(rest, '{', '}', "")
	return before, NewText(parent, "\n```{bibliography}\n```\n"), after
}

var (
	junkCommands = []string{
		"maketitle", "tableofcontents", "noindent", "centering", "newpage", "clearpage",
		"smallskip", "medskip", "bigskip", "hfill", "appendix", "printbibliography",
		"raggedright", "sloppy", "protect",
	}

	// dropCommands are removed with the given number of braced arguments
	dropCommands = []struct {
		command string
		args    int
	}{
		{"vspace", 1}, {"hspace", 1}, {"bibliographystyle", 1}, {"pagestyle", 1},
		{"thispagestyle", 1}, {"setlength", 2}, {"setcounter", 2}, {"addtocounter", 2},
		{"usepackage", 1}, {"documentclass", 1}, {"numberwithin", 2}, {"title", 1},
		{"author", 1}, {"date", 1},
	}

	junkEnvironments = []string{"center", "figure", "figure*", "table", "table*", "minipage", "flushleft", "flushright"}

	styleCommands = []struct {
		command, open, close string
	}{
		{"textbf", "**", "**"},
		{"textit", "*", "*"},
		{"emph", "*", "*"},
		{"textsl", "*", "*"},
		{"underline", "*", "*"},
		{"texttt", "`", "`"},
		{"textsc", "", ""},
		{"textrm", "", ""},
		{"mbox", "", ""},
		{"paragraph", "\n**", "**\n"},
		{"caption", "\n*", "*\n"},
		{"footnote", " (", ")"},
	}
)

// formattingRecognizers returns the recognizers of inline formatting and of the
// commands without a representation in the output
func formattingRecognizers() []Recognizer {
	var list []Recognizer
	for _, st := range styleCommands {
		list = append(list, newStyleRecognizer(st.command, st.open, st.close))
	}
	list = append(list,
		&hrefRecognizer{marker: marker{text: `\href`, safe: true}},
		&verbatimArgRecognizer{marker: marker{text: `\url`, safe: true}, open: "<", close: ">"},
		&verbatimArgRecognizer{marker: marker{text: `\includegraphics`, safe: true}, open: "\n![](", close: ")\n"},
		&bibliographyRecognizer{marker: marker{text: `\bibliography`, safe: true}},
		NewReplace(`\begin{abstract}`, "\n**Abstract.** ", false),
		NewJunk(`\end{abstract}`, false),
	)
	for _, c := range junkCommands {
		list = append(list, NewJunk(`\`+c, true))
	}
	for _, d := range dropCommands {
		list = append(list, NewDropCommand(d.command, d.args))
	}
	for _, env := range junkEnvironments {
		// The placement options of floats go with the opening
		begin := &DropCommand{marker: marker{text: `\begin{` + env + `}`}}
		list = append(list, begin, NewJunk(`\end{`+env+`}`, false))
	}
	return list
}
