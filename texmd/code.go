package texmd

import (
	"bytes"
	"strings"

	"github.com/alecthomas/chroma/v2"
	hlhtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// CodeBlock is a verbatim environment. Its content is never expanded.
type CodeBlock struct {
	TreeNode
	Env      string
	Language string
	Code     string

	// Highlighted holds the code already formatted as HTML, when enabled in the config
	Highlighted string
}

func (n *CodeBlock) Render(br *ByteRenderer) {
	br.Renderln()
	if len(n.Highlighted) > 0 {
		br.Renderln("```{raw} html")
		br.Renderln(`<div class="highlight"><pre>`, n.Highlighted, "</pre></div>")
		br.Renderln("```")
		return
	}
	br.Renderln("```", n.Language)
	br.Renderln(n.Code)
	br.Renderln("```")
}

// codeRecognizer recognizes the verbatim environments
type codeRecognizer struct {
	marker
	env string
	end string
}

func newCodeRecognizer(env string) *codeRecognizer {
	return &codeRecognizer{
		marker: marker{text: `\begin{` + env + `}`},
		env:    env,
		end:    `\end{` + env + `}`,
	}
}

func (r *codeRecognizer) Name() string {
	return r.env
}

func (r *codeRecognizer) Consume(s *Session, text string, parent Node) (string, Node, string) {
	before, content, after, ok := ExtractBalanced(text, r.text, r.end)
	if !ok {
		return unclosed(s, text, r.text, parent)
	}

	hint := ""
	switch r.env {
	case "lstlisting":
		// The options must follow the opening immediately, so no whitespace is skipped
		if strings.HasPrefix(content, "[") {
			var options string
			options, content = ExtractBraced(content, '[', ']', "")
			hint = optionValue(options, "language")
		}
	case "minted":
		if _, rest, ok := ExtractOptional(content); ok {
			content = rest
		}
		hint, content = ExtractBraced(content, '{', '}', "")
	}

	n := &CodeBlock{Env: r.env, Code: strings.Trim(content, "\n")}
	n.Language = codeLanguage(hint, n.Code)
	if s.Config.HighlightCode {
		n.Highlighted = highlight(s, n.Language, n.Code)
	}
	n.init(n, parent, "")
	return before, n, after
}

// optionValue returns the value of an option in a key=value list
func optionValue(options string, key string) string {
	for _, opt := range strings.Split(options, ",") {
		name, value, found := strings.Cut(opt, "=")
		if found && strings.TrimSpace(name) == key {
			return strings.Trim(strings.TrimSpace(value), "{}")
		}
	}
	return ""
}

// codeLanguage returns the name of the language for the fence of a code block.
// The hint given in the source is normalized to the name known by the highlighter,
// and without hint the language is guessed from the code.
func codeLanguage(hint string, code string) string {
	hint = strings.TrimSpace(hint)

	var l chroma.Lexer
	if len(hint) > 0 {
		l = lexers.Get(hint)
		if l == nil {
			return strings.ToLower(hint)
		}
	} else if len(code) > 0 {
		l = lexers.Analyse(code)
	}
	if l == nil {
		return ""
	}

	cfg := l.Config()
	if len(cfg.Aliases) > 0 {
		return cfg.Aliases[0]
	}
	return strings.ToLower(cfg.Name)
}

// highlight formats the code as HTML with the style set in the config
func highlight(s *Session, language string, code string) string {
	l := lexers.Get(language)
	if l == nil {
		l = lexers.Fallback
	}
	l = chroma.Coalesce(l)

	style := styles.Get(s.Config.CodeStyle)
	f := hlhtml.New(hlhtml.Standalone(false), hlhtml.PreventSurroundingPre(true))

	it, err := l.Tokenise(nil, code)
	if err != nil {
		s.log.Warnw("tokenizing code", "language", language, "error", err)
		return ""
	}
	var b bytes.Buffer
	if err := f.Format(&b, style, it); err != nil {
		s.log.Warnw("formatting code", "language", language, "error", err)
		return ""
	}
	return b.String()
}

var codeEnvironments = []string{"verbatim", "Verbatim", "lstlisting", "minted"}

func codeRecognizers() []Recognizer {
	var list []Recognizer
	for _, env := range codeEnvironments {
		list = append(list, newCodeRecognizer(env))
	}
	return list
}
