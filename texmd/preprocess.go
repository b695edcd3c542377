package texmd

import (
	"strconv"
	"strings"
	"unicode"

	"go.uber.org/zap"
)

// maxExpansionRounds bounds the expansion of macros defined in terms of other macros
const maxExpansionRounds = 32

// Macro is a command defined in the source with \newcommand or similar
type Macro struct {
	// Name includes the backslash
	Name string
	Args int

	// Default is the value of the first argument when it is optional
	Default    string
	HasDefault bool

	Body string
}

var macroDefiners = []string{`\newcommand`, `\renewcommand`, `\providecommand`, `\DeclareMathOperator`}

// ParseMacros removes the macro definitions from text and returns them.
// When a command is defined more than once, the last definition is used.
func ParseMacros(text string, log *zap.SugaredLogger) (string, []Macro) {
	var macros []Macro
	index := make(map[string]int)

	var out strings.Builder
	for {
		i, definer := nearest(text, macroDefiners)
		if i == NotFound {
			out.WriteString(text)
			break
		}
		out.WriteString(text[:i])
		rest := text[i+len(definer):]

		star := strings.HasPrefix(rest, "*")
		rest = strings.TrimPrefix(rest, "*")

		m, after, ok := parseMacro(rest, definer, star)
		if !ok {
			log.Warnw("malformed macro definition", "command", definer)
			out.WriteString(definer)
			text = rest
			continue
		}
		text = after

		if j, seen := index[m.Name]; seen {
			macros[j] = m
			continue
		}
		index[m.Name] = len(macros)
		macros = append(macros, m)
	}
	return out.String(), macros
}

func parseMacro(text string, definer string, star bool) (Macro, string, bool) {
	var m Macro
	m.Name, text = macroName(text)
	if len(m.Name) == 0 {
		return m, text, false
	}

	if definer == `\DeclareMathOperator` {
		body, rest := ExtractBraced(text, '{', '}', BraceError)
		if body == BraceError {
			return m, text, false
		}
		op := `\operatorname`
		if star {
			op += "*"
		}
		m.Body = op + "{" + body + "}"
		return m, rest, true
	}

	if args, rest, ok := ExtractOptional(text); ok {
		n, err := strconv.Atoi(strings.TrimSpace(args))
		if err != nil {
			return m, text, false
		}
		m.Args = n
		text = rest
	}
	if def, rest, ok := ExtractOptional(text); ok {
		m.Default, m.HasDefault = def, true
		text = rest
	}

	body, rest := ExtractBraced(text, '{', '}', BraceError)
	if body == BraceError {
		return m, text, false
	}
	m.Body = body
	return m, rest, true
}

// macroName reads the name being defined, either in braces or as a bare command
func macroName(text string) (string, string) {
	trimmed := strings.TrimLeftFunc(text, unicode.IsSpace)
	if strings.HasPrefix(trimmed, "{") {
		name, rest := ExtractBraced(trimmed, '{', '}', "")
		return strings.TrimSpace(name), rest
	}
	if !strings.HasPrefix(trimmed, `\`) || len(trimmed) < 2 {
		return "", text
	}
	end := 1
	for end < len(trimmed) && isASCIILetter(trimmed[end]) {
		end++
	}
	if end == 1 {
		// A control symbol, like \;
		end = 2
	}
	return trimmed[:end], trimmed[end:]
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// Expand replaces every use of the macro in text by its body with the arguments
// substituted. The inserted bodies are not scanned again.
func (m Macro) Expand(text string) string {
	var out strings.Builder
	for {
		before, rest, found := SplitAt(text, m.Name, true)
		out.WriteString(before)
		if !found {
			break
		}

		pairs := make([]string, 0, 2*m.Args)
		for k := 1; k <= m.Args; k++ {
			var arg string
			if k == 1 && m.HasDefault {
				if opt, after, ok := ExtractOptional(rest); ok {
					arg, rest = opt, after
				} else {
					arg = m.Default
				}
			} else {
				arg, rest = ExtractBraced(rest, '{', '}', "")
			}
			pairs = append(pairs, "#"+strconv.Itoa(k), arg)
		}

		out.WriteString(strings.NewReplacer(pairs...).Replace(m.Body))
		text = rest
	}
	return out.String()
}

// ExpandCommands applies the macros defined in the source and removes their definitions
func ExpandCommands(text string, log *zap.SugaredLogger) string {
	var macros []Macro
	text = eachProse(text, func(prose string) string {
		rest, found := ParseMacros(prose, log)
		macros = append(macros, found...)
		return rest
	})
	if len(macros) == 0 {
		return text
	}

	return expandToFixedPoint(text, log, "macros", func(prose string) string {
		for _, m := range macros {
			prose = m.Expand(prose)
		}
		return prose
	})
}

func expandToFixedPoint(text string, log *zap.SugaredLogger, what string, fn func(string) string) string {
	for round := 0; round < maxExpansionRounds; round++ {
		next := eachProse(text, fn)
		if next == text {
			return text
		}
		text = next
	}
	log.Warnw("expansion did not reach a fixed point", "what", what, "rounds", maxExpansionRounds)
	return text
}

// EnvironmentDef is an environment defined in the source with \newenvironment
type EnvironmentDef struct {
	Name       string
	Args       int
	Default    string
	HasDefault bool
	Begin      string
	End        string
}

var environmentDefiners = []string{`\newenvironment`, `\renewenvironment`}

// ParseEnvironments removes the environment definitions from text and returns them
func ParseEnvironments(text string, log *zap.SugaredLogger) (string, []EnvironmentDef) {
	var defs []EnvironmentDef
	var out strings.Builder
	for {
		i, definer := nearest(text, environmentDefiners)
		if i == NotFound {
			out.WriteString(text)
			break
		}
		out.WriteString(text[:i])
		rest := text[i+len(definer):]

		var d EnvironmentDef
		d.Name, rest = ExtractBraced(rest, '{', '}', "")
		if len(d.Name) == 0 {
			log.Warnw("malformed environment definition", "command", definer)
			out.WriteString(definer)
			text = rest
			continue
		}
		if args, after, ok := ExtractOptional(rest); ok {
			d.Args, _ = strconv.Atoi(strings.TrimSpace(args))
			rest = after
		}
		if def, after, ok := ExtractOptional(rest); ok {
			d.Default, d.HasDefault = def, true
			rest = after
		}
		d.Begin, rest = ExtractBraced(rest, '{', '}', "")
		d.End, rest = ExtractBraced(rest, '{', '}', "")
		text = rest
		defs = append(defs, d)
	}
	return out.String(), defs
}

// Expand replaces every instance of the environment by its definition
func (d EnvironmentDef) Expand(text string) string {
	begin, end := `\begin{`+d.Name+`}`, `\end{`+d.Name+`}`

	var out strings.Builder
	for {
		before, content, after, ok := ExtractBalanced(text, begin, end)
		if !ok {
			out.WriteString(text)
			break
		}

		pairs := make([]string, 0, 2*d.Args)
		for k := 1; k <= d.Args; k++ {
			var arg string
			if k == 1 && d.HasDefault {
				if opt, rest, ok := ExtractOptional(content); ok {
					arg, content = opt, rest
				} else {
					arg = d.Default
				}
			} else {
				arg, content = ExtractBraced(content, '{', '}', "")
			}
			pairs = append(pairs, "#"+strconv.Itoa(k), arg)
		}
		r := strings.NewReplacer(pairs...)

		out.WriteString(before)
		out.WriteString(r.Replace(d.Begin))
		out.WriteString(content)
		out.WriteString(r.Replace(d.End))
		text = after
	}
	return out.String()
}

// ExpandEnvironments applies the environments defined in the source and removes
// their definitions
func ExpandEnvironments(text string, log *zap.SugaredLogger) string {
	var defs []EnvironmentDef
	text = eachProse(text, func(prose string) string {
		rest, found := ParseEnvironments(prose, log)
		defs = append(defs, found...)
		return rest
	})
	if len(defs) == 0 {
		return text
	}

	return expandToFixedPoint(text, log, "environments", func(prose string) string {
		for _, d := range defs {
			prose = d.Expand(prose)
		}
		return prose
	})
}

// ParseTheorems removes the \newtheorem declarations from text and returns the
// environments they declare, in declaration order
func ParseTheorems(text string, log *zap.SugaredLogger) (string, []TheoremEnv) {
	var envs []TheoremEnv
	shared := make(map[int]string)

	var out strings.Builder
	for {
		before, rest, found := SplitAt(text, `\newtheorem`, true)
		out.WriteString(before)
		if !found {
			break
		}
		text = rest

		numbered := !strings.HasPrefix(rest, "*")
		rest = strings.TrimPrefix(rest, "*")

		env, rest := ExtractBraced(rest, '{', '}', "")
		if len(env) == 0 {
			log.Warnw("malformed theorem declaration")
			out.WriteString(`\newtheorem`)
			continue
		}
		t := TheoremEnv{Env: strings.TrimSpace(env), Numbered: numbered}
		t.Counter = t.Env

		counter := ""
		if parent, after, ok := ExtractOptional(rest); ok {
			counter = strings.TrimSpace(parent)
			rest = after
		}

		display, after := ExtractBraced(rest, '{', '}', BraceError)
		if display == BraceError {
			log.Warnw("malformed theorem declaration", "env", t.Env)
			out.WriteString(`\newtheorem`)
			continue
		}
		t.Display = collapseSpaces(display)
		rest = after

		if len(counter) > 0 {
			shared[len(envs)] = counter
		} else if within, after, ok := ExtractOptional(rest); ok {
			t.Within = strings.TrimSpace(within)
			rest = after
		}

		envs = append(envs, t)
		text = rest
	}

	// An environment sharing a counter is numbered like the owner of the counter
	for i, parent := range shared {
		envs[i].Counter = parent
		envs[i].Within = sharedWithin(envs, parent, log)
	}
	return out.String(), envs
}

func sharedWithin(envs []TheoremEnv, parent string, log *zap.SugaredLogger) string {
	for _, e := range envs {
		if e.Env == parent {
			return e.Within
		}
	}
	switch parent {
	case "section":
		return "document"
	case "subsection":
		return "section"
	}
	log.Warnw("theorem shares the counter of an unknown environment", "counter", parent)
	return ""
}

// NumberWithin returns the class of section that numbers the equations, as set
// by \numberwithin{equation}{class}. The default is the whole document.
func NumberWithin(text string) string {
	_, rest, found := SplitAt(text, `\numberwithin{equation}`, false)
	if !found {
		return "document"
	}
	class, _ := ExtractBraced(rest, '{', '}', "")
	class = strings.TrimSpace(class)
	if len(class) == 0 {
		return "document"
	}
	return class
}

// nearest returns the offset of the first of the commands found in text
func nearest(text string, commands []string) (int, string) {
	best, which := NotFound, ""
	for _, c := range commands {
		i := Locate(text, c, true)
		if i != NotFound && (best == NotFound || i < best) {
			best, which = i, c
		}
	}
	return best, which
}
