package texmd

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
)

func TestExpandCommands(t *testing.T) {
	log := zap.NewNop().Sugar()

	tests := []struct {
		name string
		text string
		want string
	}{
		{
			"no arguments",
			`\newcommand{\R}{\mathbb{R}}$x \in \R$ and $\Rightarrow$`,
			`$x \in \mathbb{R}$ and $\Rightarrow$`,
		},
		{
			"two arguments",
			`\newcommand{\pair}[2]{(#1,#2)}\pair{a}{b}`,
			"(a,b)",
		},
		{
			"optional first argument",
			`\newcommand{\opt}[2][b]{#1-#2}\opt{x} \opt[y]{c}`,
			"b-x y-c",
		},
		{
			"bare command name",
			`\renewcommand\hi{Hello}\hi!`,
			"Hello!",
		},
		{
			"math operator",
			`\DeclareMathOperator{\tr}{tr}$\tr A$`,
			`$\operatorname{tr} A$`,
		},
		{
			"starred math operator",
			`\DeclareMathOperator*{\argmax}{arg\,max}$\argmax$`,
			`$\operatorname*{arg\,max}$`,
		},
		{
			"defined in terms of another",
			`\newcommand{\a}{\b}\newcommand{\b}{B}\a`,
			"B",
		},
		{
			"last definition wins",
			`\newcommand{\x}{1}\renewcommand{\x}{2}\x`,
			"2",
		},
		{
			"code is not expanded",
			"\\newcommand{\\x}{1}\\x\\begin{verbatim}\\x\\end{verbatim}",
			"1\\begin{verbatim}\\x\\end{verbatim}",
		},
		{
			"malformed definition is kept",
			`\newcommand{\x}`,
			`\newcommand{\x}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpandCommands(tt.text, log); got != tt.want {
				t.Errorf("ExpandCommands() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExpandCommandsRecursive(t *testing.T) {
	// A macro using itself never reaches a fixed point, but the expansion stops
	got := ExpandCommands(`\newcommand{\loop}{x\loop}\loop`, zap.NewNop().Sugar())
	if len(got) != maxExpansionRounds+len(`\loop`) {
		t.Errorf("ExpandCommands() = %q", got)
	}
}

func TestExpandEnvironments(t *testing.T) {
	log := zap.NewNop().Sugar()

	tests := []struct {
		name string
		text string
		want string
	}{
		{
			"one argument",
			`\newenvironment{note}[1]{\textbf{#1}: }{.}\begin{note}{Hi}text\end{note}`,
			`\textbf{Hi}: text.`,
		},
		{
			"no arguments",
			`\newenvironment{box}{[}{]}\begin{box}a\end{box} \begin{box}b\end{box}`,
			"[a] [b]",
		},
		{
			"nested",
			`\newenvironment{q}{<}{>}\begin{q}\begin{q}x\end{q}\end{q}`,
			"<<x>>",
		},
		{
			"default argument",
			`\newenvironment{tip}[1][Tip]{#1: }{}\begin{tip}a\end{tip}\begin{tip}[Hint]b\end{tip}`,
			"Tip: aHint: b",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpandEnvironments(tt.text, log); got != tt.want {
				t.Errorf("ExpandEnvironments() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseTheorems(t *testing.T) {
	src := `\newtheorem{thm}{Theorem}[section]
\newtheorem{lem}[thm]{Lemma}
\newtheorem*{rem}{Remark}
\newtheorem{defn}{Definition}
Body`

	text, got := ParseTheorems(src, zap.NewNop().Sugar())

	want := []TheoremEnv{
		{Env: "thm", Display: "Theorem", Within: "section", Counter: "thm", Numbered: true},
		{Env: "lem", Display: "Lemma", Within: "section", Counter: "thm", Numbered: true},
		{Env: "rem", Display: "Remark", Counter: "rem"},
		{Env: "defn", Display: "Definition", Counter: "defn", Numbered: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseTheorems() mismatch (-want +got):\n%s", diff)
	}
	if text != "\n\n\n\nBody" {
		t.Errorf("ParseTheorems() left %q", text)
	}
}

func TestNumberWithin(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"default", "text", "document"},
		{"section", `\numberwithin{equation}{section}`, "section"},
		{"empty class", `\numberwithin{equation}{}`, "document"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NumberWithin(tt.text); got != tt.want {
				t.Errorf("NumberWithin() = %v, want %v", got, tt.want)
			}
		})
	}
}
