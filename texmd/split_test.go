package texmd

import (
	"math/rand"
	"strings"
	"testing"
	"testing/quick"

	"github.com/google/go-cmp/cmp"
)

func TestLocate(t *testing.T) {
	type args struct {
		text   string
		marker string
		safe   bool
	}
	tests := []struct {
		name string
		args args
		want int
	}{
		{"prefix of a longer command", args{`\section{A}`, `\sec`, true}, NotFound},
		{"unsafe finds the prefix", args{`\section{A}`, `\sec`, false}, 0},
		{"terminated by brace", args{`\sec{}`, `\sec`, true}, 0},
		{"terminated by digit", args{`a \section1`, `\section`, true}, 2},
		{"terminated by end of text", args{`a \section`, `\section`, true}, 2},
		{"skips the longer command", args{`\sectionx \section`, `\section`, true}, 10},
		{"marker ending in brace", args{`\begin{proof}We`, `\begin{proof}`, true}, 0},
		{"star variant", args{`\section*{A}`, `\section`, true}, 0},
		{"empty marker", args{"abc", "", true}, NotFound},
		{"missing", args{"abc", "d", false}, NotFound},
		{"non ascii letter follows", args{`\itemé`, `\item`, true}, NotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Locate(tt.args.text, tt.args.marker, tt.args.safe); got != tt.want {
				t.Errorf("Locate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtractBalanced(t *testing.T) {
	type want struct {
		Before, Inside, After string
		OK                    bool
	}
	tests := []struct {
		name       string
		text       string
		begin, end string
		want       want
	}{
		{"simple", "a[b]c", "[", "]", want{"a", "b", "c", true}},
		{"nested", "a[b[c]d]e", "[", "]", want{"a", "b[c]d", "e", true}},
		{"unclosed", "a[b[c]d", "[", "]", want{"a", "b[c]d", "", false}},
		{"missing begin", "abc", "[", "]", want{"abc", "", "", false}},
		{"same delimiters", "x$$y$$z", "$$", "$$", want{"x", "y", "z", true}},
		{
			"environments",
			`A\begin{itemize}\begin{itemize}x\end{itemize}\end{itemize}B`,
			`\begin{itemize}`, `\end{itemize}`,
			want{"A", `\begin{itemize}x\end{itemize}`, "B", true},
		},
		{
			"mismatched closer",
			`\begin{equation}x\end{align}`,
			`\begin{equation}`, `\end{equation}`,
			want{"", `x\end{align}`, "", false},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got want
			got.Before, got.Inside, got.After, got.OK = ExtractBalanced(tt.text, tt.begin, tt.end)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ExtractBalanced() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExtractBraced(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		wantInside string
		wantRest   string
	}{
		{"simple", "{a}b", "a", "b"},
		{"leading whitespace", "  \n{a{b}c} rest", "a{b}c", " rest"},
		{"no brace", "x{a}", BraceError, "x{a}"},
		{"empty", "", BraceError, ""},
		{"escaped brace", `{a\}b}c`, `a\}b`, "c"},
		{"unclosed", "{abc", BraceError, "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inside, rest := ExtractBraced(tt.text, '{', '}', BraceError)
			if inside != tt.wantInside || rest != tt.wantRest {
				t.Errorf("ExtractBraced() = (%q, %q), want (%q, %q)", inside, rest, tt.wantInside, tt.wantRest)
			}
		})
	}
}

func TestExtractOptional(t *testing.T) {
	inside, rest, ok := ExtractOptional(" [start=3]\\item a")
	if !ok || inside != "start=3" || rest != `\item a` {
		t.Errorf("ExtractOptional() = (%q, %q, %v)", inside, rest, ok)
	}

	_, rest, ok = ExtractOptional("{a}")
	if ok || rest != "{a}" {
		t.Errorf("ExtractOptional() without brackets = (%q, %v)", rest, ok)
	}
}

func TestLocateTopLevel(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"first item", `\item a \item b`, 0},
		{"skips nested list", `a \begin{itemize}\item x\end{itemize} \item y`, 38},
		{"only nested", `a \begin{enumerate}\item x\end{enumerate}`, NotFound},
		{"not a prefix", `\itemize`, NotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LocateTopLevel(tt.text, `\item`, listEnvironments); got != tt.want {
				t.Errorf("LocateTopLevel() = %v, want %v", got, tt.want)
			}
		})
	}
}

func noBrackets(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '[' || r == ']' {
			return -1
		}
		return r
	}, s)
}

func TestExtractBalancedProperty(t *testing.T) {
	cfg := &quick.Config{MaxCount: 300, Rand: rand.New(rand.NewSource(1))}

	roundTrip := func(pre, inner, post string) bool {
		pre, inner, post = noBrackets(pre), noBrackets(inner), noBrackets(post)
		nested := "[" + inner + "]" + inner

		before, inside, after, ok := ExtractBalanced(pre+"["+nested+"]"+post, "[", "]")
		return ok && before == pre && inside == nested && after == post
	}
	if err := quick.Check(roundTrip, cfg); err != nil {
		t.Error(err)
	}

	unclosed := func(pre, inner string) bool {
		pre, inner = noBrackets(pre), noBrackets(inner)

		before, inside, after, ok := ExtractBalanced(pre+"["+inner, "[", "]")
		return !ok && before == pre && inside == inner && after == ""
	}
	if err := quick.Check(unclosed, cfg); err != nil {
		t.Error(err)
	}
}
