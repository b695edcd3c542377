package texmd

import "testing"

func TestStripComments(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"end of line", "a % comment\nb", "a \nb"},
		{"escaped percent", `50\% off`, `50\% off`},
		{"escaped backslash", "a\\\\% comment\nb", "a\\\\\nb"},
		{"last line", "a\n%x", "a\n"},
		{"two comments", "%one\n%two\nc", "\n\nc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripComments(tt.text); got != tt.want {
				t.Errorf("StripComments() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"escaped dollar", `cost \$5`, "cost " + DollarPlaceholder + "5"},
		{"angle brackets", "$x<y$", "$x < y$"},
		{"textup", `\textup{A}`, "{A}"},
		{"comment with dollar", `a % \$`, "a "},
		{"verbatim untouched", "\\begin{verbatim}% x<y\\end{verbatim}", "\\begin{verbatim}% x<y\\end{verbatim}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.text); got != tt.want {
				t.Errorf("Sanitize() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRestore(t *testing.T) {
	src := `price \$3 and \$4`
	if got := Restore(Sanitize(src)); got != src {
		t.Errorf("Restore(Sanitize()) = %q, want %q", got, src)
	}
	if got := Restore("plain"); got != "plain" {
		t.Errorf("Restore() = %q", got)
	}
}

func TestCleanWhitespace(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"mixed", "a  b\t c \n d\n\n\n\ne", "a b c\nd\n\ne"},
		{"forced breaks", `a\\\\b`, "ab"},
		{"code untouched", "x  y\\begin{verbatim}a  b\n\n\n\\end{verbatim}", "x y\\begin{verbatim}a  b\n\n\n\\end{verbatim}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanWhitespace(tt.text); got != tt.want {
				t.Errorf("CleanWhitespace() = %q, want %q", got, tt.want)
			}
		})
	}
}
