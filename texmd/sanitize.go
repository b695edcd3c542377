package texmd

import (
	"strings"

	"github.com/hesusruiz/texmd/sliceedit"
)

// DollarPlaceholder hides the escaped dollars of the source from the math recognizers
const DollarPlaceholder = "TEXMDESCAPEDDOLLAR"

// Sanitize prepares the source for the expansion. Outside the verbatim environments it
// removes the comments and the \textup commands, hides the escaped dollars and puts
// spaces around angle brackets, so they are not taken as HTML by the Markdown processor.
func Sanitize(src string) string {
	return eachProse(src, func(text string) string {
		text = StripComments(text)

		b := sliceedit.NewBufferString(text)
		b.ReplaceAllString(`\$`, DollarPlaceholder)
		b.DeleteAllString(`\textup`)
		b.ReplaceAllString("<", " < ")
		b.ReplaceAllString(">", " > ")
		return b.String()
	})
}

// Restore brings back the escaped dollars hidden by Sanitize
func Restore(text string) string {
	if !strings.Contains(text, DollarPlaceholder) {
		return text
	}
	b := sliceedit.NewBufferString(text)
	b.ReplaceAllString(DollarPlaceholder, `\$`)
	return b.String()
}

// StripComments removes everything from an unescaped % to the end of its line.
// The line break is kept.
func StripComments(text string) string {
	src := []byte(text)
	b := sliceedit.NewBuffer(src)

	end := 0
	for _, pos := range sliceedit.FindAll(src, "%") {
		if pos < end || escaped(src, pos) {
			continue
		}
		end = strings.IndexByte(text[pos:], '\n')
		if end < 0 {
			end = len(text)
		} else {
			end += pos
		}
		b.Delete(pos, end)
	}
	return b.String()
}

// escaped reports whether the character at pos is preceded by an odd number of backslashes
func escaped[T string | []byte](src T, pos int) bool {
	n := 0
	for i := pos - 1; i >= 0 && src[i] == '\\'; i-- {
		n++
	}
	return n%2 == 1
}

// CleanWhitespace normalizes the spacing of the source outside the verbatim environments.
func CleanWhitespace(text string) string {
	return eachProse(text, func(text string) string {
		text = replaceUntilStable(text, `\\\\`, "")
		text = replaceUntilStable(text, "\t", " ")
		text = replaceUntilStable(text, "  ", " ")
		text = replaceUntilStable(text, " \n", "\n")
		text = replaceUntilStable(text, "\n ", "\n")
		text = replaceUntilStable(text, "\n\n\n", "\n\n")
		return text
	})
}

func replaceUntilStable(text, old, new string) string {
	for strings.Contains(text, old) {
		text = strings.ReplaceAll(text, old, new)
	}
	return text
}

// eachProse applies fn to the parts of text outside the verbatim environments,
// leaving these environments untouched
func eachProse(text string, fn func(string) string) string {
	var out strings.Builder
	for len(text) > 0 {
		start, env := NotFound, ""
		for _, e := range codeEnvironments {
			i := Locate(text, `\begin{`+e+`}`, false)
			if i != NotFound && (start == NotFound || i < start) {
				start, env = i, e
			}
		}
		if start == NotFound {
			out.WriteString(fn(text))
			break
		}

		before, inside, after, ok := ExtractBalanced(text, `\begin{`+env+`}`, `\end{`+env+`}`)
		if !ok {
			out.WriteString(fn(text))
			break
		}
		out.WriteString(fn(before))
		out.WriteString(`\begin{` + env + `}` + inside + `\end{` + env + `}`)
		text = after
	}
	return out.String()
}
