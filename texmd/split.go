package texmd

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// NotFound is the offset reported when a marker does not appear in a text
const NotFound = -1

// Placeholders inserted in the output when the source is malformed.
// The conversion continues after inserting them.
const (
	BraceError       = "brace_error"
	ChapterError     = "chapter_error"
	EnvironmentError = "environment_error"
	RefError         = "ref_error"
)

// Locate returns the byte offset of the first occurrence of marker in text, or NotFound.
//
// In safe mode, an occurrence of a marker ending in a letter only counts when it is not
// followed by another letter, so `\sec` is not found inside `\section`. End of text,
// digits, punctuation and whitespace all terminate a marker.
func Locate(text, marker string, safe bool) int {
	if marker == "" {
		return NotFound
	}
	checkEnd := safe && endsInLetter(marker)
	from := 0
	for {
		i := strings.Index(text[from:], marker)
		if i < 0 {
			return NotFound
		}
		i += from
		if !checkEnd || !letterAt(text, i+len(marker)) {
			return i
		}
		from = i + 1
	}
}

// SplitAt splits text around the first occurrence of marker, dropping the marker
func SplitAt(text, marker string, safe bool) (before, after string, found bool) {
	i := Locate(text, marker, safe)
	if i == NotFound {
		return text, "", false
	}
	return text[:i], text[i+len(marker):], true
}

func endsInLetter(s string) bool {
	r, _ := utf8.DecodeLastRuneInString(s)
	return unicode.IsLetter(r)
}

func letterAt(text string, i int) bool {
	if i >= len(text) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(text[i:])
	return unicode.IsLetter(r)
}

// ExtractBalanced finds the first begin marker in text and its matching end marker,
// taking nesting of the same pair into account.
// When the end marker is missing, inside holds the rest of the text, after is empty
// and ok is false.
// When begin is not found at all, before holds the whole text and ok is false.
func ExtractBalanced(text, begin, end string) (before, inside, after string, ok bool) {
	start := Locate(text, begin, false)
	if start == NotFound {
		return text, "", "", false
	}
	before = text[:start]
	rest := text[start+len(begin):]

	depth := 1
	pos := 0
	for {
		e := Locate(rest[pos:], end, false)
		if e == NotFound {
			return before, rest, "", false
		}
		b := Locate(rest[pos:], begin, false)

		// A nested opening only counts when it strictly precedes the closing
		if b != NotFound && b < e {
			depth++
			pos += b + len(begin)
			continue
		}

		depth--
		if depth == 0 {
			return before, rest[:pos+e], rest[pos+e+len(end):], true
		}
		pos += e + len(end)
	}
}

// ExtractBraced reads a group delimited by open and close at the start of text,
// after skipping leading whitespace. Escaped delimiters do not count for nesting.
//
// When text does not start with the open delimiter, the placeholder is returned as the
// group and text is returned unchanged. When the group is never closed, the placeholder
// is returned and the remainder is whatever followed the opening delimiter.
func ExtractBraced(text string, open, close byte, placeholder string) (inside, rest string) {
	trimmed := strings.TrimLeftFunc(text, unicode.IsSpace)
	if len(trimmed) == 0 || trimmed[0] != open {
		return placeholder, text
	}

	depth := 0
	for i := 0; i < len(trimmed); i++ {
		switch trimmed[i] {
		case '\\':
			i++
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return trimmed[1:i], trimmed[i+1:]
			}
		}
	}
	return placeholder, trimmed[1:]
}

// ExtractOptional reads an optional argument in square brackets at the start of text.
// When there is none, ok is false and rest is text unchanged.
func ExtractOptional(text string) (inside, rest string, ok bool) {
	trimmed := strings.TrimLeftFunc(text, unicode.IsSpace)
	if !strings.HasPrefix(trimmed, "[") {
		return "", text, false
	}
	inside, rest = ExtractBraced(trimmed, '[', ']', BraceError)
	return inside, rest, inside != BraceError
}

// listEnvironments are the environments that own their own \item commands
var listEnvironments = []string{"itemize", "enumerate", "description"}

// LocateTopLevel is like Locate in safe mode, but skips any occurrence that is inside one
// of the given environments.
func LocateTopLevel(text, marker string, environments []string) int {
	offset := 0
	for {
		rest := text[offset:]
		m := Locate(rest, marker, true)
		if m == NotFound {
			return NotFound
		}

		// Find the nearest nested environment that opens before the marker
		nearest, env := NotFound, ""
		for _, e := range environments {
			b := Locate(rest[:m], `\begin{`+e+`}`, false)
			if b != NotFound && (nearest == NotFound || b < nearest) {
				nearest, env = b, e
			}
		}
		if nearest == NotFound {
			return offset + m
		}

		_, _, after, ok := ExtractBalanced(rest[nearest:], `\begin{`+env+`}`, `\end{`+env+`}`)
		if !ok {
			return NotFound
		}
		offset += len(rest) - len(after)
	}
}
