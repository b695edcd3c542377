package texmd

import (
	"strings"

	"go.uber.org/zap"
)

// Pools returns the pools of recognizers of a conversion, in the order they run.
//
// Sections and environments come first, so the numbering scopes exist when the
// equations and the labels are found. Math is protected before the formatting and the
// cleanup pools run, and references run after all the labels are defined.
func Pools(theorems []TheoremEnv) []Pool {
	structure := Pool{}
	structure = append(structure, sectionRecognizers()...)
	for _, t := range theorems {
		structure = append(structure, newTheoremRecognizer(t))
	}
	structure = append(structure, newTheoremRecognizer(proofEnv))
	structure = append(structure, codeRecognizers()...)

	lists := Pool{
		newListRecognizer("itemize", false),
		newListRecognizer("enumerate", true),
		newListRecognizer("description", false),
	}

	math := Pool(mathRecognizers())

	labels := Pool{&labelRecognizer{}}

	formatting := Pool(formattingRecognizers())

	references := Pool(referenceRecognizers())

	braces := Pool{
		NewJunk("{", false),
		NewJunk("}", false),
	}

	spacing := Pool{
		&lineBreakRecognizer{marker: marker{text: `\\`}},
		NewReplace(`\ `, " ", false),
	}

	return []Pool{structure, lists, math, labels, formatting, references, braces, spacing}
}

// Convert runs the whole conversion of a LaTeX source: preprocessing, expansion with all
// the pools and finalization. The returned document is ready to be rendered.
//
// Malformed input never produces an error: the problems show up as placeholders in the
// output. An error means there is nothing to convert or a recognizer broke the rules of
// the expansion engine.
func Convert(src string, cfg *Config, log *zap.SugaredLogger) (*Document, error) {
	if len(strings.TrimSpace(src)) == 0 {
		return nil, ErrNoContent
	}

	s := NewSession(cfg, log)

	text := Sanitize(src)
	text = CleanWhitespace(text)
	text = ExpandCommands(text, s.log)
	text = ExpandEnvironments(text, s.log)

	s.NumberWithin = NumberWithin(text)
	text, theorems := ParseTheorems(text, s.log)

	d := NewDocument(s, DocumentBody(text))
	d.Title = Restore(DocumentTitle(text))
	d.takeLeadingLabels()

	for i, pool := range Pools(theorems) {
		if err := s.Expand(d, pool); err != nil {
			return nil, err
		}
		s.log.Debugw("pool expanded", "pool", i, "recognizers", len(pool), "steps", s.steps)
	}
	Finalize(d)

	s.log.Debugw("conversion finished", "steps", s.steps, "labels", s.Labels.Len(), "theorems", len(theorems))
	return d, nil
}

// ConvertString converts a LaTeX source to a single Markdown text
func ConvertString(src string, cfg *Config, log *zap.SugaredLogger) (string, error) {
	d, err := Convert(src, cfg, log)
	if err != nil {
		return "", err
	}
	return d.Markdown(), nil
}
