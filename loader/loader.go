// Package loader reads a LaTeX project from disk: it decodes the main file, indexes the
// files of the project and inlines the files included with \input and \include.
package loader

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"go.uber.org/zap"
)

var (
	texExtensions   = []string{".tex", ".sty", ".cls"}
	bibExtensions   = []string{".bib", ".bbl", ".bibtex", ".biblatex"}
	imageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tiff", ".svg", ".pdf", ".eps"}
)

// inputPattern matches \input{name} and \include{name}
var inputPattern = regexp.MustCompile(`\\(input|include)\s*\{([^}]+)\}`)

// Source is a LaTeX project loaded in memory
type Source struct {
	// Path is the absolute path of the main file
	Path string

	// Dir is the folder of the main file, where the project files are searched
	Dir string

	// Content is the text of the main file with all the inputs inlined
	Content string

	// Encoding is the encoding detected for the main file
	Encoding string

	// The files of the project by base name without extension
	TexFiles   map[string]string
	BibFiles   map[string]string
	ImageFiles map[string]string

	// Inlined lists the files inlined, in the order they were included
	Inlined []string

	log *zap.SugaredLogger
}

// Load reads the main file of a LaTeX project and inlines the files it includes.
// A nil logger disables logging.
func Load(path string, log *zap.SugaredLogger) (*Source, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}

	s := &Source{
		Path:       abs,
		Dir:        filepath.Dir(abs),
		TexFiles:   map[string]string{},
		BibFiles:   map[string]string{},
		ImageFiles: map[string]string{},
		log:        log,
	}

	s.Content, s.Encoding, err = readFile(abs)
	if err != nil {
		return nil, err
	}

	if err := s.index(); err != nil {
		return nil, err
	}
	log.Debugw("project indexed", "dir", s.Dir, "tex", len(s.TexFiles), "bib", len(s.BibFiles), "images", len(s.ImageFiles))

	s.Content = s.inline(s.Content)
	return s, nil
}

func readFile(path string) (string, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("reading %s: %w", path, err)
	}
	text, encoding, err := Decode(data)
	if err != nil {
		return "", "", fmt.Errorf("reading %s: %w", path, err)
	}
	return text, encoding, nil
}

// index walks the folder of the main file and records the files of the project.
// When two files have the same base name, the first one in lexical order is kept.
func (s *Source) index() error {
	return filepath.WalkDir(s.Dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != s.Dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		ext := strings.ToLower(filepath.Ext(d.Name()))
		var table map[string]string
		switch {
		case slices.Contains(texExtensions, ext):
			table = s.TexFiles
		case slices.Contains(bibExtensions, ext):
			table = s.BibFiles
		case slices.Contains(imageExtensions, ext):
			table = s.ImageFiles
		default:
			return nil
		}

		key := baseName(d.Name())
		if previous, ok := table[key]; ok {
			s.log.Debugw("duplicate file name in project", "kept", previous, "ignored", path)
			return nil
		}
		table[key] = path
		return nil
	})
}

// inline replaces the \input and \include commands with the contents of the files,
// repeating until no command is left. Every file is inlined only once: a second
// reference to the same file is removed, which also breaks inclusion cycles.
func (s *Source) inline(text string) string {
	done := map[string]bool{s.Path: true}
	for {
		changed := false
		text = replaceInputs(text, func(name string) string {
			changed = true

			path, ok := s.resolve(name)
			if !ok {
				s.log.Warnw("included file not found", "name", name)
				return ""
			}
			if done[path] {
				s.log.Warnw("file included more than once", "file", path)
				return ""
			}
			done[path] = true

			content, _, err := readFile(path)
			if err != nil {
				s.log.Warnw("included file not readable", "file", path, "error", err)
				return ""
			}
			s.Inlined = append(s.Inlined, path)
			return content
		})
		if !changed {
			return text
		}
	}
}

// replaceInputs calls fn for every \input or \include command outside a comment, and
// replaces the command with the result
func replaceInputs(text string, fn func(name string) string) string {
	var b strings.Builder
	last := 0
	for _, m := range inputPattern.FindAllStringSubmatchIndex(text, -1) {
		if commented(text, m[0]) {
			continue
		}
		b.WriteString(text[last:m[0]])
		b.WriteString(fn(strings.TrimSpace(text[m[4]:m[5]])))
		last = m[1]
	}
	b.WriteString(text[last:])
	return b.String()
}

// commented reports whether the position is after an unescaped % in its line
func commented(text string, pos int) bool {
	start := strings.LastIndexByte(text[:pos], '\n') + 1
	line := text[start:pos]
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '\\':
			i++
		case '%':
			return true
		}
	}
	return false
}

// resolve finds the file for the name given in an \input command: first as a path
// relative to the main folder, and then by base name anywhere in the project
func (s *Source) resolve(name string) (string, bool) {
	candidates := []string{name}
	if filepath.Ext(name) == "" {
		candidates = append([]string{name + ".tex"}, candidates...)
	}
	for _, c := range candidates {
		path := c
		if !filepath.IsAbs(path) {
			path = filepath.Join(s.Dir, c)
		}
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}

	path, ok := s.TexFiles[baseName(name)]
	return path, ok
}

// Files returns the paths of all the files of the project, sorted
func (s *Source) Files() []string {
	var list []string
	for _, table := range []map[string]string{s.TexFiles, s.BibFiles, s.ImageFiles} {
		for _, path := range table {
			list = append(list, path)
		}
	}
	slices.Sort(list)
	return list
}

// baseName returns the name of a file without folders and without a known extension
func baseName(name string) string {
	name = filepath.Base(filepath.ToSlash(name))
	ext := strings.ToLower(filepath.Ext(name))
	if slices.Contains(texExtensions, ext) || slices.Contains(bibExtensions, ext) || slices.Contains(imageExtensions, ext) {
		name = name[:len(name)-len(ext)]
	}
	return name
}
