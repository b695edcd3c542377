package texmd

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FileStructure is the decomposition of a document in a tree of output files.
// Each file holds the content of a node up to its first section, and the sections
// are written to the files of the children.
type FileStructure struct {
	Name     string
	Title    string
	Prefix   string
	Children []*FileStructure
}

// Structure decomposes the document in files, one for each section up to depth levels.
// With depth 0 the whole document goes into a single file.
// The names only depend on the document and the depth, so repeated calls agree.
func (d *Document) Structure(depth int) *FileStructure {
	files := 0
	next := func(title string) string {
		name := fileStem(title) + "_" + strconv.Itoa(files)
		files++
		return name
	}
	return d.structure(d, "index", d.Title, depth, next)
}

func (d *Document) structure(n Node, name string, title string, depth int, next func(string) string) *FileStructure {
	fs := &FileStructure{Name: name, Title: title}

	var head func(br *ByteRenderer)
	var body []Node
	switch v := n.(type) {
	case *Section:
		head, body = v.renderHeading, v.body()
	case *Document:
		head, body = v.renderHeading, v.Children()
	default:
		fs.Prefix = finish(RenderString(n))
		return fs
	}

	if depth <= 0 || !hasSection(body) {
		fs.Prefix = finish(RenderString(n))
		return fs
	}

	br := &ByteRenderer{}
	head(br)
	for _, c := range body {
		sec, ok := c.(*Section)
		if !ok {
			c.Render(br)
			continue
		}
		secTitle := Restore(sec.Title())
		child := d.structure(sec, next(secTitle), secTitle, depth-1, next)
		fs.Children = append(fs.Children, child)
	}
	fs.Prefix = finish(br.String())
	return fs
}

func hasSection(nodes []Node) bool {
	for _, n := range nodes {
		if _, ok := n.(*Section); ok {
			return true
		}
	}
	return false
}

// Walk visits the file and its descendants in pre-order
func (fs *FileStructure) Walk(fn func(*FileStructure, int)) {
	var walk func(f *FileStructure, depth int)
	walk = func(f *FileStructure, depth int) {
		fn(f, depth)
		for _, c := range f.Children {
			walk(c, depth+1)
		}
	}
	walk(fs, 0)
}

// fileStem derives the stem of a file name from a title: letters are lowercased, digits
// are kept and anything else becomes an underscore.
func fileStem(title string) string {
	title = strings.TrimSpace(title)
	if len(title) == 0 {
		return "section"
	}
	title = strings.ReplaceAll(title, "\n", "")

	stem := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '_':
			return r
		default:
			return '_'
		}
	}, title)
	return cases.Lower(language.Und).String(stem)
}
