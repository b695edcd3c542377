// Package structure writes the decomposition of a converted document to disk, and
// provides views of it: the Sphinx scaffolding, an outline diagram and the heading tree.
package structure

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hesusruiz/texmd/texmd"
)

// File is an output file ready to be written
type File struct {
	// Path is relative to the output folder
	Path    string
	Content string
}

// Files returns the contents of all the files of a decomposition, in pre-order.
// A file with children ends with a toctree listing them.
func Files(fs *texmd.FileStructure, suffix string) []File {
	var list []File
	fs.Walk(func(f *texmd.FileStructure, depth int) {
		list = append(list, File{
			Path:    f.Name + suffix,
			Content: fileContent(f),
		})
	})
	return list
}

func fileContent(f *texmd.FileStructure) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(f.Prefix))

	if len(f.Children) > 0 {
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString("```{toctree}\n")
		b.WriteString(":maxdepth: 2\n\n")
		for _, c := range f.Children {
			b.WriteString(c.Name)
			b.WriteString("\n")
		}
		b.WriteString("```")
	}

	b.WriteString("\n")
	return b.String()
}

// Export writes all the files of a decomposition in dir, creating it if needed.
// It returns the paths of the files written.
func Export(fs *texmd.FileStructure, dir string, suffix string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output folder: %w", err)
	}

	var written []string
	for _, f := range Files(fs, suffix) {
		path := filepath.Join(dir, f.Path)
		if err := os.WriteFile(path, []byte(f.Content), 0o644); err != nil {
			return written, fmt.Errorf("writing %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}
