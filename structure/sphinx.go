package structure

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// confTemplate is the Sphinx configuration for the MyST files produced by the converter
const confTemplate = `# Configuration file for the Sphinx documentation builder.

project = 'XXPROJECTXX'
copyright = 'XXAUTHORXX'
author = 'XXAUTHORXX'
release = 'XXRELEASEXX'

extensions = [
    "myst_parser",
    "sphinx_proof",
    "sphinxcontrib.bibtex",
]

myst_enable_extensions = [
    "amsmath",
    "dollarmath",
    "colon_fence",
]
myst_heading_anchors = 3
math_numfig = True
numfig = True

bibtex_bibfiles = []

templates_path = ['_templates']
exclude_patterns = ['_build', 'Thumbs.db', '.DS_Store']

html_theme = 'alabaster'
html_static_path = ['_static']
`

// SphinxConf returns the contents of the conf.py file of a project
func SphinxConf(project, author, release string) string {
	r := strings.NewReplacer(
		"XXPROJECTXX", escapeQuotes(project),
		"XXAUTHORXX", escapeQuotes(author),
		"XXRELEASEXX", escapeQuotes(release),
	)
	return r.Replace(confTemplate)
}

// WriteSphinxConf writes the conf.py file of a project in dir
func WriteSphinxConf(dir, project, author, release string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output folder: %w", err)
	}
	path := filepath.Join(dir, "conf.py")
	if err := os.WriteFile(path, []byte(SphinxConf(project, author, release)), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

func escapeQuotes(s string) string {
	return strings.ReplaceAll(s, "'", `\'`)
}
