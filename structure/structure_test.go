package structure

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hesusruiz/texmd/texmd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() *texmd.FileStructure {
	return &texmd.FileStructure{
		Name:   "index",
		Title:  "Book",
		Prefix: "Preface\n",
		Children: []*texmd.FileStructure{
			{Name: "intro_0", Title: "Intro", Prefix: "# Intro\n\nHi\n"},
			{
				Name:   "methods_1",
				Title:  "Methods",
				Prefix: "# Methods\n",
				Children: []*texmd.FileStructure{
					{Name: "data_2", Title: "Data", Prefix: "## Data\n"},
				},
			},
		},
	}
}

func TestFiles(t *testing.T) {
	files := Files(sample(), ".md")
	require.Len(t, files, 4)

	assert.Equal(t, "index.md", files[0].Path)
	assert.Equal(t, "Preface\n\n```{toctree}\n:maxdepth: 2\n\nintro_0\nmethods_1\n```\n", files[0].Content)
	assert.Equal(t, "# Intro\n\nHi\n", files[1].Content)
	assert.Equal(t, "methods_1.md", files[2].Path)
	assert.Contains(t, files[2].Content, "\ndata_2\n")
	assert.Equal(t, "data_2.md", files[3].Path)
}

func TestExport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "docs")

	written, err := Export(sample(), dir, ".md")
	require.NoError(t, err)
	require.Len(t, written, 4)

	data, err := os.ReadFile(filepath.Join(dir, "data_2.md"))
	require.NoError(t, err)
	assert.Equal(t, "## Data\n", string(data))
}

func TestExportFromConversion(t *testing.T) {
	d, err := texmd.Convert("\\section{One}\nA\n\\section{Two}\nB", nil, nil)
	require.NoError(t, err)

	dir := t.TempDir()
	written, err := Export(d.Structure(1), dir, ".md")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "index.md"),
		filepath.Join(dir, "one_0.md"),
		filepath.Join(dir, "two_1.md"),
	}, written)

	index, err := os.ReadFile(written[0])
	require.NoError(t, err)
	assert.Equal(t, "```{toctree}\n:maxdepth: 2\n\none_0\ntwo_1\n```\n", string(index))
}

func TestWriteSphinxConf(t *testing.T) {
	path, err := WriteSphinxConf(t.TempDir(), "My 'Notes'", "Ana", "1.0")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	conf := string(data)
	assert.Contains(t, conf, `project = 'My \'Notes\''`)
	assert.Contains(t, conf, "author = 'Ana'")
	assert.Contains(t, conf, "release = '1.0'")
	assert.Contains(t, conf, `"sphinx_proof"`)
	assert.NotContains(t, conf, "XX")
}

func TestDiagramSource(t *testing.T) {
	src := DiagramSource(sample(), ".md")

	assert.Contains(t, src, "index: \"index.md\\nBook\"\n")
	assert.Contains(t, src, "index -> intro_0\n")
	assert.Contains(t, src, "methods_1 -> data_2\n")
}

func TestRenderDiagram(t *testing.T) {
	svg, err := RenderDiagram(context.Background(), DiagramSource(sample(), ".md"))
	require.NoError(t, err)
	assert.Contains(t, string(svg), "<svg")

	_, err = RenderDiagram(context.Background(), "a -> {")
	assert.Error(t, err)
}

func TestHeadings(t *testing.T) {
	md := "(sec)=\n# A\n\ntext\n\n## B\n\n```\n# not a heading\n```\n\n## C *x*\n\n# D\n"

	got := Headings([]byte(md))
	want := []*Heading{
		{Level: 1, Text: "A", Children: []*Heading{
			{Level: 2, Text: "B"},
			{Level: 2, Text: "C x"},
		}},
		{Level: 1, Text: "D"},
	}
	assert.Equal(t, want, got)

	assert.Equal(t, "- A\n  - B\n  - C x\n- D\n", FormatOutline(got))
}

func TestHeadingsSkippedLevel(t *testing.T) {
	got := Headings([]byte("### deep\n\n# top\n"))
	require.Len(t, got, 2)
	assert.Equal(t, "deep", got[0].Text)
	assert.Equal(t, 3, got[0].Level)
}
