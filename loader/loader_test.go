package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func TestLoad(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"main.tex":            "A\n\\input{chapters/intro}\n\\include{results}\nZ",
		"chapters/intro.tex":  "Intro \\input{detail}",
		"chapters/detail.tex": "Detail",
		"parts/results.tex":   "Results",
		"refs.bib":            "@book{k}",
		"figures/plot.png":    "png",
		".git/ignored.tex":    "no",
		"notes.txt":           "not indexed",
	})

	src, err := Load(filepath.Join(dir, "main.tex"), nil)
	require.NoError(t, err)

	assert.Equal(t, "A\nIntro Detail\nResults\nZ", src.Content)
	assert.Equal(t, EncodingUTF8, src.Encoding)
	assert.Len(t, src.Inlined, 3)

	assert.Contains(t, src.TexFiles, "intro")
	assert.Contains(t, src.TexFiles, "main")
	assert.NotContains(t, src.TexFiles, "ignored")
	assert.Equal(t, filepath.Join(dir, "refs.bib"), src.BibFiles["refs"])
	assert.Equal(t, filepath.Join(dir, "figures", "plot.png"), src.ImageFiles["plot"])
	assert.Len(t, src.Files(), 6)
}

func TestLoadMissingAndRepeated(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"main.tex": "\\input{a}|\\input{missing}|\\input{a}|\\input{main}",
		"a.tex":    "[a]",
	})

	src, err := Load(filepath.Join(dir, "main.tex"), nil)
	require.NoError(t, err)
	assert.Equal(t, "[a]|||", src.Content)
}

func TestLoadCycle(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"main.tex": "\\input{a}",
		"a.tex":    "a\\input{b}",
		"b.tex":    "b\\input{a}",
	})

	src, err := Load(filepath.Join(dir, "main.tex"), nil)
	require.NoError(t, err)
	assert.Equal(t, "ab", src.Content)
}

func TestLoadCommentedInput(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"main.tex": "x % \\input{a}\n50\\% \\input{a}",
		"a.tex":    "A",
	})

	src, err := Load(filepath.Join(dir, "main.tex"), nil)
	require.NoError(t, err)
	assert.Equal(t, "x % \\input{a}\n50\\% A", src.Content)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "none.tex"), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name         string
		data         []byte
		want         string
		wantEncoding string
	}{
		{"utf8", []byte("héllo"), "héllo", EncodingUTF8},
		{"utf8 with bom", append([]byte{0xEF, 0xBB, 0xBF}, "hé"...), "hé", EncodingUTF8BOM},
		{"utf16 little endian", []byte{0xFF, 0xFE, 'h', 0, 0xE9, 0}, "hé", EncodingUTF16LE},
		{"utf16 big endian", []byte{0xFE, 0xFF, 0, 'h', 0, 0xE9}, "hé", EncodingUTF16BE},
		{"latin1", []byte{'h', 0xE9}, "hé", EncodingLatin1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, encoding, err := Decode(tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantEncoding, encoding)
		})
	}
}

func TestBaseName(t *testing.T) {
	assert.Equal(t, "intro", baseName("chapters/intro.tex"))
	assert.Equal(t, "intro", baseName("intro"))
	assert.Equal(t, "v1.2", baseName("v1.2"))
	assert.Equal(t, "plot", baseName("plot.PNG"))
}
