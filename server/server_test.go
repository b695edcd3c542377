package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hesusruiz/texmd/structure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const source = "\\section{Intro}\nHi\n\\section{Methods}\nM\n\\subsection{Data}\nD"

func do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	New(nil, nil).ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestConvert(t *testing.T) {
	rec := do(t, http.MethodPost, "/convert", "\\section{Intro}\nHello $x$")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/markdown; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "# Intro\n\nHello $x$\n", rec.Body.String())
}

func TestConvertDepth(t *testing.T) {
	rec := do(t, http.MethodPost, "/convert?depth=1", source)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Files []fileResponse `json:"files"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Files, 3)
	assert.Equal(t, "index.md", resp.Files[0].Path)
	assert.Equal(t, "intro_0.md", resp.Files[1].Path)
	assert.Equal(t, "methods_1.md", resp.Files[2].Path)
	assert.Contains(t, resp.Files[2].Content, "## Data")
}

func TestConvertErrors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		body   string
		code   int
	}{
		{"empty body", "/convert", "  \n", http.StatusBadRequest},
		{"bad depth", "/convert?depth=x", source, http.StatusBadRequest},
		{"negative depth", "/convert?depth=-1", source, http.StatusBadRequest},
		{"empty outline", "/outline", "", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, http.MethodPost, tt.target, tt.body)
			assert.Equal(t, tt.code, rec.Code)
			assert.Contains(t, rec.Body.String(), `"error"`)
		})
	}
}

func TestConvertTooLarge(t *testing.T) {
	rec := do(t, http.MethodPost, "/convert", strings.Repeat("a", maxSourceSize+1))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestOutline(t *testing.T) {
	rec := do(t, http.MethodPost, "/outline", source)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Headings []*structure.Heading `json:"headings"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Headings, 2)
	assert.Equal(t, "Intro", resp.Headings[0].Text)
	assert.Equal(t, "Methods", resp.Headings[1].Text)
	require.Len(t, resp.Headings[1].Children, 1)
	assert.Equal(t, "Data", resp.Headings[1].Children[0].Text)
}

func TestMethodNotAllowed(t *testing.T) {
	rec := do(t, http.MethodGet, "/convert", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
