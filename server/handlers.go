package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/hesusruiz/texmd/structure"
	"github.com/hesusruiz/texmd/texmd"
)

// fileResponse is one output file of a decomposed conversion
type fileResponse struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// handleConvert converts the LaTeX source in the body of the request.
// Without a depth the response is the Markdown text. With a depth greater than zero
// the response lists the files of the decomposition as JSON.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	depth := 0
	if d := r.URL.Query().Get("depth"); d != "" {
		n, err := strconv.Atoi(d)
		if err != nil || n < 0 {
			jsonError(w, "depth must be a non-negative integer", http.StatusBadRequest)
			return
		}
		depth = n
	}

	doc, ok := s.convert(w, r)
	if !ok {
		return
	}

	if depth == 0 {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Write([]byte(doc.Markdown()))
		return
	}

	var files []fileResponse
	for _, f := range structure.Files(doc.Structure(depth), s.cfg.Suffix) {
		files = append(files, fileResponse{Path: f.Path, Content: f.Content})
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"files": files})
}

// handleOutline converts the LaTeX source in the body and returns the tree of
// headings of the result
func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.convert(w, r)
	if !ok {
		return
	}

	headings := structure.Headings([]byte(doc.Markdown()))
	if headings == nil {
		headings = []*structure.Heading{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"headings": headings})
}

// convert reads the body of the request and converts it, writing the error response
// when the conversion is not possible
func (s *Server) convert(w http.ResponseWriter, r *http.Request) (*texmd.Document, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSourceSize))
	if err != nil {
		code := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			code = http.StatusRequestEntityTooLarge
		}
		jsonError(w, "reading request body: "+err.Error(), code)
		return nil, false
	}

	doc, err := texmd.Convert(string(body), s.cfg, s.log)
	if err != nil {
		if errors.Is(err, texmd.ErrNoContent) {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return nil, false
		}
		s.log.Errorw("conversion failed", "error", err)
		jsonError(w, "conversion failed: "+err.Error(), http.StatusInternalServerError)
		return nil, false
	}
	return doc, true
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
