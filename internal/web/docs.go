package web

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/yuin/goldmark"
)

//go:embed docs.md
var docsMarkdown string

// HandleDocs handles GET / — the API documentation page, rendered from the
// embedded markdown.
func (h *Handlers) HandleDocs(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, "<!DOCTYPE html><html><head><title>strlens %s</title></head><body>%s</body></html>",
		template.HTMLEscapeString(h.version), renderMarkdown(docsMarkdown))
}

// renderMarkdown converts markdown text to HTML using goldmark.
func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}
