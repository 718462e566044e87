// Package render turns captured quiz content into files, and the run report
// into JSON. This file implements the Markdown renderer, which prefixes the
// quiz with a short block naming the lesson it came from.
package render

import (
	"strings"

	"github.com/gaurav-prasanna/coursegrab/core"
)

// MarkdownRenderer writes the quiz Markdown under a lesson header.
type MarkdownRenderer struct{}

// NewMarkdownRenderer creates a MarkdownRenderer.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

// Render returns the header followed by the Markdown.
func (r *MarkdownRenderer) Render(markdown string, meta core.CaptureMeta) ([]byte, error) {
	var b strings.Builder
	if meta.Title != "" {
		b.WriteString("# " + meta.Title + "\n\n")
	}
	for _, line := range []string{meta.Course, meta.Chapter, meta.URL} {
		if line != "" {
			b.WriteString("> " + line + "\n")
		}
	}
	if b.Len() > 0 {
		b.WriteString("\n")
	}
	b.WriteString(markdown)
	return []byte(b.String()), nil
}

// Extension returns the file extension for Markdown output.
func (r *MarkdownRenderer) Extension() string {
	return ".md"
}
