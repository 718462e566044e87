package render

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/gaurav-prasanna/coursegrab/core"
)

// QuizSection is a heading and the text under it.
type QuizSection struct {
	Heading string `json:"heading"`
	Level   int    `json:"level"`
	Text    string `json:"text"`
}

// QuizJSON is the complete JSON output for one quiz capture.
type QuizJSON struct {
	Meta     core.CaptureMeta `json:"meta"`
	Markdown string           `json:"markdown"`
	Sections []QuizSection    `json:"sections"`
}

// JSONRenderer splits quiz Markdown into heading-delimited sections,
// usually one per question.
type JSONRenderer struct{}

// NewJSONRenderer creates a JSONRenderer.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

// Render converts quiz Markdown and metadata into QuizJSON.
func (r *JSONRenderer) Render(markdown string, meta core.CaptureMeta) ([]byte, error) {
	quiz := QuizJSON{
		Meta:     meta,
		Markdown: markdown,
		Sections: splitSections(markdown),
	}
	data, err := json.MarshalIndent(quiz, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	return data, nil
}

// Extension returns the file extension for JSON output.
func (r *JSONRenderer) Extension() string {
	return ".json"
}

// RenderReport serialises a run report.
func RenderReport(report *core.Report) ([]byte, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling report: %w", err)
	}
	return data, nil
}

var headingLine = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)

// splitSections groups lines under the nearest preceding heading. Text
// before the first heading is dropped.
func splitSections(md string) []QuizSection {
	var sections []QuizSection
	var body []string

	flush := func() {
		if len(sections) > 0 {
			sections[len(sections)-1].Text = strings.TrimSpace(strings.Join(body, "\n"))
		}
		body = nil
	}

	for _, line := range strings.Split(md, "\n") {
		if m := headingLine.FindStringSubmatch(line); m != nil {
			flush()
			sections = append(sections, QuizSection{
				Heading: strings.TrimSpace(m[2]),
				Level:   len(m[1]),
			})
			continue
		}
		body = append(body, line)
	}
	flush()
	return sections
}
