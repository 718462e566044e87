package extract

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/gaurav-prasanna/coursegrab/core"
)

// noiseSelectors are elements removed before a quiz capture is rendered.
// They carry no readable question or answer text.
var noiseSelectors = []string{
	"script", "style", "noscript", "template",
	"img", "picture", "svg", "canvas",
	"iframe", "video", "audio",
	"button", "[aria-hidden=true]", ".visually-hidden", ".sr-only",
}

// CaptureExtractor isolates the subtree of a page that a quiz capture
// renders.
type CaptureExtractor struct {
	selector string
}

// NewCapture creates a CaptureExtractor for the given subtree selector.
func NewCapture(selector string) *CaptureExtractor {
	return &CaptureExtractor{selector: selector}
}

// Extract takes a full page and returns the cleaned outer HTML of the first
// element matching the capture selector.
func (e *CaptureExtractor) Extract(html string) (string, error) {
	doc, err := Parse(html)
	if err != nil {
		return "", err
	}

	content := doc.Find(e.selector).First()
	if content.Length() == 0 {
		return "", core.Mismatch("capture container", e.selector)
	}

	for _, sel := range noiseSelectors {
		content.Find(sel).Remove()
	}

	result, err := goquery.OuterHtml(content)
	if err != nil {
		return "", fmt.Errorf("serializing capture: %w", err)
	}
	return result, nil
}
