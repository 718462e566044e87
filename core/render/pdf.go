package render

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/gaurav-prasanna/coursegrab/core"
	"github.com/jung-kurt/gofpdf"
)

var (
	numberedItem = regexp.MustCompile(`^\d+\.\s`)
	italicSpan   = regexp.MustCompile(`(?:^|\s)\*([^*]+)\*(?:\s|$)`)
	codeSpan     = regexp.MustCompile("`([^`]+)`")
	linkSpan     = regexp.MustCompile(`\[([^\]]*)\]\([^)]+\)`)
	checkbox     = regexp.MustCompile(`^[-*]\s\[( |x|X)\]\s`)
)

var headingSizes = map[int]float64{1: 18, 2: 15, 3: 13, 4: 12, 5: 11, 6: 10}

// PDFRenderer lays out a quiz capture with gofpdf: a header naming the
// lesson, then the quiz Markdown (headings, paragraphs, lists, code).
type PDFRenderer struct{}

// NewPDFRenderer creates a PDFRenderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

// pdfWriter carries the document and the translator from UTF-8 to the
// code page of the core fonts.
type pdfWriter struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

// Render converts quiz Markdown into PDF bytes.
func (r *PDFRenderer) Render(markdown string, meta core.CaptureMeta) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.SetTitle(meta.Title, true)
	pdf.AddPage()

	w := &pdfWriter{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	w.header(meta)

	inCodeBlock := false
	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "```") {
			inCodeBlock = !inCodeBlock
			pdf.Ln(2)
			continue
		}

		switch {
		case inCodeBlock:
			w.code(line)
		case trimmed == "":
			pdf.Ln(3)
		case strings.HasPrefix(trimmed, "#"):
			level := len(trimmed) - len(strings.TrimLeft(trimmed, "#"))
			w.heading(strings.TrimSpace(strings.TrimLeft(trimmed, "#")), level)
		case checkbox.MatchString(trimmed):
			mark := "( ) "
			if strings.ContainsAny(trimmed[3:4], "xX") {
				mark = "(x) "
			}
			w.text(mark + checkbox.ReplaceAllString(trimmed, ""))
		case strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* "):
			w.text("• " + strings.TrimSpace(trimmed[2:]))
		case numberedItem.MatchString(trimmed):
			w.text(trimmed)
		default:
			w.text(line)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for PDF output.
func (r *PDFRenderer) Extension() string {
	return ".pdf"
}

func (w *pdfWriter) header(meta core.CaptureMeta) {
	if meta.Title != "" {
		w.pdf.SetFont("Helvetica", "B", 16)
		w.pdf.MultiCell(0, 7, w.tr(meta.Title), "", "L", false)
		w.pdf.Ln(2)
	}

	w.pdf.SetFont("Helvetica", "I", 9)
	w.pdf.SetTextColor(100, 100, 100)
	for _, line := range []string{meta.Course, meta.Chapter, meta.URL} {
		if line != "" {
			w.pdf.MultiCell(0, 5, w.tr(line), "", "L", false)
		}
	}
	w.pdf.SetTextColor(0, 0, 0)
	w.pdf.Ln(6)
}

func (w *pdfWriter) heading(text string, level int) {
	size, ok := headingSizes[level]
	if !ok {
		size = 10
	}
	w.pdf.Ln(4)
	w.pdf.SetFont("Helvetica", "B", size)
	w.pdf.MultiCell(0, size*0.6, w.tr(cleanInlineMarkdown(text)), "", "L", false)
	w.pdf.Ln(2)
}

func (w *pdfWriter) text(text string) {
	w.pdf.SetFont("Helvetica", "", 10)
	w.pdf.MultiCell(0, 5, w.tr(cleanInlineMarkdown(text)), "", "L", false)
}

func (w *pdfWriter) code(line string) {
	w.pdf.SetFont("Courier", "", 9)
	w.pdf.SetFillColor(245, 245, 245)
	w.pdf.MultiCell(0, 4.5, w.tr(line), "", "L", true)
}

// cleanInlineMarkdown strips inline Markdown formatting for PDF rendering.
func cleanInlineMarkdown(text string) string {
	text = strings.ReplaceAll(text, "**", "")
	text = strings.ReplaceAll(text, "__", "")
	text = italicSpan.ReplaceAllString(text, " $1 ")
	text = codeSpan.ReplaceAllString(text, "$1")
	text = linkSpan.ReplaceAllString(text, "$1")
	text = strings.ReplaceAll(text, `\`, "")
	return strings.TrimSpace(text)
}
