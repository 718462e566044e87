// Package core defines the data model and pipeline interfaces for coursegrab.
// Each stage of the lesson pipeline is a small, testable interface.
package core

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gaurav-prasanna/coursegrab/core/naming"
)

// ResourceKind classifies what a lesson page offers for download.
type ResourceKind string

const (
	KindVideo      ResourceKind = "video"
	KindQuiz       ResourceKind = "quiz"
	KindAttachment ResourceKind = "attachment"
)

// TypeFilter restricts which resource kinds a run downloads.
type TypeFilter string

const (
	FilterAll   TypeFilter = "all"
	FilterVideo TypeFilter = "video"
	FilterQuiz  TypeFilter = "quiz"
)

// ParseTypeFilter validates a user-supplied filter. Empty means all.
func ParseTypeFilter(s string) (TypeFilter, error) {
	switch TypeFilter(s) {
	case "", FilterAll:
		return FilterAll, nil
	case FilterVideo, FilterQuiz:
		return TypeFilter(s), nil
	}
	return "", &InvalidSelectionError{Reason: "unknown resource type " + s + " (want all, video or quiz)"}
}

// Admits reports whether a lesson of the given kind passes the filter.
// Attachments are the downloadable media of a lesson, so the video filter
// keeps them.
func (f TypeFilter) Admits(kind ResourceKind) bool {
	switch f {
	case FilterVideo:
		return kind == KindVideo || kind == KindAttachment
	case FilterQuiz:
		return kind == KindQuiz
	default:
		return true
	}
}

// Course is read once per run.
type Course struct {
	Name     string `json:"name"`
	Duration string `json:"duration,omitempty"`
}

// Label is the course name as it appears in file names.
func (c Course) Label() string {
	if c.Duration == "" {
		return c.Name
	}
	return c.Name + " (" + c.Duration + ")"
}

// Chapter is a section of the course table of contents.
type Chapter struct {
	Index int    `json:"index"` // zero-based
	Title string `json:"title"`
}

// LessonRef is a lesson as listed in the table of contents.
type LessonRef struct {
	Position int    `json:"position"` // one-based, course-wide
	Chapter  int    `json:"chapter"`  // zero-based chapter index
	Local    int    `json:"local"`    // one-based, within the chapter
	Title    string `json:"title"`
	Duration string `json:"duration,omitempty"`
}

// DisplayTitle is the lesson title with its duration, if the platform shows one.
func (l LessonRef) DisplayTitle() string {
	if l.Duration == "" {
		return l.Title
	}
	return l.Title + " (" + l.Duration + ")"
}

// Snapshot is the structural view of a course page captured at one instant.
// It is replaced wholesale on every read, never merged.
type Snapshot struct {
	URL      string      `json:"url"`
	Course   Course      `json:"course"`
	Chapters []Chapter   `json:"chapters"`
	Lessons  []LessonRef `json:"lessons"`
}

// NameFor composes the file base name of the lesson at the given position.
func (s *Snapshot) NameFor(ref LessonRef) naming.Name {
	chapterTitle := ""
	if ref.Chapter >= 0 && ref.Chapter < len(s.Chapters) {
		chapterTitle = s.Chapters[ref.Chapter].Title
	}
	return naming.Name{
		Course:       s.Course.Label(),
		Position:     ref.Position,
		Total:        len(s.Lessons),
		Chapter:      ref.Chapter,
		ChapterTitle: chapterTitle,
		Local:        ref.Local,
		Title:        ref.DisplayTitle(),
	}
}

// Resource is a network-fetchable file attached to a lesson.
type Resource struct {
	URL        string `json:"url"`
	Ext        string `json:"ext"`
	OriginName string `json:"origin_name,omitempty"`
}

// Lesson is the classified, named view of the currently rendered lesson.
// It is rebuilt from the page for every lesson visited.
type Lesson struct {
	Ref       LessonRef    `json:"ref"`
	Kind      ResourceKind `json:"kind"`
	Name      naming.Name  `json:"-"`
	FileName  string       `json:"file_name"`
	Resources []Resource   `json:"resources,omitempty"`
	// CaptureSelector is the DOM subtree rendered for quiz lessons.
	CaptureSelector string `json:"capture_selector,omitempty"`
}

// Selection holds the run parameters of the sequencer.
type Selection struct {
	// Start is the first global position to process; 0 means the
	// currently active lesson only, without navigating, whatever Count and
	// Positions say.
	Start int
	// Count limits the number of lessons; 0 means unlimited.
	// Ignored when Positions is set.
	Count int
	// Positions is an explicit allow-list of global positions.
	// It takes precedence over a non-zero Start and over Count.
	Positions []int
	Filter    TypeFilter
}

// CurrentOnly reports whether the selection targets the active lesson only.
// It overrides both Count and Positions.
func (s Selection) CurrentOnly() bool {
	return s.Start == 0
}

// Session carries what the browser knows that an HTTP client needs to
// fetch resources on the user's behalf.
type Session struct {
	PageURL   string
	UserAgent string
	// Cookies keep the Domain, Path and Secure attributes the browser holds,
	// so a fetcher only presents each one to the hosts it belongs to.
	Cookies []*http.Cookie
}

// Browser is the host page: structural reads plus the few writes the
// pipeline needs.
type Browser interface {
	// Open navigates the tab to url. An empty url keeps the current page.
	Open(ctx context.Context, url string) error
	// HTML returns the rendered document.
	HTML(ctx context.Context) (string, error)
	// Click activates the link inside the index-th element matching selector.
	Click(ctx context.Context, selector, link string, index int) error
	// Expand clicks every collapsed toggle matching selector and returns how
	// many were clicked.
	Expand(ctx context.Context, selector string) (int, error)
	// Screenshot captures the first element matching selector as PNG.
	Screenshot(ctx context.Context, selector string) ([]byte, error)
	// Session returns cookies and headers of the current page.
	Session(ctx context.Context) (*Session, error)
}

// Downloader streams a remote resource into dst.
type Downloader interface {
	Download(ctx context.Context, url string, sess *Session, dst io.Writer) (int64, error)
}

// Extractor pulls a capturable content fragment from a page.
type Extractor interface {
	Extract(html string) (string, error)
}

// Normalizer converts a cleaned HTML fragment into Markdown.
type Normalizer interface {
	Normalize(html string) (string, error)
}

// CaptureMeta describes the lesson a rendered capture belongs to.
type CaptureMeta struct {
	Title   string `json:"title"`
	Course  string `json:"course"`
	Chapter string `json:"chapter"`
	URL     string `json:"url"`
}

// Renderer converts Markdown (and metadata) into a final output format.
type Renderer interface {
	Render(markdown string, meta CaptureMeta) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".md", ".pdf").
	Extension() string
}

// OutputNames returns one file name per resource. Resources sharing an
// extension get a counter so no download overwrites another.
func (l *Lesson) OutputNames() []string {
	seen := make(map[string]int, len(l.Resources))
	for _, r := range l.Resources {
		seen[r.Ext]++
	}
	counters := make(map[string]int, len(l.Resources))
	names := make([]string, 0, len(l.Resources))
	for _, r := range l.Resources {
		if seen[r.Ext] == 1 {
			names = append(names, l.Name.WithExt(r.Ext))
			continue
		}
		counters[r.Ext]++
		names = append(names, fmt.Sprintf("%s (%d).%s", l.FileName, counters[r.Ext], r.Ext))
	}
	return names
}
