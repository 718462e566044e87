// Package platform describes the course pages coursegrab knows how to read:
// where each structural element lives and how its text is cleaned up.
package platform

import (
	"fmt"
	"net/url"
	"strings"
)

// Platform is a descriptor of one e-learning site's rendered course page.
// Optional selectors are empty when the site has no such element.
type Platform struct {
	Name string
	// TabMatch is a URL fragment identifying an open course tab.
	TabMatch string

	CourseTitle    string
	CourseOverview string // optional container of the course duration
	CourseDuration string // optional, relative to CourseOverview

	Chapter      string
	ChapterTitle string // relative to Chapter

	Lesson         string
	LessonLink     string // relative to Lesson
	LessonTitle    string // relative to Lesson
	LessonDuration string // optional, relative to Lesson
	Active         string // matches the active lesson element itself

	SectionToggle string // optional, collapsed section buttons

	Quiz         string // optional quiz container marker
	QuizCapture  string // subtree captured for quiz lessons; defaults to Quiz
	Media        string // optional playable media element
	Download     string // optional download anchors
	DownloadName string // attribute holding the origin file name

	// SupportsFilter reports whether the resource-type filter applies.
	SupportsFilter bool
	// QuizFormat is the default capture format: "png", "pdf" or "md".
	QuizFormat string

	CleanCourse         func(string) string
	CleanCourseDuration func(string) string
	CleanChapter        func(string) string
	CleanLesson         func(string) string
	CleanLessonDuration func(string) string
}

// Capture returns the selector of the subtree rendered for quiz lessons.
func (p *Platform) Capture() string {
	if p.QuizCapture != "" {
		return p.QuizCapture
	}
	return p.Quiz
}

var registry = map[string]*Platform{
	LinkedIn.Name:  LinkedIn,
	Teachable.Name: Teachable,
}

// Names lists the known platform names.
func Names() []string {
	return []string{LinkedIn.Name, Teachable.Name}
}

// Lookup returns the descriptor registered under name.
func Lookup(name string) (*Platform, error) {
	p, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown platform %q (want one of %s)", name, strings.Join(Names(), ", "))
	}
	return p, nil
}

// Detect picks a descriptor from the host of a course URL. Teachable schools
// run on their own domains, so anything that is not LinkedIn is treated as
// Teachable.
func Detect(rawURL string) (*Platform, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return nil, fmt.Errorf("cannot detect platform from %q", rawURL)
	}
	host := strings.TrimPrefix(strings.ToLower(parsed.Hostname()), "www.")
	if host == "linkedin.com" || strings.HasSuffix(host, ".linkedin.com") {
		return LinkedIn, nil
	}
	return Teachable, nil
}
