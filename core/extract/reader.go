// Package extract reads course structure and lesson resources out of a
// rendered course page. Everything here works on a parsed HTML snapshot of
// the live tab, so it can be exercised against captured fixtures.
package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gaurav-prasanna/coursegrab/core"
	"github.com/gaurav-prasanna/coursegrab/core/platform"
	"golang.org/x/net/html"
)

// Parse parses a rendered document. The markup comes from a live tab with
// scripting on, so <noscript> content stays text as it does in the browser.
func Parse(page string) (*goquery.Document, error) {
	root, err := html.ParseWithOptions(strings.NewReader(page), html.ParseOptionEnableScripting(true))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return goquery.NewDocumentFromNode(root), nil
}

// ReadSnapshot captures the course, chapter list and lesson list, in
// document order. A missing course title, chapter list or lesson list is a
// structural mismatch: the page is not what the platform descriptor expects.
func ReadSnapshot(doc *goquery.Document, p *platform.Platform, pageURL string) (*core.Snapshot, error) {
	course, err := readCourse(doc, p)
	if err != nil {
		return nil, err
	}

	chapters := doc.Find(p.Chapter)
	if chapters.Length() == 0 {
		return nil, core.Mismatch("chapter list", p.Chapter)
	}
	lessons := doc.Find(p.Lesson)
	if lessons.Length() == 0 {
		return nil, core.Mismatch("lesson list", p.Lesson)
	}

	snap := &core.Snapshot{
		URL:      pageURL,
		Course:   course,
		Chapters: make([]core.Chapter, 0, chapters.Length()),
		Lessons:  make([]core.LessonRef, 0, lessons.Length()),
	}

	for i := range chapters.Nodes {
		title, err := chapterTitle(chapters.Eq(i), p)
		if err != nil {
			return nil, fmt.Errorf("chapter %d: %w", i, err)
		}
		snap.Chapters = append(snap.Chapters, core.Chapter{Index: i, Title: title})
	}

	for i := range lessons.Nodes {
		ref, err := lessonRef(lessons.Eq(i), i+1, chapters, p)
		if err != nil {
			return nil, fmt.Errorf("lesson %d: %w", i+1, err)
		}
		snap.Lessons = append(snap.Lessons, ref)
	}

	return snap, nil
}

// ActivePosition returns the global one-based position of the lesson
// carrying the platform's active marker, or 0 if no lesson is active.
func ActivePosition(doc *goquery.Document, p *platform.Platform) int {
	active := doc.Find(p.Active).First()
	if active.Length() == 0 {
		return 0
	}
	return doc.Find(p.Lesson).IndexOfSelection(active) + 1
}

func readCourse(doc *goquery.Document, p *platform.Platform) (core.Course, error) {
	title := doc.Find(p.CourseTitle).First()
	if title.Length() == 0 {
		return core.Course{}, core.Mismatch("course title", p.CourseTitle)
	}
	course := core.Course{Name: p.CleanCourse(title.Text())}
	if course.Name == "" {
		return core.Course{}, core.Mismatch("course title text", p.CourseTitle)
	}

	// The overview header only renders on the course landing lesson.
	if p.CourseOverview == "" {
		return course, nil
	}
	duration := doc.Find(p.CourseOverview).First().Find(p.CourseDuration).First()
	if duration.Length() > 0 {
		course.Duration = p.CleanCourseDuration(duration.Text())
	}
	return course, nil
}

func chapterTitle(chapter *goquery.Selection, p *platform.Platform) (string, error) {
	title := chapter.Find(p.ChapterTitle).First()
	if title.Length() == 0 {
		return "", core.Mismatch("chapter title", p.ChapterTitle)
	}
	return p.CleanChapter(title.Text()), nil
}

// lessonRef resolves a lesson element against the chapter list: its
// enclosing chapter, its place among that chapter's lessons and its title.
func lessonRef(lesson *goquery.Selection, position int, chapters *goquery.Selection, p *platform.Platform) (core.LessonRef, error) {
	chapter := lesson.Closest(p.Chapter)
	chapterIdx := chapters.IndexOfSelection(chapter)
	if chapter.Length() == 0 || chapterIdx < 0 {
		return core.LessonRef{}, core.Mismatch("enclosing chapter", p.Chapter)
	}

	title := lesson.Find(p.LessonTitle).First()
	if title.Length() == 0 {
		return core.LessonRef{}, core.Mismatch("lesson title", p.LessonTitle)
	}

	ref := core.LessonRef{
		Position: position,
		Chapter:  chapterIdx,
		Local:    chapter.Find(p.Lesson).IndexOfSelection(lesson) + 1,
		Title:    p.CleanLesson(title.Text()),
	}
	if p.LessonDuration != "" {
		if d := lesson.Find(p.LessonDuration).First(); d.Length() > 0 {
			ref.Duration = p.CleanLessonDuration(d.Text())
		}
	}
	return ref, nil
}
