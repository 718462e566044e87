package platform

import "strings"

// LinkedIn is the LinkedIn Learning classroom page.
var LinkedIn = &Platform{
	Name:     "linkedin",
	TabMatch: "linkedin.com/learning/",

	CourseTitle:    ".classroom-nav__details h1",
	CourseOverview: ".classroom-workspace-overview__header",
	CourseDuration: "ul > li:first-child",

	Chapter:      "section.classroom-toc-section",
	ChapterTitle: "h2 span.classroom-toc-section__toggle-title",

	Lesson:         "li.classroom-toc-item",
	LessonLink:     "a",
	LessonTitle:    ".classroom-toc-item__title",
	LessonDuration: ".classroom-toc-item__title + div",
	Active:         ".classroom-toc-item--selected",

	SectionToggle: "section > h2 > button.classroom-toc-section__toggle",

	Quiz:  ".classroom-quiz .chapter-quiz",
	Media: "video",

	SupportsFilter: true,
	QuizFormat:     "png",

	CleanCourse:         FirstLine,
	CleanCourseDuration: StripSpace,
	CleanChapter:        cleanLinkedInTitle,
	CleanLesson:         cleanLinkedInTitle,
	CleanLessonDuration: cleanLinkedInDuration,
}

// cleanLinkedInTitle turns "3. Setup: the basics\n(Viewed)" into
// "Setup - the basics".
func cleanLinkedInTitle(s string) string {
	s = FirstLine(s)
	s = strings.ReplaceAll(s, ":", " -")
	s = dottedOrdinal.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// cleanLinkedInDuration turns "3m 45s" into "3m45s".
func cleanLinkedInDuration(s string) string {
	return strings.TrimSpace(strings.Replace(FirstLine(s), " ", "", 1))
}
