package platform

import "strings"

// Teachable is a Teachable school's lecture page.
var Teachable = &Platform{
	Name:     "teachable",
	TabMatch: "/lectures/",

	CourseTitle: ".course-sidebar-head > h2",

	Chapter:      ".course-section",
	ChapterTitle: ".section-title",

	Lesson:      ".course-section li.section-item",
	LessonLink:  "a",
	LessonTitle: ".lecture-name",
	Active:      ".section-item.next-lecture",

	Quiz:         "div[role=main].course-mainbar .quiz",
	QuizCapture:  "div[role=main].course-mainbar",
	Download:     "a.download",
	DownloadName: "data-x-origin-download-name",

	QuizFormat: "pdf",

	CleanCourse:  FirstLine,
	CleanChapter: cleanTeachableChapter,
	CleanLesson:  cleanTeachableLesson,
}

// cleanTeachableLesson turns "1- Intro: setup (3:45)" into
// "Intro- setup (3m45s)".
func cleanTeachableLesson(s string) string {
	s = Collapse(s)
	s = replaceFirst(clockDuration, s, "(${1}m${2}s)")
	s = strings.ReplaceAll(s, ":", "-")
	s = replaceFirst(underscoreGap, s, " ")
	s = dashedOrdinal.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// cleanTeachableChapter turns "Getting Started (1:05)" into
// "Getting Started (1h05m)".
func cleanTeachableChapter(s string) string {
	s = Collapse(s)
	s = replaceFirst(clockDuration, s, "(${1}h${2}m)")
	s = strings.ReplaceAll(s, ":", "-")
	s = replaceFirst(underscoreGap, s, " ")
	return strings.TrimSpace(s)
}
