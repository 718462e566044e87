package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkedInCleaning(t *testing.T) {
	tests := []struct {
		name string
		fn   func(string) string
		in   string
		want string
	}{
		{"title with ordinal", LinkedIn.CleanLesson, "3. Setup: the basics", "Setup - the basics"},
		{"title with dash ordinal", LinkedIn.CleanLesson, "12 - Wrap up", "Wrap up"},
		{"title with status line", LinkedIn.CleanLesson, "\n   Welcome\n   (Viewed)\n", "Welcome"},
		{"title keeps inner numbers", LinkedIn.CleanLesson, "Go 1.22 features", "Go 1.22 features"},
		{"chapter", LinkedIn.CleanChapter, "1. Getting Started\n4 videos", "Getting Started"},
		{"lesson duration", LinkedIn.CleanLessonDuration, " 3m 45s \nVideo", "3m45s"},
		{"course duration", LinkedIn.CleanCourseDuration, "2h 30m", "2h30m"},
		{"course", LinkedIn.CleanCourse, "\n  Learning Go\n  with Jane\n", "Learning Go"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.fn(tt.in))
		})
	}
}

func TestTeachableCleaning(t *testing.T) {
	tests := []struct {
		name string
		fn   func(string) string
		in   string
		want string
	}{
		{"lesson", Teachable.CleanLesson, "\n   1- Intro: setup\n   (3:45)\n", "Intro- setup (3m45s)"},
		{"lesson underscore gap", Teachable.CleanLesson, "Part _ two", "Part two"},
		{"lesson without duration", Teachable.CleanLesson, "Resources", "Resources"},
		{"chapter", Teachable.CleanChapter, "  Getting Started (1:05) ", "Getting Started (1h05m)"},
		{"chapter keeps ordinal", Teachable.CleanChapter, "1- Basics", "1- Basics"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.fn(tt.in))
		})
	}
}

func TestLookup(t *testing.T) {
	p, err := Lookup(" LinkedIn ")
	require.NoError(t, err)
	assert.Same(t, LinkedIn, p)

	_, err = Lookup("udemy")
	assert.Error(t, err)
}

func TestDetect(t *testing.T) {
	p, err := Detect("https://www.linkedin.com/learning/learning-go/welcome")
	require.NoError(t, err)
	assert.Same(t, LinkedIn, p)

	p, err = Detect("https://school.example.com/courses/enrolled/123")
	require.NoError(t, err)
	assert.Same(t, Teachable, p)

	_, err = Detect("not a url")
	assert.Error(t, err)
}
