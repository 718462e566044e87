package cmd

import (
	"testing"

	"github.com/gaurav-prasanna/coursegrab/config"
	"github.com/gaurav-prasanna/coursegrab/core/platform"
	"github.com/gaurav-prasanna/coursegrab/core/render"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetFlags() {
	flagPlatform = ""
	flagStart = 1
	flagCount = 0
	flagLessons = nil
	flagType = ""
	flagQuizFormat = ""
	flagOutputDir = ""
	flagRemote = ""
	flagHeadless = false
	flagUserDataDir = ""
	flagReport = ""
	flagSkipExisting = false
}

func TestValidateFlags(t *testing.T) {
	const course = "https://www.linkedin.com/learning/learning-go"
	tests := []struct {
		name    string
		url     string
		set     func()
		wantErr string
	}{
		{name: "course url", url: course, set: func() {}},
		{name: "remote tab", set: func() { flagRemote = "ws://127.0.0.1:9222/devtools/browser/x"; flagPlatform = "linkedin" }},
		{name: "nothing to open", set: func() {}, wantErr: "course URL is required"},
		{name: "remote without platform", set: func() { flagRemote = "ws://x" }, wantErr: "--platform is required"},
		{name: "headless remote", url: course, set: func() { flagRemote = "ws://x"; flagHeadless = true }, wantErr: "launched browser"},
		{name: "negative start", url: course, set: func() { flagStart = -1 }, wantErr: "--start"},
		{name: "negative count", url: course, set: func() { flagCount = -3 }, wantErr: "--count"},
		{name: "lessons override start and count", url: course, set: func() { flagLessons = []int{7, 3, 5}; flagStart = 5; flagCount = 2 }},
		{name: "lessons with current lesson", url: course, set: func() { flagLessons = []int{3, 5}; flagStart = 0 }},
		{name: "lesson zero", url: course, set: func() { flagLessons = []int{0, 4} }, wantErr: "start at 1"},
		{name: "current lesson", url: course, set: func() { flagStart = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags()
			t.Cleanup(resetFlags)
			tt.set()

			err := validateFlags(tt.url)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestCourseArg(t *testing.T) {
	got, err := courseArg(nil)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = courseArg([]string{"https://school.example.com/courses/go/lectures/1"})
	require.NoError(t, err)
	assert.Equal(t, "https://school.example.com/courses/go/lectures/1", got)

	_, err = courseArg([]string{"learning-go"})
	assert.ErrorContains(t, err, "invalid URL")
}

func TestSelectRenderer(t *testing.T) {
	r, err := selectRenderer("", platform.LinkedIn)
	require.NoError(t, err)
	assert.Nil(t, r)

	r, err = selectRenderer("", platform.Teachable)
	require.NoError(t, err)
	assert.IsType(t, &render.PDFRenderer{}, r)

	r, err = selectRenderer("MD", platform.LinkedIn)
	require.NoError(t, err)
	assert.IsType(t, &render.MarkdownRenderer{}, r)

	r, err = selectRenderer("json", platform.Teachable)
	require.NoError(t, err)
	assert.Equal(t, ".json", r.Extension())

	_, err = selectRenderer("gif", platform.LinkedIn)
	assert.ErrorContains(t, err, "unknown quiz format")
}

func TestSelectPlatform(t *testing.T) {
	resetFlags()
	t.Cleanup(resetFlags)

	p, err := selectPlatform("https://www.linkedin.com/learning/learning-go")
	require.NoError(t, err)
	assert.Equal(t, "linkedin", p.Name)

	flagPlatform = "teachable"
	p, err = selectPlatform("https://www.linkedin.com/learning/learning-go")
	require.NoError(t, err)
	assert.Equal(t, "teachable", p.Name)
}

func TestApplyConfigKeepsExplicitFlags(t *testing.T) {
	resetFlags()
	t.Cleanup(resetFlags)

	c := &cobra.Command{Use: "download"}
	addBrowserFlags(c)
	c.Flags().StringVar(&flagOutputDir, "output_dir", "", "")
	c.Flags().StringVar(&flagQuizFormat, "quiz-format", "", "")
	c.Flags().BoolVar(&flagSkipExisting, "skip_existing", false, "")
	require.NoError(t, c.ParseFlags([]string{"--platform", "teachable"}))

	applyConfig(c, config.Config{
		Platform:     "linkedin",
		OutputDir:    "/srv/courses",
		RemoteURL:    "ws://127.0.0.1:9222/devtools/browser/x",
		QuizFormat:   "md",
		SkipExisting: true,
	})

	assert.Equal(t, "teachable", flagPlatform)
	assert.Equal(t, "/srv/courses", flagOutputDir)
	assert.Equal(t, "ws://127.0.0.1:9222/devtools/browser/x", flagRemote)
	assert.Equal(t, "md", flagQuizFormat)
	assert.True(t, flagSkipExisting)
	assert.False(t, flagHeadless)
}
