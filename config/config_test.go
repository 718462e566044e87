package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gaurav-prasanna/coursegrab/core"
	"github.com/gaurav-prasanna/coursegrab/traverse"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadMergesLocalOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "coursegrab.json5")
	writeFile(t, path, `{
  // shared settings
  platform: "linkedin",
  output_dir: "./videos",
  quiz_format: "png",
  timing: { ready_timeout: "20s", settle: { quiz: "5s" } },
}`)
	writeFile(t, filepath.Join(dir, "coursegrab.local.json5"), `{
  remote_url: "ws://127.0.0.1:9222/devtools/browser/abc",
  output_dir: "/tmp/courses",
  timing: { settle: { video: "1s" } },
}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	want := Config{
		Platform:   "linkedin",
		OutputDir:  "/tmp/courses",
		RemoteURL:  "ws://127.0.0.1:9222/devtools/browser/abc",
		QuizFormat: "png",
		Timing: Timing{
			ReadyTimeout: "20s",
			Settle:       map[string]string{"quiz": "5s", "video": "1s"},
		},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "coursegrab.json5"))
	require.NoError(t, err)
	assert.Equal(t, Config{}, cfg)
}

func TestLoadInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coursegrab.json5")
	writeFile(t, path, `{ platform: `)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestTimingResolve(t *testing.T) {
	got, err := Timing{
		PollInterval: "250ms",
		Settle:       map[string]string{"Quiz": "5s"},
	}.Resolve()
	require.NoError(t, err)

	want := traverse.DefaultTiming()
	want.PollInterval = 250 * time.Millisecond
	want.Settle[core.KindQuiz] = 5 * time.Second
	assert.Equal(t, want, got)
}

func TestTimingResolveRejects(t *testing.T) {
	_, err := Timing{ReadyTimeout: "soon"}.Resolve()
	assert.ErrorContains(t, err, "timing.ready_timeout")

	_, err = Timing{LessonInterval: "-1s"}.Resolve()
	assert.ErrorContains(t, err, "negative")

	_, err = Timing{Settle: map[string]string{"podcast": "1s"}}.Resolve()
	assert.ErrorContains(t, err, "podcast")
}
