package cmd

import (
	"bytes"
	"errors"
	"testing"

	"github.com/gaurav-prasanna/coursegrab/core"
	"github.com/stretchr/testify/assert"
)

func TestOutlineTable(t *testing.T) {
	snap := &core.Snapshot{
		Course:   core.Course{Name: "Learning Go", Duration: "2h30m"},
		Chapters: []core.Chapter{{Index: 0, Title: "Introduction"}, {Index: 1, Title: "Getting Started"}},
		Lessons: []core.LessonRef{
			{Position: 1, Chapter: 0, Local: 1, Title: "Welcome", Duration: "1m2s"},
			{Position: 2, Chapter: 1, Local: 1, Title: "Setup - the basics", Duration: "3m45s"},
		},
	}

	got := outlineTable(snap).Render()

	assert.Contains(t, got, "Learning Go (2h30m)")
	assert.Contains(t, got, "0. Introduction")
	assert.Contains(t, got, "1. Setup - the basics")
	assert.Contains(t, got, "3m45s")
}

func TestPrintSummary(t *testing.T) {
	report := &core.Report{Selected: 2}
	report.Add(core.Outcome{
		Position: 1, Name: "Learning Go [1 - 2] 0. Introduction 1. Welcome",
		Kind: core.KindVideo, Status: core.StatusDownloaded,
		Files: []string{"out/Learning Go [1 - 2] 0. Introduction 1. Welcome.mp4"},
	})
	report.Add(core.Outcome{
		Position: 2, Status: core.StatusFailed,
		Err: errors.New("lesson 2: unknown lesson kind"),
	})

	var buf bytes.Buffer
	printSummary(&buf, report)

	out := buf.String()
	assert.Contains(t, out, "Welcome.mp4")
	assert.Contains(t, out, "unknown lesson kind")
	assert.Contains(t, out, "1 downloaded, 0 skipped, 1 failed")
}

func TestPrintSummaryEmpty(t *testing.T) {
	var buf bytes.Buffer
	printSummary(&buf, &core.Report{})
	assert.Equal(t, "No lessons selected\n", buf.String())
}
