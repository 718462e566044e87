package traverse

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/gaurav-prasanna/coursegrab/core"
	"github.com/gaurav-prasanna/coursegrab/core/extract"
	"github.com/gaurav-prasanna/coursegrab/core/normalize"
	"github.com/gaurav-prasanna/coursegrab/core/output"
	"github.com/gaurav-prasanna/coursegrab/core/platform"
	"golang.org/x/time/rate"
)

// Timing bounds every wait of a run.
type Timing struct {
	// ReadyTimeout bounds each readiness poll.
	ReadyTimeout time.Duration
	// PollInterval is the pause between two reads of the tab.
	PollInterval time.Duration
	// LessonInterval is the minimum time between starting two lessons.
	LessonInterval time.Duration
	// Settle is the pause after each lesson, downloaded or skipped, per
	// resource kind.
	Settle map[core.ResourceKind]time.Duration
}

// DefaultTiming mirrors the delays the platforms have been observed to need.
func DefaultTiming() Timing {
	return Timing{
		ReadyTimeout:   30 * time.Second,
		PollInterval:   500 * time.Millisecond,
		LessonInterval: 2 * time.Second,
		Settle: map[core.ResourceKind]time.Duration{
			core.KindVideo:      1500 * time.Millisecond,
			core.KindAttachment: 1500 * time.Millisecond,
			core.KindQuiz:       3500 * time.Millisecond,
		},
	}
}

// Runner is the sequencer. It owns the tab for the duration of Run and
// processes lessons strictly one at a time.
type Runner struct {
	Browser    core.Browser
	Platform   *platform.Platform
	Downloader core.Downloader
	Writer     *output.Writer

	// QuizRenderer renders quiz captures. Nil captures quizzes as a PNG
	// screenshot of the quiz subtree.
	QuizRenderer core.Renderer

	Timing Timing
	// SkipExisting leaves lessons whose output files all exist untouched.
	SkipExisting bool

	Logger *slog.Logger
	// Out receives the progress lines. Defaults to stdout.
	Out io.Writer
}

// Run processes the selected lessons of the course shown in the tab and
// returns the tally. Only setup failures (expanding, snapshotting, planning)
// and cancellation are returned as errors; lesson failures are recorded in
// the report and the run moves on.
func (r *Runner) Run(ctx context.Context, sel core.Selection) (*core.Report, error) {
	report := &core.Report{Platform: r.Platform.Name, StartedAt: time.Now().UTC()}
	defer func() { report.FinishedAt = time.Now().UTC() }()

	snap, active, err := r.Snapshot(ctx, !sel.CurrentOnly())
	if err != nil {
		return report, err
	}
	report.Course = snap.Course.Label()
	report.Lessons = len(snap.Lessons)

	queue, err := Plan(len(snap.Lessons), sel, active)
	if err != nil {
		return report, err
	}
	report.Selected = queue.Len()
	fmt.Fprintf(r.out(), "%s: %d chapters, %d lessons, %d selected\n",
		report.Course, len(snap.Chapters), len(snap.Lessons), queue.Len())

	limiter := rate.NewLimiter(rate.Inf, 1)
	if r.Timing.LessonInterval > 0 {
		limiter = rate.NewLimiter(rate.Every(r.Timing.LessonInterval), 1)
	}

	for i := 0; queue.HasNext(); i++ {
		position := queue.Next()
		if err := limiter.Wait(ctx); err != nil {
			return report, err
		}

		ref := snap.Lessons[position-1]
		fmt.Fprintf(r.out(), "[%d/%d] %s\n", i+1, queue.Len(), snap.NameFor(ref))

		outcome := r.process(ctx, snap, position, active, sel)
		report.Add(outcome)
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		active = position

		switch outcome.Status {
		case core.StatusFailed:
			fmt.Fprintf(r.out(), "  ✗ Error: %v\n", outcome.Err)
			r.log().Warn("lesson failed", "position", position, "error", outcome.Err)
		case core.StatusSkipped:
			fmt.Fprintf(r.out(), "  %s is skipped!\n", outcome.Name)
		default:
			for _, path := range outcome.Files {
				fmt.Fprintf(r.out(), "  ✓ Written: %s\n", path)
			}
		}

		// The page keeps loading the lesson whether or not it was saved.
		if err := sleep(ctx, r.Timing.Settle[outcome.Kind]); err != nil {
			return report, err
		}
	}

	if report.Failed > 0 {
		fmt.Fprintf(r.out(), "\n%d/%d lessons failed\n", report.Failed, report.Selected)
	}
	return report, nil
}

// Snapshot reads the course structure of the tab, expanding collapsed
// sections first when asked to and the platform has them. It also returns
// the position of the active lesson, 0 when none is.
func (r *Runner) Snapshot(ctx context.Context, expand bool) (*core.Snapshot, int, error) {
	expanded := false
	if expand && r.Platform.SectionToggle != "" {
		n, err := r.Browser.Expand(ctx, r.Platform.SectionToggle)
		if err != nil {
			return nil, 0, err
		}
		r.log().Debug("expanded sections", "count", n)
		expanded = n > 0
	}

	sess, err := r.Browser.Session(ctx)
	if err != nil {
		return nil, 0, err
	}
	state, err := r.awaitSnapshot(ctx, sess.PageURL, expanded)
	if err != nil {
		return nil, 0, err
	}
	r.log().Debug("captured course structure",
		"course", state.snap.Course.Name,
		"chapters", len(state.snap.Chapters),
		"lessons", len(state.snap.Lessons),
		"active", state.active)
	return state.snap, state.active, nil
}

// process navigates to one lesson, classifies it and downloads its
// resources. Every failure is folded into the outcome.
func (r *Runner) process(ctx context.Context, snap *core.Snapshot, position, active int, sel core.Selection) core.Outcome {
	out := core.Outcome{
		Position: position,
		Name:     snap.NameFor(snap.Lessons[position-1]).String(),
	}
	fail := func(err error) core.Outcome {
		out.Status = core.StatusFailed
		out.Err = &core.LessonError{Position: position, Name: out.Name, Err: err}
		return out
	}

	if !sel.CurrentOnly() && position != active {
		if err := r.Browser.Click(ctx, r.Platform.Lesson, r.Platform.LessonLink, position-1); err != nil {
			return fail(err)
		}
	}

	state, err := r.awaitLesson(ctx, snap, position)
	if err != nil {
		return fail(err)
	}
	lesson := state.lesson
	out.Name = lesson.FileName
	out.Kind = lesson.Kind

	if r.Platform.SupportsFilter && !sel.Filter.Admits(lesson.Kind) {
		out.Status = core.StatusSkipped
		return out
	}

	names := r.outputNames(lesson)
	if r.SkipExisting && r.allExist(names) {
		r.log().Info("already downloaded", "lesson", lesson.FileName)
		out.Status = core.StatusSkipped
		return out
	}

	files, err := r.download(ctx, state, names)
	out.Files = files
	if err != nil {
		return fail(err)
	}
	out.Status = core.StatusDownloaded
	return out
}

// outputNames lists the files a lesson produces.
func (r *Runner) outputNames(lesson *core.Lesson) []string {
	if lesson.Kind != core.KindQuiz {
		return lesson.OutputNames()
	}
	ext := "png"
	if r.QuizRenderer != nil {
		ext = r.QuizRenderer.Extension()
	}
	return []string{lesson.Name.WithExt(ext)}
}

func (r *Runner) allExist(names []string) bool {
	for _, name := range names {
		if !r.Writer.Exists(name) {
			return false
		}
	}
	return len(names) > 0
}

// download saves the lesson's resources under names and returns the
// written paths.
func (r *Runner) download(ctx context.Context, state *pageState, names []string) ([]string, error) {
	lesson := state.lesson
	if lesson.Kind == core.KindQuiz {
		data, err := r.captureQuiz(ctx, state)
		if err != nil {
			return nil, err
		}
		path, err := r.Writer.WriteFile(names[0], data)
		if err != nil {
			return nil, err
		}
		return []string{path}, nil
	}

	sess, err := r.Browser.Session(ctx)
	if err != nil {
		return nil, err
	}
	var paths []string
	for i, res := range lesson.Resources {
		r.log().Debug("fetching resource", "url", res.URL, "file", names[i])
		path, err := r.Writer.Save(names[i], func(dst io.Writer) error {
			_, err := r.Downloader.Download(ctx, res.URL, sess, dst)
			return err
		})
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// captureQuiz screenshots the quiz subtree, or converts it to Markdown and
// renders it when a renderer is configured.
func (r *Runner) captureQuiz(ctx context.Context, state *pageState) ([]byte, error) {
	lesson := state.lesson
	if r.QuizRenderer == nil {
		return r.Browser.Screenshot(ctx, lesson.CaptureSelector)
	}

	fragment, err := extract.NewCapture(lesson.CaptureSelector).Extract(state.html)
	if err != nil {
		return nil, err
	}
	markdown, err := normalize.New().Normalize(fragment)
	if err != nil {
		return nil, fmt.Errorf("%w: normalize: %v", core.ErrResourceFetch, err)
	}

	chapter := ""
	if c := lesson.Ref.Chapter; c < len(state.snap.Chapters) {
		chapter = state.snap.Chapters[c].Title
	}
	data, err := r.QuizRenderer.Render(markdown, core.CaptureMeta{
		Title:   lesson.Ref.DisplayTitle(),
		Course:  state.snap.Course.Label(),
		Chapter: chapter,
		URL:     state.snap.URL,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: render: %v", core.ErrResourceFetch, err)
	}
	return data, nil
}

func (r *Runner) out() io.Writer {
	if r.Out != nil {
		return r.Out
	}
	return os.Stdout
}

func (r *Runner) log() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

// sleep pauses for d unless ctx ends first.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
