package traverse

import (
	"context"
	"errors"
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/cenkalti/backoff/v5"
	"github.com/gaurav-prasanna/coursegrab/core"
	"github.com/gaurav-prasanna/coursegrab/core/extract"
)

// pageState is one read of the tab that satisfied a readiness condition.
type pageState struct {
	html   string
	snap   *core.Snapshot
	active int
	lesson *core.Lesson
}

// poll retries op at the configured interval until it succeeds, returns a
// permanent error, or the readiness timeout elapses. The last error is
// returned on timeout. A zero timeout means the default one, never forever.
func poll[T any](ctx context.Context, t Timing, op backoff.Operation[T]) (T, error) {
	timeout := t.ReadyTimeout
	if timeout <= 0 {
		timeout = DefaultTiming().ReadyTimeout
	}
	return backoff.Retry(ctx, op,
		backoff.WithBackOff(backoff.NewConstantBackOff(t.PollInterval)),
		backoff.WithMaxElapsedTime(timeout),
	)
}

// read fetches and parses the current document. Browser failures are not
// worth retrying.
func (r *Runner) read(ctx context.Context) (string, *goquery.Document, error) {
	html, err := r.Browser.HTML(ctx)
	if err != nil {
		return "", nil, backoff.Permanent(err)
	}
	doc, err := extract.Parse(html)
	if err != nil {
		return "", nil, backoff.Permanent(err)
	}
	return html, doc, nil
}

// awaitSnapshot reads the course structure. A freshly opened page may still
// be rendering, so a selector miss is retried until the readiness timeout.
// When sections were just expanded the lesson list renders lazily, so the
// read is repeated until two consecutive reads agree on the lesson count.
func (r *Runner) awaitSnapshot(ctx context.Context, pageURL string, expanded bool) (*pageState, error) {
	prev := -1
	state, err := poll(ctx, r.Timing, func() (*pageState, error) {
		_, doc, err := r.read(ctx)
		if err != nil {
			return nil, err
		}
		snap, err := extract.ReadSnapshot(doc, r.Platform, pageURL)
		if err != nil {
			return nil, err
		}
		if expanded && len(snap.Lessons) != prev {
			prev = len(snap.Lessons)
			return nil, fmt.Errorf("%w: lesson list still growing (%d)", core.ErrNotReady, prev)
		}
		return &pageState{snap: snap, active: extract.ActivePosition(doc, r.Platform)}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading course structure: %w", err)
	}
	return state, nil
}

// awaitLesson waits until the lesson at position is the active one and its
// resource has rendered, then returns the classified lesson.
func (r *Runner) awaitLesson(ctx context.Context, snap *core.Snapshot, position int) (*pageState, error) {
	state, err := poll(ctx, r.Timing, func() (*pageState, error) {
		html, doc, err := r.read(ctx)
		if err != nil {
			return nil, err
		}
		if got := extract.ActivePosition(doc, r.Platform); got != position {
			return nil, fmt.Errorf("%w: lesson %d is active, want %d", core.ErrNotReady, got, position)
		}
		lesson, err := extract.Classify(doc, r.Platform, snap)
		if err != nil {
			return nil, err
		}
		return &pageState{html: html, snap: snap, active: position, lesson: lesson}, nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("waiting for lesson %d: %w", position, err)
	}
	return state, nil
}
