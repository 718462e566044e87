package traverse

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gaurav-prasanna/coursegrab/core"
	"github.com/gaurav-prasanna/coursegrab/core/output"
	"github.com/gaurav-prasanna/coursegrab/core/platform"
	"github.com/stretchr/testify/require"
)

const coursePage = "https://www.linkedin.com/learning/learning-go/welcome"

func videoBody(position int) string {
	return fmt.Sprintf(`<div class="classroom-media"><video src="https://files.example.com/%d.mp4"></video></div>`, position)
}

func quizBody(int) string {
	return `<div class="classroom-quiz"><div class="chapter-quiz">
  <h3>Question 1 of 1</h3><p>Which keyword starts a goroutine?</p>
</div></div>`
}

func emptyBody(int) string { return `<p>Nothing to see here.</p>` }

// fakeBrowser renders a LinkedIn classroom page for an eight-lesson course
// split into two chapters. Lesson bodies come from kinds; missing entries
// are videos.
type fakeBrowser struct {
	mu sync.Mutex

	active int
	kinds  map[int]func(int) string
	// stuck keeps clicks from changing the active lesson.
	stuck bool
	// blank serves a page without a course outline.
	blank bool

	clicks      []int
	expands     int
	screenshots int
}

func newFakeBrowser(active int) *fakeBrowser {
	return &fakeBrowser{active: active, kinds: map[int]func(int) string{}}
}

func (b *fakeBrowser) Open(context.Context, string) error { return nil }

func (b *fakeBrowser) HTML(context.Context) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.blank {
		return `<html><body><p>Sign in to continue</p></body></html>`, nil
	}

	var toc strings.Builder
	for c, title := range []string{"Introduction", "1. Basics"} {
		fmt.Fprintf(&toc, `<section class="classroom-toc-section">
  <h2><button class="classroom-toc-section__toggle" aria-expanded="true">
    <span class="classroom-toc-section__toggle-title">%s</span></button></h2><ul>`, title)
		for p := c*4 + 1; p <= c*4+4; p++ {
			class := "classroom-toc-item"
			if p == b.active {
				class += " classroom-toc-item--selected"
			}
			fmt.Fprintf(&toc, `<li class="%s"><a href="/learning/learning-go/%d"><div class="classroom-toc-item__title">Lesson %d</div></a></li>`,
				class, p, p)
		}
		toc.WriteString("</ul></section>")
	}

	body := ""
	if b.active > 0 {
		render, ok := b.kinds[b.active]
		if !ok {
			render = videoBody
		}
		body = render(b.active)
	}
	return `<html><body><div class="classroom-nav__details"><h1>Learning Go</h1></div><nav>` +
		toc.String() + `</nav><main>` + body + `</main></body></html>`, nil
}

func (b *fakeBrowser) Click(_ context.Context, _, _ string, index int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clicks = append(b.clicks, index+1)
	if !b.stuck {
		b.active = index + 1
	}
	return nil
}

func (b *fakeBrowser) Expand(context.Context, string) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.expands++
	return 0, nil
}

func (b *fakeBrowser) Screenshot(context.Context, string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.screenshots++
	return []byte("\x89PNG"), nil
}

func (b *fakeBrowser) Session(context.Context) (*core.Session, error) {
	return &core.Session{PageURL: coursePage, UserAgent: "test"}, nil
}

// fakeDownloader writes the URL as the file body. URLs listed in fail
// return a fetch error after writing a few bytes.
type fakeDownloader struct {
	mu   sync.Mutex
	urls []string
	fail map[string]bool
}

func (d *fakeDownloader) Download(_ context.Context, url string, _ *core.Session, dst io.Writer) (int64, error) {
	d.mu.Lock()
	d.urls = append(d.urls, url)
	failing := d.fail[url]
	d.mu.Unlock()

	n, err := io.WriteString(dst, url)
	if failing {
		return int64(n), fmt.Errorf("%w: connection reset", core.ErrResourceFetch)
	}
	return int64(n), err
}

func newRunner(t *testing.T, b *fakeBrowser, d *fakeDownloader) *Runner {
	t.Helper()
	w, err := output.New(t.TempDir())
	require.NoError(t, err)
	return &Runner{
		Browser:    b,
		Platform:   platform.LinkedIn,
		Downloader: d,
		Writer:     w,
		Timing: Timing{
			ReadyTimeout: 50 * time.Millisecond,
			PollInterval: time.Millisecond,
		},
		Out: io.Discard,
	}
}
