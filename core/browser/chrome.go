// Package browser drives a Chromium tab over the DevTools protocol with
// chromedp. It implements core.Browser: the structural reads and the few
// writes (clicks, section toggles, screenshots) the lesson pipeline needs.
package browser

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/gaurav-prasanna/coursegrab/core"
)

// Options configures how the browser is obtained.
type Options struct {
	// RemoteURL is the DevTools websocket URL of a running browser,
	// e.g. ws://127.0.0.1:9222/devtools/browser/<id>. Attaching to an
	// already logged-in browser is the usual way to run.
	RemoteURL string
	// AttachMatch selects an existing tab of the remote browser whose URL
	// contains it. Empty opens a new tab.
	AttachMatch string
	Headless    bool
	UserDataDir string
}

// Chrome is a single browser tab.
type Chrome struct {
	tab     context.Context
	cancels []context.CancelFunc
}

// New starts or connects to a browser and opens (or attaches to) a tab.
// The tab lives until Close or until ctx is cancelled.
func New(ctx context.Context, opts Options) (*Chrome, error) {
	c := &Chrome{}

	var allocCtx context.Context
	var cancel context.CancelFunc
	if opts.RemoteURL != "" {
		allocCtx, cancel = chromedp.NewRemoteAllocator(ctx, opts.RemoteURL)
	} else {
		execOpts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", opts.Headless),
		)
		if opts.UserDataDir != "" {
			execOpts = append(execOpts, chromedp.UserDataDir(opts.UserDataDir))
		}
		allocCtx, cancel = chromedp.NewExecAllocator(ctx, execOpts...)
	}
	c.cancels = append(c.cancels, cancel)

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	c.cancels = append(c.cancels, cancel)
	if err := chromedp.Run(browserCtx); err != nil {
		c.Close()
		return nil, fmt.Errorf("starting browser: %w", err)
	}

	if opts.RemoteURL == "" || opts.AttachMatch == "" {
		c.tab = browserCtx
		return c, nil
	}

	targets, err := chromedp.Targets(browserCtx)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("listing browser tabs: %w", err)
	}
	for _, t := range targets {
		if t.Type == "page" && strings.Contains(t.URL, opts.AttachMatch) {
			tabCtx, cancel := chromedp.NewContext(browserCtx, chromedp.WithTargetID(t.TargetID))
			c.cancels = append(c.cancels, cancel)
			c.tab = tabCtx
			return c, nil
		}
	}
	c.Close()
	return nil, fmt.Errorf("%w: no open tab matches %q", core.ErrStructuralMismatch, opts.AttachMatch)
}

// Close releases the tab and, for a launched browser, the process.
func (c *Chrome) Close() {
	for i := len(c.cancels) - 1; i >= 0; i-- {
		c.cancels[i]()
	}
	c.cancels = nil
}

// scoped derives a chromedp context for one call that is also cancelled
// when ctx is.
func (c *Chrome) scoped(ctx context.Context) (context.Context, context.CancelFunc) {
	tctx, cancel := context.WithCancel(c.tab)
	stop := context.AfterFunc(ctx, cancel)
	return tctx, func() {
		stop()
		cancel()
	}
}

func (c *Chrome) run(ctx context.Context, actions ...chromedp.Action) error {
	tctx, cancel := c.scoped(ctx)
	defer cancel()
	return chromedp.Run(tctx, actions...)
}

// Open navigates to url and waits for the load event.
func (c *Chrome) Open(ctx context.Context, url string) error {
	if url == "" {
		return nil
	}
	if err := c.run(ctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("opening %s: %w", url, err)
	}
	return nil
}

// HTML returns the current document's outer HTML.
func (c *Chrome) HTML(ctx context.Context) (string, error) {
	var html string
	if err := c.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("reading document: %w", err)
	}
	return html, nil
}

// Click activates the link inside the index-th element matching selector.
func (c *Chrome) Click(ctx context.Context, selector, link string, index int) error {
	var result string
	if err := c.run(ctx, chromedp.Evaluate(clickScript(selector, link, index), &result)); err != nil {
		return fmt.Errorf("clicking %s[%d]: %w", selector, index, err)
	}
	switch result {
	case "clicked":
		return nil
	case "no-link":
		return core.Mismatch(fmt.Sprintf("link of element %d", index), link)
	default:
		return core.Mismatch(fmt.Sprintf("element %d", index), selector)
	}
}

// Expand clicks every toggle matching selector whose aria-expanded is false.
func (c *Chrome) Expand(ctx context.Context, selector string) (int, error) {
	var clicked int
	if err := c.run(ctx, chromedp.Evaluate(expandScript(selector), &clicked)); err != nil {
		return 0, fmt.Errorf("expanding %s: %w", selector, err)
	}
	return clicked, nil
}

// Screenshot captures the first element matching selector as PNG.
func (c *Chrome) Screenshot(ctx context.Context, selector string) ([]byte, error) {
	var png []byte
	if err := c.run(ctx,
		chromedp.ScrollIntoView(selector, chromedp.ByQuery),
		chromedp.Screenshot(selector, &png, chromedp.NodeVisible, chromedp.ByQuery),
	); err != nil {
		return nil, fmt.Errorf("%w: capturing %s: %v", core.ErrResourceFetch, selector, err)
	}
	return png, nil
}

// Session returns the page URL, user agent and cookies of the tab.
func (c *Chrome) Session(ctx context.Context) (*core.Session, error) {
	sess := &core.Session{}
	var cookies []*network.Cookie
	err := c.run(ctx,
		chromedp.Location(&sess.PageURL),
		chromedp.Evaluate(`navigator.userAgent`, &sess.UserAgent),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			cookies, err = network.GetCookies().Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("reading session: %w", err)
	}
	for _, ck := range cookies {
		sess.Cookies = append(sess.Cookies, &http.Cookie{
			Name:   ck.Name,
			Value:  ck.Value,
			Domain: ck.Domain,
			Path:   ck.Path,
			Secure: ck.Secure,
		})
	}
	return sess, nil
}

// jsString quotes s as a JavaScript string literal.
func jsString(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.Encode(s)
	return strings.TrimSuffix(buf.String(), "\n")
}

func clickScript(selector, link string, index int) string {
	return fmt.Sprintf(`(() => {
  const el = document.querySelectorAll(%s)[%d];
  if (!el) return "missing";
  const target = %s ? el.querySelector(%s) : el;
  if (!target) return "no-link";
  target.click();
  return "clicked";
})()`, jsString(selector), index, jsString(link), jsString(link))
}

func expandScript(selector string) string {
	return fmt.Sprintf(`(() => {
  const toggles = Array.from(document.querySelectorAll(%s))
    .filter(b => b.getAttribute("aria-expanded") === "false");
  toggles.forEach(b => b.click());
  return toggles.length;
})()`, jsString(selector))
}
