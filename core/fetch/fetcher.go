// Package fetch implements the Downloader interface.
// It streams lesson resources over HTTP, presenting the browser's cookies
// and user agent so the platform serves the same files it shows the user.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gaurav-prasanna/coursegrab/core"
	"github.com/go-resty/resty/v2"
)

const (
	defaultTimeout   = 30 * time.Minute
	defaultUserAgent = "coursegrab/1.0 (https://github.com/gaurav-prasanna/coursegrab)"
)

// HTTPFetcher downloads lesson resources via resty.
type HTTPFetcher struct {
	client *resty.Client
}

// New creates an HTTPFetcher. The timeout bounds a whole transfer, so it is
// sized for large videos.
func New() *HTTPFetcher {
	client := resty.New().
		SetTimeout(defaultTimeout).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(10)).
		SetHeader("User-Agent", defaultUserAgent).
		SetHeader("Accept", "*/*")
	return &HTTPFetcher{client: client}
}

// Download streams the resource at rawURL into dst and returns the number of
// bytes written. Any failure is reported as core.ErrResourceFetch. The
// request is attempted once.
func (f *HTTPFetcher) Download(ctx context.Context, rawURL string, sess *core.Session, dst io.Writer) (int64, error) {
	if strings.HasPrefix(rawURL, "blob:") || strings.HasPrefix(rawURL, "data:") {
		return 0, fmt.Errorf("%w: %s URLs live only inside the page", core.ErrResourceFetch, strings.SplitN(rawURL, ":", 2)[0])
	}
	target, err := url.Parse(rawURL)
	if err != nil {
		return 0, fmt.Errorf("%w: parsing %s: %v", core.ErrResourceFetch, rawURL, err)
	}

	req := f.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true)
	if sess != nil {
		applySession(req, sess, target)
	}

	res, err := req.Get(rawURL)
	if err != nil {
		return 0, fmt.Errorf("%w: fetching %s: %v", core.ErrResourceFetch, rawURL, err)
	}
	body := res.RawBody()
	defer body.Close()

	if res.StatusCode() < 200 || res.StatusCode() >= 300 {
		return 0, fmt.Errorf("%w: unexpected status %d for %s", core.ErrResourceFetch, res.StatusCode(), rawURL)
	}

	n, err := io.Copy(dst, body)
	if err != nil {
		return n, fmt.Errorf("%w: reading %s after %d bytes: %v", core.ErrResourceFetch, rawURL, n, err)
	}
	if res.RawResponse.ContentLength > 0 && n != res.RawResponse.ContentLength {
		return n, fmt.Errorf("%w: %s truncated at %d of %d bytes", core.ErrResourceFetch, rawURL, n, res.RawResponse.ContentLength)
	}
	return n, nil
}

func applySession(req *resty.Request, sess *core.Session, target *url.URL) {
	if sess.UserAgent != "" {
		req.SetHeader("User-Agent", sess.UserAgent)
	}
	if sess.PageURL != "" {
		req.SetHeader("Referer", sess.PageURL)
	}
	pageHost := ""
	if page, err := url.Parse(sess.PageURL); err == nil {
		pageHost = page.Hostname()
	}
	for _, c := range sess.Cookies {
		if cookieMatches(c, target, pageHost) {
			req.SetCookie(&http.Cookie{Name: c.Name, Value: c.Value})
		}
	}
}

// cookieMatches applies the RFC 6265 domain, path and secure rules. A cookie
// without a domain belongs to the host of the page it was read from.
// Redirects to other hosts drop the header in net/http.
func cookieMatches(c *http.Cookie, target *url.URL, pageHost string) bool {
	host := strings.ToLower(target.Hostname())
	domain := strings.ToLower(c.Domain)
	if domain == "" {
		domain = strings.ToLower(pageHost)
	}
	if domain == "" {
		return false
	}
	if strings.HasPrefix(domain, ".") {
		if host != domain[1:] && !strings.HasSuffix(host, domain) {
			return false
		}
	} else if host != domain {
		return false
	}

	if c.Secure && target.Scheme != "https" {
		return false
	}

	path := target.EscapedPath()
	if path == "" {
		path = "/"
	}
	if c.Path == "" || c.Path == "/" || path == c.Path {
		return true
	}
	return strings.HasPrefix(path, strings.TrimSuffix(c.Path, "/")+"/")
}
