package extract

import (
	"net/url"
	"path"
	"strings"
)

// mediaExtensions are the file extensions accepted when a resource's type
// has to be guessed from its URL.
var mediaExtensions = map[string]bool{
	"mp4": true, "webm": true, "mov": true, "m4v": true,
	"mp3": true, "m4a": true, "wav": true,
	"pdf": true, "zip": true, "epub": true,
	"doc": true, "docx": true, "ppt": true, "pptx": true, "xls": true, "xlsx": true,
	"png": true, "jpg": true, "jpeg": true, "txt": true, "srt": true, "vtt": true,
}

// resolveURL resolves a potentially relative URL against the page URL.
// Fragments are dropped; non-fetchable schemes resolve to "".
func resolveURL(href string, base string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "#") {
		return ""
	}

	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base != "" {
		if b, err := url.Parse(base); err == nil {
			parsed = b.ResolveReference(parsed)
		}
	}
	parsed.Fragment = ""
	return parsed.String()
}

// extFromURL returns the lower-cased extension of a URL path when it is a
// known media extension, or "".
func extFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(parsed.Path), "."))
	if mediaExtensions[ext] {
		return ext
	}
	return ""
}

// extFromName returns the text after the last dot of an origin file name,
// or "" when the name has no extension.
func extFromName(name string) string {
	i := strings.LastIndex(name, ".")
	if i < 0 || i == len(name)-1 {
		return ""
	}
	return strings.TrimSpace(name[i+1:])
}
