package platform

import (
	"regexp"
	"strings"
)

var (
	whitespace    = regexp.MustCompile(`\s+`)
	underscoreGap = regexp.MustCompile(`\s+_*\s*`)
	dottedOrdinal = regexp.MustCompile(`^\d+\s*[-.]\s`)
	dashedOrdinal = regexp.MustCompile(`^\d+-\s`)
	clockDuration = regexp.MustCompile(`\((\d+):(\d+)\)`)
)

// FirstLine returns the first non-blank line of s, trimmed. Rendered titles
// often carry badges or status text on the following lines.
func FirstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return whitespace.ReplaceAllString(line, " ")
		}
	}
	return ""
}

// Collapse folds every whitespace run into a single space and trims.
func Collapse(s string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

// StripSpace removes all whitespace.
func StripSpace(s string) string {
	return whitespace.ReplaceAllString(s, "")
}

// replaceFirst replaces only the leftmost match of re.
func replaceFirst(re *regexp.Regexp, s, repl string) string {
	loc := re.FindStringSubmatchIndex(s)
	if loc == nil {
		return s
	}
	var dst []byte
	dst = re.ExpandString(dst, repl, s, loc)
	return s[:loc[0]] + string(dst) + s[loc[1]:]
}
