// Package naming builds and parses the sortable lesson file names.
//
// A name has the shape
//
//	<course> [<position> - <total>] <chapter>. <chapter title> <local>. <lesson title>
//
// where position is zero-padded to the digit width of total, so a plain
// lexical sort of a directory listing follows course order.
package naming

import (
	"fmt"
	"regexp"
	"strconv"
)

// Name holds the components of a lesson file name.
type Name struct {
	Course       string
	Position     int // one-based, course-wide
	Total        int
	Chapter      int // zero-based
	ChapterTitle string
	Local        int // one-based, within the chapter
	Title        string
}

// Width is the number of digits in total.
func Width(total int) int {
	if total < 1 {
		return 1
	}
	return len(strconv.Itoa(total))
}

// IndexTag renders "position - total" with position zero-padded to the
// width of total, e.g. IndexTag(17, 342) == "017 - 342".
func IndexTag(position, total int) string {
	return fmt.Sprintf("%0*d - %d", Width(total), position, total)
}

// String composes the file base name, without extension.
func (n Name) String() string {
	return fmt.Sprintf("%s [%s] %d. %s %d. %s",
		n.Course, IndexTag(n.Position, n.Total), n.Chapter, n.ChapterTitle, n.Local, n.Title)
}

// WithExt appends a file extension; a leading dot is optional.
func (n Name) WithExt(ext string) string {
	if ext == "" {
		return n.String()
	}
	if ext[0] != '.' {
		ext = "." + ext
	}
	return n.String() + ext
}

var namePattern = regexp.MustCompile(`^(.*?) \[(\d+) - (\d+)\] (\d+)\. (.*?) (\d+)\. (.*)$`)

// Parse recovers the components of a base name produced by Name.String.
// Titles that themselves contain the " [N - M] " or " N. " tokens cannot be
// split unambiguously.
func Parse(s string) (Name, error) {
	m := namePattern.FindStringSubmatch(s)
	if m == nil {
		return Name{}, fmt.Errorf("not a lesson file name: %q", s)
	}

	total, _ := strconv.Atoi(m[3])
	if len(m[2]) != Width(total) {
		return Name{}, fmt.Errorf("index %q is not padded to the width of %d", m[2], total)
	}
	position, _ := strconv.Atoi(m[2])
	chapter, _ := strconv.Atoi(m[4])
	local, _ := strconv.Atoi(m[6])

	return Name{
		Course:       m[1],
		Position:     position,
		Total:        total,
		Chapter:      chapter,
		ChapterTitle: m[5],
		Local:        local,
		Title:        m[7],
	}, nil
}
