package core

import (
	"errors"
	"fmt"
)

var (
	// ErrStructuralMismatch means an expected page element is absent.
	ErrStructuralMismatch = errors.New("structural mismatch")
	// ErrResourceFetch means a network fetch or a render of a lesson resource failed.
	ErrResourceFetch = errors.New("resource fetch failure")
	// ErrUnknownLessonKind means the lesson page has no quiz, media or download markers.
	ErrUnknownLessonKind = errors.New("unknown lesson kind")
	// ErrNotReady means the page did not reach the expected state in time.
	ErrNotReady = errors.New("page not ready")
)

// Mismatch builds an ErrStructuralMismatch naming the missing element.
func Mismatch(what, selector string) error {
	return fmt.Errorf("%w: %s (%s)", ErrStructuralMismatch, what, selector)
}

// LessonError ties a pipeline failure to the lesson it happened on.
type LessonError struct {
	Position int
	Name     string
	Err      error
}

func (e *LessonError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("lesson %d: %v", e.Position, e.Err)
	}
	return fmt.Sprintf("lesson %d (%s): %v", e.Position, e.Name, e.Err)
}

func (e *LessonError) Unwrap() error {
	return e.Err
}

// InvalidSelectionError reports run parameters that cannot be satisfied.
type InvalidSelectionError struct {
	Reason string
}

func (e *InvalidSelectionError) Error() string {
	return "invalid selection: " + e.Reason
}
