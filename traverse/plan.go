package traverse

import (
	"fmt"

	"github.com/gaurav-prasanna/coursegrab/core"
)

// Plan turns a selection into the ordered positions to visit.
//
// A zero Start means the active lesson only; Count and Positions are then
// ignored. Explicit positions are visited in course order whatever order
// they were given in. Otherwise positions run from Start to the end of the
// course, at most Count of them.
func Plan(total int, sel core.Selection, active int) (*Queue, error) {
	q := NewQueue()

	if sel.Start < 0 {
		return nil, &core.InvalidSelectionError{Reason: fmt.Sprintf("start %d is negative", sel.Start)}
	}
	if sel.Count < 0 {
		return nil, &core.InvalidSelectionError{Reason: fmt.Sprintf("count %d is negative", sel.Count)}
	}

	if sel.CurrentOnly() {
		if active < 1 || active > total {
			return nil, fmt.Errorf("%w: no lesson is active on the page", core.ErrStructuralMismatch)
		}
		q.Add(active)
		return q, nil
	}

	if len(sel.Positions) > 0 {
		wanted := make(map[int]bool, len(sel.Positions))
		for _, p := range sel.Positions {
			if p < 1 || p > total {
				return nil, &core.InvalidSelectionError{
					Reason: fmt.Sprintf("lesson %d is outside the course (1-%d)", p, total),
				}
			}
			wanted[p] = true
		}
		for p := 1; p <= total; p++ {
			if wanted[p] {
				q.Add(p)
			}
		}
		return q, nil
	}

	for p := sel.Start; p <= total; p++ {
		if sel.Count > 0 && q.Len() >= sel.Count {
			break
		}
		q.Add(p)
	}
	return q, nil
}
