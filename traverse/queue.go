// Package traverse walks a course lesson by lesson: it plans the positions
// to visit, navigates the tab to each one, waits for it to render, and hands
// the classified lesson to the download stage.
package traverse

// Queue holds the one-based course positions a run visits, in visiting
// order. A position is planned at most once.
type Queue struct {
	positions []int
	planned   map[int]struct{}
	cursor    int
}

// NewQueue returns a Queue with no planned lessons.
func NewQueue() *Queue {
	return &Queue{planned: make(map[int]struct{})}
}

// Add plans the lesson at position and reports whether it was new. A
// position listed twice on the command line is visited once, at its first
// place in the order.
func (q *Queue) Add(position int) bool {
	if _, ok := q.planned[position]; ok {
		return false
	}
	q.planned[position] = struct{}{}
	q.positions = append(q.positions, position)
	return true
}

// HasNext reports whether a planned lesson is still to be visited.
func (q *Queue) HasNext() bool {
	return q.cursor < len(q.positions)
}

// Next returns the position of the next lesson to visit.
func (q *Queue) Next() int {
	position := q.positions[q.cursor]
	q.cursor++
	return position
}

// Len is the number of lessons the run selected.
func (q *Queue) Len() int {
	return len(q.positions)
}

// All lists the selected positions in visiting order.
func (q *Queue) All() []int {
	return q.positions
}
