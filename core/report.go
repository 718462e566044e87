package core

import "time"

// Status is the result of processing one lesson.
type Status string

const (
	StatusDownloaded Status = "downloaded"
	StatusSkipped    Status = "skipped"
	StatusFailed     Status = "failed"
)

// Outcome records what happened to one selected lesson.
type Outcome struct {
	Position int          `json:"position"`
	Name     string       `json:"name,omitempty"`
	Kind     ResourceKind `json:"kind,omitempty"`
	Status   Status       `json:"status"`
	Files    []string     `json:"files,omitempty"`
	Err      error        `json:"-"`
	Error    string       `json:"error,omitempty"`
}

// Report is the aggregate result of a run.
type Report struct {
	Course     string    `json:"course"`
	Platform   string    `json:"platform"`
	Lessons    int       `json:"lessons"`
	Selected   int       `json:"selected"`
	Downloaded int       `json:"downloaded"`
	Skipped    int       `json:"skipped"`
	Failed     int       `json:"failed"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Outcomes   []Outcome `json:"outcomes"`
}

// Add records an outcome and updates the tally.
func (r *Report) Add(o Outcome) {
	switch o.Status {
	case StatusDownloaded:
		r.Downloaded++
	case StatusSkipped:
		r.Skipped++
	case StatusFailed:
		r.Failed++
		if o.Err != nil && o.Error == "" {
			o.Error = o.Err.Error()
		}
	}
	r.Outcomes = append(r.Outcomes, o)
}
