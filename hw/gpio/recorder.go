package gpio

import (
	"fmt"
	"io"
)

// An Event is a single operation recorded by a Recorder.
type Event struct {
	Op   string // "configure", "alllow" or "toggle"
	Line int    // only for "toggle"
	Time uint32 // clock time in microseconds, if the recorder has a clock
}

// Recorder is a Port keeping track of line levels and of every operation
// performed on it.
type Recorder struct {
	Levels []bool
	Events []Event

	now func() uint32
}

// NewRecorder returns a recorder for n lines. now, if not nil, timestamps
// events.
func NewRecorder(n int, now func() uint32) *Recorder {
	return &Recorder{Levels: make([]bool, n), now: now}
}

func (r *Recorder) record(op string, line int) {
	ev := Event{Op: op, Line: line}
	if r.now != nil {
		ev.Time = r.now()
	}
	r.Events = append(r.Events, ev)
}

func (r *Recorder) Configure() { r.record("configure", 0) }

func (r *Recorder) AllLow() {
	clear(r.Levels)
	r.record("alllow", 0)
}

func (r *Recorder) Toggle(line int) {
	r.Levels[line] = !r.Levels[line]
	r.record("toggle", line)
}

// Toggles returns the events of all toggles on the given line.
func (r *Recorder) Toggles(line int) []Event {
	var evs []Event
	for _, ev := range r.Events {
		if ev.Op == "toggle" && ev.Line == line {
			evs = append(evs, ev)
		}
	}
	return evs
}

// Reset forgets all recorded events.
func (r *Recorder) Reset() { r.Events = r.Events[:0] }

// Tracer is a Listener writing one line per edge.
type Tracer struct {
	W   io.Writer
	Now func() uint32
}

func (t *Tracer) Edge(line int, high bool) {
	lvl := 0
	if high {
		lvl = 1
	}
	fmt.Fprintf(t.W, "%10d line=%d level=%d\n", t.Now(), line, lvl)
}
