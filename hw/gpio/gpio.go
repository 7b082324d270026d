// Package gpio provides the digital output lines the synthesizer toggles to
// produce square waves.
package gpio

// Port is a fixed set of digital output lines, one per voice.
type Port interface {
	// Configure sets the voice lines as outputs, leaving other lines unchanged.
	Configure()
	// AllLow drives all the voice lines low.
	AllLow()
	// Toggle flips the state of a single line, leaving the others unchanged.
	Toggle(line int)
}

// A Listener is notified of every level change of a voice line.
type Listener interface {
	Edge(line int, high bool)
}

// Listeners fans out edges to multiple listeners.
type Listeners []Listener

func (ls Listeners) Edge(line int, high bool) {
	for _, l := range ls {
		l.Edge(line, high)
	}
}
