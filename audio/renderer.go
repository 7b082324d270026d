// Package audio turns the edges of the voice lines into PCM samples and
// sends them to an audio device or a file.
package audio

import (
	"fmt"
	"math"

	"github.com/arl/blip"

	"tonebox/log"
)

// ClockRate is the rate of the timestamps of the edges: one tick per
// microsecond.
const ClockRate = 1_000_000

// maxFrame is the longest time frame, in clocks, covered by a single flush.
// Edges arriving later than that after the last flush, which only happens if
// the host stalls, are moved back to the end of the frame.
const maxFrame = ClockRate / 4

// Supported sample rates.
const (
	MinSampleRate = 8000
	MaxSampleRate = 192000
)

// Renderer is a gpio.Listener synthesizing the sound of the voice lines as
// seen by a speaker connected to all of them through resistors: every edge
// adds a band-limited step to the output signal.
type Renderer struct {
	buf  *blip.Buffer
	out  []int16
	sink Sink
	now  func() uint32

	amp      int32
	levels   []bool
	start    uint32 // clock time of the start of the current frame
	nsamples int64
}

// NewRenderer returns a renderer for nlines lines, timestamping edges with
// now. volume is in [0, 1], 1 being the full 16-bit range when all lines are
// high. Samples are written to sink when Flush is called.
func NewRenderer(sampleRate int, volume float64, nlines int, now func() uint32, sink Sink) (*Renderer, error) {
	switch {
	case sampleRate < MinSampleRate || sampleRate > MaxSampleRate:
		return nil, fmt.Errorf("invalid sample rate %d", sampleRate)
	case volume < 0 || volume > 1:
		return nil, fmt.Errorf("invalid volume %g, must be in [0, 1]", volume)
	case nlines <= 0:
		return nil, fmt.Errorf("invalid number of lines %d", nlines)
	}

	// Room for one frame, and some more.
	nsamples := int(int64(sampleRate) * maxFrame / ClockRate * 2)
	r := &Renderer{
		buf:    blip.NewBuffer(nsamples),
		out:    make([]int16, nsamples),
		sink:   sink,
		now:    now,
		amp:    int32(volume * math.MaxInt16 / float64(nlines)),
		levels: make([]bool, nlines),
		start:  now(),
	}
	r.buf.SetRates(ClockRate, float64(sampleRate))
	return r, nil
}

// Edge records a level change of a line at the current clock time.
func (r *Renderer) Edge(line int, high bool) {
	if r.levels[line] == high {
		return
	}
	r.levels[line] = high

	delta := r.amp
	if !high {
		delta = -delta
	}
	r.buf.AddDelta(uint64(r.elapsed(r.now())), delta)
}

func (r *Renderer) elapsed(now uint32) uint32 {
	return min(now-r.start, maxFrame)
}

// Flush ends the current time frame at clock time now and writes all the
// samples produced so far to the sink.
func (r *Renderer) Flush(now uint32) error {
	r.buf.EndFrame(int(r.elapsed(now)))
	r.start = now

	n := r.buf.ReadSamples(r.out, len(r.out), blip.Mono)
	if n == 0 {
		return nil
	}
	r.nsamples += int64(n)

	log.ModAudio.DebugZ("flush").
		Int("samples", n).
		Uint32("now", now).
		End()
	return r.sink.Write(r.out[:n])
}

// Reset silences all lines and drops pending samples.
func (r *Renderer) Reset() {
	r.buf.Clear()
	clear(r.levels)
	r.start = r.now()
}

// Samples returns the number of samples written to the sink so far.
func (r *Renderer) Samples() int64 { return r.nsamples }
