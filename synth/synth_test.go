package synth

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"tonebox/hw/gpio"
	"tonebox/hw/notes"
)

type fakeClock struct{ now uint32 }

func (c *fakeClock) Micros() uint32 { return c.now }

func newTestSynth(t *testing.T) (*Synth, *gpio.Recorder, *fakeClock) {
	t.Helper()

	clk := &fakeClock{}
	rec := gpio.NewRecorder(NumVoices, clk.Micros)
	s := New(rec, clk, &notes.Default)
	s.Enable()
	rec.Reset()
	return s, rec, clk
}

// run calls Tick every step microseconds, from the current clock time up to
// and including end.
func run(s *Synth, clk *fakeClock, end, step uint32) {
	for end-clk.now >= step {
		s.Tick(clk.now)
		clk.now += step
	}
	clk.now = end
	s.Tick(clk.now)
}

func toggleTimes(rec *gpio.Recorder, line int) []uint32 {
	var times []uint32
	for _, ev := range rec.Toggles(line) {
		times = append(times, ev.Time)
	}
	return times
}

func TestEnable(t *testing.T) {
	clk := &fakeClock{}
	rec := gpio.NewRecorder(NumVoices, clk.Micros)
	s := New(rec, clk, &notes.Default)

	s.StartNote(0, 69)
	s.Enable()

	if s.Voice(0).Playing() {
		t.Error("voice 0 still playing after Enable")
	}
	want := Flags{Enabled: true}
	if diff := cmp.Diff(want, s.Flags()); diff != "" {
		t.Errorf("flags mismatch (-want +got):\n%s", diff)
	}
	wantEvents := []gpio.Event{{Op: "configure"}, {Op: "alllow"}}
	if diff := cmp.Diff(wantEvents, rec.Events); diff != "" {
		t.Errorf("port events mismatch (-want +got):\n%s", diff)
	}
}

func TestStartNote(t *testing.T) {
	s, _, clk := newTestSynth(t)
	clk.now = 1234

	s.StartNote(2, 69) // A4, 880 toggles per second
	want := VoiceEvent{PeriodDuration: 1136, PeriodStartTime: 1234}
	if diff := cmp.Diff(want, s.Voice(2)); diff != "" {
		t.Errorf("voice mismatch (-want +got):\n%s", diff)
	}
}

func TestStartNoteClamp(t *testing.T) {
	s, _, _ := newTestSynth(t)

	s.StartNote(0, 200)
	s.StartNote(1, 127)
	if diff := cmp.Diff(s.Voice(1), s.Voice(0)); diff != "" {
		t.Errorf("note 200 differs from note 127 (-want +got):\n%s", diff)
	}
	if got := s.Voice(0).PeriodDuration; got != 39 {
		t.Errorf("half-period = %d, want 39", got)
	}
}

func TestInactiveVoicesNeverToggle(t *testing.T) {
	s, rec, clk := newTestSynth(t)

	run(s, clk, 100_000, 7)
	if len(rec.Events) != 0 {
		t.Errorf("got %d port events with no voice playing", len(rec.Events))
	}
	if s.Flags().Sounding {
		t.Error("sounding with no voice playing")
	}
}

func TestStartStopBeforeTick(t *testing.T) {
	s, rec, clk := newTestSynth(t)

	s.StartNote(3, 60)
	s.StopNote(3)
	run(s, clk, 50_000, 10)

	if n := len(rec.Toggles(3)); n != 0 {
		t.Errorf("voice 3 toggled %d times", n)
	}
}

func TestNoPhaseDrift(t *testing.T) {
	tests := []struct {
		name string
		step uint32
	}{
		{"step=1", 1},
		{"step=7", 7},
		{"step=113", 113},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, rec, clk := newTestSynth(t)
			clk.now = 500

			s.StartNote(1, 64) // half-period 1517µs
			const d = 1517
			run(s, clk, 500+100*d, tt.step)

			got := toggleTimes(rec, 1)
			if len(got) != 100 {
				t.Fatalf("got %d toggles, want 100", len(got))
			}
			for n, tm := range got {
				deadline := uint32(500 + (n+1)*d)
				if tm < deadline || tm-deadline >= tt.step {
					t.Fatalf("toggle %d at %d, want in [%d, %d)", n+1, tm, deadline, deadline+tt.step)
				}
			}
			if st := s.Voice(1).PeriodStartTime; st != 500+100*d {
				t.Errorf("period start = %d, want %d", st, 500+100*d)
			}
		})
	}
}

func TestLateTickCatchesUp(t *testing.T) {
	s, rec, _ := newTestSynth(t)

	s.StartNote(0, 69) // half-period 1136µs

	// A single very late tick only toggles once but keeps the phase.
	s.Tick(3 * 1136)
	if n := len(rec.Toggles(0)); n != 1 {
		t.Fatalf("got %d toggles, want 1", n)
	}
	if st := s.Voice(0).PeriodStartTime; st != 1136 {
		t.Errorf("period start = %d, want 1136", st)
	}
	s.Tick(3 * 1136)
	s.Tick(3 * 1136)
	s.Tick(3 * 1136)
	if n := len(rec.Toggles(0)); n != 3 {
		t.Fatalf("got %d toggles, want 3", n)
	}
}

func TestTickWraparound(t *testing.T) {
	s, rec, clk := newTestSynth(t)
	base := uint32(0xFFFF_FF00)
	clk.now = base

	s.StartNote(4, 69) // half-period 1136µs
	run(s, clk, base+1136*4, 3)

	got := toggleTimes(rec, 4)
	want := []uint32{base + 1136, base + 1136*2, base + 1136*3, base + 1136*4}
	if len(got) != len(want) {
		t.Fatalf("got %d toggles, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i]-want[i] >= 3 {
			t.Errorf("toggle %d at %#x, want %#x", i, got[i], want[i])
		}
	}
}

func TestSounding(t *testing.T) {
	s, _, clk := newTestSynth(t)

	s.StartNote(5, 60)
	s.Tick(clk.now)
	if !s.Flags().Sounding {
		t.Error("not sounding with a voice playing")
	}
	s.StopNote(5)
	s.Tick(clk.now)
	if s.Flags().Sounding {
		t.Error("sounding after last voice stopped")
	}
}

func TestDisable(t *testing.T) {
	s, rec, clk := newTestSynth(t)

	s.StartNote(0, 69)
	s.SetSongActive(true)
	run(s, clk, 1136, 1)
	if !rec.Levels[0] {
		t.Fatal("line 0 should be high")
	}

	s.Disable()
	s.Disable()
	if diff := cmp.Diff(Flags{}, s.Flags()); diff != "" {
		t.Errorf("flags mismatch (-want +got):\n%s", diff)
	}
	if rec.Levels[0] {
		t.Error("line 0 still high after Disable")
	}
	if !s.Voice(0).Playing() {
		t.Error("Disable should leave voices untouched")
	}

	rec.Reset()
	run(s, clk, 10_000, 1)
	if len(rec.Events) != 0 {
		t.Errorf("disabled synth produced %d port events", len(rec.Events))
	}
}
