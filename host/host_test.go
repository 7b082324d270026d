package host

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"tonebox/audio"
	"tonebox/song"
)

type captureSink struct {
	samples []int16
	err     error
}

func (c *captureSink) Write(samples []int16) error {
	if c.err != nil {
		return c.err
	}
	c.samples = append(c.samples, samples...)
	return nil
}

func (c *captureSink) Close() error { return nil }

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Audio.Backend = audio.BackendNone
	return cfg
}

func TestRunTrace(t *testing.T) {
	h, err := New(testConfig(), NewSimClock(0))
	if err != nil {
		t.Fatal(err)
	}

	// A4 for 100ms.
	b := []byte{0x90, 69, 0x00, 0x64, 0x80, 0xF0}
	var trace bytes.Buffer
	sink := &captureSink{}
	if err := h.Run(context.Background(), b, sink, Options{Trace: &trace}); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(trace.String()), "\n")
	// Half-period of 1136us, the first edge happens on the first poll after
	// it, polls are 10us apart.
	if len(lines) != 88 {
		t.Errorf("got %d edges, want 88", len(lines))
	}
	if want := "      1140 line=0 level=1"; lines[0] != want {
		t.Errorf("first edge = %q, want %q", lines[0], want)
	}
	if want := "      2280 line=0 level=0"; lines[1] != want {
		t.Errorf("second edge = %q, want %q", lines[1], want)
	}

	if n := len(sink.samples); n < 4409 || n > 4411 {
		t.Errorf("rendered %d samples, want 4410", n)
	}
	if h.Synth().Flags().Enabled {
		t.Errorf("synth still enabled after Run")
	}
}

func TestRender(t *testing.T) {
	tests := []struct {
		name        string
		b           []byte
		maxDuration time.Duration
		wantMs      int
	}{
		{
			name:   "stops",
			b:      []byte{0x90, 60, 0x00, 0x32, 0x91, 64, 0x00, 0x32, 0xF0},
			wantMs: 100,
		},
		{
			name:        "loops",
			b:           []byte{0x90, 69, 0x00, 0x0A, 0x80, 0xE0},
			maxDuration: 50 * time.Millisecond,
			wantMs:      50,
		},
		{
			name:        "longer than limit",
			b:           []byte{0x90, 69, 0x7F, 0xFF, 0xF0},
			maxDuration: 30 * time.Millisecond,
			wantMs:      30,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.Audio.SampleRate = 8000

			sink := &captureSink{}
			if err := Render(context.Background(), cfg, tt.b, sink, tt.maxDuration); err != nil {
				t.Fatal(err)
			}

			want := tt.wantMs * 8
			if n := len(sink.samples); n < want-1 || n > want+1 {
				t.Errorf("rendered %d samples, want %d", n, want)
			}
		})
	}
}

func TestRunMalformed(t *testing.T) {
	h, err := New(testConfig(), NewSimClock(0))
	if err != nil {
		t.Fatal(err)
	}

	err = h.Run(context.Background(), []byte{0x90, 69, 0x00, 0x05, 0xA0}, audio.Discard, Options{})
	if !errors.Is(err, song.ErrUnknownOpcode) {
		t.Errorf("Run() = %v, want %v", err, song.ErrUnknownOpcode)
	}
	if h.Synth().Flags().Enabled {
		t.Errorf("synth still enabled after a malformed score")
	}
}

func TestRunCancel(t *testing.T) {
	h, err := New(testConfig(), NewSimClock(0))
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = h.Run(ctx, []byte{0x90, 69, 0x7F, 0xFF, 0xF0}, audio.Discard, Options{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() = %v, want %v", err, context.Canceled)
	}
}

func TestRunSinkError(t *testing.T) {
	h, err := New(testConfig(), NewSimClock(0))
	if err != nil {
		t.Fatal(err)
	}

	errDevice := errors.New("device unplugged")
	err = h.Run(context.Background(), []byte{0x90, 69, 0x7F, 0xFF, 0xF0}, &captureSink{err: errDevice}, Options{})
	if !errors.Is(err, errDevice) {
		t.Errorf("Run() = %v, want %v", err, errDevice)
	}
}

func TestSimClock(t *testing.T) {
	c := NewSimClock(0xFFFF_FFFF - 5)
	c.Sleep(10)

	got := []uint32{c.Micros(), c.Millis()}
	want := []uint32{4, 4294967}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("clock mismatch (-want +got):\n%s", diff)
	}
}

func TestWallClock(t *testing.T) {
	c := NewWallClock()
	t0 := c.Micros()
	c.Sleep(2000)
	if d := c.Micros() - t0; d < 2000 {
		t.Errorf("slept %dus, want at least 2000us", d)
	}
}
