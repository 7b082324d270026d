// Package host runs the song interpreter and the voice scheduler in a polling
// loop, the way a microcontroller main loop would, and renders the voice
// lines as audio.
package host

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"golang.org/x/sync/errgroup"

	"tonebox/audio"
	"tonebox/hw/gpio"
	"tonebox/hw/notes"
	"tonebox/log"
	"tonebox/song"
	"tonebox/synth"
)

// ErrTimeLimit is returned when playback is stopped after
// Options.MaxDuration.
var ErrTimeLimit = errors.New("time limit reached")

// Options control a playback.
type Options struct {
	Loop        bool          // start the score again when it stops
	MaxDuration time.Duration // stop after that long, 0 for no limit
	Trace       io.Writer     // if not nil, line transitions are written there
}

// Host owns the whole synthesizer: port, scheduler and interpreter.
type Host struct {
	cfg   Config
	clock Clock

	table  notes.Table
	pins   *gpio.Pins
	synth  *synth.Synth
	player *song.Player
}

// New builds a synthesizer from a configuration.
func New(cfg Config, clock Clock) (*Host, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	h := &Host{cfg: cfg, clock: clock}

	var err error
	if h.table, err = notes.NewTable(cfg.Synth.Tuning); err != nil {
		return nil, err
	}
	if h.pins, err = gpio.NewPins(cfg.Synth.Pins, nil); err != nil {
		return nil, err
	}
	h.synth = synth.New(h.pins, clock, &h.table)
	h.player = song.New(h.synth)
	return h, nil
}

// Synth returns the voice scheduler.
func (h *Host) Synth() *synth.Synth { return h.synth }

// Run plays a score, sending the rendered audio to sink, until the score
// stops, ctx is cancelled or the score turns out to be malformed. In all
// cases, the synthesizer is disabled when Run returns. The sink is not
// closed.
//
// Samples are handed over to sink by a separate goroutine, so that a slow
// sink doesn't delay the polling loop.
func (h *Host) Run(ctx context.Context, b []byte, sink audio.Sink, opts Options) error {
	samples := make(chan []int16, 32)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		for s := range samples {
			if err := sink.Write(s); err != nil {
				return fmt.Errorf("audio sink: %w", err)
			}
		}
		return nil
	})
	g.Go(func() error {
		defer close(samples)
		return h.loop(ctx, b, &chanSink{ctx: ctx, ch: samples}, opts)
	})
	return g.Wait()
}

func (h *Host) loop(ctx context.Context, b []byte, sink audio.Sink, opts Options) error {
	r, err := audio.NewRenderer(h.cfg.Audio.SampleRate, h.cfg.Audio.Volume, h.pins.NumLines(), h.clock.Micros, sink)
	if err != nil {
		return err
	}
	var ls gpio.Listeners
	ls = append(ls, r)
	if opts.Trace != nil {
		ls = append(ls, &gpio.Tracer{W: opts.Trace, Now: h.clock.Micros})
	}
	h.pins.SetListener(ls)
	defer h.pins.SetListener(nil)

	poll := uint32(h.cfg.Host.PollUs)
	if _, ok := h.clock.(*SimClock); ok {
		poll = uint32(h.cfg.Host.StepUs)
	}
	flushEvery := uint32(h.cfg.Audio.FlushMs) * 1000
	maxms := uint32(opts.MaxDuration.Milliseconds())

	start := h.clock.Millis()
	lastFlush := h.clock.Micros()
	h.player.Start(b, start)

	log.ModHost.InfoZ("start").
		Int("size", len(b)).
		Bool("loop", opts.Loop).
		Duration("max", opts.MaxDuration).
		Uint32("poll", poll).
		End()

	// stop silences the lines and flushes the last samples.
	stop := func(err error) error {
		h.synth.Disable()
		if ferr := r.Flush(h.clock.Micros()); err == nil {
			err = ferr
		}
		return err
	}

	for {
		if err := h.player.Tick(h.clock.Millis()); err != nil {
			h.synth.Dump()
			return stop(fmt.Errorf("play score: %w", err))
		}
		h.synth.Tick(h.clock.Micros())

		if h.player.Stopped() {
			if !opts.Loop {
				log.ModHost.InfoZ("score stopped").Int("samples", int(r.Samples())).End()
				return stop(nil)
			}
			h.player.Start(b, h.clock.Millis())
		}

		if now := h.clock.Micros(); now-lastFlush >= flushEvery {
			lastFlush = now
			if err := r.Flush(now); err != nil {
				return stop(err)
			}
			if err := ctx.Err(); err != nil {
				return stop(err)
			}
			if maxms != 0 && h.clock.Millis()-start >= maxms {
				return stop(ErrTimeLimit)
			}
		}

		h.clock.Sleep(poll)
	}
}

// chanSink sends copies of the samples on a channel.
type chanSink struct {
	ctx context.Context
	ch  chan<- []int16
}

func (s *chanSink) Write(samples []int16) error {
	select {
	case s.ch <- append([]int16(nil), samples...):
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	}
}

func (s *chanSink) Close() error { return nil }

// Render plays a score with a simulated clock, as fast as possible, and
// writes the audio to sink. It stops after maxDuration of simulated time if
// maxDuration isn't 0.
func Render(ctx context.Context, cfg Config, b []byte, sink audio.Sink, maxDuration time.Duration) error {
	h, err := New(cfg, NewSimClock(0))
	if err != nil {
		return err
	}
	err = h.Run(ctx, b, sink, Options{MaxDuration: maxDuration})
	if errors.Is(err, ErrTimeLimit) {
		log.ModHost.Infof("rendering stopped after %s", maxDuration)
		return nil
	}
	return err
}
