package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"tonebox/audio"
	"tonebox/host"
)

// playMain plays a score in real time, until it stops or the user hits
// Ctrl-C.
func playMain(args Play, cfg host.Config) {
	if args.Backend != "" {
		backend, err := audio.ParseBackend(args.Backend)
		checkf(err, "invalid --backend")
		cfg.Audio.Backend = backend
	}

	b := loadScore(args.ScorePath)

	var opts host.Options
	opts.Loop = args.Loop
	opts.MaxDuration = args.MaxDuration
	if args.Trace != nil {
		defer args.Trace.Close()
		opts.Trace = args.Trace
	}

	h, err := host.New(cfg, host.NewWallClock())
	checkf(err, "failed to create synthesizer")

	sink, err := audio.Open(cfg.Audio.Backend, cfg.Audio.SampleRate)
	checkf(err, "failed to open audio output")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = h.Run(ctx, b, sink, opts)
	cerr := sink.Close()
	if errors.Is(err, context.Canceled) || errors.Is(err, host.ErrTimeLimit) {
		err = nil
	}
	checkf(err, "playback failed")
	checkf(cerr, "failed to close audio output")
}
