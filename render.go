package main

import (
	"context"
	"fmt"
	"time"

	"tonebox/audio"
	"tonebox/host"
)

// renderMain renders a score into a wave file, with a simulated clock.
func renderMain(args Render, cfg host.Config) {
	b := loadScore(args.ScorePath)

	w, err := audio.NewWaveSink(args.Output, cfg.Audio.SampleRate)
	checkf(err, "failed to create wave file")

	err = host.Render(context.Background(), cfg, b, w, args.MaxDuration)
	checkf(w.Close(), "failed to write wave file")
	checkf(err, "rendering failed")

	dur := time.Duration(w.Samples()) * time.Second / time.Duration(cfg.Audio.SampleRate)
	fmt.Printf("%s: %d samples (%s)\n", args.Output, w.Samples(), dur.Round(time.Millisecond))
}
