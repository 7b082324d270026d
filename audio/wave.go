package audio

import (
	"fmt"

	"github.com/arl/blip/wave"

	"tonebox/log"
)

// maxWaveBlock is the largest number of samples wave.Writer accepts in a
// single Write.
const maxWaveBlock = 2048

// WaveSink writes samples to a WAV file.
type WaveSink struct {
	path     string
	nsamples int64
	w        *wave.Writer
}

// NewWaveSink creates a mono 16-bit WAV file at path.
func NewWaveSink(path string, sampleRate int) (*WaveSink, error) {
	w, err := wave.NewFile(path, sampleRate)
	if err != nil {
		return nil, err
	}

	log.ModAudio.InfoZ("writing wave file").
		String("path", path).
		Int("rate", sampleRate).
		End()

	return &WaveSink{path: path, w: w}, nil
}

// Samples returns the number of samples written so far.
func (ws *WaveSink) Samples() int64 { return ws.nsamples }

func (ws *WaveSink) Write(samples []int16) error {
	for len(samples) > 0 {
		n := min(len(samples), maxWaveBlock)
		if _, err := ws.w.Write(samples[:n]); err != nil {
			return fmt.Errorf("wave %s: %w", ws.path, err)
		}
		ws.nsamples += int64(n)
		samples = samples[n:]
	}
	return nil
}

// Close writes the WAV header and the samples, then closes the file.
func (ws *WaveSink) Close() error {
	if err := ws.w.Close(); err != nil {
		return fmt.Errorf("wave %s: %w", ws.path, err)
	}
	log.ModAudio.InfoZ("wave file written").
		String("path", ws.path).
		Int("samples", int(ws.nsamples)).
		End()
	return nil
}
