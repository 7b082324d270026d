package audio

import (
	"fmt"
	"strings"
)

// A Sink consumes blocks of mono 16-bit samples. Write must not retain the
// slice it's given.
type Sink interface {
	Write(samples []int16) error
	Close() error
}

// Backend identifies an audio output.
type Backend string

const (
	BackendSDL  Backend = "sdl"
	BackendOto  Backend = "oto"
	BackendNone Backend = "none"
)

// Backends lists the supported backends.
var Backends = []Backend{BackendSDL, BackendOto, BackendNone}

// ParseBackend returns the backend named s, case insensitively.
func ParseBackend(s string) (Backend, error) {
	for _, b := range Backends {
		if strings.EqualFold(s, string(b)) {
			return b, nil
		}
	}
	return "", fmt.Errorf("unknown audio backend %q", s)
}

// Open opens the real-time sink of a backend.
func Open(b Backend, sampleRate int) (Sink, error) {
	switch b {
	case BackendSDL:
		return NewSDLSink(sampleRate)
	case BackendOto:
		return NewOtoSink(sampleRate)
	case BackendNone, "":
		return Discard, nil
	}
	return nil, fmt.Errorf("unknown audio backend %q", string(b))
}

type discard struct{}

func (discard) Write([]int16) error { return nil }
func (discard) Close() error        { return nil }

// Discard is a Sink dropping all samples.
var Discard Sink = discard{}
