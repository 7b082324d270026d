package audio

import (
	"fmt"
	"time"
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"

	"tonebox/log"
)

const (
	sdlFormat     = sdl.AUDIO_S16LSB
	sdlBufferSize = 1024 // samples
)

// SDLSink queues samples to an SDL audio device.
type SDLSink struct {
	dev        sdl.AudioDeviceID
	sampleRate int
}

// NewSDLSink opens the default SDL audio device.
func NewSDLSink(sampleRate int) (*SDLSink, error) {
	if err := sdl.InitSubSystem(sdl.INIT_AUDIO); err != nil {
		return nil, fmt.Errorf("sdl audio init: %w", err)
	}

	want := sdl.AudioSpec{
		Freq:     int32(sampleRate),
		Format:   sdlFormat,
		Channels: 1,
		Samples:  sdlBufferSize,
	}
	var got sdl.AudioSpec
	dev, err := sdl.OpenAudioDevice("", false, &want, &got, 0)
	if err != nil {
		sdl.QuitSubSystem(sdl.INIT_AUDIO)
		return nil, fmt.Errorf("sdl open audio device: %w", err)
	}
	sdl.PauseAudioDevice(dev, false)

	log.ModAudio.InfoZ("sdl audio device opened").
		Int("rate", int(got.Freq)).
		Int("channels", int(got.Channels)).
		Int("samples", int(got.Samples)).
		End()

	return &SDLSink{dev: dev, sampleRate: sampleRate}, nil
}

func (s *SDLSink) Write(samples []int16) error {
	if len(samples) == 0 {
		return nil
	}
	// SDL copies the queued data.
	buf := unsafe.Slice((*byte)(unsafe.Pointer(&samples[0])), len(samples)*2)
	if err := sdl.QueueAudio(s.dev, buf); err != nil {
		log.ModAudio.DebugZ("failed to queue audio buffer").Error("err", err).End()
		return err
	}
	return nil
}

// Close waits for the queued samples to be played and closes the device.
func (s *SDLSink) Close() error {
	queued := time.Duration(sdl.GetQueuedAudioSize(s.dev)/2) * time.Second / time.Duration(s.sampleRate)
	deadline := time.Now().Add(queued + 100*time.Millisecond)
	for sdl.GetQueuedAudioSize(s.dev) > 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	sdl.CloseAudioDevice(s.dev)
	sdl.QuitSubSystem(sdl.INIT_AUDIO)
	return nil
}
