package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"tonebox/log"
)

// OtoSink plays samples with oto. The oto player pulls samples from a ring
// buffer, filled by Write, and plays silence when it runs dry.
type OtoSink struct {
	ctx    *oto.Context
	player *oto.Player
	ring   *ring

	sampleRate int
}

// NewOtoSink creates an oto context and starts a player.
func NewOtoSink(sampleRate int) (*OtoSink, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, fmt.Errorf("oto context: %w", err)
	}
	<-ready

	// One second of buffered audio.
	s := &OtoSink{
		ctx:        ctx,
		ring:       newRing(sampleRate * 2),
		sampleRate: sampleRate,
	}
	s.player = ctx.NewPlayer(s.ring)
	s.player.Play()

	log.ModAudio.InfoZ("oto player started").Int("rate", sampleRate).End()
	return s, nil
}

func (s *OtoSink) Write(samples []int16) error {
	if n := s.ring.write(samples); n < len(samples) {
		log.ModAudio.DebugZ("ring buffer full, samples dropped").
			Int("dropped", len(samples)-n).
			End()
	}
	return nil
}

// Close waits for the buffered samples to be played and stops the player.
func (s *OtoSink) Close() error {
	queued := time.Duration(s.ring.len()/2) * time.Second / time.Duration(s.sampleRate)
	deadline := time.Now().Add(queued + 100*time.Millisecond)
	for s.ring.len() > 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	return s.player.Close()
}

// ring is a fixed size FIFO of little-endian 16-bit samples, implementing
// io.Reader for the oto player.
type ring struct {
	mu   sync.Mutex
	buf  []byte
	r, n int
}

func newRing(size int) *ring {
	return &ring{buf: make([]byte, size)}
}

func (rb *ring) len() int {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.n
}

// write appends as many samples as possible and returns how many were.
func (rb *ring) write(samples []int16) int {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	free := (len(rb.buf) - rb.n) / 2
	samples = samples[:min(free, len(samples))]
	w := (rb.r + rb.n) % len(rb.buf)
	for _, s := range samples {
		rb.buf[w] = byte(s)
		rb.buf[(w+1)%len(rb.buf)] = byte(s >> 8)
		w = (w + 2) % len(rb.buf)
	}
	rb.n += len(samples) * 2
	return len(samples)
}

// Read never blocks: missing samples are replaced by silence.
func (rb *ring) Read(p []byte) (int, error) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	n := min(len(p), rb.n)
	for i := range n {
		p[i] = rb.buf[(rb.r+i)%len(rb.buf)]
	}
	rb.r = (rb.r + n) % len(rb.buf)
	rb.n -= n
	clear(p[n:])
	return len(p), nil
}
