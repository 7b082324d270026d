package host

import "time"

// Clock provides free-running millisecond and microsecond counters, which
// wrap around, and a way to wait.
type Clock interface {
	Micros() uint32
	Millis() uint32
	// Sleep waits for us microseconds, or just yields if us is 0.
	Sleep(us uint32)
}

// WallClock is a Clock counting real time since its creation.
type WallClock struct {
	start time.Time
}

func NewWallClock() *WallClock {
	return &WallClock{start: time.Now()}
}

func (c *WallClock) Micros() uint32 { return uint32(time.Since(c.start).Microseconds()) }
func (c *WallClock) Millis() uint32 { return uint32(time.Since(c.start).Milliseconds()) }

func (c *WallClock) Sleep(us uint32) {
	if us == 0 {
		return
	}
	time.Sleep(time.Duration(us) * time.Microsecond)
}

// SimClock is a simulated Clock, time only advances when Sleep is called.
type SimClock struct {
	now uint64 // microseconds
}

// NewSimClock returns a simulated clock starting at the given time.
func NewSimClock(startus uint64) *SimClock {
	return &SimClock{now: startus}
}

func (c *SimClock) Micros() uint32 { return uint32(c.now) }
func (c *SimClock) Millis() uint32 { return uint32(c.now / 1000) }

// Sleep advances the clock by us microseconds.
func (c *SimClock) Sleep(us uint32) { c.now += uint64(us) }
