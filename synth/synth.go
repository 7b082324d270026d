// Package synth generates square waves on a set of output lines by toggling
// each line every half-period, under cooperative polling.
package synth

import (
	"tonebox/hw/gpio"
	"tonebox/log"
)

// NumVoices is the number of independent voices.
const NumVoices = 6

// MaxNote is the highest playable note, higher notes are clamped to it.
const MaxNote = 127

// Clock provides a free-running microsecond counter, which wraps around.
type Clock interface {
	Micros() uint32
}

// FrequencyTable maps a note to twice its frequency in Hz. It must never
// return 0 for notes in [0, MaxNote].
type FrequencyTable interface {
	Freq2(note uint8) uint16
}

// VoiceEvent is the state of a voice. A voice is playing if and only if
// PeriodDuration is not 0.
type VoiceEvent struct {
	PeriodDuration  uint32 // half-period in microseconds
	PeriodStartTime uint32 // start of the current half-period, in microseconds
}

// Playing reports whether the voice is producing a tone.
func (ev VoiceEvent) Playing() bool { return ev.PeriodDuration != 0 }

// Flags are informational: they tell callers what the synthesizer is doing.
type Flags struct {
	Enabled    bool // the synthesizer drives the output lines
	Sounding   bool // at least one voice is playing
	SongActive bool // a score is being played
}

// Synth is the voice scheduler.
type Synth struct {
	port  gpio.Port
	clock Clock
	freqs FrequencyTable

	voices [NumVoices]VoiceEvent
	flags  Flags
}

// New returns a disabled synthesizer driving port.
func New(port gpio.Port, clock Clock, freqs FrequencyTable) *Synth {
	return &Synth{
		port:  port,
		clock: clock,
		freqs: freqs,
	}
}

// Enable silences all voices, configures the output lines and drives them low.
func (s *Synth) Enable() {
	s.port.Configure()
	s.port.AllLow()
	s.flags = Flags{Enabled: true}
	clear(s.voices[:])

	log.ModSynth.InfoZ("enabled").End()
}

// Disable drives all output lines low. Voices are left as they are but nothing
// is toggled until the synthesizer is enabled again.
func (s *Synth) Disable() {
	s.flags = Flags{}
	s.port.AllLow()

	log.ModSynth.InfoZ("disabled").End()
}

// StartNote starts playing a note on a voice, which must be lower than
// NumVoices. Notes above MaxNote are clamped.
func (s *Synth) StartNote(voice, note uint8) {
	note = min(note, MaxNote)

	ev := &s.voices[voice]
	ev.PeriodDuration = 1_000_000 / uint32(s.freqs.Freq2(note))
	ev.PeriodStartTime = s.clock.Micros()

	log.ModSynth.DebugZ("start note").
		Uint8("voice", voice).
		Uint8("note", note).
		Uint32("half-period", ev.PeriodDuration).
		Uint32("start", ev.PeriodStartTime).
		End()
}

// StopNote immediately silences a voice.
func (s *Synth) StopNote(voice uint8) {
	s.voices[voice].PeriodDuration = 0

	log.ModSynth.DebugZ("stop note").Uint8("voice", voice).End()
}

// Tick toggles the lines of the voices whose half-period has elapsed at time
// now, in microseconds. It must be called repeatedly, at a rate well above the
// toggle rate of the highest note being played.
//
// A disabled synthesizer never toggles its lines, even for voices still
// holding a half-period. Enable silences those voices, so they never resume.
func (s *Synth) Tick(now uint32) {
	if !s.flags.Enabled {
		return
	}

	s.flags.Sounding = false
	for v := range s.voices {
		ev := &s.voices[v]
		if ev.PeriodDuration == 0 {
			continue
		}
		s.flags.Sounding = true

		// Advance from the previous deadline rather than from now, so that
		// late ticks don't accumulate phase drift.
		if now-ev.PeriodStartTime >= ev.PeriodDuration {
			s.port.Toggle(v)
			ev.PeriodStartTime += ev.PeriodDuration
		}
	}
}

// Voice returns the state of a voice.
func (s *Synth) Voice(voice uint8) VoiceEvent { return s.voices[voice] }

// Flags returns the current state flags.
func (s *Synth) Flags() Flags { return s.flags }

// SetSongActive is used by the song player to report whether a score is
// being played.
func (s *Synth) SetSongActive(active bool) {
	s.flags.SongActive = active
}

// Dump logs the state of all voices.
func (s *Synth) Dump() {
	for v, ev := range s.voices {
		log.ModSynth.InfoZ("voice").
			Int("voice", v).
			Bool("playing", ev.Playing()).
			Uint32("half-period", ev.PeriodDuration).
			Uint32("start", ev.PeriodStartTime).
			End()
	}
}
