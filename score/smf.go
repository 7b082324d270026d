package score

import (
	"cmp"
	"fmt"
	"io"
	"slices"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"tonebox/log"
	"tonebox/synth"
)

// percussionChannel is the General MIDI drum channel (channel 10).
const percussionChannel = 9

// CompileOptions control the conversion of MIDI files into scores.
type CompileOptions struct {
	Voices     int  // number of voices to allocate notes to, synth.NumVoices if 0
	Loop       bool // end the score with a restart rather than a stop
	Percussion bool // keep notes of the percussion channel
}

type noteEvent struct {
	ms  int64
	on  bool
	ch  uint8
	key uint8
}

// CompileSMF converts a Standard MIDI File into a score. All tracks are
// merged, each note is allocated to the first free voice, notes arriving
// while all voices are busy are dropped.
func CompileSMF(r io.Reader, opts CompileOptions) ([]byte, error) {
	nvoices := opts.Voices
	if nvoices == 0 {
		nvoices = synth.NumVoices
	}
	if nvoices < 0 || nvoices > MaxVoice+1 {
		return nil, fmt.Errorf("%d voices: %w", nvoices, ErrVoiceRange)
	}

	var evs []noteEvent
	rd := smf.ReadTracksFrom(r).Do(func(te smf.TrackEvent) {
		var ch, key, vel uint8
		msg := midi.Message(te.Message)
		switch {
		case msg.GetNoteStart(&ch, &key, &vel):
			evs = append(evs, noteEvent{ms: te.AbsMicroSeconds / 1000, on: true, ch: ch, key: key})
		case msg.GetNoteEnd(&ch, &key):
			evs = append(evs, noteEvent{ms: te.AbsMicroSeconds / 1000, ch: ch, key: key})
		}
	})
	if err := rd.Error(); err != nil {
		return nil, fmt.Errorf("read midi: %w", err)
	}

	// Release notes before starting new ones at the same time, to free voices.
	slices.SortStableFunc(evs, func(a, b noteEvent) int {
		if c := cmp.Compare(a.ms, b.ms); c != 0 {
			return c
		}
		switch {
		case a.on == b.on:
			return 0
		case !a.on:
			return -1
		}
		return 1
	})

	type voice struct {
		busy    bool
		ch, key uint8
	}
	voices := make([]voice, nvoices)
	find := func(busy bool, ch, key uint8) int {
		for i, v := range voices {
			if v.busy == busy && (!busy || v.ch == ch && v.key == key) {
				return i
			}
		}
		return -1
	}

	var (
		b       []byte
		now     int64
		waited  bool
		dropped int
	)
	for _, ev := range evs {
		if ev.ch == percussionChannel && !opts.Percussion {
			continue
		}
		if ev.ms > now {
			b = AppendWait(b, uint32(ev.ms-now))
			now = ev.ms
			waited = true
		}

		if ev.on {
			// Retrigger a note that's already playing on the same voice.
			v := find(true, ev.ch, ev.key)
			if v < 0 {
				v = find(false, 0, 0)
			}
			if v < 0 {
				dropped++
				continue
			}
			voices[v] = voice{busy: true, ch: ev.ch, key: ev.key}
			b = append(b, OpPlayNote|uint8(v), ev.key)
			continue
		}

		if v := find(true, ev.ch, ev.key); v >= 0 {
			voices[v].busy = false
			b = append(b, OpStopNote|uint8(v))
		}
	}

	if dropped > 0 {
		log.ModScore.WarnZ("not enough voices, notes dropped").
			Int("voices", nvoices).
			Int("dropped", dropped).
			End()
	}

	if !opts.Loop {
		return append(b, OpStop), nil
	}

	if !waited {
		return nil, ErrEndlessLoop
	}
	for i, v := range voices {
		if v.busy {
			b = append(b, OpStopNote|uint8(i))
		}
	}
	return append(b, OpRestart), nil
}
