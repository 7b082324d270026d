// Package song plays scores on a synthesizer.
//
// A Player decodes the score a few commands at a time, every time its Tick
// method is called, and only suspends on wait commands: it never blocks.
package song

import (
	"errors"

	"tonebox/log"
	"tonebox/score"
	"tonebox/synth"
)

// Errors wrapped by the *score.DecodeError returned by Player.Tick.
var (
	ErrTruncated     = score.ErrTruncated
	ErrUnknownOpcode = score.ErrUnknownOpcode
	ErrVoiceRange    = score.ErrVoiceRange
	ErrRestartLoop   = errors.New("restart loop without wait")
)

// Player is the song interpreter.
type Player struct {
	synth *synth.Synth

	score  []byte
	cursor int
	start  int

	// Decoding is suspended until delayLength milliseconds have elapsed
	// since delayStart.
	delayStart  uint32
	delayLength uint32

	stopped bool
}

// New returns a player driving s. It plays nothing until Start is called.
func New(s *synth.Synth) *Player {
	return &Player{synth: s, stopped: true}
}

// Start enables the synthesizer and starts playing a score. now is the
// current time in milliseconds, the first commands are decoded on the next
// call to Tick.
func (p *Player) Start(b []byte, now uint32) {
	p.score = b
	p.cursor = 0
	p.start = 0
	p.delayStart = now
	p.delayLength = 0
	p.stopped = false

	p.synth.Enable()
	p.synth.SetSongActive(true)

	log.ModSong.InfoZ("start song").Int("size", len(b)).End()
}

// Tick decodes and executes the score commands until the next wait or stop
// command, unless the current wait hasn't elapsed at time now, in
// milliseconds.
//
// Malformed commands are reported as a *score.DecodeError. The cursor stays on
// the faulty command, so ticking again reports the same error.
func (p *Player) Tick(now uint32) error {
	if p.stopped || now-p.delayStart < p.delayLength {
		return nil
	}

	restarted := false
	for {
		cmd, err := score.Decode(p.score, p.cursor)
		if err != nil {
			return p.fault(err)
		}

		switch cmd.Kind {
		case score.Wait:
			p.cursor += cmd.Size()
			p.delayStart = now
			p.delayLength = uint32(cmd.Wait)
			log.ModSong.DebugZ("wait").
				Int("cursor", cmd.Offset).
				Uint16("ms", cmd.Wait).
				Uint32("now", now).
				End()
			return nil

		case score.StopNote, score.PlayNote:
			if int(cmd.Voice) >= synth.NumVoices {
				return p.fault(&score.DecodeError{Offset: cmd.Offset, Opcode: p.score[cmd.Offset], Err: ErrVoiceRange})
			}
			log.ModSong.DebugZ("note").
				Stringer("cmd", cmd.Kind).
				Uint8("voice", cmd.Voice).
				Uint8("note", cmd.Note).
				End()
			if cmd.Kind == score.PlayNote {
				p.synth.StartNote(cmd.Voice, cmd.Note)
			} else {
				p.synth.StopNote(cmd.Voice)
			}
			p.cursor += cmd.Size()

		case score.Restart:
			if restarted {
				return p.fault(&score.DecodeError{Offset: cmd.Offset, Opcode: p.score[cmd.Offset], Err: ErrRestartLoop})
			}
			restarted = true
			p.cursor = p.start
			log.ModSong.DebugZ("restart").Int("cursor", cmd.Offset).End()

		case score.Stop:
			// The cursor stays on the stop command.
			p.synth.Disable()
			p.stopped = true
			log.ModSong.InfoZ("stop song").Int("cursor", cmd.Offset).End()
			return nil
		}
	}
}

func (p *Player) fault(err error) error {
	var derr *score.DecodeError
	if errors.As(err, &derr) {
		p.cursor = derr.Offset
	}
	log.ModSong.DebugZ("malformed score").
		Int("cursor", p.cursor).
		Blob("bytes", p.score[p.cursor:min(p.cursor+3, len(p.score))]).
		Error("err", err).
		End()
	return err
}

// Cursor returns the offset of the next command to decode.
func (p *Player) Cursor() int { return p.cursor }

// Stopped reports whether the player reached a stop command, or was never
// started.
func (p *Player) Stopped() bool { return p.stopped }

// Waiting reports whether decoding is suspended by a wait command at time now.
func (p *Player) Waiting(now uint32) bool {
	return !p.stopped && now-p.delayStart < p.delayLength
}
