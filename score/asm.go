package score

import "fmt"

// Assemble encodes a list of commands. Command offsets are ignored. Waits
// longer than MaxWait are split into multiple wait commands.
func Assemble(cmds []Command) ([]byte, error) {
	var b []byte
	for i, c := range cmds {
		switch c.Kind {
		case Wait:
			if c.Wait == 0 {
				// Still suspends the player until the next tick.
				b = append(b, 0, 0)
			}
			b = AppendWait(b, uint32(c.Wait))
		case StopNote, PlayNote:
			if c.Voice > MaxVoice {
				return nil, fmt.Errorf("command %d (%s): %w", i, c.Kind.Mnemonic(), ErrVoiceRange)
			}
			if c.Kind == StopNote {
				b = append(b, OpStopNote|c.Voice)
			} else {
				b = append(b, OpPlayNote|c.Voice, c.Note)
			}
		case Restart:
			b = append(b, OpRestart)
		case Stop:
			b = append(b, OpStop)
		default:
			return nil, fmt.Errorf("command %d: invalid kind %s", i, c.Kind)
		}
	}
	return b, nil
}

// AppendWait appends wait commands for ms milliseconds. Nothing is appended if
// ms is 0.
func AppendWait(b []byte, ms uint32) []byte {
	for ms > 0 {
		n := min(ms, MaxWait)
		b = append(b, byte(n>>8), byte(n))
		ms -= n
	}
	return b
}
