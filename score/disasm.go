package score

import (
	"slices"
	"time"
)

// Disassemble decodes a score from its first byte up to and including the
// first stop or restart command. Bytes past that command are unreachable and
// ignored.
func Disassemble(b []byte) ([]Command, error) {
	var cmds []Command
	off := 0
	for {
		if off == len(b) {
			return cmds, &DecodeError{Offset: off, Err: ErrUnterminated}
		}
		cmd, err := Decode(b, off)
		if err != nil {
			return cmds, err
		}
		cmds = append(cmds, cmd)
		off += cmd.Size()

		if cmd.Kind == Stop || cmd.Kind == Restart {
			return cmds, nil
		}
	}
}

// Validate checks that a score can be played safely on a synthesizer with the
// given number of voices: all commands are well-formed, note commands address
// existing voices, the score reaches a stop command or, if it loops, waits at
// least once per iteration.
func Validate(b []byte, voices int) error {
	cmds, err := Disassemble(b)
	if err != nil {
		return err
	}

	waits := false
	for _, c := range cmds {
		switch c.Kind {
		case StopNote, PlayNote:
			if int(c.Voice) >= voices {
				return &DecodeError{Offset: c.Offset, Opcode: b[c.Offset], Err: ErrVoiceRange}
			}
		case Wait:
			waits = true
		case Restart:
			if !waits {
				return &DecodeError{Offset: c.Offset, Opcode: b[c.Offset], Err: ErrEndlessLoop}
			}
		}
	}
	return nil
}

// Stats summarizes a score.
type Stats struct {
	Size     int           // size in bytes, including unreachable bytes
	Commands int           // number of reachable commands
	Notes    int           // number of played notes
	Voices   []uint8       // voices used, sorted
	Duration time.Duration // sum of all waits, for one iteration
	Loops    bool          // whether the score ends with a restart
}

// ComputeStats disassembles a score and summarizes it.
func ComputeStats(b []byte) (Stats, error) {
	st := Stats{Size: len(b)}
	cmds, err := Disassemble(b)
	if err != nil {
		return st, err
	}

	var used [MaxVoice + 1]bool
	var ms int
	for _, c := range cmds {
		switch c.Kind {
		case Wait:
			ms += int(c.Wait)
		case PlayNote:
			st.Notes++
			used[c.Voice] = true
		case StopNote:
			used[c.Voice] = true
		case Restart:
			st.Loops = true
		}
	}
	for v, ok := range used {
		if ok {
			st.Voices = append(st.Voices, uint8(v))
		}
	}
	slices.Sort(st.Voices)
	st.Commands = len(cmds)
	st.Duration = time.Duration(ms) * time.Millisecond
	return st, nil
}
