// Package score implements the bytecode format of scores: a sequence of
// commands starting notes, stopping notes and waiting.
//
//	0x00-0x7F  wait: this byte and the next one are a 15-bit big-endian
//	           number of milliseconds
//	0x8v       stop the note played by voice v
//	0x9v nn    play note nn on voice v
//	0xE0-0xEF  restart the score from the beginning
//	0xF0-0xFF  stop the score and silence all voices
package score

import (
	"errors"
	"fmt"

	"tonebox/hw/notes"
)

//go:generate go tool stringer -type=Kind

// Opcodes. The low nibble of note commands is the voice.
const (
	OpStopNote = 0x80
	OpPlayNote = 0x90
	OpRestart  = 0xE0
	OpStop     = 0xF0
)

// MaxWait is the longest wait a single command can encode, in milliseconds.
const MaxWait = 0x7FFF

// MaxVoice is the highest voice number a note command can encode.
const MaxVoice = 0x0F

var (
	ErrTruncated     = errors.New("truncated command")
	ErrUnknownOpcode = errors.New("unknown opcode")
	ErrVoiceRange    = errors.New("voice out of range")
	ErrUnterminated  = errors.New("score doesn't end with stop or restart")
	ErrEndlessLoop   = errors.New("score restarts without waiting")
)

// DecodeError reports a malformed command.
type DecodeError struct {
	Offset int   // offset of the faulty command
	Opcode uint8 // first byte of the command, 0 if Offset is past the end
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("offset %d (opcode 0x%02x): %v", e.Offset, e.Opcode, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

type Kind uint8

const (
	Wait Kind = iota
	StopNote
	PlayNote
	Restart
	Stop
)

var mnemonics = [...]string{
	Wait:     "wait",
	StopNote: "stopnote",
	PlayNote: "playnote",
	Restart:  "restart",
	Stop:     "stop",
}

// Mnemonic returns the name used for the command kind in listings.
func (k Kind) Mnemonic() string {
	if int(k) < len(mnemonics) {
		return mnemonics[k]
	}
	return k.String()
}

// KindByMnemonic is the inverse of Kind.Mnemonic.
func KindByMnemonic(s string) (Kind, bool) {
	for k, m := range mnemonics {
		if m == s {
			return Kind(k), true
		}
	}
	return 0, false
}

// Command is a decoded score command.
type Command struct {
	Offset int
	Kind   Kind
	Voice  uint8  // StopNote and PlayNote
	Note   uint8  // PlayNote
	Wait   uint16 // Wait, in milliseconds
}

// Size returns the number of bytes of the encoded command.
func (c Command) Size() int {
	switch c.Kind {
	case Wait, PlayNote:
		return 2
	}
	return 1
}

func (c Command) String() string {
	switch c.Kind {
	case Wait:
		return fmt.Sprintf("%s %dms", c.Kind.Mnemonic(), c.Wait)
	case StopNote:
		return fmt.Sprintf("%s %d", c.Kind.Mnemonic(), c.Voice)
	case PlayNote:
		return fmt.Sprintf("%s %d %s(%d)", c.Kind.Mnemonic(), c.Voice, notes.Name(c.Note), c.Note)
	}
	return c.Kind.Mnemonic()
}

// Decode decodes the command at offset off.
func Decode(b []byte, off int) (Command, error) {
	if off >= len(b) {
		return Command{}, &DecodeError{Offset: off, Err: ErrTruncated}
	}

	op := b[off]
	cmd := Command{Offset: off}
	if op < 0x80 {
		if off+1 >= len(b) {
			return cmd, &DecodeError{Offset: off, Opcode: op, Err: ErrTruncated}
		}
		cmd.Kind = Wait
		cmd.Wait = uint16(op)<<8 | uint16(b[off+1])
		return cmd, nil
	}

	switch op & 0xF0 {
	case OpStopNote:
		cmd.Kind = StopNote
		cmd.Voice = op & 0x0F
	case OpPlayNote:
		if off+1 >= len(b) {
			return cmd, &DecodeError{Offset: off, Opcode: op, Err: ErrTruncated}
		}
		cmd.Kind = PlayNote
		cmd.Voice = op & 0x0F
		cmd.Note = b[off+1]
	case OpRestart:
		cmd.Kind = Restart
	case OpStop:
		cmd.Kind = Stop
	default:
		return cmd, &DecodeError{Offset: off, Opcode: op, Err: ErrUnknownOpcode}
	}
	return cmd, nil
}
