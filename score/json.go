package score

import (
	"fmt"

	"github.com/go-faster/jx"
)

// EncodeJSON encodes commands as a JSON array of objects:
//
//	[{"offset":0,"op":"playnote","voice":0,"note":69},{"offset":2,"op":"wait","ms":500}]
func EncodeJSON(cmds []Command) []byte {
	var e jx.Encoder
	e.ArrStart()
	for _, c := range cmds {
		e.ObjStart()
		e.FieldStart("offset")
		e.Int(c.Offset)
		e.FieldStart("op")
		e.Str(c.Kind.Mnemonic())
		switch c.Kind {
		case Wait:
			e.FieldStart("ms")
			e.Int(int(c.Wait))
		case StopNote:
			e.FieldStart("voice")
			e.Int(int(c.Voice))
		case PlayNote:
			e.FieldStart("voice")
			e.Int(int(c.Voice))
			e.FieldStart("note")
			e.Int(int(c.Note))
		}
		e.ObjEnd()
	}
	e.ArrEnd()
	return e.Bytes()
}

// DecodeJSON decodes a list of commands encoded by EncodeJSON. Offsets are
// optional and ignored.
func DecodeJSON(data []byte) ([]Command, error) {
	var cmds []Command

	d := jx.DecodeBytes(data)
	err := d.Arr(func(d *jx.Decoder) error {
		var (
			c     Command
			op    string
			voice int
			note  int
			ms    int
		)
		err := d.Obj(func(d *jx.Decoder, key string) error {
			var err error
			switch key {
			case "op":
				op, err = d.Str()
			case "voice":
				voice, err = d.Int()
			case "note":
				note, err = d.Int()
			case "ms":
				ms, err = d.Int()
			default:
				err = d.Skip()
			}
			return err
		})
		if err != nil {
			return err
		}

		kind, ok := KindByMnemonic(op)
		if !ok {
			return fmt.Errorf("command %d: unknown op %q", len(cmds), op)
		}
		c.Kind = kind
		switch {
		case voice < 0 || voice > MaxVoice:
			return fmt.Errorf("command %d: voice %d: %w", len(cmds), voice, ErrVoiceRange)
		case note < 0 || note > 0xFF:
			return fmt.Errorf("command %d: invalid note %d", len(cmds), note)
		case ms < 0 || ms > 0xFFFF:
			return fmt.Errorf("command %d: invalid wait %dms", len(cmds), ms)
		}
		c.Voice = uint8(voice)
		c.Note = uint8(note)
		c.Wait = uint16(ms)
		cmds = append(cmds, c)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("json score: %w", err)
	}
	return cmds, nil
}
