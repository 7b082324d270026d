package score

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tonebox/log"
)

// Load loads a score from a file. The format depends on the file extension:
//
//	.mid .midi     Standard MIDI File, compiled with opts
//	.json          list of commands (see EncodeJSON)
//	.c .h .txt     list of byte values (see ParseText)
//	anything else  raw bytecode
func Load(path string, opts CompileOptions) ([]byte, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var b []byte
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".mid", ".midi":
		b, err = CompileSMF(bytes.NewReader(buf), opts)
	case ".json":
		var cmds []Command
		if cmds, err = DecodeJSON(buf); err == nil {
			b, err = Assemble(cmds)
		}
	case ".c", ".h", ".txt":
		b, err = ParseText(bytes.NewReader(buf))
	default:
		b = buf
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	log.ModScore.InfoZ("score loaded").
		String("path", path).
		Int("size", len(b)).
		End()
	return b, nil
}
