package main

import (
	"fmt"
	"os"
	"strings"

	"tonebox/hw/notes"
	"tonebox/score"
)

func disasmMain(args Disasm) {
	b := loadScore(args.ScorePath)

	if args.JSON {
		cmds, err := score.Disassemble(b)
		os.Stdout.Write(score.EncodeJSON(cmds))
		fmt.Println()
		checkf(err, "malformed score")
		return
	}

	fmt.Print(listing(b, newStyles()))
}

// listing returns the disassembly of a score, one command per line. Bytes
// following the end of the score, or a malformed command, are dumped as is.
func listing(b []byte, st styles) string {
	var sb strings.Builder

	cmds, err := score.Disassemble(b)
	off := 0
	for _, c := range cmds {
		var hex []string
		for _, v := range b[c.Offset : c.Offset+c.Size()] {
			hex = append(hex, fmt.Sprintf("%02x", v))
		}
		fmt.Fprintf(&sb, "%s  %s %s %s\n",
			st.offset.Render(fmt.Sprintf("%04x", c.Offset)),
			st.bytes.Render(fmt.Sprintf("%-6s", strings.Join(hex, " "))),
			st.mnemonic.Render(fmt.Sprintf("%-9s", c.Kind.Mnemonic())),
			st.operand.Render(operands(c)))
		off += c.Size()
	}
	if err != nil {
		sb.WriteString(st.err.Render(err.Error()))
		sb.WriteString("\n")
	}

	for ; off < len(b); off += 8 {
		end := min(off+8, len(b))
		var hex []string
		for _, v := range b[off:end] {
			hex = append(hex, fmt.Sprintf("%02x", v))
		}
		fmt.Fprintf(&sb, "%s  %s\n",
			st.offset.Render(fmt.Sprintf("%04x", off)),
			st.comment.Render(strings.Join(hex, " ")+" ; unreachable"))
	}
	return sb.String()
}

func operands(c score.Command) string {
	switch c.Kind {
	case score.Wait:
		return fmt.Sprintf("%dms", c.Wait)
	case score.StopNote:
		return fmt.Sprintf("%d", c.Voice)
	case score.PlayNote:
		return fmt.Sprintf("%d %s (%d)", c.Voice, notes.Name(c.Note), c.Note)
	}
	return ""
}
