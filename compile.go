package main

import (
	"fmt"
	"os"

	"tonebox/score"
)

// compileMain converts a MIDI file into a score.
func compileMain(args Compile) {
	defer args.Output.Close()

	f, err := os.Open(args.MIDIPath)
	checkf(err, "failed to open MIDI file")
	defer f.Close()

	b, err := score.CompileSMF(f, score.CompileOptions{
		Voices:     args.Voices,
		Loop:       args.Loop,
		Percussion: args.Percussion,
	})
	checkf(err, "failed to compile %s", args.MIDIPath)

	switch args.Format {
	case "bin":
		if args.Output.isTerminal() {
			fatalf("refusing to write binary output to %s, use -o FILE", args.Output)
		}
		_, err = args.Output.Write(b)
	case "c":
		err = score.WriteText(args.Output, args.Name, b)
	case "json":
		cmds, derr := score.Disassemble(b)
		checkf(derr, "compiled score is malformed")
		_, err = fmt.Fprintf(args.Output, "%s\n", score.EncodeJSON(cmds))
	}
	checkf(err, "failed to write score")
}
