package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"tonebox/score"
	"tonebox/synth"
)

func infosMain(args Infos) {
	b := loadScore(args.ScorePath)
	printInfos(os.Stdout, b)
}

func printInfos(w io.Writer, b []byte) {
	st, err := score.ComputeStats(b)
	if err != nil {
		fmt.Fprintf(w, "size:     %d bytes\n", st.Size)
		fmt.Fprintf(w, "status:   invalid (%v)\n", err)
		return
	}

	var voices []string
	for _, v := range st.Voices {
		voices = append(voices, fmt.Sprint(v))
	}

	fmt.Fprintf(w, "size:     %d bytes\n", st.Size)
	fmt.Fprintf(w, "commands: %d\n", st.Commands)
	fmt.Fprintf(w, "notes:    %d\n", st.Notes)
	fmt.Fprintf(w, "voices:   %s\n", strings.Join(voices, ","))
	fmt.Fprintf(w, "duration: %s\n", st.Duration)
	fmt.Fprintf(w, "loops:    %t\n", st.Loops)

	if err := score.Validate(b, synth.NumVoices); err != nil {
		fmt.Fprintf(w, "status:   invalid (%v)\n", err)
		return
	}
	fmt.Fprintf(w, "status:   ok\n")
}
