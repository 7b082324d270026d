package main

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestListing(t *testing.T) {
	b := []byte{0x00, 0x64, 0x92, 0x40, 0x82, 0xF0, 0x12, 0x34}

	want := "" +
		"0000  00 64  wait      100ms\n" +
		"0002  92 40  playnote  2 E4 (64)\n" +
		"0004  82     stopnote  2\n" +
		"0005  f0     stop      \n" +
		"0006  12 34 ; unreachable\n"
	if diff := cmp.Diff(want, listing(b, plainStyles())); diff != "" {
		t.Errorf("listing mismatch (-want +got):\n%s", diff)
	}
}

func TestListingMalformed(t *testing.T) {
	b := []byte{0x90, 0x45, 0xC0, 0xF0}

	want := "" +
		"0000  90 45  playnote  0 A4 (69)\n" +
		"offset 2 (opcode 0xc0): unknown opcode\n" +
		"0002  c0 f0 ; unreachable\n"
	if diff := cmp.Diff(want, listing(b, plainStyles())); diff != "" {
		t.Errorf("listing mismatch (-want +got):\n%s", diff)
	}
}

func TestPrintInfos(t *testing.T) {
	tests := []struct {
		name string
		b    []byte
		want string
	}{
		{
			name: "valid",
			b:    []byte{0x90, 0x45, 0x93, 0x48, 0x01, 0xF4, 0x80, 0x83, 0xE0},
			want: `size:     9 bytes
commands: 6
notes:    2
voices:   0,3
duration: 500ms
loops:    true
status:   ok
`,
		},
		{
			name: "voice out of range",
			b:    []byte{0x97, 0x45, 0x01, 0xF4, 0xF0},
			want: `size:     5 bytes
commands: 3
notes:    1
voices:   7
duration: 500ms
loops:    false
status:   invalid (offset 0 (opcode 0x97): voice out of range)
`,
		},
		{
			name: "truncated",
			b:    []byte{0x90},
			want: `size:     1 bytes
status:   invalid (offset 0 (opcode 0x90): truncated command)
`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			printInfos(&buf, tt.b)
			if diff := cmp.Diff(tt.want, buf.String()); diff != "" {
				t.Errorf("printInfos mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
