package score

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

type midiEvent struct {
	delta uint32 // ticks, 960 per quarter note at 120 bpm: 1 tick is 0.5208ms
	msg   midi.Message
}

func writeSMF(t *testing.T, events ...midiEvent) []byte {
	t.Helper()

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(960)

	var tr smf.Track
	tr.Add(0, smf.MetaTempo(120))
	for _, ev := range events {
		tr.Add(ev.delta, ev.msg)
	}
	tr.Close(0)
	if err := s.Add(tr); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestCompileSMF(t *testing.T) {
	mid := writeSMF(t,
		midiEvent{0, midi.NoteOn(0, 60, 100)},
		midiEvent{960, midi.NoteOff(0, 60)},
	)

	got, err := CompileSMF(bytes.NewReader(mid), CompileOptions{})
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0x90, 60, 0x01, 0xF4, 0x80, 0xF0}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("CompileSMF mismatch (-want +got):\n%s", diff)
	}
}

func TestCompileSMFVoices(t *testing.T) {
	// A chord of 3 notes on 2 voices, then a note reusing the voice released
	// at the same time by a note-off.
	mid := writeSMF(t,
		midiEvent{0, midi.NoteOn(0, 60, 100)},
		midiEvent{0, midi.NoteOn(0, 64, 100)},
		midiEvent{0, midi.NoteOn(0, 67, 100)},
		midiEvent{960, midi.NoteOn(1, 72, 100)},
		midiEvent{0, midi.NoteOff(0, 60)},
		midiEvent{960, midi.NoteOff(1, 72)},
		midiEvent{0, midi.NoteOff(0, 64)},
		midiEvent{0, midi.NoteOff(0, 67)},
	)

	got, err := CompileSMF(bytes.NewReader(mid), CompileOptions{Voices: 2})
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{
		0x90, 60, 0x91, 64,
		0x01, 0xF4,
		0x80, 0x90, 72,
		0x01, 0xF4,
		0x80, 0x81,
		0xF0,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("CompileSMF mismatch (-want +got):\n%s", diff)
	}
	if err := Validate(got, 2); err != nil {
		t.Errorf("compiled score doesn't validate: %v", err)
	}
}

func TestCompileSMFPercussion(t *testing.T) {
	mid := writeSMF(t,
		midiEvent{0, midi.NoteOn(9, 36, 100)},
		midiEvent{0, midi.NoteOn(2, 48, 100)},
		midiEvent{480, midi.NoteOff(9, 36)},
		midiEvent{0, midi.NoteOff(2, 48)},
	)

	tests := []struct {
		name string
		opts CompileOptions
		want []byte
	}{
		{
			name: "skip drums",
			want: []byte{0x90, 48, 0x00, 0xFA, 0x80, 0xF0},
		},
		{
			name: "keep drums",
			opts: CompileOptions{Percussion: true},
			want: []byte{0x90, 36, 0x91, 48, 0x00, 0xFA, 0x80, 0x81, 0xF0},
		},
		{
			name: "loop",
			opts: CompileOptions{Loop: true},
			want: []byte{0x90, 48, 0x00, 0xFA, 0x80, 0xE0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CompileSMF(bytes.NewReader(mid), tt.opts)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("CompileSMF mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCompileSMFLoopHangingNote(t *testing.T) {
	mid := writeSMF(t,
		midiEvent{0, midi.NoteOn(0, 60, 100)},
		midiEvent{960, midi.NoteOn(0, 62, 100)},
	)

	got, err := CompileSMF(bytes.NewReader(mid), CompileOptions{Loop: true})
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0x90, 60, 0x01, 0xF4, 0x91, 62, 0x80, 0x81, 0xE0}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("CompileSMF mismatch (-want +got):\n%s", diff)
	}
}

func TestCompileSMFErrors(t *testing.T) {
	empty := writeSMF(t)
	if _, err := CompileSMF(bytes.NewReader(empty), CompileOptions{Loop: true}); !errors.Is(err, ErrEndlessLoop) {
		t.Errorf("CompileSMF(empty, loop) = %v, want %v", err, ErrEndlessLoop)
	}
	if _, err := CompileSMF(bytes.NewReader(empty), CompileOptions{Voices: 17}); !errors.Is(err, ErrVoiceRange) {
		t.Errorf("CompileSMF(17 voices) = %v, want %v", err, ErrVoiceRange)
	}
	if _, err := CompileSMF(bytes.NewReader([]byte("RIFF")), CompileOptions{}); err == nil {
		t.Errorf("CompileSMF(garbage) succeeded")
	}
}

func TestLoad(t *testing.T) {
	want := []byte{0x90, 60, 0x01, 0xF4, 0x80, 0xF0}
	tests := []struct {
		name string
		data []byte
	}{
		{"song.bin", want},
		{"song.c", []byte("const unsigned char s[] = { 0x90, 60, 0x01, 0xf4, 0x80, 0xf0 };")},
		{"song.JSON", []byte(`[{"op":"playnote","voice":0,"note":60},{"op":"wait","ms":500},{"op":"stopnote","voice":0},{"op":"stop"}]`)},
		{"song.mid", writeSMF(t,
			midiEvent{0, midi.NoteOn(0, 60, 100)},
			midiEvent{960, midi.NoteOff(0, 60)},
		)},
	}

	dir := t.TempDir()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name)
			if err := os.WriteFile(path, tt.data, 0o644); err != nil {
				t.Fatal(err)
			}

			got, err := Load(path, CompileOptions{})
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("Load mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if _, err := Load(filepath.Join(dir, "missing.bin"), CompileOptions{}); err == nil {
		t.Errorf("Load(missing file) succeeded")
	}
}
