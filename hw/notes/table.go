package notes

import (
	"errors"
	"fmt"
	"math"
)

// NumNotes is the number of notes in a Table.
const NumNotes = 128

// Table maps a note number to twice its frequency in Hz. Twice the frequency
// is the toggle rate of an output line producing that note.
type Table [NumNotes]uint16

// Default is the equal-tempered table tuned with A4 (note 69) at 440Hz.
var Default = Table{
	16, 17, 18, 19, 21, 22, 23, 24,
	26, 28, 29, 31, 33, 35, 37, 39,
	41, 44, 46, 49, 52, 55, 58, 62,
	65, 69, 73, 78, 82, 87, 92, 98,
	104, 110, 117, 123, 131, 139, 147, 156,
	165, 175, 185, 196, 208, 220, 233, 247,
	262, 277, 294, 311, 330, 349, 370, 392,
	415, 440, 466, 494, 523, 554, 587, 622,
	659, 698, 740, 784, 831, 880, 932, 988,
	1047, 1109, 1175, 1245, 1319, 1397, 1480, 1568,
	1661, 1760, 1865, 1976, 2093, 2217, 2349, 2489,
	2637, 2794, 2960, 3136, 3322, 3520, 3729, 3951,
	4186, 4435, 4699, 4978, 5274, 5588, 5920, 6272,
	6645, 7040, 7459, 7902, 8372, 8870, 9397, 9956,
	10548, 11175, 11840, 12544, 13290, 14080, 14917, 15804,
	16744, 17740, 18795, 19912, 21096, 22351, 23680, 25088,
}

var ErrZeroFrequency = errors.New("zero frequency")

// NewTable builds an equal-tempered table where note 69 (A4) has the given
// frequency.
func NewTable(a4 float64) (Table, error) {
	var t Table
	if !(a4 > 0) {
		return t, fmt.Errorf("invalid tuning %gHz", a4)
	}
	for n := range NumNotes {
		f2 := math.Round(2 * a4 * math.Pow(2, float64(n-69)/12))
		if f2 > math.MaxUint16 {
			return t, fmt.Errorf("tuning %gHz: note %d out of range", a4, n)
		}
		t[n] = uint16(f2)
	}
	return t, t.Validate()
}

// Freq2 returns twice the frequency of the given note.
func (t *Table) Freq2(note uint8) uint16 {
	return t[note]
}

// Validate checks that all notes have a non-zero frequency.
func (t *Table) Validate() error {
	for n, f2 := range t {
		if f2 == 0 {
			return fmt.Errorf("note %d: %w", n, ErrZeroFrequency)
		}
	}
	return nil
}

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// Name returns the scientific pitch name of a note, note 60 being C4.
func Name(note uint8) string {
	return fmt.Sprintf("%s%d", noteNames[note%12], int(note)/12-1)
}
