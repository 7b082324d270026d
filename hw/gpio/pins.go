package gpio

import (
	"fmt"

	"tonebox/hw/hwio"
	"tonebox/log"
)

// DefaultPins are the port bits used for the voices: bits 2 to 7, leaving bits
// 0 and 1 to the serial line.
var DefaultPins = []uint{2, 3, 4, 5, 6, 7}

// Pins is a Port implemented on top of an 8-bit AVR I/O port, with one bit
// per voice.
//
// PIN reads the level of the lines. Writing ones to PIN flips the matching
// PORT bits, which is how lines are toggled. DDR selects the output lines and
// PORT drives them.
type Pins struct {
	PIN  hwio.Reg8 `hwio:"offset=0x09,rcb,wcb"`
	DDR  hwio.Reg8 `hwio:"offset=0x0a,reset=0x00,wcb"`
	PORT hwio.Reg8 `hwio:"offset=0x0b,reset=0x00,wcb"`

	bits     []uint
	mask     uint8
	listener Listener
}

// NewPins returns a port driving the given bits, one per voice line. Edges
// are reported to l, if not nil.
func NewPins(bits []uint, l Listener) (*Pins, error) {
	p := &Pins{listener: l}
	seen := uint8(0)
	for i, b := range bits {
		if b > 7 {
			return nil, fmt.Errorf("line %d: invalid port bit %d", i, b)
		}
		if hwio.GetBit8(seen, b) {
			return nil, fmt.Errorf("line %d: port bit %d used twice", i, b)
		}
		hwio.SetBit8(&seen, b)
	}
	p.bits = append(p.bits, bits...)
	p.mask = seen

	hwio.MustInitRegs(p)
	return p, nil
}

// NumLines returns the number of voice lines.
func (p *Pins) NumLines() int { return len(p.bits) }

// SetListener replaces the edge listener.
func (p *Pins) SetListener(l Listener) { p.listener = l }

func (p *Pins) Configure() {
	p.DDR.Modify(func(v *uint8) { hwio.SetBits8(v, p.mask) })
}

func (p *Pins) AllLow() {
	p.PORT.Modify(func(v *uint8) { hwio.ClearBits8(v, p.mask) })
}

func (p *Pins) Toggle(line int) {
	var v uint8
	hwio.SetBit8(&v, p.bits[line])
	p.PIN.Write8(v)
}

// High reports whether a voice line is currently high.
func (p *Pins) High(line int) bool {
	return hwio.GetBit8(p.PIN.Read8(), p.bits[line])
}

// ReadPIN returns the line levels. Output lines follow PORT, and so do
// undriven inputs, through their pull-up.
func (p *Pins) ReadPIN(uint8) uint8 { return p.PORT.Value }

func (p *Pins) WritePIN(_, val uint8) {
	p.PIN.Value = 0
	if val != 0 {
		p.PORT.Write8(p.PORT.Value ^ val)
	}
}

func (p *Pins) WriteDDR(old, val uint8) {
	log.ModPort.DebugZ("write ddr").
		Hex8("old", old).
		Hex8("val", val).
		End()
}

func (p *Pins) WritePORT(old, val uint8) {
	changed := old ^ val
	if changed == 0 {
		return
	}
	if changed&^p.DDR.Value != 0 {
		// Writing an input bit only changes its pull-up.
		log.ModPort.WarnZ("write to input pin").
			Hex8("mask", changed&^p.DDR.Value).
			End()
	}
	if p.listener == nil {
		return
	}
	for line, b := range p.bits {
		if hwio.GetBit8(changed, b) {
			p.listener.Edge(line, hwio.GetBit8(val, b))
		}
	}
}
