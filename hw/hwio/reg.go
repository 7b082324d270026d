package hwio

import "fmt"

// Reg8 is an 8-bit hardware register.
type Reg8 struct {
	Name  string
	Addr  uint16
	Value uint8

	ReadCb  func(val uint8) uint8
	WriteCb func(old uint8, val uint8)
}

func (reg Reg8) String() string {
	s := fmt.Sprintf("%s@%02x{%02x", reg.Name, reg.Addr, reg.Value)
	if reg.ReadCb != nil {
		s += ",r!"
	}
	if reg.WriteCb != nil {
		s += ",w!"
	}
	return s + "}"
}

// Write8 stores val, then calls the write callback with the previous value.
func (reg *Reg8) Write8(val uint8) {
	old := reg.Value
	reg.Value = val
	if reg.WriteCb != nil {
		reg.WriteCb(old, val)
	}
}

// Read8 returns the register value, as seen through the read callback.
func (reg *Reg8) Read8() uint8 {
	if reg.ReadCb != nil {
		return reg.ReadCb(reg.Value)
	}
	return reg.Value
}

// Modify performs a read-modify-write cycle on the register, as done by the
// read-modify-write instructions of a CPU (i.e reg |= mask).
func (reg *Reg8) Modify(fn func(v *uint8)) {
	v := reg.Read8()
	fn(&v)
	reg.Write8(v)
}
