package hwio

import "testing"

type test1 struct {
	Reg1   Reg8 `hwio:"offset=0x111,reset=0x23,wcb"`
	Reg2   Reg8 `hwio:"offset=0x444,rcb"`
	Reg3   Reg8 `hwio:"reset=0x80,rcb=ReadThird"`
	called bool
}

func (t *test1) WriteREG1(old, val uint8) {
	t.called = true
}

func (t *test1) ReadREG2(val uint8) uint8 {
	return val | 1
}

func (t *test1) ReadThird(val uint8) uint8 {
	return val >> 7
}

func TestReflect(t *testing.T) {
	ts := &test1{}

	err := InitRegs(ts)
	if err != nil {
		t.Fatal(err)
	}

	t.Log(ts)
	if ts.Reg1.Name != "Reg1" || ts.Reg2.Name != "Reg2" {
		t.Error("invalid names:", ts.Reg1, ts.Reg2)
	}
	if ts.Reg1.Addr != 0x111 || ts.Reg2.Addr != 0x444 {
		t.Errorf("invalid addresses: %x %x", ts.Reg1.Addr, ts.Reg2.Addr)
	}

	if ts.Reg2.Read8() != 1 {
		t.Error("invalid read8:", ts.Reg2.Read8())
	}

	val := ts.Reg1.Read8()
	if val != 0x23 {
		t.Error("invalid read8", val)
	}

	ts.Reg1.Write8(0x42)
	if ts.Reg1.Value != 0x42 {
		t.Error("invalid read after write", ts.Reg1.Value)
	}
	if !ts.called {
		t.Error("callback not called")
	}

	if ts.Reg3.Value != 0x80 || ts.Reg3.Read8() != 1 {
		t.Errorf("named read callback: value %x, read %x", ts.Reg3.Value, ts.Reg3.Read8())
	}
}

type badcb struct {
	Reg Reg8 `hwio:"wcb"`
}

type badcbtype struct {
	Reg Reg8 `hwio:"rcb=WriteREG"`
}

func (b *badcbtype) WriteREG(old, val uint8) {}

type badopt struct {
	Reg Reg8 `hwio:"readonly"`
}

type badreset struct {
	Reg Reg8 `hwio:"reset=0x100"`
}

type badtype struct {
	Reg uint8 `hwio:"offset=1"`
}

func TestReflectErrors(t *testing.T) {
	for _, bank := range []any{&badcb{}, &badcbtype{}, &badopt{}, &badreset{}, &badtype{}, badcb{}} {
		if err := InitRegs(bank); err == nil {
			t.Errorf("InitRegs(%T) should have failed", bank)
		} else {
			t.Log(err)
		}
	}
}
