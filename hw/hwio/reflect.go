package hwio

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// InitRegs initializes all the registers of a register bank, that is, a
// structure containing hwio.Reg8 fields. Registers are configured through the
// "hwio" struct tag, made of comma-separated options:
//
//	offset=0x12     address of the register (only used for debugging).
//	reset=0x34      initial value of the register.
//	rcb[=Name]      read callback, method Name or ReadXXX by default, where
//	                XXX is the field name in uppercase.
//	wcb[=Name]      write callback, method Name or WriteXXX by default.
//
// Fields without the "hwio" tag are ignored.
func InitRegs(bank any) error {
	v := reflect.ValueOf(bank)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("hwio: InitRegs expects a pointer to struct, got %T", bank)
	}

	sv := v.Elem()
	st := sv.Type()
	for i := range st.NumField() {
		field := st.Field(i)
		tag, ok := field.Tag.Lookup("hwio")
		if !ok {
			continue
		}

		reg, ok := sv.Field(i).Addr().Interface().(*Reg8)
		if !ok {
			return fmt.Errorf("hwio: field %s: unsupported register type %s", field.Name, field.Type)
		}
		if err := initReg8(v, field.Name, reg, tag); err != nil {
			return fmt.Errorf("hwio: field %s: %w", field.Name, err)
		}
	}
	return nil
}

// MustInitRegs is like InitRegs but panics on error.
func MustInitRegs(bank any) {
	if err := InitRegs(bank); err != nil {
		panic(err)
	}
}

func initReg8(bank reflect.Value, name string, reg *Reg8, tag string) error {
	*reg = Reg8{Name: name}
	upper := strings.ToUpper(name)

	for _, opt := range strings.Split(tag, ",") {
		key, val, _ := strings.Cut(strings.TrimSpace(opt), "=")
		switch key {
		case "":
		case "offset":
			n, err := strconv.ParseUint(val, 0, 16)
			if err != nil {
				return fmt.Errorf("invalid offset %q: %w", val, err)
			}
			reg.Addr = uint16(n)
		case "reset":
			n, err := strconv.ParseUint(val, 0, 8)
			if err != nil {
				return fmt.Errorf("invalid reset value %q: %w", val, err)
			}
			reg.Value = uint8(n)
		case "rcb":
			m, err := callback(bank, val, "Read"+upper)
			if err != nil {
				return err
			}
			cb, ok := m.(func(uint8) uint8)
			if !ok {
				return fmt.Errorf("read callback has type %T", m)
			}
			reg.ReadCb = cb
		case "wcb":
			m, err := callback(bank, val, "Write"+upper)
			if err != nil {
				return err
			}
			cb, ok := m.(func(uint8, uint8))
			if !ok {
				return fmt.Errorf("write callback has type %T", m)
			}
			reg.WriteCb = cb
		default:
			return fmt.Errorf("unknown option %q", key)
		}
	}
	return nil
}

func callback(bank reflect.Value, name, def string) (any, error) {
	if name == "" {
		name = def
	}
	m := bank.MethodByName(name)
	if !m.IsValid() {
		return nil, fmt.Errorf("method %s not found", name)
	}
	return m.Interface(), nil
}
