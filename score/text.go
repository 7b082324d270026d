package score

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/scanner"
)

// ParseText parses a score written as a list of byte values, in decimal or
// hexadecimal, separated by commas. C and C++ comments are allowed. If the
// text contains a C array initializer, only the values between the braces are
// read, so that scores can be loaded from C sources:
//
//	const unsigned char PROGMEM score[] = {
//		0x90,69, 1,244, // A4 for 500ms
//		0x80, 0xf0};
func ParseText(r io.Reader) ([]byte, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	braces := strings.Contains(string(src), "{")

	var (
		s     scanner.Scanner
		b     []byte
		inner bool
		serr  error
	)
	s.Init(strings.NewReader(string(src)))
	s.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanChars | scanner.ScanStrings | scanner.ScanComments | scanner.SkipComments
	s.Error = func(s *scanner.Scanner, msg string) {
		if serr == nil {
			serr = fmt.Errorf("%s: %s", s.Position, msg)
		}
	}

	for tok := s.Scan(); tok != scanner.EOF; tok = s.Scan() {
		if serr != nil {
			return nil, serr
		}

		if braces {
			switch {
			case tok == '{':
				if inner {
					return nil, fmt.Errorf("%s: nested braces", s.Position)
				}
				inner = true
				continue
			case tok == '}':
				return b, nil
			case !inner:
				continue
			}
		}

		switch tok {
		case ',':
		case scanner.Int:
			v, err := strconv.ParseUint(s.TokenText(), 0, 8)
			if err != nil {
				return nil, fmt.Errorf("%s: invalid byte value %s", s.Position, s.TokenText())
			}
			b = append(b, byte(v))
		default:
			return nil, fmt.Errorf("%s: unexpected %s", s.Position, scanner.TokenString(tok))
		}
	}
	if serr != nil {
		return nil, serr
	}
	if inner {
		return nil, fmt.Errorf("missing closing brace")
	}
	return b, nil
}

// WriteText writes a score as a C array named name, one command per line.
func WriteText(w io.Writer, name string, b []byte) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "const unsigned char PROGMEM %s[] = {\n", name)

	cmds, err := Disassemble(b)
	off := 0
	for _, c := range cmds {
		sb.WriteString("\t")
		for i := range c.Size() {
			fmt.Fprintf(&sb, "0x%02x,", b[c.Offset+i])
		}
		fmt.Fprintf(&sb, " // %s\n", c)
		off += c.Size()
	}
	if err != nil {
		fmt.Fprintf(&sb, "\t// %v\n", err)
	}

	// Unreachable or undecodable bytes are still written.
	for off < len(b) {
		end := min(off+16, len(b))
		sb.WriteString("\t")
		for _, v := range b[off:end] {
			fmt.Fprintf(&sb, "0x%02x,", v)
		}
		sb.WriteString("\n")
		off = end
	}
	sb.WriteString("};\n")

	_, err = io.WriteString(w, sb.String())
	return err
}
