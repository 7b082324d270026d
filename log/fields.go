package log

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"time"
)

type fieldKind uint8

const (
	kindBool fieldKind = iota + 1
	kindString
	kindInt
	kindUint
	kindHex8
	kindHex16
	kindError
	kindDuration
	kindStringer
	kindBlob
)

// A ZField is a key/value pair of an EntryZ. The value is kept unformatted
// until the entry is emitted.
type ZField struct {
	Key  string
	kind fieldKind

	num uint64 // kindBool, kindInt, kindUint, kindHex*
	str string
	dur time.Duration
	val any // kindError, kindStringer
	raw []byte
}

// Value formats the field value.
func (f *ZField) Value() string {
	switch f.kind {
	case kindBool:
		return strconv.FormatBool(f.num != 0)
	case kindString:
		return f.str
	case kindInt:
		return strconv.FormatInt(int64(f.num), 10)
	case kindUint:
		return strconv.FormatUint(f.num, 10)
	case kindHex8:
		return fmt.Sprintf("%02x", f.num)
	case kindHex16:
		return fmt.Sprintf("%04x", f.num)
	case kindError:
		if f.val == nil {
			return "<nil>"
		}
		return f.val.(error).Error()
	case kindDuration:
		return f.dur.String()
	case kindStringer:
		return f.val.(fmt.Stringer).String()
	case kindBlob:
		return hex.EncodeToString(f.raw)
	}
	return ""
}
