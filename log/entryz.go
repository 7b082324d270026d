package log

import (
	"fmt"
	"sync"
	"time"

	"gopkg.in/Sirupsen/logrus.v0"
)

const maxZFields = 16

// EntryZ is a log entry built field by field, without allocating when the
// module/level combination is disabled (all methods accept a nil receiver).
type EntryZ struct {
	mod   Module
	lvl   Level
	msg   string
	zfbuf [maxZFields]ZField
	zfidx int
}

var entryPool = sync.Pool{
	New: func() any { return new(EntryZ) },
}

func NewEntryZ() *EntryZ {
	e := entryPool.Get().(*EntryZ)
	e.zfidx = 0
	return e
}

func (e *EntryZ) add(f ZField) *EntryZ {
	if e == nil || e.zfidx == maxZFields {
		return e
	}
	e.zfbuf[e.zfidx] = f
	e.zfidx++
	return e
}

func (e *EntryZ) Bool(key string, b bool) *EntryZ {
	f := ZField{Key: key, kind: kindBool}
	if b {
		f.num = 1
	}
	return e.add(f)
}

func (e *EntryZ) String(key, s string) *EntryZ {
	return e.add(ZField{Key: key, kind: kindString, str: s})
}

func (e *EntryZ) Int(key string, i int) *EntryZ {
	return e.add(ZField{Key: key, kind: kindInt, num: uint64(i)})
}

func (e *EntryZ) Uint8(key string, u uint8) *EntryZ   { return e.uint(key, uint64(u)) }
func (e *EntryZ) Uint16(key string, u uint16) *EntryZ { return e.uint(key, uint64(u)) }
func (e *EntryZ) Uint32(key string, u uint32) *EntryZ { return e.uint(key, uint64(u)) }

func (e *EntryZ) uint(key string, u uint64) *EntryZ {
	return e.add(ZField{Key: key, kind: kindUint, num: u})
}

func (e *EntryZ) Hex8(key string, u uint8) *EntryZ {
	return e.add(ZField{Key: key, kind: kindHex8, num: uint64(u)})
}

func (e *EntryZ) Hex16(key string, u uint16) *EntryZ {
	return e.add(ZField{Key: key, kind: kindHex16, num: uint64(u)})
}

func (e *EntryZ) Error(key string, err error) *EntryZ {
	f := ZField{Key: key, kind: kindError}
	if err != nil {
		f.val = err
	}
	return e.add(f)
}

func (e *EntryZ) Duration(key string, d time.Duration) *EntryZ {
	return e.add(ZField{Key: key, kind: kindDuration, dur: d})
}

// Stringer adds a field whose String method is only called if the entry is
// emitted.
func (e *EntryZ) Stringer(key string, s fmt.Stringer) *EntryZ {
	return e.add(ZField{Key: key, kind: kindStringer, val: s})
}

// Blob adds a field formatted as hexadecimal. b must not be modified until
// End is called.
func (e *EntryZ) Blob(key string, b []byte) *EntryZ {
	return e.add(ZField{Key: key, kind: kindBlob, raw: b})
}

// End emits the entry and recycles it.
func (e *EntryZ) End() {
	if e == nil {
		return
	}

	fields := make(logrus.Fields, e.zfidx+1)
	fields["_mod"] = e.mod.String()
	for i := range e.zfbuf[:e.zfidx] {
		fields[e.zfbuf[i].Key] = e.zfbuf[i].Value()
	}
	entry := logrus.StandardLogger().WithFields(fields)

	switch e.lvl {
	case DebugLevel:
		entry.Debug(e.msg)
	case InfoLevel:
		entry.Info(e.msg)
	case WarnLevel:
		entry.Warn(e.msg)
	case ErrorLevel:
		entry.Error(e.msg)
	case FatalLevel:
		entry.Fatal(e.msg)
	case PanicLevel:
		entry.Panic(e.msg)
	}

	clear(e.zfbuf[:e.zfidx])
	e.zfidx = 0
	entryPool.Put(e)
}
