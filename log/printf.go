package log

import "gopkg.in/Sirupsen/logrus.v0"

// printf logs a formatted message if level is enabled for the module. Use it
// for rare messages only: unlike the Z functions, arguments are always
// evaluated.
func (mod Module) printf(level Level, format string, args ...any) {
	if !mod.Enabled(level) {
		return
	}
	e := logrus.StandardLogger().WithField("_mod", mod.String())
	switch level {
	case DebugLevel:
		e.Debugf(format, args...)
	case InfoLevel:
		e.Infof(format, args...)
	case WarnLevel:
		e.Warnf(format, args...)
	case ErrorLevel:
		e.Errorf(format, args...)
	case FatalLevel:
		e.Fatalf(format, args...)
	}
}

func (mod Module) Debugf(format string, args ...any) { mod.printf(DebugLevel, format, args...) }
func (mod Module) Infof(format string, args ...any)  { mod.printf(InfoLevel, format, args...) }
func (mod Module) Warnf(format string, args ...any)  { mod.printf(WarnLevel, format, args...) }
func (mod Module) Errorf(format string, args ...any) { mod.printf(ErrorLevel, format, args...) }
func (mod Module) Fatalf(format string, args ...any) { mod.printf(FatalLevel, format, args...) }
