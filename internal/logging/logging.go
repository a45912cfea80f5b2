package logging

import (
	"fmt"
	"log"
)

// Severity classifies a log message.
type Severity int

const (
	Info Severity = iota
	Warn
	Error
)

// Prefix returns the console marker used for a severity.
func (s Severity) Prefix() string {
	switch s {
	case Warn:
		return "[!]"
	case Error:
		return "[-]"
	default:
		return "[*]"
	}
}

// Func is the structured log sink: hosts receive a severity and a message
// instead of the sequencer writing to a global logger directly.
type Func func(sev Severity, msg string)

// Default returns a sink that prints through the standard logger.
func Default() Func {
	return func(sev Severity, msg string) {
		log.Printf("%s %s", sev.Prefix(), msg)
	}
}

// Discard returns a sink that drops everything. Useful in tests.
func Discard() Func {
	return func(Severity, string) {}
}

// Infof formats and reports an informational message. A nil sink falls back
// to the standard logger.
func (f Func) Infof(format string, args ...any) { f.emit(Info, format, args...) }

// Warnf formats and reports a warning.
func (f Func) Warnf(format string, args ...any) { f.emit(Warn, format, args...) }

// Errorf formats and reports an error.
func (f Func) Errorf(format string, args ...any) { f.emit(Error, format, args...) }

func (f Func) emit(sev Severity, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if f == nil {
		log.Printf("%s %s", sev.Prefix(), msg)
		return
	}
	f(sev, msg)
}
