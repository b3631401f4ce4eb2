// Package diagnostic provides the pluggable log sink referenced by spec
// section 7: a Log collects Info/Warning/Error entries produced while the
// algorithm runs, instead of writing to stdout directly, so the driver (or
// a caller embedding the core) can decide how and whether to display them.
//
// The type shape follows the teacher package's doctor.Log /
// doctor.LogEntry / doctor.Severity (doctor/log.go): a Severity enum and a
// flat slice of entries, with a String method for plain-text rendering.
package diagnostic

import (
	"bytes"
	"fmt"
)

// Severity indicates whether an Entry is informational, a warning, or an
// error. Unlike the teacher's refactoring.Log, there is no FATAL_ERROR
// level here: spec section 7 treats every error kind (StructuralError,
// UndefinedIdentifier, UnsupportedNode) as immediately fatal, surfaced as a
// Go error return rather than logged, so Error severity is reserved for
// non-aborting problems noticed along the way (e.g. a malformed
// communication rule that was already filtered out upstream).
type Severity int

const (
	Info Severity = iota
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Level is the verbosity threshold below which Entries are suppressed when
// printed (SPEC_FULL.md's supplemental "--verbose" feature). It does not
// affect what gets recorded in a Log -- callers may always inspect the
// full Log -- only what CLI output shows by default.
type Level int

const (
	Quiet Level = iota
	Normal
	Verbose
	Debug
)

// Entry is a single diagnostic message, optionally naming the PID or
// action involved.
type Entry struct {
	Severity Severity
	Message  string
	// MinLevel is the verbosity Level at which this entry becomes visible
	// in CLI output (Normal for anything worth always showing, Verbose for
	// the "allow set empty" / "renaming action to itself" / "multi-action
	// listed twice in allow set" class of warnings spec section 7 names).
	MinLevel Level
}

func (e Entry) String() string {
	switch e.Severity {
	case Warning:
		return "warning: " + e.Message
	case Error:
		return "error: " + e.Message
	default:
		return e.Message
	}
}

// Log accumulates diagnostic Entries in the order they were produced.
type Log struct {
	Entries []Entry
}

// Info appends an informational entry, shown at Normal level and above.
func (l *Log) Info(format string, args ...interface{}) {
	l.Entries = append(l.Entries, Entry{Severity: Info, Message: fmt.Sprintf(format, args...), MinLevel: Normal})
}

// Warn appends a Verbose-level warning (spec section 7: warnings are
// logged but never interrupt execution).
func (l *Log) Warn(format string, args ...interface{}) {
	l.Entries = append(l.Entries, Entry{Severity: Warning, Message: fmt.Sprintf(format, args...), MinLevel: Verbose})
}

// WarnAt appends a warning visible at the given minimum level, for
// warnings whose visibility differs from Warn's Verbose threshold.
func (l *Log) WarnAt(level Level, format string, args ...interface{}) {
	l.Entries = append(l.Entries, Entry{Severity: Warning, Message: fmt.Sprintf(format, args...), MinLevel: level})
}

// String renders every entry visible at or below level, one per line.
func (l *Log) String(level Level) string {
	var buf bytes.Buffer
	for _, e := range l.Entries {
		if e.MinLevel > level {
			continue
		}
		buf.WriteString(e.String())
		buf.WriteByte('\n')
	}
	return buf.String()
}

// IsEmpty reports whether no entries have been recorded.
func (l *Log) IsEmpty() bool {
	return len(l.Entries) == 0
}
