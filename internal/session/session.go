// Package session owns the state of one layerspeed run: the edit log and the
// handler that applies speed-override edits and records them.
package session

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"

	"layerspeed/internal/observ"
)

// Entry is one successful edit. Layer and Speed are decimal text.
type Entry struct {
	File  string
	Layer string
	Speed string
}

// String renders the entry as a quoted triple, e.g. ('part.gcode', '2', '80').
func (e Entry) String() string {
	return fmt.Sprintf("(%s, %s, %s)", quote(e.File), quote(e.Layer), quote(e.Speed))
}

// quote wraps s in single quotes, or in double quotes when s holds a single
// quote but no double quote. Backslashes are doubled.
func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	if strings.Contains(s, "'") {
		if !strings.Contains(s, `"`) {
			return `"` + s + `"`
		}
		s = strings.ReplaceAll(s, "'", `\'`)
	}
	return "'" + s + "'"
}

// Options configures a Session.
type Options struct {
	// Timer, when set, receives read/splice/write phases for each Apply.
	Timer *observ.Timer
}

// Session holds the append-only edit log for the lifetime of a command or
// interactive run. It is not safe for concurrent use; callers drive it from a
// single goroutine.
type Session struct {
	entries []Entry
	timer   *observ.Timer
}

// New creates an empty session.
func New(opts Options) *Session {
	return &Session{timer: opts.Timer}
}

// Record appends an entry for fileName. Only the base name is kept.
func (s *Session) Record(fileName, layer, speed string) Entry {
	e := Entry{
		File:  norm.NFC.String(filepath.Base(fileName)),
		Layer: layer,
		Speed: speed,
	}
	s.entries = append(s.entries, e)
	return e
}

// Entries returns a copy of the log in insertion order.
func (s *Session) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len reports the number of recorded edits.
func (s *Session) Len() int { return len(s.entries) }

// Render returns one display line per entry, in insertion order.
func (s *Session) Render() []string {
	lines := make([]string, len(s.entries))
	for i, e := range s.entries {
		lines[i] = e.String()
	}
	return lines
}
