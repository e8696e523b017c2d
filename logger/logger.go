// This file is part of Spindle.
//
// Spindle is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Spindle is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Spindle.  If not, see <https://www.gnu.org/licenses/>.

// Package logger is the central logging facility for all Spindle packages.
// Entries are tagged with the name of the originating package and collected
// in memory; consecutive identical entries are collapsed into one entry with
// a repeat count. Simulations can produce the same anomaly (an unmapped
// write, say) thousands of times so the collapsing matters.
//
// An echo writer can be attached so that entries appear as they are logged,
// which is what the command-line program does in verbose mode.
package logger

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// Entry is a single line in the log.
type Entry struct {
	Timestamp time.Time
	Tag       string
	Detail    string
	Repeated  int
}

func (e Entry) String() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("%s: %s", e.Tag, e.Detail))
	if e.Repeated > 0 {
		s.WriteString(fmt.Sprintf(" (repeat x%d)", e.Repeated+1))
	}
	s.WriteString("\n")
	return s.String()
}

// maximum number of entries kept by the central log
const maxEntries = 256

// there is only one log for the entire application
var central struct {
	crit    sync.Mutex
	entries []Entry
	echo    io.Writer
}

// Log adds an entry to the central log.
func Log(tag string, detail string) {
	central.crit.Lock()
	defer central.crit.Unlock()

	// newlines would break the one-entry-per-line promise of Write()
	tag = strings.ReplaceAll(tag, "\n", " ")
	detail = strings.ReplaceAll(detail, "\n", " ")

	if len(central.entries) > 0 {
		last := &central.entries[len(central.entries)-1]
		if last.Tag == tag && last.Detail == detail {
			last.Repeated++
			last.Timestamp = time.Now()
			return
		}
	}

	e := Entry{Timestamp: time.Now(), Tag: tag, Detail: detail}
	central.entries = append(central.entries, e)
	if len(central.entries) > maxEntries {
		central.entries = central.entries[len(central.entries)-maxEntries:]
	}

	if central.echo != nil {
		io.WriteString(central.echo, e.String())
	}
}

// Logf adds a formatted entry to the central log.
func Logf(tag string, format string, args ...interface{}) {
	Log(tag, fmt.Sprintf(format, args...))
}

// Clear all entries from the central log.
func Clear() {
	central.crit.Lock()
	defer central.crit.Unlock()
	central.entries = central.entries[:0]
}

// Write the contents of the central log to the io.Writer.
func Write(output io.Writer) {
	central.crit.Lock()
	defer central.crit.Unlock()
	for _, e := range central.entries {
		io.WriteString(output, e.String())
	}
}

// Tail writes the last number of entries to the io.Writer.
func Tail(output io.Writer, number int) {
	central.crit.Lock()
	defer central.crit.Unlock()
	if number > len(central.entries) {
		number = len(central.entries)
	}
	for _, e := range central.entries[len(central.entries)-number:] {
		io.WriteString(output, e.String())
	}
}

// SetEcho attaches a writer that receives entries as they are logged. A nil
// writer turns echoing off.
func SetEcho(output io.Writer) {
	central.crit.Lock()
	defer central.crit.Unlock()
	central.echo = output
}

// BorrowLog gives the provided function access to the list of log entries.
// The entries must not be retained after the function returns.
func BorrowLog(f func([]Entry)) {
	central.crit.Lock()
	defer central.crit.Unlock()
	f(central.entries)
}
