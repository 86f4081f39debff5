// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package voice

import (
	"time"
)

// =============================================================================
// COMMAND LOG
// =============================================================================

// MaxLogEntries bounds the command log; the oldest entry is evicted first.
const MaxLogEntries = 50

// LogEntry records one executed transcript. Entries are immutable once
// appended and live only for the session.
type LogEntry struct {
	ID         int64     `json:"id"`
	Transcript string    `json:"transcript"`
	Result     string    `json:"result"`
	OK         bool      `json:"ok"`
	At         time.Time `json:"at"`
}

// commandLog is a bounded FIFO ring over the last MaxLogEntries executions.
// No locking: the engine is single-threaded by contract.
type commandLog struct {
	entries []LogEntry
	nextID  int64
}

// append records an execution, evicting the oldest entry beyond the cap.
func (l *commandLog) append(transcript, result string, ok bool) LogEntry {
	l.nextID++
	e := LogEntry{
		ID:         l.nextID,
		Transcript: transcript,
		Result:     result,
		OK:         ok,
		At:         time.Now(),
	}
	l.entries = append(l.entries, e)
	if len(l.entries) > MaxLogEntries {
		l.entries = l.entries[len(l.entries)-MaxLogEntries:]
	}
	return e
}

// all returns the retained entries, oldest first (newest last).
func (l *commandLog) all() []LogEntry {
	out := make([]LogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// last returns the most recent entry and whether one exists.
func (l *commandLog) last() (LogEntry, bool) {
	if len(l.entries) == 0 {
		return LogEntry{}, false
	}
	return l.entries[len(l.entries)-1], true
}
