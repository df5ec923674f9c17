// Package raftlog implements the 1-indexed replicated log that backs each
// canvasraft node: a contiguous, gap-free sequence of pixel mutations tagged
// with the term that created them.
package raftlog

import "fmt"

// Pixel is the closed payload every LogEntry carries. canvasraft has no
// generic command tag: the workload is pixel mutations and nothing else.
type Pixel struct {
	X     uint32
	Y     uint32
	Color uint32
}

// LogEntry is one slot in the ReplicatedLog.
type LogEntry struct {
	Term    uint64
	Index   uint64
	Payload Pixel
}

// ReplicatedLog is a 1-indexed sequence of LogEntry. Index 0 is a sentinel
// meaning "before any entry", with term 0; it is never returned by Get but
// backs TermAt(0) and the prev-log checks in AppendEntries.
type ReplicatedLog struct {
	entries []LogEntry // entries[0] is the index-0 sentinel
}

// New returns an empty log containing only the sentinel.
func New() *ReplicatedLog {
	return &ReplicatedLog{entries: []LogEntry{{Term: 0, Index: 0}}}
}

// Append adds entry to the end of the log. The caller must ensure
// entry.Index == LastIndex()+1; a mismatch indicates a programming error in
// the caller (the leader append path or the AppendEntries merge path), so it
// panics rather than silently accepting a gap.
func (l *ReplicatedLog) Append(entry LogEntry) {
	if want := l.LastIndex() + 1; entry.Index != want {
		panic(fmt.Sprintf("raftlog: append index %d, want %d", entry.Index, want))
	}
	l.entries = append(l.entries, entry)
}

// Get returns the entry at index i. i must satisfy 1 <= i <= LastIndex().
func (l *ReplicatedLog) Get(i uint64) LogEntry {
	pos := l.pos(i)
	if pos <= 0 || pos >= len(l.entries) {
		panic(fmt.Sprintf("raftlog: get index %d out of range (last=%d)", i, l.LastIndex()))
	}
	return l.entries[pos]
}

// SliceFrom returns a copy of every entry with index >= i, in order. Empty
// if i is past LastIndex().
func (l *ReplicatedLog) SliceFrom(i uint64) []LogEntry {
	pos := l.pos(i)
	if pos < 1 {
		pos = 1
	}
	if pos >= len(l.entries) {
		return nil
	}
	out := make([]LogEntry, len(l.entries)-pos)
	copy(out, l.entries[pos:])
	return out
}

// TruncateFrom deletes every entry with index >= i. No-op if i > LastIndex().
func (l *ReplicatedLog) TruncateFrom(i uint64) {
	pos := l.pos(i)
	if pos < 1 || pos >= len(l.entries) {
		return
	}
	l.entries = l.entries[:pos]
}

// TermAt returns the term of the entry at index i: 0 for the sentinel index
// 0, the entry's term for 1 <= i <= LastIndex(). Callers must not ask for an
// index beyond LastIndex(); doing so panics rather than returning a bogus
// term that could corrupt the Figure-8 commit check.
func (l *ReplicatedLog) TermAt(i uint64) uint64 {
	pos := l.pos(i)
	if pos < 0 || pos >= len(l.entries) {
		panic(fmt.Sprintf("raftlog: term_at index %d out of range (last=%d)", i, l.LastIndex()))
	}
	return l.entries[pos].Term
}

// LastIndex returns the index of the last entry, 0 if the log is empty.
func (l *ReplicatedLog) LastIndex() uint64 {
	return l.entries[len(l.entries)-1].Index
}

// LastTerm returns the term of the last entry, 0 if the log is empty.
func (l *ReplicatedLog) LastTerm() uint64 {
	return l.entries[len(l.entries)-1].Term
}

// pos converts a log index into a slice position.
func (l *ReplicatedLog) pos(i uint64) int {
	return int(i)
}
