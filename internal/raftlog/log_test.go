package raftlog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyLog(t *testing.T) {
	l := New()
	assert.Equal(t, uint64(0), l.LastIndex())
	assert.Equal(t, uint64(0), l.LastTerm())
	assert.Equal(t, uint64(0), l.TermAt(0))
	assert.Empty(t, l.SliceFrom(1))
}

func TestAppendAndGet(t *testing.T) {
	l := New()
	l.Append(LogEntry{Term: 1, Index: 1, Payload: Pixel{X: 1, Y: 2, Color: 3}})
	l.Append(LogEntry{Term: 1, Index: 2, Payload: Pixel{X: 4, Y: 5, Color: 6}})

	assert.Equal(t, uint64(2), l.LastIndex())
	assert.Equal(t, uint64(1), l.LastTerm())
	assert.Equal(t, uint64(1), l.TermAt(1))
	assert.Equal(t, uint64(1), l.TermAt(2))

	e := l.Get(2)
	assert.Equal(t, uint32(4), e.Payload.X)
}

func TestAppendWrongIndexPanics(t *testing.T) {
	l := New()
	assert.Panics(t, func() {
		l.Append(LogEntry{Term: 1, Index: 2})
	})
}

func TestSliceFrom(t *testing.T) {
	l := New()
	for i := uint64(1); i <= 3; i++ {
		l.Append(LogEntry{Term: 1, Index: i})
	}
	require.Len(t, l.SliceFrom(1), 3)
	require.Len(t, l.SliceFrom(2), 2)
	assert.Empty(t, l.SliceFrom(4))
}

func TestTruncateFrom(t *testing.T) {
	l := New()
	for i := uint64(1); i <= 3; i++ {
		l.Append(LogEntry{Term: 1, Index: i})
	}
	l.TruncateFrom(2)
	assert.Equal(t, uint64(1), l.LastIndex())

	// no-op past the end
	l.TruncateFrom(10)
	assert.Equal(t, uint64(1), l.LastIndex())

	l.Append(LogEntry{Term: 2, Index: 2})
	assert.Equal(t, uint64(2), l.TermAt(2))
}

func TestGetOutOfRangePanics(t *testing.T) {
	l := New()
	assert.Panics(t, func() { l.Get(1) })
}
