package convergence

import (
	"sort"
	"sync/atomic"
	"time"
)

type entryKind bool

const (
	callEntry   entryKind = false
	returnEntry entryKind = true
)

// entry is one call or return event, flattened out of an Operation pair and
// ordered by wall-clock time for the backtracking search below.
type entry struct {
	kind  entryKind
	value interface{}
	id    uint
	time  int64
}

type byTime []entry

func (a byTime) Len() int           { return len(a) }
func (a byTime) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a byTime) Less(i, j int) bool { return a[i].time < a[j].time }

func makeEntries(history []Operation) []entry {
	entries := make([]entry, 0, len(history)*2)
	for id, op := range history {
		entries = append(entries,
			entry{callEntry, op.Input, uint(id), op.Call},
			entry{returnEntry, op.Output, uint(id), op.Return},
		)
	}
	sort.Sort(byTime(entries))
	return entries
}

// node is a doubly linked list element over the time-ordered entries. Call
// and return nodes for the same operation point at each other via match so
// lift/unlift can remove or restore both ends of an operation in one step.
type node struct {
	value interface{}
	match *node
	id    uint
	next  *node
	prev  *node
}

func insertBefore(n, mark *node) *node {
	if mark == nil {
		return n
	}
	before := mark.prev
	mark.prev = n
	n.next = mark
	if before != nil {
		n.prev = before
		before.next = n
	}
	return n
}

func length(n *node) uint {
	l := uint(0)
	for ; n != nil; n = n.next {
		l++
	}
	return l
}

func makeLinkedEntries(entries []entry) *node {
	var root *node
	match := make(map[uint]*node)
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		n := &node{value: e.value, id: e.id}
		if e.kind == returnEntry {
			match[e.id] = n
		} else {
			n.match = match[e.id]
		}
		root = insertBefore(n, root)
	}
	return root
}

// cacheEntry records one (linearized-set, resulting-state) pair the search
// has already explored, so checkSingle can skip re-deriving it.
type cacheEntry struct {
	linearized bitset
	state      interface{}
}

func cacheContains(model Model, cache map[uint64][]cacheEntry, e cacheEntry) bool {
	for _, seen := range cache[e.linearized.hash()] {
		if e.linearized.equals(seen.linearized) && model.Equal(e.state, seen.state) {
			return true
		}
	}
	return false
}

// callsEntry is one frame of the search's undo stack: the call node it
// tentatively linearized, and the model state immediately before that.
type callsEntry struct {
	entry *node
	state interface{}
}

// lift removes entry and its matching return from the list, as if that
// operation had already been linearized.
func lift(e *node) {
	e.prev.next = e.next
	e.next.prev = e.prev
	m := e.match
	m.prev.next = m.next
	if m.next != nil {
		m.next.prev = m.prev
	}
}

// unlift is lift's inverse, used when the search backtracks.
func unlift(e *node) {
	m := e.match
	m.prev.next = m
	if m.next != nil {
		m.next.prev = m
	}
	e.prev.next = e
	e.next.prev = e
}

// checkSingle runs the Wing & Gong style linearizability search over one
// partition: repeatedly try to linearize the earliest pending call against
// the model, backtracking via the calls stack when every remaining option
// has already been explored from the current state.
func checkSingle(model Model, subhistory *node, kill *int32) bool {
	n := length(subhistory) / 2
	linearized := newBitset(n)
	cache := make(map[uint64][]cacheEntry)
	var calls []callsEntry

	state := model.Init()
	head := insertBefore(&node{id: ^uint(0)}, subhistory)
	e := subhistory
	for head.next != nil {
		if atomic.LoadInt32(kill) != 0 {
			return false
		}
		if e.match == nil {
			if len(calls) == 0 {
				return false
			}
			top := calls[len(calls)-1]
			calls = calls[:len(calls)-1]
			e = top.entry
			state = top.state
			linearized.clear(e.id)
			unlift(e)
			e = e.next
			continue
		}

		ok, newState := model.Step(state, e.value, e.match.value)
		if !ok {
			e = e.next
			continue
		}
		candidate := cacheEntry{linearized.clone().set(e.id), newState}
		if cacheContains(model, cache, candidate) {
			e = e.next
			continue
		}
		hash := candidate.linearized.hash()
		cache[hash] = append(cache[hash], candidate)
		calls = append(calls, callsEntry{e, state})
		state = newState
		linearized.set(e.id)
		lift(e)
		e = head.next
	}
	return true
}

func fillDefault(model Model) Model {
	if model.Partition == nil {
		model.Partition = NoPartition
	}
	if model.Equal == nil {
		model.Equal = ShallowEqual
	}
	return model
}

// CheckOperations reports whether history linearizes against model, with no
// search timeout.
func CheckOperations(model Model, history []Operation) bool {
	return CheckOperationsTimeout(model, history, 0)
}

// CheckOperationsTimeout is CheckOperations with a wall-clock budget for the
// search. A timeout returns true even though a partition still being searched
// may turn out not to be linearizable — treat a timeout as inconclusive, not
// as a proven pass.
func CheckOperationsTimeout(model Model, history []Operation, timeout time.Duration) bool {
	model = fillDefault(model)
	partitions := model.Partition(history)

	results := make(chan bool, len(partitions))
	var kill int32
	for _, sub := range partitions {
		l := makeLinkedEntries(makeEntries(sub))
		go func() {
			results <- checkSingle(model, l, &kill)
		}()
	}

	var deadline <-chan time.Time
	if timeout > 0 {
		deadline = time.After(timeout)
	}

	ok := true
	for done := 0; done < len(partitions); done++ {
		select {
		case result := <-results:
			if !result {
				atomic.StoreInt32(&kill, 1)
				return false
			}
		case <-deadline:
			return ok // inconclusive: report success so far, caller decides
		}
	}
	return ok
}
