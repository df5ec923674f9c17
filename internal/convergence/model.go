package convergence

// Operation is one call/return pair recorded from a concurrent run: an
// input applied against the system under test, the output it produced, and
// the wall-clock interval the call spanned.
type Operation struct {
	Input  interface{}
	Call   int64
	Output interface{}
	Return int64
}

// Model describes the sequential system a concurrent history is checked
// against: how to split the history into independently-checkable
// partitions, the state the sequential system starts in, and the step
// relation that decides whether a given (input, output) pair is valid
// against a given state.
type Model struct {
	// Partition splits history into sub-histories that can be checked for
	// linearizability independently of one another.
	Partition func(history []Operation) [][]Operation

	// Init returns the sequential system's starting state.
	Init func() interface{}

	// Step reports whether output is a valid sequential result of applying
	// input to state, and if so the resulting state. Must not mutate state.
	Step func(state, input, output interface{}) (bool, interface{})

	// Equal decides state equality for the checker's memoization cache.
	Equal func(state1, state2 interface{}) bool
}

// NoPartition treats the whole history as a single partition.
func NoPartition(history []Operation) [][]Operation {
	return [][]Operation{history}
}

// ShallowEqual compares states with Go's built-in ==.
func ShallowEqual(state1, state2 interface{}) bool {
	return state1 == state2
}
