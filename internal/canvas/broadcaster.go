package canvas

import "sync"

// Update is the message pushed to every subscriber on each committed apply.
type Update struct {
	X     uint32
	Y     uint32
	Color uint32
}

// Sink receives pushed updates. Implementations must not block; a slow
// sink is skipped rather than retried or awaited.
type Sink interface {
	Send(u Update) bool
}

// SinkFunc adapts a plain function to Sink.
type SinkFunc func(u Update) bool

// Send implements Sink.
func (f SinkFunc) Send(u Update) bool { return f(u) }

// ClientBroadcaster fans committed pixel updates out to every subscribed
// client, best-effort. It holds no buffering of its own: each Sink is
// responsible for its own non-blocking delivery (e.g. a buffered channel
// drained by a per-connection writer goroutine).
type ClientBroadcaster struct {
	mu   sync.Mutex
	subs map[string]Sink
}

// NewClientBroadcaster returns an empty broadcaster.
func NewClientBroadcaster() *ClientBroadcaster {
	return &ClientBroadcaster{subs: make(map[string]Sink)}
}

// Subscribe registers sink under id, replacing any previous subscriber
// with the same id.
func (b *ClientBroadcaster) Subscribe(id string, sink Sink) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[id] = sink
}

// Unsubscribe removes id, if present.
func (b *ClientBroadcaster) Unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs, id)
}

// Count returns the number of active subscribers.
func (b *ClientBroadcaster) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Broadcast pushes u to every subscriber. A sink that returns false (full,
// closed, or otherwise unable to take the update right now) is skipped;
// Broadcast never retries and never blocks on a single slow subscriber.
func (b *ClientBroadcaster) Broadcast(u Update) {
	b.mu.Lock()
	sinks := make([]Sink, 0, len(b.subs))
	for _, s := range b.subs {
		sinks = append(sinks, s)
	}
	b.mu.Unlock()

	for _, s := range sinks {
		s.Send(u)
	}
}

// Hook adapts Broadcast to the canvas.Hook signature so it can be wired
// directly as a Canvas subscribe hook.
func (b *ClientBroadcaster) Hook() Hook {
	return func(x, y, color uint32) {
		b.Broadcast(Update{X: x, Y: y, Color: color})
	}
}
