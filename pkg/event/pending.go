package event

import (
	"context"
	"sync"
)

// pending is one handler call waiting in a breadth-first drain. It is
// built from a snapshot and never modified afterwards.
type pending struct {
	event   any
	sub     subscriber
	onError ErrorHandler
}

// pendingQueue is a FIFO of pending calls.
type pendingQueue struct {
	items []pending
	head  int
}

func (q *pendingQueue) push(p ...pending) {
	q.items = append(q.items, p...)
}

func (q *pendingQueue) pop() (pending, bool) {
	if q.head >= len(q.items) {
		return pending{}, false
	}
	p := q.items[q.head]
	q.items[q.head] = pending{}
	q.head++
	if q.head == len(q.items) {
		q.items = q.items[:0]
		q.head = 0
	}
	return p, true
}

func (q *pendingQueue) len() int { return len(q.items) - q.head }

func (q *pendingQueue) reset() {
	clear(q.items)
	q.items = q.items[:0]
	q.head = 0
}

// chain is the state of one breadth-first dispatch: the calls still to
// make and whether a drain loop is consuming them. The outermost Send
// creates it and stores it in the context handed to handlers, so a Send
// made through that context appends to the same queue instead of starting
// a drain of its own.
//
// Idle -> Draining when the outermost Send starts; Draining -> Idle when
// the queue runs dry. Once Idle, the chain never drains again and Sends
// through its context start a fresh chain.
type chain struct {
	mu       sync.Mutex
	queue    pendingQueue
	draining bool
	peak     int
}

// chainKey scopes a chain to one bus, so a handler of bus A sending on
// bus B through the same context starts B's own chain.
type chainKey struct{ bus *Bus }

func chainFrom(ctx context.Context, b *Bus) *chain {
	c, _ := ctx.Value(chainKey{bus: b}).(*chain)
	return c
}

func newChain(entries []pending) *chain {
	c := &chain{draining: true}
	c.queue.push(entries...)
	c.peak = c.queue.len()
	return c
}

// join appends entries if the chain is still draining.
func (c *chain) join(entries []pending) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.draining {
		return false
	}
	c.queue.push(entries...)
	if n := c.queue.len(); n > c.peak {
		c.peak = n
	}
	return true
}

// next hands out the oldest entry, or marks the chain Idle when none is left.
func (c *chain) next() (pending, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.queue.pop()
	if !ok {
		c.draining = false
	}
	return p, ok
}

// finish forces the chain Idle, dropping whatever is still queued, and
// returns the peak queue length. It only drops entries when the drain loop
// is unwinding from a panic raised by an ErrorHandler.
func (c *chain) finish() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.draining = false
	c.queue.reset()
	return c.peak
}
