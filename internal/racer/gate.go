package racer

import (
	"context"
	"sync"
	"sync/atomic"
)

// levelGate is a one-shot latch that opens once exactly n completions
// have been recorded. It is the counting-down rendering of a frontier
// level's parent-complete signal: every sibling at a level calls Done
// once it has produced its own link set, and children of that level
// block in Wait until the last sibling does.
type levelGate struct {
	remaining int64
	done      chan struct{}
	once      sync.Once
}

func newLevelGate(n int) *levelGate {
	g := &levelGate{remaining: int64(n), done: make(chan struct{})}
	if n <= 0 {
		g.fire()
	}
	return g
}

func (g *levelGate) fire() {
	g.once.Do(func() { close(g.done) })
}

// Done records that one sibling finished producing its link set,
// opening the gate once the last sibling has called it.
func (g *levelGate) Done() {
	if atomic.AddInt64(&g.remaining, -1) <= 0 {
		g.fire()
	}
}

// Wait blocks until the gate opens or ctx is done, whichever comes
// first.
func (g *levelGate) Wait(ctx context.Context) {
	select {
	case <-g.done:
	case <-ctx.Done():
	}
}
