package exam

import "sync/atomic"

// SubmitGuard is a single-fire guard: the first Acquire wins, every
// later one loses, regardless of which goroutine (timer expiry or user
// action) gets there first. Release undoes an acquisition so a failed
// submission can be retried.
type SubmitGuard struct {
	fired atomic.Bool
}

// NewSubmitGuard returns an unfired guard.
func NewSubmitGuard() *SubmitGuard {
	return &SubmitGuard{}
}

// Acquire returns true exactly once until Release is called.
func (g *SubmitGuard) Acquire() bool {
	return g.fired.CompareAndSwap(false, true)
}

// Release re-arms the guard after a failed submission attempt.
func (g *SubmitGuard) Release() {
	g.fired.Store(false)
}

// Fired reports whether the guard is currently held.
func (g *SubmitGuard) Fired() bool {
	return g.fired.Load()
}
