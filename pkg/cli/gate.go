package cli

import "sync/atomic"

// loginGate suppresses status polling while the console sits on the lock
// screen. The poll loop reads it from its own goroutine, hence the atomic.
type loginGate struct {
	locked atomic.Bool
}

func newLoginGate(locked bool) *loginGate {
	gate := &loginGate{}
	gate.locked.Store(locked)

	return gate
}

// Active reports whether polling should be skipped.
func (g *loginGate) Active() bool { return g.locked.Load() }

func (g *loginGate) Set(locked bool) { g.locked.Store(locked) }
