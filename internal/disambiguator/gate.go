package disambiguator

import "sync/atomic"

// Gate suppresses key handling while a label prompt is open.
// It is set and cleared only by the loop goroutine but may be read anywhere.
type Gate struct {
	held atomic.Bool
}

// Hold closes the gate.
func (g *Gate) Hold() { g.held.Store(true) }

// Release opens the gate.
func (g *Gate) Release() { g.held.Store(false) }

// Held reports whether the gate is closed.
func (g *Gate) Held() bool { return g.held.Load() }
