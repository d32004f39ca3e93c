// Copyright (C) 2024 Christian Rößner
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

package opsfx

import (
	"sync"
	"sync/atomic"
)

// Gate serializes operational actions and carries the readiness flag of the
// process. The HTTP server flips readiness once it listens; the readiness
// endpoint reports 503 until then and again during shutdown.
type Gate struct {
	mu    sync.Mutex
	ready atomic.Bool
}

// NewGate constructs a new Gate.
func NewGate() *Gate {
	return &Gate{}
}

// WithLock executes fn while holding the gate lock so operational actions
// do not overlap.
func (g *Gate) WithLock(fn func() error) error {
	g.mu.Lock()

	defer g.mu.Unlock()

	return fn()
}

// SetReady flips the readiness flag.
func (g *Gate) SetReady(ready bool) {
	g.ready.Store(ready)
}

// IsReady reports whether the process accepts work.
func (g *Gate) IsReady() bool {
	return g.ready.Load()
}
