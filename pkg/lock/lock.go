// Package lock implements the engine's concurrency guard (spec §5, C10):
// one coarse exclusive lock per Database and one per Table. Read and
// write both acquire the same exclusive section — there is no reader/
// writer distinction, and no lock upgrade path.
package lock

import "sync"

// Guard is a single coarse exclusive lock. It exists as its own type
// (rather than callers embedding sync.Mutex directly) so the acquisition
// order invariant — Database first, then Table, with the Database lock
// released as soon as the Table handle is in hand — has one obvious
// place to document and a narrow API that cannot accidentally expose a
// shared-read path.
type Guard struct {
	mu sync.Mutex
}

// Lock acquires the exclusive section. Both readers and writers call
// this; the engine never takes a shared/read lock (spec §5).
func (g *Guard) Lock() { g.mu.Lock() }

// Unlock releases the exclusive section.
func (g *Guard) Unlock() { g.mu.Unlock() }

// TryLock attempts to acquire without blocking, used by callers that
// want to detect contention rather than suspend (no caller in this
// engine currently does; exposed for parity with the source's lock
// surface and for future cancellation-aware callers).
func (g *Guard) TryLock() bool { return g.mu.TryLock() }
