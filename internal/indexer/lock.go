package indexer

import "sync/atomic"

// ReindexLock provides non-blocking lock semantics using atomic operations.
// Reindex operations are serialized through it so two concurrent requests
// never rebuild the chunk store at the same time.
type ReindexLock struct {
	state atomic.Int32 // 0 = unlocked, 1 = locked
}

// TryAcquire attempts to acquire the lock without blocking.
// Returns true if the lock was successfully acquired, false otherwise.
func (l *ReindexLock) TryAcquire() bool {
	return l.state.CompareAndSwap(0, 1)
}

// Release releases the lock.
// Must only be called by the goroutine that successfully acquired the lock.
func (l *ReindexLock) Release() {
	l.state.Store(0)
}
