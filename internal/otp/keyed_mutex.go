package otp

import (
	"hash/fnv"
	"sync"
)

// KeyedMutex provides striped per-key mutual exclusion. The recovery and
// reset flows lock the account email around their state transitions so a
// reset cannot race a fresh recovery request for the same account. Stripes
// keep unrelated emails from serializing behind each other.
type KeyedMutex struct {
	stripes [64]sync.Mutex
}

// Lock acquires the stripe for key and returns the unlock func.
// Callers must not hold the lock across slow network calls.
func (m *KeyedMutex) Lock(key string) func() {
	h := fnv.New32a()
	h.Write([]byte(key))
	mu := &m.stripes[h.Sum32()%uint32(len(m.stripes))]
	mu.Lock()
	return mu.Unlock
}
