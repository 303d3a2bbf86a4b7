package core

import (
	"sync"

	"github.com/puzpuzpuz/xsync/v2"
)

// KeyedMutex hands out one mutex per key. Mutexes are never evicted;
// keys are game ids so the set stays small.
type KeyedMutex struct {
	locks *xsync.MapOf[string, *sync.Mutex]
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: xsync.NewMapOf[*sync.Mutex]()}
}

// Lock blocks until the mutex for key is held and returns its unlock func.
func (m *KeyedMutex) Lock(key string) func() {
	mu, _ := m.locks.LoadOrCompute(key, func() *sync.Mutex {
		return &sync.Mutex{}
	})

	mu.Lock()
	return mu.Unlock
}
