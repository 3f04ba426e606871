package room

import "sync"

// Locks serializes per-room operations. Membership mutations take the write
// lock while sends take the read lock, so a broadcast never targets a
// participant set that a concurrent add/remove is changing underneath it.
type Locks struct {
	mu    sync.Mutex
	locks map[string]*sync.RWMutex
}

func NewLocks() *Locks {
	return &Locks{locks: make(map[string]*sync.RWMutex)}
}

func (l *Locks) get(roomID string) *sync.RWMutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	if m, ok := l.locks[roomID]; ok {
		return m
	}
	m := &sync.RWMutex{}
	l.locks[roomID] = m
	return m
}

// Lock acquires the room's write lock.
func (l *Locks) Lock(roomID string) {
	l.get(roomID).Lock()
}

func (l *Locks) Unlock(roomID string) {
	l.get(roomID).Unlock()
}

// RLock acquires the room's read lock.
func (l *Locks) RLock(roomID string) {
	l.get(roomID).RLock()
}

func (l *Locks) RUnlock(roomID string) {
	l.get(roomID).RUnlock()
}
