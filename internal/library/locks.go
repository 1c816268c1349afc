package library

import (
	"sync"

	"github.com/oracleapp/oracle/internal/model"
)

// Locks is a keyed lock table providing per-title mutual exclusion: a
// download, sync or remove for one AppID must finish before another
// begins for the same AppID. Operations on distinct AppIDs proceed
// concurrently.
type Locks struct {
	mu    sync.Mutex
	locks map[model.TitleID]*titleLock
}

type titleLock struct {
	mu   sync.Mutex
	refs int
}

// NewLocks creates an empty lock table.
func NewLocks() *Locks {
	return &Locks{locks: make(map[model.TitleID]*titleLock)}
}

// Lock blocks until the title's lock is held.
func (l *Locks) Lock(id model.TitleID) {
	l.acquire(id).mu.Lock()
}

// TryLock acquires the title's lock without blocking. It returns false
// when an operation for the same title is already in flight.
func (l *Locks) TryLock(id model.TitleID) bool {
	entry := l.acquire(id)
	if entry.mu.TryLock() {
		return true
	}
	l.release(id)
	return false
}

// Unlock releases the title's lock. Must be called on every exit path
// of an operation that acquired it.
func (l *Locks) Unlock(id model.TitleID) {
	l.mu.Lock()
	entry := l.locks[id]
	l.mu.Unlock()
	if entry == nil {
		return
	}
	entry.mu.Unlock()
	l.release(id)
}

func (l *Locks) acquire(id model.TitleID) *titleLock {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry, ok := l.locks[id]
	if !ok {
		entry = &titleLock{}
		l.locks[id] = entry
	}
	entry.refs++
	return entry
}

// release drops one reference and frees the slot when unused, so the
// table does not grow with every title ever touched.
func (l *Locks) release(id model.TitleID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry, ok := l.locks[id]
	if !ok {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(l.locks, id)
	}
}
