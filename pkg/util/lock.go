package util

import (
	"sync"

	"github.com/petermattis/goid"
)

// ReentryLock may be locked again by the goroutine that holds it.
// Object registries use it because a builder constructor can look up
// or register other object types while the registry is locked.
type ReentryLock struct {
	mu    sync.Mutex
	cond  *sync.Cond
	owner int64
	count uint64
}

func NewReentryLock() *ReentryLock {
	lock := &ReentryLock{}
	lock.cond = sync.NewCond(&lock.mu)
	return lock
}

func (lock *ReentryLock) Lock() {
	rid := goid.Get()
	lock.mu.Lock()
	defer lock.mu.Unlock()
	if lock.owner == rid && lock.count > 0 {
		lock.count++
		return
	}
	for lock.count != 0 {
		lock.cond.Wait()
	}
	lock.owner = rid
	lock.count = 1
}

func (lock *ReentryLock) Unlock() {
	rid := goid.Get()
	lock.mu.Lock()
	if lock.count == 0 || lock.owner != rid {
		lock.mu.Unlock()
		panic("unlock of unlocked mutex")
	}
	lock.count--
	release := lock.count == 0
	if release {
		lock.owner = 0
	}
	lock.mu.Unlock()
	if release {
		lock.cond.Signal()
	}
}

// Do runs fn with the lock held.
func (lock *ReentryLock) Do(fn func()) {
	lock.Lock()
	defer lock.Unlock()
	fn()
}

var _ sync.Locker = (*ReentryLock)(nil)
