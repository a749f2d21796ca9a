package services

import "sync"

// UserLocker serializes reward-affecting operations for one user.
type UserLocker interface {
	Lock(userID string) (unlock func(), err error)
}

type userLockEntry struct {
	mu   sync.Mutex
	refs int
}

type LocalUserLocker struct {
	mu      sync.Mutex
	entries map[string]*userLockEntry
}

func NewLocalUserLocker() *LocalUserLocker {
	return &LocalUserLocker{entries: make(map[string]*userLockEntry)}
}

func (locker *LocalUserLocker) Lock(userID string) (func(), error) {
	locker.mu.Lock()
	entry, ok := locker.entries[userID]
	if !ok {
		entry = &userLockEntry{}
		locker.entries[userID] = entry
	}
	entry.refs++
	locker.mu.Unlock()

	entry.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			entry.mu.Unlock()
			locker.mu.Lock()
			entry.refs--
			if entry.refs == 0 {
				delete(locker.entries, userID)
			}
			locker.mu.Unlock()
		})
	}, nil
}
