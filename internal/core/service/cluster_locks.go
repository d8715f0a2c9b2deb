package service

import (
	"sync"

	"github.com/google/uuid"
)

// ClusterLocks serializes work on a single cluster in this process. Entries
// are dropped once no goroutine holds or waits for them.
type ClusterLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*clusterLock
}

type clusterLock struct {
	mu   sync.Mutex
	refs int
}

func NewClusterLocks() *ClusterLocks {
	return &ClusterLocks{locks: make(map[uuid.UUID]*clusterLock)}
}

// Lock blocks until the cluster is free and returns the matching unlock.
func (l *ClusterLocks) Lock(id uuid.UUID) func() {
	l.mu.Lock()
	lock, ok := l.locks[id]
	if !ok {
		lock = &clusterLock{}
		l.locks[id] = lock
	}
	lock.refs++
	l.mu.Unlock()

	lock.mu.Lock()

	return func() {
		lock.mu.Unlock()

		l.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}

func (l *ClusterLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
