package services

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// userLocks serializes mutating savings operations per user. Each user gets
// a weight-1 semaphore so a second add or remove cannot read a balance that
// an in-flight operation is about to change. Operations for different users
// do not contend.
type userLocks struct {
	mu   sync.Mutex
	sems map[string]*semaphore.Weighted
}

func newUserLocks() *userLocks {
	return &userLocks{sems: make(map[string]*semaphore.Weighted)}
}

func (l *userLocks) acquire(ctx context.Context, userID string) error {
	l.mu.Lock()
	sem, ok := l.sems[userID]
	if !ok {
		sem = semaphore.NewWeighted(1)
		l.sems[userID] = sem
	}
	l.mu.Unlock()

	return sem.Acquire(ctx, 1)
}

func (l *userLocks) release(userID string) {
	l.mu.Lock()
	sem := l.sems[userID]
	l.mu.Unlock()

	sem.Release(1)
}
