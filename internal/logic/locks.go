package logic

import "sync"

// projectLocks serializes schedule recalculations per project.
// Recalculations for different projects run in parallel; two for the
// same project must not interleave because both CPM passes need a
// stable snapshot of that project's task set.
type projectLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newProjectLocks() *projectLocks {
	return &projectLocks{locks: make(map[int64]*sync.Mutex)}
}

func (l *projectLocks) get(projectID int64) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[projectID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[projectID] = m
	}
	return m
}

// sharedLocks is the process-wide lock table; every logic instance
// bound to the same process shares it.
var sharedLocks = newProjectLocks()
