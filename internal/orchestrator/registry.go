package orchestrator

import "sync"

// locks serializes concurrent turns against the same session id, grounded
// on the teacher's per-session mutex pattern in its SQL session service
// (spec.md §5: "at most one in-flight turn per session").
type locks struct {
	mu    sync.Mutex
	perID map[string]*sync.Mutex
}

func newLocks() *locks {
	return &locks{perID: make(map[string]*sync.Mutex)}
}

func (l *locks) lock(sessionID string) func() {
	l.mu.Lock()
	m, ok := l.perID[sessionID]
	if !ok {
		m = &sync.Mutex{}
		l.perID[sessionID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
